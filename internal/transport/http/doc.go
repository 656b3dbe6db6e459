// Package http contains the chi handlers for the dashboard server: the
// JSON data API under /api, chart rendering under /charts, the health
// endpoints and the embedded dashboard page.
package http
