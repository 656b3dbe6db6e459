// Package services holds the application services behind the HTTP
// transport: the dashboard service owning the tracker table and the
// health service answering liveness, readiness and version queries.
package services
