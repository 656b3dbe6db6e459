// Package errors defines the structured API error model rendered by
// chi/render. Handlers return *APIError values; the transport layer
// renders them as JSON with the embedded status code.
package errors
