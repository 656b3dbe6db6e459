// Package app assembles the dashboard server: it loads configuration,
// initializes logging and telemetry, starts the websocket hub, wires
// the data services into the chi router and runs the HTTP server with
// graceful shutdown.
package app
