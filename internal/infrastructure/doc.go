// Package infrastructure provides cross-cutting runtime support:
// structured logging with trace ID propagation and OpenTelemetry
// tracing/metrics with a Prometheus exporter.
package infrastructure
