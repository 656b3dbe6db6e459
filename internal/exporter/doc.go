// Package exporter batch-renders the registered chart set to PNG and
// HTML files, plus a CSV insights report. Charts render concurrently
// with per-chart failure isolation: one bad chart never aborts the run.
package exporter
