// Package analytics turns a normalized tracker table into chart
// specifications and descriptive insights. Every builder is a pure
// function of its input table: no I/O, no shared state, deterministic
// ordering of categories and buckets. Rendering is left to the render
// package so the same specifications back both the PNG exporter and
// the dashboard API.
package analytics
