// Package render draws chart specifications to writers. PNG output is
// produced with go-chart and gonum/plot for the batch exporter; HTML
// output is produced with go-echarts for interactive dashboard pages.
// Renderers fail on empty specifications so the exporter can report a
// chart that would come out blank.
package render
