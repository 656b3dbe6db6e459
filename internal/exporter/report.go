package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"wricefviz/internal/analytics"
)

// WriteInsightsCSV writes the insights summary as a two-column metric
// report. The UTF-8 BOM keeps Excel from mangling the file.
func (e *Exporter) WriteInsightsCSV(ins analytics.Insights) (string, error) {
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(e.outDir, "insights.csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	records := [][]string{
		{"Metric", "Value"},
		{"Total Work Items", strconv.Itoa(ins.TotalItems)},
		{"Most Common WRICEF Type", shareCell(ins.TopWRICEFType)},
		{"Largest Implementation", shareCell(ins.TopImplementation)},
		{"Most Common Complexity", shareCell(ins.TopComplexity)},
		{"Most Common Priority", shareCell(ins.TopPriority)},
		{"Most Common Stage", shareCell(ins.TopStage)},
		{"Average ABAP Forecast (hrs)", strconv.FormatFloat(ins.AvgABAPForecast, 'f', 1, 64)},
		{"Total ABAP Forecast (hrs)", strconv.FormatFloat(ins.TotalABAPForecast, 'f', 1, 64)},
		{"Effort Efficiency (actual/forecast)", strconv.FormatFloat(ins.EffortEfficiency, 'f', 2, 64)},
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return "", fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}

func shareCell(s analytics.CategoryShare) string {
	if s.Value == "" {
		return "n/a"
	}
	return fmt.Sprintf("%s (%d, %.1f%%)", s.Value, s.Count, s.Share*100)
}
