package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"wricefviz/internal/analytics"
	"wricefviz/internal/config"
	"wricefviz/internal/exporter"
	"wricefviz/internal/infrastructure"
	"wricefviz/internal/tracker"
)

var (
	version   = "dev"
	buildTime = ""
)

func main() {
	in := flag.String("in", "", "tracker spreadsheet path (defaults to the configured data file)")
	out := flag.String("out", "", "output directory for charts (defaults to the configured export directory)")
	sheet := flag.String("sheet", "", "worksheet name, empty for auto-detect")
	sample := flag.Bool("sample", false, "export from generated sample data instead of a spreadsheet")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("wricef-export %s %s\n", version, buildTime)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *in != "" {
		cfg.Data.TrackerFile = *in
	}
	if *out != "" {
		cfg.Export.OutputDir = *out
	}
	if *sheet != "" {
		cfg.Data.Sheet = *sheet
	}

	logger := infrastructure.NewLogger(cfg.Logging)

	table, err := loadTable(cfg, *sample)
	if err != nil {
		logger.Error("Failed to load tracker data", "error", err)
		os.Exit(1)
	}
	logger.Info("tracker data loaded",
		slog.String("source", table.Source),
		slog.Int("rows", table.Len()))

	exp := exporter.New(cfg.Export.OutputDir, logger)

	results, err := exp.Export(context.Background(), table)
	if err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	csvPath, err := exp.WriteInsightsCSV(analytics.Summarize(table))
	if err != nil {
		logger.Error("Failed to write insights report", "error", err)
		os.Exit(1)
	}

	logger.Info("export complete",
		slog.String("output_dir", cfg.Export.OutputDir),
		slog.String("insights", csvPath),
		slog.Int("charts", len(results)),
		slog.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}

func loadTable(cfg *config.Config, sample bool) (*tracker.Table, error) {
	if sample {
		return tracker.Sample(cfg.Data.SampleSize, cfg.Data.Seed), nil
	}
	if cfg.UseSheets() {
		return tracker.LoadSheet(context.Background(), tracker.SheetsConfig{
			SpreadsheetID:   cfg.Data.Sheets.SpreadsheetID,
			ReadRange:       cfg.Data.Sheets.ReadRange,
			CredentialsFile: cfg.Data.Sheets.CredentialsFile,
		}, cfg.Data.Seed)
	}
	if _, err := os.Stat(cfg.Data.TrackerFile); os.IsNotExist(err) {
		slog.Warn("tracker file not found, using sample data",
			slog.String("path", cfg.Data.TrackerFile))
		return tracker.Sample(cfg.Data.SampleSize, cfg.Data.Seed), nil
	}
	return tracker.Load(cfg.Data.TrackerFile, tracker.LoadOptions{
		Sheet: cfg.Data.Sheet,
		Seed:  cfg.Data.Seed,
	})
}
