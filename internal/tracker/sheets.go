package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsConfig identifies a tracker that lives in a Google Sheets
// spreadsheet instead of a local workbook.
type SheetsConfig struct {
	SpreadsheetID string
	// ReadRange is an A1-notation range. Empty reads the first sheet.
	ReadRange string
	// CredentialsFile points at a service account JSON key. Empty uses
	// application default credentials.
	CredentialsFile string
}

// LoadSheet reads a tracker from Google Sheets and returns the
// normalized table. Column handling is identical to Load: the header
// row is located dynamically and absent columns are synthesized with
// the given seed.
func LoadSheet(ctx context.Context, cfg SheetsConfig, seed int64) (*Table, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet ID is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}

	readRange := cfg.ReadRange
	if readRange == "" {
		readRange = "A:Z"
	}
	resp, err := svc.Spreadsheets.Values.Get(cfg.SpreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s!%s: %w", cfg.SpreadsheetID, readRange, err)
	}

	records := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		records = append(records, cells)
	}

	slog.Info("tracker loaded from Google Sheets",
		slog.String("spreadsheet_id", cfg.SpreadsheetID),
		slog.String("range", readRange),
		slog.Int("rows", len(records)))

	table := fromRecords(records, seed)
	table.Source = "sheets:" + cfg.SpreadsheetID
	return table, nil
}
