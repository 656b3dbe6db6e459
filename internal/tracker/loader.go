package tracker

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// LoadOptions controls loading and normalization behavior.
type LoadOptions struct {
	// Sheet is the worksheet to read. Empty means auto-detect: the first
	// sheet whose header row contains known tracker columns.
	Sheet string

	// Seed drives synthesis of missing columns so normalization is
	// reproducible.
	Seed int64
}

// Load reads a tracker workbook and returns the normalized table. The
// only fatal condition is an unreadable file; missing columns are
// compensated by synthesized values and missing cells are coerced.
func Load(path string, opts LoadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open tracker file %s: %w", path, err)
	}
	defer f.Close()

	rows, sheet, err := findTrackerSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	slog.Info("tracker sheet located",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)))

	table := fromRecords(rows, opts.Seed)
	table.Source = path
	return table, nil
}

// findTrackerSheet picks the worksheet holding tracker data and returns
// its cell rows.
func findTrackerSheet(f *excelize.File, preferred string) ([][]string, string, error) {
	if preferred != "" {
		rows, err := f.GetRows(preferred)
		if err != nil {
			return nil, "", fmt.Errorf("read sheet %q: %w", preferred, err)
		}
		return rows, preferred, nil
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if headerRowIndex(rows) >= 0 {
			return rows, name, nil
		}
	}

	// No recognizable header anywhere. Fall back to the first sheet and
	// let normalization synthesize the whole schema.
	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(names[0])
	if err != nil {
		return nil, "", fmt.Errorf("read sheet %q: %w", names[0], err)
	}
	return rows, names[0], nil
}

// headerRowIndex scans the first rows for one that holds tracker column
// names. Returns -1 when none matches.
func headerRowIndex(rows [][]string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		if countKnownHeaders(rows[i]) >= 2 {
			return i
		}
	}
	return -1
}

func countKnownHeaders(row []string) int {
	n := 0
	for _, cell := range row {
		if _, ok := matchColumn(cell); ok {
			n++
		}
	}
	return n
}

// matchColumn maps a header cell to an expected column. Matching is
// case-insensitive and tolerant of parenthesized unit suffixes.
func matchColumn(header string) (Column, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return "", false
	}
	for _, col := range ExpectedColumns {
		if h == strings.ToLower(string(col)) {
			return col, true
		}
	}
	switch {
	case strings.Contains(h, "implementation"):
		return ColImplementation, true
	case strings.Contains(h, "project"):
		return ColProjectName, true
	case strings.Contains(h, "wricef"):
		return ColWRICEFType, true
	case strings.Contains(h, "complexity"):
		return ColComplexity, true
	case strings.Contains(h, "priority"):
		return ColPriority, true
	case strings.Contains(h, "stage"):
		return ColStage, true
	case strings.Contains(h, "process area"):
		return ColProcessArea, true
	case strings.Contains(h, "abap") && strings.Contains(h, "forecast"):
		return ColABAPForecast, true
	case strings.Contains(h, "abap") && strings.Contains(h, "actual"):
		return ColABAPActual, true
	case strings.Contains(h, "pi") && strings.Contains(h, "forecast"):
		return ColPIForecast, true
	case strings.Contains(h, "pi") && strings.Contains(h, "actual"):
		return ColPIActual, true
	case strings.Contains(h, "planned") && strings.Contains(h, "date"):
		return ColPlannedDelivery, true
	case strings.Contains(h, "actual") && strings.Contains(h, "date"):
		return ColActualDelivery, true
	case strings.Contains(h, "functional owner"):
		return ColFunctionalOwner, true
	case strings.Contains(h, "dev lead"):
		return ColDevLead, true
	}
	return "", false
}

// fromRecords builds a normalized table from raw cell rows. Columns not
// present in the header are synthesized for every row.
func fromRecords(records [][]string, seed int64) *Table {
	headerIdx := headerRowIndex(records)

	columnMap := make(map[Column]int)
	dataStart := 0
	if headerIdx >= 0 {
		for j, cell := range records[headerIdx] {
			if col, ok := matchColumn(cell); ok {
				if _, dup := columnMap[col]; !dup {
					columnMap[col] = j
				}
			}
		}
		dataStart = headerIdx + 1
	}

	var raw []Row
	for i := dataStart; i < len(records); i++ {
		row := records[i]
		if isEmptyRecord(row) {
			continue
		}
		raw = append(raw, parseRecord(row, columnMap))
	}

	table := &Table{
		Rows:     raw,
		LoadedAt: time.Now(),
	}
	normalize(table, columnMap, seed)
	return table
}

func isEmptyRecord(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseRecord extracts one Row using the dynamic column mapping. Absent
// or malformed cells are left at their zero values for normalization to
// fill.
func parseRecord(row []string, columnMap map[Column]int) Row {
	getString := func(col Column) string {
		if idx, ok := columnMap[col]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	getFloat := func(col Column) float64 {
		s := strings.ReplaceAll(getString(col), ",", "")
		if s == "" {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return v
	}
	getDate := func(col Column) time.Time {
		return parseDate(getString(col))
	}

	return Row{
		Implementation:  getString(ColImplementation),
		ProjectName:     getString(ColProjectName),
		WRICEFType:      getString(ColWRICEFType),
		Complexity:      getString(ColComplexity),
		Priority:        getString(ColPriority),
		Stage:           getString(ColStage),
		ProcessArea:     getString(ColProcessArea),
		ABAPForecast:    getFloat(ColABAPForecast),
		ABAPActual:      getFloat(ColABAPActual),
		PIForecast:      getFloat(ColPIForecast),
		PIActual:        getFloat(ColPIActual),
		PlannedDelivery: getDate(ColPlannedDelivery),
		ActualDelivery:  getDate(ColActualDelivery),
		FunctionalOwner: getString(ColFunctionalOwner),
		DevLead:         getString(ColDevLead),
	}
}

// dateLayouts are the formats seen in exported trackers. Excelize hands
// back formatted cell text, so serials arrive pre-rendered.
var dateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2-Jan-06",
	time.RFC3339,
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
