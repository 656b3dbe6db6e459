package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"wricefviz/internal/analytics"
	"wricefviz/internal/config"
	"wricefviz/internal/exporter"
	"wricefviz/internal/infrastructure"
	"wricefviz/internal/tracker"
)

// ReloadNotifier receives a notification after every successful data
// reload. The websocket hub implements it.
type ReloadNotifier interface {
	NotifyDataReloaded(rows int, source string)
}

// DashboardService owns the loaded tracker table and answers every
// dashboard query against it. Reload swaps the table atomically, so
// in-flight requests keep working on the table they started with.
type DashboardService struct {
	cfg      *config.Config
	logger   *slog.Logger
	notifier ReloadNotifier
	metrics  *infrastructure.DashboardMetrics

	mu       sync.RWMutex
	table    *tracker.Table
	loadedAt time.Time
}

// NewDashboardService creates the service. notifier and metrics may be
// nil.
func NewDashboardService(cfg *config.Config, logger *slog.Logger, notifier ReloadNotifier, metrics *infrastructure.DashboardMetrics) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "dashboard_service")),
		notifier: notifier,
		metrics:  metrics,
	}
}

// Load reads the tracker data per configuration: Google Sheets when a
// spreadsheet ID is set, otherwise the local file, falling back to
// seeded sample data when the file does not exist.
func (s *DashboardService) Load(ctx context.Context) error {
	table, err := s.loadTable(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.table = table
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "tracker data loaded",
		slog.String("source", table.Source),
		slog.Int("rows", table.Len()),
		slog.Int("synthesized_columns", len(table.Synthesized)))
	return nil
}

func (s *DashboardService) loadTable(ctx context.Context) (*tracker.Table, error) {
	data := s.cfg.Data

	if s.cfg.UseSheets() {
		table, err := tracker.LoadSheet(ctx, tracker.SheetsConfig{
			SpreadsheetID:   data.Sheets.SpreadsheetID,
			ReadRange:       data.Sheets.ReadRange,
			CredentialsFile: data.Sheets.CredentialsFile,
		}, data.Seed)
		if err != nil {
			return nil, fmt.Errorf("load tracker from sheets: %w", err)
		}
		return table, nil
	}

	if _, err := os.Stat(data.TrackerFile); os.IsNotExist(err) {
		s.logger.Warn("tracker file missing, using sample data",
			slog.String("path", data.TrackerFile),
			slog.Int("sample_size", data.SampleSize),
			slog.Int64("seed", data.Seed))
		return tracker.Sample(data.SampleSize, data.Seed), nil
	}

	table, err := tracker.Load(data.TrackerFile, tracker.LoadOptions{
		Sheet: data.Sheet,
		Seed:  data.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("load tracker file: %w", err)
	}
	return table, nil
}

// Reload re-reads the data source and notifies connected clients.
func (s *DashboardService) Reload(ctx context.Context) (*tracker.Table, error) {
	err := s.Load(ctx)
	table := s.Table()

	rows := 0
	if table != nil {
		rows = table.Len()
	}
	s.metrics.RecordReload(ctx, rows, err)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyDataReloaded(table.Len(), table.Source)
	}
	return table, nil
}

// Table returns the currently loaded table, nil before the first Load.
func (s *DashboardService) Table() *tracker.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// LoadedAt returns when the current table was loaded.
func (s *DashboardService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Filtered returns the current table narrowed by the filter.
func (s *DashboardService) Filtered(f tracker.Filter) (*tracker.Table, error) {
	table := s.Table()
	if table == nil {
		return nil, fmt.Errorf("tracker data not loaded")
	}
	return table.Filter(f), nil
}

// Summary computes the insights panel over the filtered table.
func (s *DashboardService) Summary(f tracker.Filter) (analytics.Insights, error) {
	table, err := s.Filtered(f)
	if err != nil {
		return analytics.Insights{}, err
	}
	return analytics.Summarize(table), nil
}

// RenderChart renders one registered chart over the filtered table.
func (s *DashboardService) RenderChart(ctx context.Context, name string, f tracker.Filter, w io.Writer) (exporter.Format, error) {
	chart, ok := exporter.ChartByName(name)
	if !ok {
		return "", fmt.Errorf("unknown chart %q", name)
	}

	table, err := s.Filtered(f)
	if err != nil {
		return chart.Format, err
	}

	err = chart.Render(table, w)
	s.metrics.RecordChartRender(ctx, name, err)
	if err != nil {
		return chart.Format, fmt.Errorf("render chart %q: %w", name, err)
	}
	return chart.Format, nil
}

// Facets lists the selectable filter values of the loaded table.
type Facets struct {
	Implementations []string   `json:"implementations"`
	WRICEFTypes     []string   `json:"wricef_types"`
	Complexities    []string   `json:"complexities"`
	Priorities      []string   `json:"priorities"`
	Stages          []string   `json:"stages"`
	MinDate         *time.Time `json:"min_date,omitempty"`
	MaxDate         *time.Time `json:"max_date,omitempty"`
}

// Facets returns the distinct values per filterable dimension plus the
// planned delivery date bounds, always over the unfiltered table.
func (s *DashboardService) Facets() (Facets, error) {
	table := s.Table()
	if table == nil {
		return Facets{}, fmt.Errorf("tracker data not loaded")
	}

	f := Facets{
		Implementations: table.Distinct(tracker.ColImplementation),
		WRICEFTypes:     table.Distinct(tracker.ColWRICEFType),
		Complexities:    table.Distinct(tracker.ColComplexity),
		Priorities:      table.Distinct(tracker.ColPriority),
		Stages:          table.Distinct(tracker.ColStage),
	}
	if min, max, ok := table.DateBounds(); ok {
		f.MinDate, f.MaxDate = &min, &max
	}
	return f, nil
}
