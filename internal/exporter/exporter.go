package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"wricefviz/internal/tracker"
)

const renderConcurrency = 4

// Exporter writes the full chart set and the insights report to an
// output directory.
type Exporter struct {
	outDir string
	logger *slog.Logger
}

// New creates an exporter writing into outDir.
func New(outDir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{outDir: outDir, logger: logger}
}

// Result records the outcome of one chart export.
type Result struct {
	Chart string
	Path  string
	Err   error
}

// Export renders every registered chart into the output directory.
// Charts render concurrently; a failing chart is recorded in its Result
// and does not stop the others. The returned error covers only setup
// failures such as an unwritable directory.
func (e *Exporter) Export(ctx context.Context, t *tracker.Table) ([]Result, error) {
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	charts := Charts()
	results := make([]Result, len(charts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(renderConcurrency)
	for i, c := range charts {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Chart: c.Name, Err: err}
				return nil
			}
			path := filepath.Join(e.outDir, c.Filename())
			results[i] = Result{Chart: c.Name, Path: path, Err: e.exportOne(c, t, path)}
			return nil
		})
	}
	_ = g.Wait()

	exported := 0
	for _, r := range results {
		if r.Err != nil {
			e.logger.Error("chart export failed",
				slog.String("chart", r.Chart),
				slog.String("error", r.Err.Error()))
			continue
		}
		exported++
	}
	e.logger.Info("chart export finished",
		slog.String("output_dir", e.outDir),
		slog.Int("exported", exported),
		slog.Int("failed", len(results)-exported))
	return results, nil
}

func (e *Exporter) exportOne(c Chart, t *tracker.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.Render(t, f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("render %s: %w", c.Name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
