package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"wricefviz/internal/analytics"
)

const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// crosstabGrid adapts a Crosstab to the plotter heat map interface.
// Rows grow upward in plot space, so row 0 maps to the last label.
type crosstabGrid struct {
	ct analytics.Crosstab
}

func (g crosstabGrid) Dims() (int, int) { return len(g.ct.ColLabels), len(g.ct.RowLabels) }
func (g crosstabGrid) X(c int) float64  { return float64(c) }
func (g crosstabGrid) Y(r int) float64  { return float64(r) }

func (g crosstabGrid) Z(c, r int) float64 {
	row := len(g.ct.RowLabels) - 1 - r
	return float64(g.ct.Counts[row][c])
}

// CrosstabHeatmap renders a contingency table as a heat map PNG.
func CrosstabHeatmap(ct analytics.Crosstab, w io.Writer) error {
	if len(ct.RowLabels) == 0 || len(ct.ColLabels) == 0 {
		return fmt.Errorf("render %q: empty crosstab", ct.Title)
	}

	p := plot.New()
	p.Title.Text = ct.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = ct.ColDim
	p.Y.Label.Text = ct.RowDim

	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(crosstabGrid{ct}, pal)
	p.Add(hm)

	p.NominalX(ct.ColLabels...)
	reversed := make([]string, len(ct.RowLabels))
	for i, l := range ct.RowLabels {
		reversed[len(reversed)-1-i] = l
	}
	p.NominalY(reversed...)

	return writePlot(p, w)
}

// matrixGrid adapts a correlation matrix to the heat map interface.
type matrixGrid struct {
	m analytics.Matrix
}

func (g matrixGrid) Dims() (int, int) { return len(g.m.Labels), len(g.m.Labels) }
func (g matrixGrid) X(c int) float64  { return float64(c) }
func (g matrixGrid) Y(r int) float64  { return float64(r) }

func (g matrixGrid) Z(c, r int) float64 {
	row := len(g.m.Labels) - 1 - r
	return g.m.Values[row][c]
}

// MatrixHeatmap renders a correlation matrix as a heat map PNG.
func MatrixHeatmap(m analytics.Matrix, w io.Writer) error {
	if len(m.Labels) == 0 {
		return fmt.Errorf("render %q: empty matrix", m.Title)
	}

	p := plot.New()
	p.Title.Text = m.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)

	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(matrixGrid{m}, pal)
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	p.NominalX(m.Labels...)
	reversed := make([]string, len(m.Labels))
	for i, l := range m.Labels {
		reversed[len(reversed)-1-i] = l
	}
	p.NominalY(reversed...)

	return writePlot(p, w)
}

// EffortHistogram renders the spread of a single effort column PNG.
func EffortHistogram(title, xLabel string, values []float64, w io.Writer) error {
	if len(values) == 0 {
		return fmt.Errorf("render %q: no values", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Work Items"

	vals := make(plotter.Values, len(values))
	copy(vals, values)
	h, err := plotter.NewHist(vals, 16)
	if err != nil {
		return fmt.Errorf("render %q: %w", title, err)
	}
	p.Add(h)
	p.Add(plotter.NewGrid())

	return writePlot(p, w)
}

// StageBars renders a distribution as horizontal bars PNG, one per
// category, read top to bottom in the distribution's order.
func StageBars(d analytics.Distribution, w io.Writer) error {
	if len(d.Categories) == 0 {
		return fmt.Errorf("render %q: empty distribution", d.Title)
	}

	p := plot.New()
	p.Title.Text = d.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Work Items"

	n := len(d.Categories)
	vals := make(plotter.Values, n)
	labels := make([]string, n)
	// First category lands at the top of the chart.
	for i, c := range d.Categories {
		vals[n-1-i] = float64(c.Count)
		labels[n-1-i] = c.Category
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return fmt.Errorf("render %q: %w", d.Title, err)
	}
	bars.Horizontal = true
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalY(labels...)

	return writePlot(p, w)
}

func writePlot(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
