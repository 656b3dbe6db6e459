package render

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"wricefviz/internal/analytics"
)

const (
	chartWidth  = 1024
	chartHeight = 560
)

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

// DistributionBars renders a category distribution as a vertical bar
// chart PNG.
func DistributionBars(d analytics.Distribution, w io.Writer) error {
	if len(d.Categories) == 0 {
		return fmt.Errorf("render %q: empty distribution", d.Title)
	}

	bars := make([]chart.Value, 0, len(d.Categories))
	for _, c := range d.Categories {
		bars = append(bars, chart.Value{
			Label: c.Category,
			Value: float64(c.Count),
		})
	}

	ch := chart.BarChart{
		Title:      d.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   60,
		Bars:       bars,
	}
	return ch.Render(chart.PNG, w)
}

// ForecastScatter renders the forecast vs actual effort scatter with an
// x=y parity line PNG.
func ForecastScatter(s analytics.Scatter, w io.Writer) error {
	if len(s.Points) == 0 {
		return fmt.Errorf("render %q: no points", s.Title)
	}

	byGroup := make(map[string][]analytics.ScatterPoint)
	groups := make([]string, 0)
	for _, p := range s.Points {
		if _, seen := byGroup[p.Group]; !seen {
			groups = append(groups, p.Group)
		}
		byGroup[p.Group] = append(byGroup[p.Group], p)
	}

	series := make([]chart.Series, 0, len(groups)+1)
	for i, g := range groups {
		pts := byGroup[g]
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for j, p := range pts {
			xs[j], ys[j] = p.X, p.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    g,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(chart.GetDefaultColor(i)),
		})
	}

	// Parity line: points on it were estimated perfectly.
	series = append(series, chart.ContinuousSeries{
		Name:    "Forecast = Actual",
		XValues: []float64{0, s.MaxValue},
		YValues: []float64{0, s.MaxValue},
		Style: chart.Style{
			StrokeWidth:     1.5,
			StrokeColor:     chart.ColorAlternateGray,
			StrokeDashArray: []float64{5, 5},
		},
	})

	ch := chart.Chart{
		Title:      s.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis:      chart.XAxis{Name: s.XLabel},
		YAxis:      chart.YAxis{Name: s.YLabel},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

// DeliveryTrendLine renders the monthly delivery trend as a time series
// line PNG.
func DeliveryTrendLine(tr analytics.Trend, w io.Writer) error {
	if len(tr.Buckets) == 0 {
		return fmt.Errorf("render %q: no buckets", tr.Title)
	}

	times := make([]time.Time, len(tr.Buckets))
	counts := make([]float64, len(tr.Buckets))
	for i, b := range tr.Buckets {
		times[i] = b.Start
		counts[i] = float64(b.Count)
	}
	// A single bucket cannot span an x-range, pad it by a month.
	if len(times) == 1 {
		times = append(times, times[0].AddDate(0, 1, 0))
		counts = append(counts, counts[0])
	}

	ch := chart.Chart{
		Title:      tr.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		YAxis:      chart.YAxis{Name: "Deliveries"},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Planned deliveries",
				XValues: times,
				YValues: counts,
				Style: chart.Style{
					StrokeWidth: 2,
					StrokeColor: chart.ColorBlue,
					DotWidth:    3,
					DotColor:    chart.ColorBlue,
				},
			},
		},
	}
	return ch.Render(chart.PNG, w)
}
