package exporter

import (
	"io"

	"wricefviz/internal/analytics"
	"wricefviz/internal/render"
	"wricefviz/internal/tracker"
)

// Format of an exported chart file.
type Format string

const (
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
)

// Chart is one entry of the export set: a name, an output format and a
// render function over the table.
type Chart struct {
	Name   string
	Title  string
	Format Format
	Render func(t *tracker.Table, w io.Writer) error
}

// Filename returns the chart's output file name, e.g.
// "wricef_type_distribution.png".
func (c Chart) Filename() string {
	return c.Name + "." + string(c.Format)
}

// Charts returns the full export set. The dashboard serves the same
// set, so names double as URL path segments.
func Charts() []Chart {
	return []Chart{
		{
			Name: "wricef_type_distribution", Title: "WRICEF Type Distribution", Format: FormatPNG,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.DistributionBars(analytics.WRICEFTypeDistribution(t), w)
			},
		},
		{
			Name: "implementation_distribution", Title: "Implementation Distribution", Format: FormatPNG,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.DistributionBars(analytics.ImplementationDistribution(t), w)
			},
		},
		{
			Name: "complexity_distribution", Title: "Complexity Distribution", Format: FormatPNG,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.DistributionBars(analytics.ComplexityDistribution(t), w)
			},
		},
		{
			Name: "priority_distribution", Title: "Priority Distribution", Format: FormatPNG,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.DistributionBars(analytics.PriorityDistribution(t), w)
			},
		},
		{
			Name: "stage_distribution", Title: "Development Stage Distribution", Format: FormatPNG,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.StageBars(analytics.StageDistribution(t), w)
			},
		},
		{
			Name: "forecast_vs_actual", Title: "ABAP: Forecast vs Actual Effort", Format: FormatPNG,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.ForecastScatter(analytics.ForecastVsActual(t), w)
			},
		},
		{
			Name: "monthly_delivery_trend", Title: "Monthly Delivery Trend", Format: FormatPNG,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.DeliveryTrendLine(analytics.MonthlyDeliveryTrend(t), w)
			},
		},
		{
			Name: "implementation_complexity_heatmap", Title: "Implementation vs Complexity", Format: FormatPNG,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.CrosstabHeatmap(analytics.ImplementationComplexity(t), w)
			},
		},
		{
			Name: "effort_correlation", Title: "Effort Correlation", Format: FormatPNG,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.MatrixHeatmap(analytics.EffortCorrelation(t), w)
			},
		},
		{
			Name: "abap_forecast_histogram", Title: "ABAP Forecast Effort Spread", Format: FormatPNG,
			Render: func(t *tracker.Table, w io.Writer) error {
				values := make([]float64, 0, t.Len())
				for _, r := range t.Rows {
					values = append(values, r.ABAPForecast)
				}
				return render.EffortHistogram("ABAP Forecast Effort Spread", "Hours", values, w)
			},
		},
		{
			Name: "implementation_pie", Title: "Implementation Distribution", Format: FormatHTML,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.DistributionPie(analytics.ImplementationDistribution(t), w)
			},
		},
		{
			Name: "effort_by_implementation", Title: "Total ABAP Effort by Implementation", Format: FormatHTML,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.GroupedBars(analytics.EffortByImplementation(t), w)
			},
		},
		{
			Name: "quarterly_breakdown", Title: "Quarterly Implementation Breakdown", Format: FormatHTML,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.GroupedBars(analytics.QuarterlyBreakdown(t), w)
			},
		},
		{
			Name: "forecast_vs_actual_interactive", Title: "ABAP: Forecast vs Actual Effort", Format: FormatHTML,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.ScatterHTML(analytics.ForecastVsActual(t), w)
			},
		},
		{
			Name: "monthly_trend_interactive", Title: "Monthly Delivery Trend", Format: FormatHTML,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.TrendHTML(analytics.MonthlyDeliveryTrend(t), w)
			},
		},
		{
			Name: "project_timeline", Title: "Project Timeline", Format: FormatHTML,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.TimelineScatter(analytics.ProjectTimeline(t), w)
			},
		},
		{
			Name: "effort_3d", Title: "3D Effort Analysis", Format: FormatHTML,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.EffortScatter3D(analytics.EffortSpace3D(t), w)
			},
		},
		{
			Name: "hierarchy_sunburst", Title: "Implementation Drill-Down", Format: FormatHTML,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.HierarchySunburst(analytics.ImplementationHierarchy(t), w)
			},
		},
		{
			Name: "hierarchy_treemap", Title: "Implementation Drill-Down", Format: FormatHTML,
			Render: func(t *tracker.Table, w io.Writer) error {
				return render.HierarchyTreemap(analytics.ImplementationHierarchy(t), w)
			},
		},
	}
}

// ChartByName looks up a chart in the export set.
func ChartByName(name string) (Chart, bool) {
	for _, c := range Charts() {
		if c.Name == name {
			return c, true
		}
	}
	return Chart{}, false
}
