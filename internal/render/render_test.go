package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wricefviz/internal/analytics"
	"wricefviz/internal/tracker"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func sampleTable(t *testing.T) *tracker.Table {
	t.Helper()
	return tracker.Sample(40, 7)
}

func TestDistributionBars(t *testing.T) {
	d := analytics.WRICEFTypeDistribution(sampleTable(t))

	var buf bytes.Buffer
	require.NoError(t, DistributionBars(d, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestDistributionBarsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := DistributionBars(analytics.Distribution{Title: "empty"}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestForecastScatter(t *testing.T) {
	s := analytics.ForecastVsActual(sampleTable(t))

	var buf bytes.Buffer
	require.NoError(t, ForecastScatter(s, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestDeliveryTrendLine(t *testing.T) {
	t.Run("multiple buckets", func(t *testing.T) {
		tr := analytics.MonthlyDeliveryTrend(sampleTable(t))
		require.NotEmpty(t, tr.Buckets)

		var buf bytes.Buffer
		require.NoError(t, DeliveryTrendLine(tr, &buf))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
	})

	t.Run("single bucket", func(t *testing.T) {
		tr := analytics.Trend{
			Title: "one month",
			Buckets: []analytics.TimeBucket{
				{Start: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), Label: "2023-03", Count: 4},
			},
		}

		var buf bytes.Buffer
		require.NoError(t, DeliveryTrendLine(tr, &buf))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
	})
}

func TestCrosstabHeatmap(t *testing.T) {
	ct := analytics.ImplementationComplexity(sampleTable(t))

	var buf bytes.Buffer
	require.NoError(t, CrosstabHeatmap(ct, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestMatrixHeatmap(t *testing.T) {
	m := analytics.EffortCorrelation(sampleTable(t))

	var buf bytes.Buffer
	require.NoError(t, MatrixHeatmap(m, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	empty := analytics.EffortCorrelation(&tracker.Table{})
	assert.Error(t, MatrixHeatmap(empty, &buf))
}

func TestEffortHistogram(t *testing.T) {
	tbl := sampleTable(t)
	values := make([]float64, 0, tbl.Len())
	for _, r := range tbl.Rows {
		values = append(values, r.ABAPForecast)
	}

	var buf bytes.Buffer
	require.NoError(t, EffortHistogram("ABAP Forecast Effort", "Hours", values, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	assert.Error(t, EffortHistogram("empty", "Hours", nil, &buf))
}

func TestStageBars(t *testing.T) {
	d := analytics.StageDistribution(sampleTable(t))

	var buf bytes.Buffer
	require.NoError(t, StageBars(d, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestHTMLRenderers(t *testing.T) {
	tbl := sampleTable(t)

	tests := []struct {
		name   string
		render func(w *bytes.Buffer) error
		want   string
	}{
		{
			name: "pie",
			render: func(w *bytes.Buffer) error {
				return DistributionPie(analytics.ImplementationDistribution(tbl), w)
			},
			want: "Implementation Distribution",
		},
		{
			name: "sunburst",
			render: func(w *bytes.Buffer) error {
				return HierarchySunburst(analytics.ImplementationHierarchy(tbl), w)
			},
			want: "sunburst",
		},
		{
			name: "treemap",
			render: func(w *bytes.Buffer) error {
				return HierarchyTreemap(analytics.ImplementationHierarchy(tbl), w)
			},
			want: "treemap",
		},
		{
			name: "grouped bars",
			render: func(w *bytes.Buffer) error {
				return GroupedBars(analytics.EffortByImplementation(tbl), w)
			},
			want: "Forecast",
		},
		{
			name: "scatter",
			render: func(w *bytes.Buffer) error {
				return ScatterHTML(analytics.ForecastVsActual(tbl), w)
			},
			want: "scatter",
		},
		{
			name: "timeline scatter",
			render: func(w *bytes.Buffer) error {
				return TimelineScatter(analytics.ProjectTimeline(tbl), w)
			},
			want: "Project Timeline",
		},
		{
			name: "effort 3d",
			render: func(w *bytes.Buffer) error {
				return EffortScatter3D(analytics.EffortSpace3D(tbl), w)
			},
			want: "3D Effort Analysis",
		},
		{
			name: "trend line",
			render: func(w *bytes.Buffer) error {
				return TrendHTML(analytics.MonthlyDeliveryTrend(tbl), w)
			},
			want: "Monthly Delivery Trend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.render(&buf))
			out := buf.String()
			assert.Contains(t, out, "<html")
			assert.Contains(t, out, "echarts")
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestHTMLRenderersEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, DistributionPie(analytics.Distribution{}, &buf))
	assert.Error(t, HierarchySunburst(analytics.Hierarchy{}, &buf))
	assert.Error(t, HierarchyTreemap(analytics.Hierarchy{}, &buf))
	assert.Error(t, GroupedBars(analytics.GroupedSeries{}, &buf))
	assert.Error(t, ScatterHTML(analytics.Scatter{}, &buf))
	assert.Error(t, TimelineScatter(analytics.Timeline{}, &buf))
	assert.Error(t, EffortScatter3D(analytics.EffortSpace{}, &buf))
	assert.Error(t, TrendHTML(analytics.Trend{}, &buf))
}
