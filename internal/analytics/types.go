package analytics

import (
	"time"
)

// CategoryCount is one bar/slice of a distribution chart.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Distribution is a count-per-category chart specification, ordered by
// descending count with category name as the tiebreaker.
type Distribution struct {
	Title      string          `json:"title"`
	Dimension  string          `json:"dimension"`
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// GroupedValue is one (group, series) cell of a grouped bar chart.
type GroupedValue struct {
	Group  string  `json:"group"`
	Series string  `json:"series"`
	Value  float64 `json:"value"`
}

// GroupedSeries is a grouped or stacked bar chart specification, e.g.
// forecast vs actual effort per implementation.
type GroupedSeries struct {
	Title  string         `json:"title"`
	Groups []string       `json:"groups"`
	Series []string       `json:"series"`
	Values []GroupedValue `json:"values"`
}

// Value returns the cell for (group, series), zero when absent.
func (g GroupedSeries) Value(group, series string) float64 {
	for _, v := range g.Values {
		if v.Group == group && v.Series == series {
			return v.Value
		}
	}
	return 0
}

// ScatterPoint is one work item plotted on an effort comparison.
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
	Group string  `json:"group"`
}

// Scatter is a scatter chart specification. MaxValue is the larger of
// the axis maxima, used to draw the x=y parity line.
type Scatter struct {
	Title    string         `json:"title"`
	XLabel   string         `json:"x_label"`
	YLabel   string         `json:"y_label"`
	Points   []ScatterPoint `json:"points"`
	MaxValue float64        `json:"max_value"`
}

// TimelinePoint is one work item on the delivery timeline.
type TimelinePoint struct {
	Date           time.Time `json:"date"`
	Implementation string    `json:"implementation"`
	WRICEFType     string    `json:"wricef_type"`
	Effort         float64   `json:"effort"`
}

// Timeline is a planned-delivery-by-implementation scatter
// specification: one series per WRICEF type, points sized by forecast
// effort. Rows without a planned date are excluded.
type Timeline struct {
	Title           string          `json:"title"`
	Implementations []string        `json:"implementations"`
	Points          []TimelinePoint `json:"points"`
}

// EffortPoint is one work item in forecast/actual/PI effort space.
type EffortPoint struct {
	ABAPForecast   float64 `json:"abap_forecast"`
	ABAPActual     float64 `json:"abap_actual"`
	PIForecast     float64 `json:"pi_forecast"`
	Implementation string  `json:"implementation"`
}

// EffortSpace is a three-dimensional effort scatter specification,
// one series per implementation.
type EffortSpace struct {
	Title  string        `json:"title"`
	Points []EffortPoint `json:"points"`
}

// TimeBucket is one point of a delivery trend line.
type TimeBucket struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

// Trend is a time series chart specification with calendar buckets in
// chronological order.
type Trend struct {
	Title   string       `json:"title"`
	Buckets []TimeBucket `json:"buckets"`
}

// Crosstab is a two-dimensional contingency table, rendered as a
// heatmap. Counts is row-major: Counts[i][j] belongs to RowLabels[i]
// and ColLabels[j].
type Crosstab struct {
	Title     string   `json:"title"`
	RowDim    string   `json:"row_dim"`
	ColDim    string   `json:"col_dim"`
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
	Counts    [][]int  `json:"counts"`
}

// Count returns the cell for (row, col) labels, zero when absent.
func (c Crosstab) Count(row, col string) int {
	ri, ci := -1, -1
	for i, l := range c.RowLabels {
		if l == row {
			ri = i
		}
	}
	for j, l := range c.ColLabels {
		if l == col {
			ci = j
		}
	}
	if ri < 0 || ci < 0 {
		return 0
	}
	return c.Counts[ri][ci]
}

// Matrix is a symmetric correlation matrix over numeric columns.
type Matrix struct {
	Title  string      `json:"title"`
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// HierarchyNode is one node of the implementation → WRICEF type →
// complexity drill-down used by sunburst and treemap charts. Count on a
// branch node equals the sum of its children.
type HierarchyNode struct {
	Name     string          `json:"name"`
	Count    int             `json:"count"`
	Children []HierarchyNode `json:"children,omitempty"`
}

// Hierarchy is the full drill-down tree specification.
type Hierarchy struct {
	Title string          `json:"title"`
	Roots []HierarchyNode `json:"roots"`
}

// Insights is the descriptive statistics summary of a table. All shares
// are fractions of the total in [0, 1]. Zero-valued for empty tables.
type Insights struct {
	TotalItems int `json:"total_items"`

	TopWRICEFType     CategoryShare `json:"top_wricef_type"`
	TopImplementation CategoryShare `json:"top_implementation"`
	TopComplexity     CategoryShare `json:"top_complexity"`
	TopPriority       CategoryShare `json:"top_priority"`
	TopStage          CategoryShare `json:"top_stage"`

	AvgABAPForecast   float64 `json:"avg_abap_forecast_hrs"`
	TotalABAPForecast float64 `json:"total_abap_forecast_hrs"`

	// EffortEfficiency is the mean actual/forecast ABAP ratio across
	// rows with a positive forecast. 1.0 means perfect estimation.
	EffortEfficiency float64 `json:"effort_efficiency"`
}

// CategoryShare names the most common value of a dimension with its
// count and share of the total.
type CategoryShare struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}
