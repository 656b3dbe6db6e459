package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"wricefviz/internal/tracker"
)

// Every builder is a pure function of the table. Empty or filtered-out
// input yields an empty specification, never an error.

// countBy tallies rows per value of a categorical column.
func countBy(t *tracker.Table, col tracker.Column, title string) Distribution {
	counts := make(map[string]int)
	for _, r := range t.Rows {
		v := categorical(r, col)
		if v != "" {
			counts[v]++
		}
	}

	d := Distribution{
		Title:     title,
		Dimension: string(col),
		Total:     t.Len(),
	}
	for cat, n := range counts {
		d.Categories = append(d.Categories, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(d.Categories, func(i, j int) bool {
		if d.Categories[i].Count != d.Categories[j].Count {
			return d.Categories[i].Count > d.Categories[j].Count
		}
		return d.Categories[i].Category < d.Categories[j].Category
	})
	return d
}

// WRICEFTypeDistribution counts work items per WRICEF type.
func WRICEFTypeDistribution(t *tracker.Table) Distribution {
	return countBy(t, tracker.ColWRICEFType, "WRICEF Type Distribution")
}

// ImplementationDistribution counts work items per implementation.
func ImplementationDistribution(t *tracker.Table) Distribution {
	return countBy(t, tracker.ColImplementation, "Implementation Distribution")
}

// ComplexityDistribution counts work items per complexity level.
func ComplexityDistribution(t *tracker.Table) Distribution {
	return countBy(t, tracker.ColComplexity, "Complexity Distribution")
}

// PriorityDistribution counts work items per delivery priority.
func PriorityDistribution(t *tracker.Table) Distribution {
	return countBy(t, tracker.ColPriority, "Priority Distribution")
}

// StageDistribution counts work items per development stage.
func StageDistribution(t *tracker.Table) Distribution {
	return countBy(t, tracker.ColStage, "Development Stage Distribution")
}

// EffortByImplementation sums forecast and actual ABAP hours per
// implementation, the grouped-bars effort comparison.
func EffortByImplementation(t *tracker.Table) GroupedSeries {
	const (
		seriesForecast = "Forecast"
		seriesActual   = "Actual"
	)
	forecast := make(map[string]float64)
	actual := make(map[string]float64)
	for _, r := range t.Rows {
		if r.Implementation == "" {
			continue
		}
		forecast[r.Implementation] += r.ABAPForecast
		actual[r.Implementation] += r.ABAPActual
	}

	groups := make([]string, 0, len(forecast))
	for g := range forecast {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	gs := GroupedSeries{
		Title:  "Total ABAP Effort by Implementation",
		Groups: groups,
		Series: []string{seriesForecast, seriesActual},
	}
	for _, g := range groups {
		gs.Values = append(gs.Values,
			GroupedValue{Group: g, Series: seriesForecast, Value: forecast[g]},
			GroupedValue{Group: g, Series: seriesActual, Value: actual[g]},
		)
	}
	return gs
}

// ForecastVsActual plots each work item's ABAP forecast against its
// actual effort, grouped by implementation for coloring.
func ForecastVsActual(t *tracker.Table) Scatter {
	s := Scatter{
		Title:  "ABAP: Forecast vs Actual Effort",
		XLabel: "Forecast Effort (hrs)",
		YLabel: "Actual Effort (hrs)",
	}
	for _, r := range t.Rows {
		s.Points = append(s.Points, ScatterPoint{
			X:     r.ABAPForecast,
			Y:     r.ABAPActual,
			Label: r.ProjectName,
			Group: r.Implementation,
		})
		if r.ABAPForecast > s.MaxValue {
			s.MaxValue = r.ABAPForecast
		}
		if r.ABAPActual > s.MaxValue {
			s.MaxValue = r.ABAPActual
		}
	}
	return s
}

// MonthlyDeliveryTrend counts planned deliveries per calendar month,
// in chronological order. Rows without a planned date are skipped.
func MonthlyDeliveryTrend(t *tracker.Table) Trend {
	counts := make(map[time.Time]int)
	for _, r := range t.Rows {
		if r.PlannedDelivery.IsZero() {
			continue
		}
		m := time.Date(r.PlannedDelivery.Year(), r.PlannedDelivery.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[m]++
	}

	tr := Trend{Title: "Monthly Delivery Trend"}
	for m, n := range counts {
		tr.Buckets = append(tr.Buckets, TimeBucket{
			Start: m,
			Label: m.Format("2006-01"),
			Count: n,
		})
	}
	sort.Slice(tr.Buckets, func(i, j int) bool {
		return tr.Buckets[i].Start.Before(tr.Buckets[j].Start)
	})
	return tr
}

// ProjectTimeline plots planned delivery dates by implementation.
// Rows without a planned date are skipped; points carry the WRICEF
// type for series coloring and the ABAP forecast for sizing.
func ProjectTimeline(t *tracker.Table) Timeline {
	tl := Timeline{Title: "Project Timeline"}
	impls := make(map[string]struct{})
	for _, r := range t.Rows {
		if r.PlannedDelivery.IsZero() {
			continue
		}
		tl.Points = append(tl.Points, TimelinePoint{
			Date:           r.PlannedDelivery,
			Implementation: r.Implementation,
			WRICEFType:     r.WRICEFType,
			Effort:         r.ABAPForecast,
		})
		impls[r.Implementation] = struct{}{}
	}
	sort.SliceStable(tl.Points, func(i, j int) bool {
		return tl.Points[i].Date.Before(tl.Points[j].Date)
	})
	tl.Implementations = sortedKeys(impls)
	return tl
}

// EffortSpace3D collects the ABAP forecast, ABAP actual and PI
// forecast axes per work item for the 3D effort scatter.
func EffortSpace3D(t *tracker.Table) EffortSpace {
	es := EffortSpace{Title: "3D Effort Analysis"}
	for _, r := range t.Rows {
		es.Points = append(es.Points, EffortPoint{
			ABAPForecast:   r.ABAPForecast,
			ABAPActual:     r.ABAPActual,
			PIForecast:     r.PIForecast,
			Implementation: r.Implementation,
		})
	}
	return es
}

// QuarterlyBreakdown counts planned deliveries per quarter and
// implementation, the stacked quarterly chart.
func QuarterlyBreakdown(t *tracker.Table) GroupedSeries {
	type key struct {
		quarter time.Time
		impl    string
	}
	counts := make(map[key]int)
	impls := make(map[string]struct{})
	quarters := make(map[time.Time]struct{})

	for _, r := range t.Rows {
		if r.PlannedDelivery.IsZero() || r.Implementation == "" {
			continue
		}
		q := quarterStart(r.PlannedDelivery)
		counts[key{q, r.Implementation}]++
		impls[r.Implementation] = struct{}{}
		quarters[q] = struct{}{}
	}

	qList := make([]time.Time, 0, len(quarters))
	for q := range quarters {
		qList = append(qList, q)
	}
	sort.Slice(qList, func(i, j int) bool { return qList[i].Before(qList[j]) })

	implList := make([]string, 0, len(impls))
	for im := range impls {
		implList = append(implList, im)
	}
	sort.Strings(implList)

	gs := GroupedSeries{
		Title:  "Quarterly Implementation Breakdown",
		Series: implList,
	}
	for _, q := range qList {
		label := quarterLabel(q)
		gs.Groups = append(gs.Groups, label)
		for _, im := range implList {
			gs.Values = append(gs.Values, GroupedValue{
				Group:  label,
				Series: im,
				Value:  float64(counts[key{q, im}]),
			})
		}
	}
	return gs
}

func quarterStart(d time.Time) time.Time {
	q := (int(d.Month()) - 1) / 3
	return time.Date(d.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
}

func quarterLabel(q time.Time) string {
	return fmt.Sprintf("%dQ%d", q.Year(), (int(q.Month())-1)/3+1)
}

// ImplementationComplexity cross-tabulates implementation against
// complexity, the heatmap source.
func ImplementationComplexity(t *tracker.Table) Crosstab {
	return crosstab(t, tracker.ColImplementation, tracker.ColComplexity,
		"Implementation vs Complexity")
}

func crosstab(t *tracker.Table, rowCol, colCol tracker.Column, title string) Crosstab {
	type key struct{ row, col string }
	counts := make(map[key]int)
	for _, r := range t.Rows {
		rv, cv := categorical(r, rowCol), categorical(r, colCol)
		if rv == "" || cv == "" {
			continue
		}
		counts[key{rv, cv}]++
	}

	ct := Crosstab{
		Title:     title,
		RowDim:    string(rowCol),
		ColDim:    string(colCol),
		RowLabels: t.Distinct(rowCol),
		ColLabels: t.Distinct(colCol),
	}
	ct.Counts = make([][]int, len(ct.RowLabels))
	for i, rl := range ct.RowLabels {
		ct.Counts[i] = make([]int, len(ct.ColLabels))
		for j, cl := range ct.ColLabels {
			ct.Counts[i][j] = counts[key{rl, cl}]
		}
	}
	return ct
}

// EffortCorrelation computes the Pearson correlation matrix over the
// four effort columns.
func EffortCorrelation(t *tracker.Table) Matrix {
	if t.Len() == 0 {
		return Matrix{Title: "Effort Correlation"}
	}

	labels := []string{
		string(tracker.ColABAPForecast),
		string(tracker.ColABAPActual),
		string(tracker.ColPIForecast),
		string(tracker.ColPIActual),
	}
	cols := [][]float64{
		effortColumn(t, func(r tracker.Row) float64 { return r.ABAPForecast }),
		effortColumn(t, func(r tracker.Row) float64 { return r.ABAPActual }),
		effortColumn(t, func(r tracker.Row) float64 { return r.PIForecast }),
		effortColumn(t, func(r tracker.Row) float64 { return r.PIActual }),
	}

	m := Matrix{
		Title:  "Effort Correlation",
		Labels: labels,
		Values: make([][]float64, len(labels)),
	}
	for i := range labels {
		m.Values[i] = make([]float64, len(labels))
		for j := range labels {
			m.Values[i][j] = pearson(cols[i], cols[j])
		}
	}
	return m
}

func effortColumn(t *tracker.Table, get func(tracker.Row) float64) []float64 {
	out := make([]float64, t.Len())
	for i, r := range t.Rows {
		out[i] = get(r)
	}
	return out
}

// pearson returns the Pearson correlation coefficient, zero for
// degenerate (constant or empty) inputs.
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 || len(x) != len(y) {
		return 0
	}
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range x {
		dx, dy := x[i]-meanX, y[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / (math.Sqrt(varX) * math.Sqrt(varY))
}

// ImplementationHierarchy builds the implementation → WRICEF type →
// complexity drill-down tree for sunburst and treemap charts.
func ImplementationHierarchy(t *tracker.Table) Hierarchy {
	type key struct{ impl, typ, cpx string }
	counts := make(map[key]int)
	for _, r := range t.Rows {
		if r.Implementation == "" || r.WRICEFType == "" || r.Complexity == "" {
			continue
		}
		counts[key{r.Implementation, r.WRICEFType, r.Complexity}]++
	}

	byImpl := make(map[string]map[string]map[string]int)
	for k, n := range counts {
		if byImpl[k.impl] == nil {
			byImpl[k.impl] = make(map[string]map[string]int)
		}
		if byImpl[k.impl][k.typ] == nil {
			byImpl[k.impl][k.typ] = make(map[string]int)
		}
		byImpl[k.impl][k.typ][k.cpx] = n
	}

	h := Hierarchy{Title: "Implementation → WRICEF Type → Complexity"}
	for _, impl := range sortedKeys(byImpl) {
		implNode := HierarchyNode{Name: impl}
		for _, typ := range sortedKeys(byImpl[impl]) {
			typNode := HierarchyNode{Name: typ}
			for _, cpx := range sortedKeys(byImpl[impl][typ]) {
				n := byImpl[impl][typ][cpx]
				typNode.Children = append(typNode.Children, HierarchyNode{Name: cpx, Count: n})
				typNode.Count += n
			}
			implNode.Children = append(implNode.Children, typNode)
			implNode.Count += typNode.Count
		}
		h.Roots = append(h.Roots, implNode)
	}
	return h
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func categorical(r tracker.Row, col tracker.Column) string {
	switch col {
	case tracker.ColImplementation:
		return r.Implementation
	case tracker.ColWRICEFType:
		return r.WRICEFType
	case tracker.ColComplexity:
		return r.Complexity
	case tracker.ColPriority:
		return r.Priority
	case tracker.ColStage:
		return r.Stage
	case tracker.ColProcessArea:
		return r.ProcessArea
	default:
		return ""
	}
}
