package analytics

import (
	"wricefviz/internal/tracker"
)

// Summarize computes the descriptive statistics panel for a table.
// An empty table yields a zero-valued summary.
func Summarize(t *tracker.Table) Insights {
	ins := Insights{TotalItems: t.Len()}
	if ins.TotalItems == 0 {
		return ins
	}

	ins.TopWRICEFType = topShare(t, tracker.ColWRICEFType)
	ins.TopImplementation = topShare(t, tracker.ColImplementation)
	ins.TopComplexity = topShare(t, tracker.ColComplexity)
	ins.TopPriority = topShare(t, tracker.ColPriority)
	ins.TopStage = topShare(t, tracker.ColStage)

	var ratioSum float64
	var ratioN int
	for _, r := range t.Rows {
		ins.TotalABAPForecast += r.ABAPForecast
		if r.ABAPForecast > 0 {
			ratioSum += r.ABAPActual / r.ABAPForecast
			ratioN++
		}
	}
	ins.AvgABAPForecast = ins.TotalABAPForecast / float64(ins.TotalItems)
	if ratioN > 0 {
		ins.EffortEfficiency = ratioSum / float64(ratioN)
	}
	return ins
}

// topShare finds the most common value of a dimension. Ties break
// alphabetically so the result is deterministic.
func topShare(t *tracker.Table, col tracker.Column) CategoryShare {
	d := countBy(t, col, "")
	if len(d.Categories) == 0 {
		return CategoryShare{}
	}
	top := d.Categories[0]
	return CategoryShare{
		Value: top.Category,
		Count: top.Count,
		Share: float64(top.Count) / float64(t.Len()),
	}
}
