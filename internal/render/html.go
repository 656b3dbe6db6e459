package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"wricefviz/internal/analytics"
)

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     "1000px",
		Height:    "560px",
	})
}

// DistributionPie renders a category distribution as an interactive
// pie chart HTML page.
func DistributionPie(d analytics.Distribution, w io.Writer) error {
	if len(d.Categories) == 0 {
		return fmt.Errorf("render %q: empty distribution", d.Title)
	}

	items := make([]opts.PieData, 0, len(d.Categories))
	for _, c := range d.Categories {
		items = append(items, opts.PieData{Name: c.Category, Value: c.Count})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(d.Title),
		charts.WithTitleOpts(opts.Title{Title: d.Title}),
	)
	pie.AddSeries(d.Dimension, items)
	return pie.Render(w)
}

// HierarchySunburst renders the drill-down tree as an interactive
// sunburst HTML page.
func HierarchySunburst(h analytics.Hierarchy, w io.Writer) error {
	if len(h.Roots) == 0 {
		return fmt.Errorf("render %q: empty hierarchy", h.Title)
	}

	var toSunburst func(n analytics.HierarchyNode) *opts.SunBurstData
	toSunburst = func(n analytics.HierarchyNode) *opts.SunBurstData {
		d := &opts.SunBurstData{Name: n.Name}
		if len(n.Children) == 0 {
			d.Value = float64(n.Count)
			return d
		}
		for _, c := range n.Children {
			d.Children = append(d.Children, toSunburst(c))
		}
		return d
	}

	data := make([]opts.SunBurstData, 0, len(h.Roots))
	for _, r := range h.Roots {
		data = append(data, *toSunburst(r))
	}

	sb := charts.NewSunburst()
	sb.SetGlobalOptions(
		initOpts(h.Title),
		charts.WithTitleOpts(opts.Title{Title: h.Title}),
	)
	sb.AddSeries("hierarchy", data)
	return sb.Render(w)
}

// HierarchyTreemap renders the drill-down tree as an interactive
// treemap HTML page.
func HierarchyTreemap(h analytics.Hierarchy, w io.Writer) error {
	if len(h.Roots) == 0 {
		return fmt.Errorf("render %q: empty hierarchy", h.Title)
	}

	var toNode func(n analytics.HierarchyNode) opts.TreeMapNode
	toNode = func(n analytics.HierarchyNode) opts.TreeMapNode {
		d := opts.TreeMapNode{Name: n.Name, Value: n.Count}
		for _, c := range n.Children {
			d.Children = append(d.Children, toNode(c))
		}
		return d
	}

	data := make([]opts.TreeMapNode, 0, len(h.Roots))
	for _, r := range h.Roots {
		data = append(data, toNode(r))
	}

	tm := charts.NewTreeMap()
	tm.SetGlobalOptions(
		initOpts(h.Title),
		charts.WithTitleOpts(opts.Title{Title: h.Title}),
	)
	tm.AddSeries("hierarchy", data)
	return tm.Render(w)
}

// GroupedBars renders a grouped series as an interactive bar chart
// HTML page, one bar series per series name.
func GroupedBars(gs analytics.GroupedSeries, w io.Writer) error {
	if len(gs.Groups) == 0 {
		return fmt.Errorf("render %q: no groups", gs.Title)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(gs.Title),
		charts.WithTitleOpts(opts.Title{Title: gs.Title}),
	)
	bar.SetXAxis(gs.Groups)
	for _, s := range gs.Series {
		data := make([]opts.BarData, 0, len(gs.Groups))
		for _, g := range gs.Groups {
			data = append(data, opts.BarData{Value: gs.Value(g, s)})
		}
		bar.AddSeries(s, data)
	}
	return bar.Render(w)
}

// ScatterHTML renders the effort scatter as an interactive chart HTML
// page, one colored series per group.
func ScatterHTML(s analytics.Scatter, w io.Writer) error {
	if len(s.Points) == 0 {
		return fmt.Errorf("render %q: no points", s.Title)
	}

	byGroup := make(map[string][]opts.ScatterData)
	order := make([]string, 0)
	for _, p := range s.Points {
		if _, seen := byGroup[p.Group]; !seen {
			order = append(order, p.Group)
		}
		byGroup[p.Group] = append(byGroup[p.Group], opts.ScatterData{
			Name:  p.Label,
			Value: []interface{}{p.X, p.Y},
		})
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		initOpts(s.Title),
		charts.WithTitleOpts(opts.Title{Title: s.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: s.XLabel, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: s.YLabel, Type: "value"}),
	)
	for _, g := range order {
		sc.AddSeries(g, byGroup[g])
	}
	return sc.Render(w)
}

// TimelineScatter renders the delivery timeline as an interactive
// scatter HTML page: planned date on X, implementation on Y, one
// colored series per WRICEF type, symbols sized by forecast effort.
func TimelineScatter(tl analytics.Timeline, w io.Writer) error {
	if len(tl.Points) == 0 {
		return fmt.Errorf("render %q: no points", tl.Title)
	}

	byType := make(map[string][]opts.ScatterData)
	order := make([]string, 0)
	for _, p := range tl.Points {
		if _, seen := byType[p.WRICEFType]; !seen {
			order = append(order, p.WRICEFType)
		}
		byType[p.WRICEFType] = append(byType[p.WRICEFType], opts.ScatterData{
			Value:      []interface{}{p.Date.Format("2006-01-02"), p.Implementation},
			SymbolSize: 6 + int(p.Effort/20),
		})
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		initOpts(tl.Title),
		charts.WithTitleOpts(opts.Title{Title: tl.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Planned delivery", Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: tl.Implementations}),
	)
	for _, g := range order {
		sc.AddSeries(g, byType[g])
	}
	return sc.Render(w)
}

// EffortScatter3D renders the effort space as an interactive 3D
// scatter HTML page, one series per implementation.
func EffortScatter3D(es analytics.EffortSpace, w io.Writer) error {
	if len(es.Points) == 0 {
		return fmt.Errorf("render %q: no points", es.Title)
	}

	byImpl := make(map[string][]opts.Chart3DData)
	order := make([]string, 0)
	for _, p := range es.Points {
		if _, seen := byImpl[p.Implementation]; !seen {
			order = append(order, p.Implementation)
		}
		byImpl[p.Implementation] = append(byImpl[p.Implementation], opts.Chart3DData{
			Value: []interface{}{p.ABAPForecast, p.ABAPActual, p.PIForecast},
		})
	}

	sc := charts.NewScatter3D()
	sc.SetGlobalOptions(
		initOpts(es.Title),
		charts.WithTitleOpts(opts.Title{Title: es.Title}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "ABAP Forecast (hrs)"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "ABAP Actual (hrs)"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "PI Forecast (hrs)"}),
	)
	for _, g := range order {
		sc.AddSeries(g, byImpl[g])
	}
	return sc.Render(w)
}

// TrendHTML renders the monthly delivery trend as an interactive line
// chart HTML page.
func TrendHTML(tr analytics.Trend, w io.Writer) error {
	if len(tr.Buckets) == 0 {
		return fmt.Errorf("render %q: no buckets", tr.Title)
	}

	labels := make([]string, 0, len(tr.Buckets))
	data := make([]opts.LineData, 0, len(tr.Buckets))
	for _, b := range tr.Buckets {
		labels = append(labels, b.Label)
		data = append(data, opts.LineData{Value: b.Count})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(tr.Title),
		charts.WithTitleOpts(opts.Title{Title: tr.Title}),
	)
	line.SetXAxis(labels)
	line.AddSeries("Planned deliveries", data)
	return line.Render(w)
}
