package tracker

import "time"

// Filter selects a subset of rows. Zero-valued fields match everything,
// so the zero Filter is a no-op.
type Filter struct {
	Implementation string    `json:"implementation,omitempty"`
	WRICEFType     string    `json:"wricef_type,omitempty"`
	Complexity     string    `json:"complexity,omitempty"`
	Priority       string    `json:"priority,omitempty"`
	Stage          string    `json:"stage,omitempty"`
	From           time.Time `json:"from,omitempty"`
	To             time.Time `json:"to,omitempty"`
}

// IsZero reports whether the filter matches every row.
func (f Filter) IsZero() bool {
	return f.Implementation == "" && f.WRICEFType == "" && f.Complexity == "" &&
		f.Priority == "" && f.Stage == "" && f.From.IsZero() && f.To.IsZero()
}

// Matches reports whether the row passes the filter. Date bounds apply
// to the planned delivery date, inclusive on both ends.
func (f Filter) Matches(r Row) bool {
	if f.Implementation != "" && r.Implementation != f.Implementation {
		return false
	}
	if f.WRICEFType != "" && r.WRICEFType != f.WRICEFType {
		return false
	}
	if f.Complexity != "" && r.Complexity != f.Complexity {
		return false
	}
	if f.Priority != "" && r.Priority != f.Priority {
		return false
	}
	if f.Stage != "" && r.Stage != f.Stage {
		return false
	}
	if !f.From.IsZero() && r.PlannedDelivery.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.PlannedDelivery.After(f.To) {
		return false
	}
	return true
}

// Filter returns a new table holding only the matching rows. Row values
// are copied by value; the source table is never modified.
func (t *Table) Filter(f Filter) *Table {
	if f.IsZero() {
		return t
	}
	out := &Table{
		Source:      t.Source,
		Synthesized: t.Synthesized,
		LoadedAt:    t.LoadedAt,
	}
	for _, r := range t.Rows {
		if f.Matches(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
