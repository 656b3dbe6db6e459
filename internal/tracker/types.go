package tracker

import (
	"sort"
	"time"
)

// Column identifies one of the expected tracker spreadsheet columns.
type Column string

const (
	ColImplementation   Column = "Implementation"
	ColProjectName      Column = "Project Name"
	ColWRICEFType       Column = "WRICEF Type"
	ColComplexity       Column = "Complexity"
	ColPriority         Column = "Priority of Delivery"
	ColStage            Column = "Stage"
	ColProcessArea      Column = "Process Area"
	ColABAPForecast     Column = "ABAP Effort Forecast (hrs)"
	ColABAPActual       Column = "ABAP Actual Effort (hrs)"
	ColPIForecast       Column = "PI Effort Forecast (hrs)"
	ColPIActual         Column = "PI Actual Effort (hrs)"
	ColPlannedDelivery  Column = "FSD Planned Del Date"
	ColActualDelivery   Column = "Dev Actual Delivery Date"
	ColFunctionalOwner  Column = "Functional Owner"
	ColDevLead          Column = "Dev Lead"
)

// ExpectedColumns is the full tracker schema in report order. After
// normalization every row carries a value for each of these.
var ExpectedColumns = []Column{
	ColImplementation,
	ColProjectName,
	ColWRICEFType,
	ColComplexity,
	ColPriority,
	ColStage,
	ColProcessArea,
	ColABAPForecast,
	ColABAPActual,
	ColPIForecast,
	ColPIActual,
	ColPlannedDelivery,
	ColActualDelivery,
	ColFunctionalOwner,
	ColDevLead,
}

// Documented category domains. Synthesized values are drawn only from
// these; loaded values are kept verbatim even when outside them.
var (
	KnownImplementations = []string{"Catalyst", "Goldilocks (ANZ)", "EWM", "Supernova"}
	KnownWRICEFTypes     = []string{"W", "R", "I", "C", "E", "F"}
	KnownComplexities    = []string{"Low", "Medium", "High", "Very High"}
	KnownPriorities      = []string{"1 - High", "2 - Medium", "3 - Low"}
	KnownStages          = []string{
		"06 - Dev Completed",
		"04 - Dev in progress",
		"16 - FS Review in Progress",
		"13 - Deferred",
		"15 - No Development Required",
	}
	KnownProcessAreas = []string{"STS", "RTR", "MDM", "PTM", "PTP", "LEX", "OTC", "EWM"}
)

// Effort value ranges in hours used when synthesizing missing effort columns.
const (
	ABAPEffortMin = 10
	ABAPEffortMax = 200
	PIEffortMin   = 5
	PIEffortMax   = 100
)

// Synthesized date columns fall inside this window.
var (
	DateWindowStart = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	DateWindowEnd   = time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Row is one work item from the tracker. Rows are immutable after load;
// every field is populated, either from the source file or synthesized.
type Row struct {
	Implementation  string    `json:"implementation"`
	ProjectName     string    `json:"project_name"`
	WRICEFType      string    `json:"wricef_type"`
	Complexity      string    `json:"complexity"`
	Priority        string    `json:"priority"`
	Stage           string    `json:"stage"`
	ProcessArea     string    `json:"process_area"`
	ABAPForecast    float64   `json:"abap_forecast_hrs"`
	ABAPActual      float64   `json:"abap_actual_hrs"`
	PIForecast      float64   `json:"pi_forecast_hrs"`
	PIActual        float64   `json:"pi_actual_hrs"`
	PlannedDelivery time.Time `json:"planned_delivery"`
	ActualDelivery  time.Time `json:"actual_delivery"`
	FunctionalOwner string    `json:"functional_owner"`
	DevLead         string    `json:"dev_lead"`
}

// IsComplete reports whether the row carries a value in every column.
// Normalized tables contain only complete rows.
func (r Row) IsComplete() bool {
	return r.Implementation != "" && r.ProjectName != "" && r.WRICEFType != "" &&
		r.Complexity != "" && r.Priority != "" && r.Stage != "" &&
		r.ProcessArea != "" && r.FunctionalOwner != "" && r.DevLead != "" &&
		!r.PlannedDelivery.IsZero() && !r.ActualDelivery.IsZero()
}

// Table is the normalized, read-only tracker table. It is safe to share
// across builders and goroutines; nothing mutates it after load.
type Table struct {
	Rows []Row `json:"rows"`

	// Source is the file path or spreadsheet ID the table was loaded
	// from, or "sample" for fully synthesized tables.
	Source string `json:"source"`

	// Synthesized lists the columns that were absent from the source and
	// filled with generated values.
	Synthesized []Column `json:"synthesized,omitempty"`

	LoadedAt time.Time `json:"loaded_at"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// WasSynthesized reports whether the given column was generated rather
// than read from the source.
func (t *Table) WasSynthesized(col Column) bool {
	for _, c := range t.Synthesized {
		if c == col {
			return true
		}
	}
	return false
}

// DateBounds returns the earliest and latest planned delivery dates in
// the table. ok is false for an empty table.
func (t *Table) DateBounds() (min, max time.Time, ok bool) {
	if len(t.Rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = t.Rows[0].PlannedDelivery, t.Rows[0].PlannedDelivery
	for _, r := range t.Rows[1:] {
		if r.PlannedDelivery.Before(min) {
			min = r.PlannedDelivery
		}
		if r.PlannedDelivery.After(max) {
			max = r.PlannedDelivery
		}
	}
	return min, max, true
}

// Distinct returns the sorted distinct values of a categorical column.
func (t *Table) Distinct(col Column) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.Rows {
		v := categoricalValue(r, col)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// categoricalValue extracts the string value of a categorical column.
// Numeric and date columns yield "".
func categoricalValue(r Row, col Column) string {
	switch col {
	case ColImplementation:
		return r.Implementation
	case ColProjectName:
		return r.ProjectName
	case ColWRICEFType:
		return r.WRICEFType
	case ColComplexity:
		return r.Complexity
	case ColPriority:
		return r.Priority
	case ColStage:
		return r.Stage
	case ColProcessArea:
		return r.ProcessArea
	case ColFunctionalOwner:
		return r.FunctionalOwner
	case ColDevLead:
		return r.DevLead
	default:
		return ""
	}
}
