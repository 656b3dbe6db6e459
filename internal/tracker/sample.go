package tracker

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// DefaultSampleSize matches the demonstration dataset size of the
// original tracker reports.
const DefaultSampleSize = 500

// Sample generates a fully synthesized table of n rows from the given
// seed. It is used when no tracker file is available and as the
// reference dataset in tests.
func Sample(n int, seed int64) *Table {
	if n <= 0 {
		n = DefaultSampleSize
	}
	rng := rand.New(rand.NewSource(seed))

	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			Implementation:  pick(rng, KnownImplementations),
			ProjectName:     fmt.Sprintf("Project %d", i+1),
			WRICEFType:      pick(rng, KnownWRICEFTypes),
			Complexity:      pick(rng, KnownComplexities),
			Priority:        pick(rng, KnownPriorities),
			Stage:           pick(rng, KnownStages),
			ProcessArea:     pick(rng, KnownProcessAreas),
			ABAPForecast:    uniform(rng, ABAPEffortMin, ABAPEffortMax),
			ABAPActual:      uniform(rng, ABAPEffortMin, ABAPEffortMax),
			PIForecast:      uniform(rng, PIEffortMin, PIEffortMax),
			PIActual:        uniform(rng, PIEffortMin, PIEffortMax),
			PlannedDelivery: randomDate(rng),
			ActualDelivery:  randomDate(rng),
			FunctionalOwner: fmt.Sprintf("Owner %d", rng.Intn(20)+1),
			DevLead:         fmt.Sprintf("Lead %d", rng.Intn(15)+1),
		}
	}

	return &Table{
		Rows:        rows,
		Source:      "sample",
		Synthesized: append([]Column(nil), ExpectedColumns...),
		LoadedAt:    time.Now(),
	}
}

// normalize fills every column that was absent from the source with
// synthesized values drawn from the column's domain, and records which
// columns were generated. Present columns are never touched.
func normalize(t *Table, columnMap map[Column]int, seed int64) {
	rng := rand.New(rand.NewSource(seed))

	var missing []Column
	for _, col := range ExpectedColumns {
		if _, ok := columnMap[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return
	}

	for i := range t.Rows {
		for _, col := range missing {
			fillColumn(&t.Rows[i], col, i, rng)
		}
	}
	t.Synthesized = missing

	names := make([]string, len(missing))
	for i, c := range missing {
		names[i] = string(c)
	}
	slog.Info("synthesized missing tracker columns",
		slog.Any("columns", names),
		slog.Int("rows", len(t.Rows)))
}

func fillColumn(r *Row, col Column, rowIdx int, rng *rand.Rand) {
	switch col {
	case ColImplementation:
		r.Implementation = pick(rng, KnownImplementations)
	case ColProjectName:
		r.ProjectName = fmt.Sprintf("Project %d", rowIdx+1)
	case ColWRICEFType:
		r.WRICEFType = pick(rng, KnownWRICEFTypes)
	case ColComplexity:
		r.Complexity = pick(rng, KnownComplexities)
	case ColPriority:
		r.Priority = pick(rng, KnownPriorities)
	case ColStage:
		r.Stage = pick(rng, KnownStages)
	case ColProcessArea:
		r.ProcessArea = pick(rng, KnownProcessAreas)
	case ColABAPForecast:
		r.ABAPForecast = uniform(rng, ABAPEffortMin, ABAPEffortMax)
	case ColABAPActual:
		r.ABAPActual = uniform(rng, ABAPEffortMin, ABAPEffortMax)
	case ColPIForecast:
		r.PIForecast = uniform(rng, PIEffortMin, PIEffortMax)
	case ColPIActual:
		r.PIActual = uniform(rng, PIEffortMin, PIEffortMax)
	case ColPlannedDelivery:
		r.PlannedDelivery = randomDate(rng)
	case ColActualDelivery:
		r.ActualDelivery = randomDate(rng)
	case ColFunctionalOwner:
		r.FunctionalOwner = fmt.Sprintf("Owner %d", rng.Intn(20)+1)
	case ColDevLead:
		r.DevLead = fmt.Sprintf("Lead %d", rng.Intn(15)+1)
	}
}

func pick(rng *rand.Rand, domain []string) string {
	return domain[rng.Intn(len(domain))]
}

// uniform returns a value in [min, max) rounded to one decimal, the
// precision tracker effort columns use.
func uniform(rng *rand.Rand, min, max float64) float64 {
	v := min + rng.Float64()*(max-min)
	return float64(int(v*10)) / 10
}

func randomDate(rng *rand.Rand) time.Time {
	span := int(DateWindowEnd.Sub(DateWindowStart).Hours() / 24)
	return DateWindowStart.AddDate(0, 0, rng.Intn(span+1))
}
