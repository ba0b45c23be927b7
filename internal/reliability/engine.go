package reliability

import (
	"time"

	"incident-analysis/internal/models"
)

// Query selects the incidents an analysis covers
type Query struct {
	Range string
	Type  string
}

// Engine runs the filter and aggregation pipeline with fixed parameters.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	params Params
}

// NewEngine creates an Engine. A nil Location defaults to UTC and a nil
// Estimation to SkipPolicy; the network constants are used as given.
func NewEngine(p Params) *Engine {
	if p.Location == nil {
		p.Location = time.UTC
	}
	if p.Estimation == nil {
		p.Estimation = SkipPolicy{}
	}
	return &Engine{params: p}
}

// Params returns the engine configuration
func (e *Engine) Params() Params {
	return e.params
}

// Analyze filters incidents by q relative to now and aggregates the result
func (e *Engine) Analyze(incidents []models.Incident, q Query, now time.Time) models.MetricsResult {
	r := ResolveDateRange(q.Range, now)
	typeFilter := q.Type
	if typeFilter == "" {
		typeFilter = AllTypes
	}

	filtered := FilterIncidents(incidents, r.Start, typeFilter, now)

	return models.MetricsResult{
		Range:       string(r.Label),
		TypeFilter:  typeFilter,
		Start:       r.Start,
		End:         r.End,
		Total:       len(incidents),
		Filtered:    filtered,
		TypeStats:   AggregateTypeStats(filtered),
		MonthlyData: AggregateMonthly(filtered, e.params.Location),
		StatusData:  AggregateStatus(filtered),
		DepartData:  AggregateByDepart(filtered, DepartLimit),
		Indices:     ComputeIndices(filtered, e.params),
	}
}
