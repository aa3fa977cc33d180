package analysis

import (
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/stats"
)

// Params is the complete mutable parameter state of the dashboard: the filter
// criteria plus the per-view analysis knobs.
type Params struct {
	Criteria          Criteria
	Period            Period
	AnomalyMetric     Metric
	AnomalyThreshold  float64
	CorrelationMethod Method
}

// DefaultParams returns the parameter state the dashboard opens with.
func DefaultParams() Params {
	return Params{
		Criteria:          DefaultCriteria(),
		Period:            PeriodDay,
		AnomalyMetric:     MetricMagnitude,
		AnomalyThreshold:  2,
		CorrelationMethod: MethodPearson,
	}
}

// Summary feeds the dashboard's headline cards.
type Summary struct {
	Total        int     `json:"total"`
	AvgMagnitude float64 `json:"avg_magnitude"`
	AvgDepth     float64 `json:"avg_depth"`
}

// Snapshot is the full derived-results bundle one recomputation produces.
// Every view the rendering layer draws is a field here; an empty slice means
// "no data" for that view and never poisons the others.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`

	Summary    Summary        `json:"summary"`
	WorkingSet []domain.Event `json:"working_set"`

	Frequency      []Bucket       `json:"frequency"`
	Categories     []Bucket       `json:"categories"`
	MagnitudeTypes []Bucket       `json:"magnitude_types"`
	TopCountries   []Bucket       `json:"top_countries"`
	Tsunami        []Bucket       `json:"tsunami"`
	CountryDetails []CountryStats `json:"country_details"`

	Anomalies    []ScoredEvent     `json:"anomalies"`
	TopAnomalies []ScoredEvent     `json:"top_anomalies"`
	Correlation  CorrelationMatrix `json:"correlation"`
}

// Compute runs the whole derivation pipeline: filter the canonical collection
// into the working set, then derive every aggregation, the anomaly scores,
// and the correlation matrix from it.
//
// Compute is a pure function of (collection, params) apart from the snapshot
// timestamp. It never mutates the collection, so concurrent callers may share
// one canonical slice; superseding results simply replace prior ones.
func Compute(collection []domain.Event, p Params) Snapshot {
	working := Filter(collection, p.Criteria)

	scored := DetectAnomalies(working, p.AnomalyMetric, p.AnomalyThreshold)

	return Snapshot{
		GeneratedAt: clock.Now().UTC(),

		Summary:    Summarize(working),
		WorkingSet: working,

		Frequency:      CountByPeriod(working, p.Period),
		Categories:     CountByCategory(working),
		MagnitudeTypes: CountByMagnitudeType(working),
		TopCountries:   CountByCountry(working),
		Tsunami:        CountByTsunami(working),
		CountryDetails: CountryDetails(working),

		Anomalies:    scored,
		TopAnomalies: TopAnomalies(scored),
		Correlation:  Correlate(working, p.CorrelationMethod),
	}
}

// Summarize computes the headline statistics over the working set. Averages
// are taken over the events with a finite value for that measurement.
func Summarize(events []domain.Event) Summary {
	magnitudes := make([]float64, 0, len(events))
	depths := make([]float64, 0, len(events))
	for _, e := range events {
		if v, ok := finite(e.Magnitude); ok {
			magnitudes = append(magnitudes, v)
		}
		if v, ok := finite(e.Depth); ok {
			depths = append(depths, v)
		}
	}
	return Summary{
		Total:        len(events),
		AvgMagnitude: stats.Mean(magnitudes),
		AvgDepth:     stats.Mean(depths),
	}
}
