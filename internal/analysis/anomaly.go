package analysis

import (
	"math"
	"sort"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/stats"
)

// Metric names a numeric event field anomaly detection can run over.
type Metric string

const (
	MetricMagnitude    Metric = "magnitude"
	MetricDepth        Metric = "depth"
	MetricSignificance Metric = "significance"
	MetricLatitude     Metric = "latitude"
	MetricLongitude    Metric = "longitude"
)

// ScoredEvent is an event augmented with its anomaly assessment. The original
// fields are carried along untouched so the rendering layer can show them.
type ScoredEvent struct {
	domain.Event
	IsAnomaly bool    `json:"is_anomaly"`
	ZScore    float64 `json:"z_score"`
	Deviation float64 `json:"deviation"`
}

// DetectAnomalies scores every event in the working set against the
// distribution of the selected metric. An event is flagged when its absolute
// deviation from the mean reaches threshold standard deviations.
//
// Degenerate inputs are a policy, not an error: when no event has a usable
// value for the metric, or the population stddev is 0, nothing is flagged and
// every z-score is 0, but deviation from the mean is still reported where the
// metric is present. The full set is returned either way; use TopAnomalies
// for the flagged-only display view.
func DetectAnomalies(events []domain.Event, metric Metric, threshold float64) []ScoredEvent {
	values := make([]float64, 0, len(events))
	for _, e := range events {
		if v, ok := metricValue(e, metric); ok {
			values = append(values, v)
		}
	}

	scored := make([]ScoredEvent, 0, len(events))

	if len(values) == 0 {
		for _, e := range events {
			scored = append(scored, ScoredEvent{Event: e})
		}
		return scored
	}

	mean := stats.Mean(values)
	stdDev := stats.StdDev(values, mean)

	for _, e := range events {
		s := ScoredEvent{Event: e}
		if v, ok := metricValue(e, metric); ok {
			s.Deviation = v - mean
			if stdDev != 0 {
				s.ZScore = math.Abs(s.Deviation) / stdDev
				s.IsAnomaly = s.ZScore >= threshold
			}
		}
		scored = append(scored, s)
	}
	return scored
}

// TopAnomalies derives the display view: flagged events only, in descending
// z-score order. The input slice is not reordered.
func TopAnomalies(scored []ScoredEvent) []ScoredEvent {
	flagged := make([]ScoredEvent, 0)
	for _, s := range scored {
		if s.IsAnomaly {
			flagged = append(flagged, s)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].ZScore > flagged[j].ZScore
	})
	return flagged
}

// AnomalyLabel picks the display label for an event on the anomaly chart
// axis, falling back location → country → formatted timestamp → "N/A".
func AnomalyLabel(e domain.Event) string {
	if e.Location != "" {
		return e.Location
	}
	if e.Country != "" {
		return e.Country
	}
	if e.HasTime() {
		return e.Time.Format("2006-01-02 15:04:05")
	}
	return "N/A"
}

// metricValue extracts the metric's value from an event, reporting whether a
// finite value is present. Coordinate metrics are absent when the event has
// no coordinates; measurement metrics are always present (the normalizer
// keeps them finite).
func metricValue(e domain.Event, metric Metric) (float64, bool) {
	switch metric {
	case MetricMagnitude:
		return finite(e.Magnitude)
	case MetricDepth:
		return finite(e.Depth)
	case MetricSignificance:
		return finite(e.Significance)
	case MetricLatitude:
		if e.Latitude == nil {
			return 0, false
		}
		return finite(*e.Latitude)
	case MetricLongitude:
		if e.Longitude == nil {
			return 0, false
		}
		return finite(*e.Longitude)
	default:
		return 0, false
	}
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
