package analysis

import (
	"math"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// CategoryAll is the wildcard category that matches every event.
const CategoryAll = "All"

// Criteria is the full filter state of the dashboard. Zero bounds are real
// bounds, not wildcards; use DefaultCriteria for the open-range starting
// state.
type Criteria struct {
	MinMagnitude float64    `json:"min_magnitude"`
	MaxMagnitude float64    `json:"max_magnitude"`
	MinDepth     float64    `json:"min_depth"`
	MaxDepth     float64    `json:"max_depth"`
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
	Category     string     `json:"category"`
}

// DefaultCriteria returns the open-range criteria the dashboard starts with:
// magnitude 0–10, any depth, any date, any category.
func DefaultCriteria() Criteria {
	return Criteria{
		MinMagnitude: 0,
		MaxMagnitude: 10,
		MinDepth:     0,
		MaxDepth:     math.MaxFloat64,
		Category:     CategoryAll,
	}
}

// Filter applies the criteria to the canonical collection and returns the
// active working set: a fresh slice preserving input order. Predicates are
// evaluated magnitude, depth, date, category, and all must pass.
//
// Filtering is idempotent and never mutates its input; every call derives a
// new slice from the collection it is given.
func Filter(events []domain.Event, c Criteria) []domain.Event {
	matched := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if !matchesMagnitude(e, c) {
			continue
		}
		if !matchesDepth(e, c) {
			continue
		}
		if !matchesDate(e, c) {
			continue
		}
		if !matchesCategory(e, c) {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}

// matchesMagnitude treats a non-finite magnitude as a non-match regardless of
// the configured bounds. The normalizer guarantees finiteness, but the filter
// does not rely on it.
func matchesMagnitude(e domain.Event, c Criteria) bool {
	if math.IsNaN(e.Magnitude) {
		return false
	}
	return e.Magnitude >= c.MinMagnitude && e.Magnitude <= c.MaxMagnitude
}

func matchesDepth(e domain.Event, c Criteria) bool {
	if math.IsNaN(e.Depth) {
		return false
	}
	return e.Depth >= c.MinDepth && e.Depth <= c.MaxDepth
}

// matchesDate implements inclusive-of-day end bounds: an end date admits
// every event strictly before the start of the following day. Events without
// a usable timestamp are excluded whenever any bound is set.
func matchesDate(e domain.Event, c Criteria) bool {
	if c.Start == nil && c.End == nil {
		return true
	}
	if !e.HasTime() {
		return false
	}
	if c.Start != nil && e.Time.Before(*c.Start) {
		return false
	}
	if c.End != nil {
		endExclusive := c.End.AddDate(0, 0, 1)
		if !e.Time.Before(endExclusive) {
			return false
		}
	}
	return true
}

func matchesCategory(e domain.Event, c Criteria) bool {
	if c.Category == "" || c.Category == CategoryAll {
		return true
	}
	return e.MagnitudeCategory == c.Category
}
