package analysis

import (
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }

func tptr(v time.Time) *time.Time { return &v }

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// quake builds a minimal event for filter and aggregation tests.
func quake(magnitude, depth float64) domain.Event {
	return domain.Event{Magnitude: magnitude, Depth: depth}
}

// locatedQuake builds a fully-populated event for anomaly and correlation
// tests.
func locatedQuake(magnitude, depth, significance, lat, lon float64) domain.Event {
	return domain.Event{
		Magnitude:    magnitude,
		Depth:        depth,
		Significance: significance,
		Latitude:     fptr(lat),
		Longitude:    fptr(lon),
	}
}
