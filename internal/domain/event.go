package domain

import "time"

// RawRecord represents one record of the upstream JSON collection before
// normalization. Fields are deliberately untyped: the merged producer feeds
// disagree on whether numbers are encoded as JSON numbers or strings, and
// optional fields may be null.
type RawRecord struct {
	DateTime          any `json:"date_time"`
	Magnitude         any `json:"magnitude"`
	Depth             any `json:"depth"`
	Tsunami           any `json:"tsunami"`
	Significance      any `json:"significance"`
	Sig               any `json:"sig"` // producer-variant alias for significance
	Latitude          any `json:"latitude"`
	Longitude         any `json:"longitude"`
	Country           any `json:"country"`
	Location          any `json:"location"`
	MagnitudeType     any `json:"magnitude_type"`
	MagnitudeCategory any `json:"magnitude_category"`
}

// Event is the canonical seismic event every downstream component operates on.
//
// Magnitude, Depth, and Significance are always finite; 0 means unmeasured.
// Time is the zero value when the source timestamp was absent or unparseable.
// Tsunami, Latitude, and Longitude are nil when absent.
type Event struct {
	Time              time.Time `json:"date_time,omitzero"`
	Magnitude         float64   `json:"magnitude"`
	Depth             float64   `json:"depth"`
	Significance      float64   `json:"significance"`
	Tsunami           *int      `json:"tsunami"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	Country           string    `json:"country,omitempty"`
	Location          string    `json:"location,omitempty"`
	MagnitudeType     string    `json:"magnitude_type,omitempty"`
	MagnitudeCategory string    `json:"magnitude_category,omitempty"`
}

// HasTime reports whether the event carries a usable timestamp.
func (e Event) HasTime() bool {
	return !e.Time.IsZero()
}

// HasCoordinates reports whether both latitude and longitude are present.
func (e Event) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}
