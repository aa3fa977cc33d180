package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order when coercing a timestamp string.
// The legacy layout is the day-first format used by the original CSV export.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02-01-2006 15:04",
	"2006-01-02",
}

// ParseRecord decodes a single raw JSON record and coerces it into a
// canonical Event. It returns an error only when the record cannot be decoded
// at all; individual field coercion failures degrade to the field's absent or
// zero value instead.
func ParseRecord(data []byte) (Event, error) {
	var rec RawRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Event{}, fmt.Errorf("parse raw record: %w", err)
	}

	event := Event{
		Time:          timeOrZero(rec.DateTime),
		Magnitude:     floatOrZero(rec.Magnitude),
		Depth:         floatOrZero(rec.Depth),
		Significance:  floatOrZero(firstPresent(rec.Significance, rec.Sig)),
		Tsunami:       intOrNil(rec.Tsunami),
		Latitude:      floatOrNil(rec.Latitude),
		Longitude:     floatOrNil(rec.Longitude),
		Country:       stringOrEmpty(rec.Country),
		Location:      stringOrEmpty(rec.Location),
		MagnitudeType: stringOrEmpty(rec.MagnitudeType),
	}

	event.MagnitudeCategory = stringOrEmpty(rec.MagnitudeCategory)
	if event.MagnitudeCategory == "" {
		event.MagnitudeCategory = deriveMagnitudeCategory(event.Magnitude)
	}

	return event, nil
}

// NormalizeRecords converts a raw JSON collection into canonical events,
// preserving input order. Records that fail to decode are dropped; the second
// return value reports how many were lost.
func NormalizeRecords(raws []json.RawMessage) ([]Event, int) {
	events := make([]Event, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		event, err := ParseRecord(raw)
		if err != nil {
			dropped++
			continue
		}
		events = append(events, event)
	}
	return events, dropped
}

// firstPresent returns the first non-nil value, resolving producer-variant
// field aliases in one place.
func firstPresent(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// coerceFloat attempts to interpret a raw JSON value as a finite float64.
func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// floatOrZero coerces a value to a finite float64, returning 0 on failure.
// Used for measurement fields where 0 means unmeasured.
func floatOrZero(v any) float64 {
	f, ok := coerceFloat(v)
	if !ok {
		return 0
	}
	return f
}

// floatOrNil coerces a value to a finite float64, returning nil on failure.
// Used for coordinates, where 0 is a valid value and must not be a default.
func floatOrNil(v any) *float64 {
	f, ok := coerceFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// intOrNil coerces a value to an int, returning nil on failure. Preserves the
// tri-state tsunami flag: null stays absent rather than collapsing to 0.
func intOrNil(v any) *int {
	f, ok := coerceFloat(v)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func stringOrEmpty(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// timeOrZero coerces a timestamp value, returning the zero time when the
// value is absent or matches no known layout.
func timeOrZero(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// deriveMagnitudeCategory maps a magnitude to the catalog's category label
// using the cleaning job's bin edges. Returns "" for unmeasured magnitudes or
// values outside the binned range.
func deriveMagnitudeCategory(magnitude float64) string {
	switch {
	case magnitude <= 0 || magnitude > 10:
		return ""
	case magnitude <= 4:
		return "Micro"
	case magnitude <= 4.5:
		return "Minor"
	case magnitude <= 5:
		return "Light"
	case magnitude <= 5.5:
		return "Moderate"
	case magnitude <= 6:
		return "Strong"
	case magnitude <= 6.5:
		return "Major"
	case magnitude <= 7:
		return "Great"
	case magnitude <= 7.5:
		return "Severe"
	case magnitude <= 8:
		return "Catastrophic"
	default:
		return "Mega"
	}
}
