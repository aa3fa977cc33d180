package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	t.Run("typical catalog record", func(t *testing.T) {
		data := []byte(`{
			"date_time": "2023-02-06 01:17:34",
			"magnitude": 7.8,
			"depth": 10.0,
			"tsunami": 1,
			"significance": 912,
			"latitude": 37.174,
			"longitude": 37.032,
			"country": "Turkey",
			"location": "Pazarcik",
			"magnitude_type": "mww",
			"magnitude_category": "Catastrophic"
		}`)

		event, err := ParseRecord(data)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2023, 2, 6, 1, 17, 34, 0, time.UTC), event.Time)
		assert.Equal(t, 7.8, event.Magnitude)
		assert.Equal(t, 10.0, event.Depth)
		assert.Equal(t, 912.0, event.Significance)
		require.NotNil(t, event.Tsunami)
		assert.Equal(t, 1, *event.Tsunami)
		require.NotNil(t, event.Latitude)
		assert.Equal(t, 37.174, *event.Latitude)
		assert.Equal(t, "Turkey", event.Country)
		assert.Equal(t, "Pazarcik", event.Location)
		assert.Equal(t, "mww", event.MagnitudeType)
		assert.Equal(t, "Catastrophic", event.MagnitudeCategory)
	})

	t.Run("string-typed numerics", func(t *testing.T) {
		data := []byte(`{"magnitude":"6.2","depth":"35.5","significance":"590","tsunami":"0","latitude":"-33.4","longitude":"-70.6"}`)

		event, err := ParseRecord(data)
		require.NoError(t, err)
		assert.Equal(t, 6.2, event.Magnitude)
		assert.Equal(t, 35.5, event.Depth)
		assert.Equal(t, 590.0, event.Significance)
		require.NotNil(t, event.Tsunami)
		assert.Equal(t, 0, *event.Tsunami)
		require.NotNil(t, event.Latitude)
		assert.Equal(t, -33.4, *event.Latitude)
	})

	t.Run("sig alias resolves to significance", func(t *testing.T) {
		event, err := ParseRecord([]byte(`{"sig": 700}`))
		require.NoError(t, err)
		assert.Equal(t, 700.0, event.Significance)
	})

	t.Run("significance wins over alias when both present", func(t *testing.T) {
		event, err := ParseRecord([]byte(`{"significance": 500, "sig": 700}`))
		require.NoError(t, err)
		assert.Equal(t, 500.0, event.Significance)
	})

	t.Run("unparseable measurements default to zero", func(t *testing.T) {
		event, err := ParseRecord([]byte(`{"magnitude":"strong","depth":null,"significance":"??"}`))
		require.NoError(t, err)
		assert.Zero(t, event.Magnitude)
		assert.Zero(t, event.Depth)
		assert.Zero(t, event.Significance)
	})

	t.Run("null tsunami stays absent", func(t *testing.T) {
		event, err := ParseRecord([]byte(`{"tsunami": null}`))
		require.NoError(t, err)
		assert.Nil(t, event.Tsunami)
	})

	t.Run("coordinates are never defaulted to zero", func(t *testing.T) {
		event, err := ParseRecord([]byte(`{"latitude":"not a number"}`))
		require.NoError(t, err)
		assert.Nil(t, event.Latitude)
		assert.Nil(t, event.Longitude)
		assert.False(t, event.HasCoordinates())
	})

	t.Run("zero is a valid coordinate", func(t *testing.T) {
		event, err := ParseRecord([]byte(`{"latitude":0,"longitude":0}`))
		require.NoError(t, err)
		require.True(t, event.HasCoordinates())
		assert.Zero(t, *event.Latitude)
		assert.Zero(t, *event.Longitude)
	})

	t.Run("unparseable timestamp becomes absent", func(t *testing.T) {
		event, err := ParseRecord([]byte(`{"date_time":"whenever"}`))
		require.NoError(t, err)
		assert.False(t, event.HasTime())
	})

	t.Run("legacy day-first timestamp layout", func(t *testing.T) {
		event, err := ParseRecord([]byte(`{"date_time":"06-02-2023 01:17"}`))
		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, 2, 6, 1, 17, 0, 0, time.UTC), event.Time)
	})

	t.Run("missing category derived from magnitude", func(t *testing.T) {
		tests := []struct {
			magnitude float64
			expected  string
		}{
			{3.9, "Micro"},
			{4.2, "Minor"},
			{5.5, "Moderate"},
			{6.8, "Great"},
			{7.8, "Catastrophic"},
			{9.5, "Mega"},
			{0, ""},
		}
		for _, tt := range tests {
			data, err := json.Marshal(map[string]any{"magnitude": tt.magnitude})
			require.NoError(t, err)
			event, err := ParseRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, event.MagnitudeCategory, "magnitude %v", tt.magnitude)
		}
	})

	t.Run("source category preferred over derivation", func(t *testing.T) {
		event, err := ParseRecord([]byte(`{"magnitude":7.8,"magnitude_category":"Severe"}`))
		require.NoError(t, err)
		assert.Equal(t, "Severe", event.MagnitudeCategory)
	})

	t.Run("invalid JSON errors", func(t *testing.T) {
		_, err := ParseRecord([]byte(`{not json`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw record")
	})
}

func TestNormalizeRecords(t *testing.T) {
	t.Run("drops malformed records and preserves order", func(t *testing.T) {
		raws := []json.RawMessage{
			json.RawMessage(`{"magnitude": 5.0, "country": "Japan"}`),
			json.RawMessage(`{broken`),
			json.RawMessage(`{"magnitude": 6.1, "country": "Chile"}`),
		}

		events, dropped := NormalizeRecords(raws)
		assert.Equal(t, 1, dropped)
		require.Len(t, events, 2)
		assert.Equal(t, "Japan", events[0].Country)
		assert.Equal(t, "Chile", events[1].Country)
	})

	t.Run("output never longer than input and always finite", func(t *testing.T) {
		raws := []json.RawMessage{
			json.RawMessage(`{"magnitude":"NaN","depth":"Inf","significance":null}`),
			json.RawMessage(`{}`),
			json.RawMessage(`[1,2,3]`),
		}

		events, dropped := NormalizeRecords(raws)
		assert.LessOrEqual(t, len(events), len(raws))
		assert.Equal(t, len(raws), len(events)+dropped)
		for _, e := range events {
			assert.False(t, math.IsNaN(e.Magnitude) || math.IsInf(e.Magnitude, 0))
			assert.False(t, math.IsNaN(e.Depth) || math.IsInf(e.Depth, 0))
			assert.False(t, math.IsNaN(e.Significance) || math.IsInf(e.Significance, 0))
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		events, dropped := NormalizeRecords(nil)
		assert.Empty(t, events)
		assert.Zero(t, dropped)
	})
}
