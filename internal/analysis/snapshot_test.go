package analysis

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

func testCollection() []domain.Event {
	japan := locatedQuake(5.0, 10, 500, 36.2, 138.2)
	japan.Country = "Japan"
	japan.MagnitudeCategory = "Light"
	japan.MagnitudeType = "mb"
	japan.Tsunami = iptr(0)
	japan.Time = time.Date(2023, time.February, 6, 1, 17, 0, 0, time.UTC)

	chile := locatedQuake(7.5, 600, 900, -33.4, -70.6)
	chile.Country = "Chile"
	chile.MagnitudeCategory = "Severe"
	chile.MagnitudeType = "mww"
	chile.Tsunami = iptr(1)
	chile.Time = time.Date(2023, time.February, 7, 12, 0, 0, 0, time.UTC)

	minor := locatedQuake(3.0, 5, 120, 38.0, 27.0)
	minor.Country = "Japan"
	minor.MagnitudeCategory = "Micro"
	minor.MagnitudeType = "ml"
	minor.Tsunami = iptr(0)
	minor.Time = time.Date(2023, time.February, 8, 6, 30, 0, 0, time.UTC)

	return []domain.Event{japan, chile, minor}
}

func TestCompute(t *testing.T) {
	frozen := time.Date(2023, time.March, 1, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	collection := testCollection()

	t.Run("default params keep the full collection", func(t *testing.T) {
		snap := Compute(collection, DefaultParams())

		assert.Equal(t, frozen, snap.GeneratedAt)
		assert.Equal(t, 3, snap.Summary.Total)
		assert.InDelta(t, (5.0+7.5+3.0)/3, snap.Summary.AvgMagnitude, 1e-9)
		assert.Len(t, snap.WorkingSet, 3)
		assert.Len(t, snap.Frequency, 3)
		assert.Len(t, snap.Anomalies, 3)

		require.Len(t, snap.TopCountries, 2)
		assert.Equal(t, "Japan", snap.TopCountries[0].Key)
		assert.Equal(t, 2, snap.TopCountries[0].Count)

		require.Len(t, snap.Correlation.Values, 5)
		assert.Equal(t, 1.0, snap.Correlation.Values[2][2])
	})

	t.Run("criteria narrow every derived view", func(t *testing.T) {
		p := DefaultParams()
		p.Criteria.MinMagnitude = 4.5

		snap := Compute(collection, p)
		assert.Equal(t, 2, snap.Summary.Total)
		assert.Len(t, snap.WorkingSet, 2)
		assert.Equal(t, 5.0, snap.WorkingSet[0].Magnitude)
		assert.Equal(t, 7.5, snap.WorkingSet[1].Magnitude)

		for _, b := range snap.Categories {
			assert.NotEqual(t, "Micro", b.Key)
		}
	})

	t.Run("collection is not mutated", func(t *testing.T) {
		before := make([]domain.Event, len(collection))
		copy(before, collection)

		p := DefaultParams()
		p.Criteria.MaxMagnitude = 6
		Compute(collection, p)

		assert.Equal(t, before, collection)
	})

	t.Run("empty collection yields empty views", func(t *testing.T) {
		snap := Compute(nil, DefaultParams())
		assert.Zero(t, snap.Summary.Total)
		assert.Empty(t, snap.WorkingSet)
		assert.Empty(t, snap.Frequency)
		assert.Empty(t, snap.TopAnomalies)
		require.Len(t, snap.Correlation.Values, 5)
		assert.Equal(t, 1.0, snap.Correlation.Values[0][0])
	})
}

func TestSummarize(t *testing.T) {
	events := []domain.Event{quake(4, 10), quake(6, 30)}
	got := Summarize(events)
	assert.Equal(t, 2, got.Total)
	assert.InDelta(t, 5.0, got.AvgMagnitude, 1e-9)
	assert.InDelta(t, 20.0, got.AvgDepth, 1e-9)

	assert.Zero(t, Summarize(nil).Total)
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, PeriodDay, p.Period)
	assert.Equal(t, MetricMagnitude, p.AnomalyMetric)
	assert.Equal(t, 2.0, p.AnomalyThreshold)
	assert.Equal(t, MethodPearson, p.CorrelationMethod)
	assert.Equal(t, CategoryAll, p.Criteria.Category)
	assert.Equal(t, 10.0, p.Criteria.MaxMagnitude)
}
