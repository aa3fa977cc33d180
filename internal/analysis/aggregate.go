package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/stats"
)

// Period selects the temporal bucketing granularity.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// unknownKey is the cleaning job's sentinel for a missing group value.
// Records carrying it are excluded from the aggregation the key belongs to,
// matching the dashboard's behavior, but stay eligible for every other axis.
const unknownKey = "Unknown"

// topCountryLimit caps the regions bar chart at the ten most active countries.
const topCountryLimit = 10

// Bucket is one group of an aggregation: its key and how many working-set
// events fall into it.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CountryStats is the per-country detail aggregation.
type CountryStats struct {
	Country      string  `json:"country"`
	Count        int     `json:"count"`
	AvgMagnitude float64 `json:"avg_magnitude"`
	AvgDepth     float64 `json:"avg_depth"`
	TsunamiRate  float64 `json:"tsunami_rate"` // percentage of events with an observed tsunami
}

// dayKeyLayout is the calendar-date bucket key format for day and week
// periods; it parses back to a timestamp for chronological sorting.
const dayKeyLayout = "2006-01-02"

// CountByPeriod buckets the working set by calendar period. Events without a
// usable timestamp are excluded. Day and week buckets sort chronologically;
// month and year keys are composite strings and sort lexicographically, the
// order the time-series axis renders them in.
func CountByPeriod(events []domain.Event, period Period) []Bucket {
	counts := countBy(events, func(e domain.Event) string {
		if !e.HasTime() {
			return ""
		}
		return periodKey(e.Time, period)
	})

	if period == PeriodDay || period == PeriodWeek {
		sort.Slice(counts, func(i, j int) bool {
			ti, _ := time.Parse(dayKeyLayout, counts[i].Key)
			tj, _ := time.Parse(dayKeyLayout, counts[j].Key)
			return ti.Before(tj)
		})
		return counts
	}

	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Key < counts[j].Key
	})
	return counts
}

func periodKey(t time.Time, period Period) string {
	switch period {
	case PeriodWeek:
		// Sunday-start weeks: back the date up to the preceding Sunday.
		start := t.AddDate(0, 0, -int(t.Weekday()))
		return start.Format(dayKeyLayout)
	case PeriodMonth:
		return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
	case PeriodYear:
		return strconv.Itoa(t.Year())
	default:
		return t.Format(dayKeyLayout)
	}
}

// CountByCategory groups the working set by magnitude category, sorted by
// descending count.
func CountByCategory(events []domain.Event) []Bucket {
	return sortByCountDesc(countBy(events, func(e domain.Event) string {
		return e.MagnitudeCategory
	}))
}

// CountByMagnitudeType groups the working set by the measurement type that
// produced the magnitude (mb, ml, mww, ...), sorted by descending count.
func CountByMagnitudeType(events []domain.Event) []Bucket {
	return sortByCountDesc(countBy(events, func(e domain.Event) string {
		return e.MagnitudeType
	}))
}

// CountByCountry groups the working set by country, sorted by descending
// count and truncated to the top ten.
func CountByCountry(events []domain.Event) []Bucket {
	buckets := sortByCountDesc(countBy(events, func(e domain.Event) string {
		return e.Country
	}))
	if len(buckets) > topCountryLimit {
		buckets = buckets[:topCountryLimit]
	}
	return buckets
}

// CountByTsunami groups the working set by the tsunami flag as Yes/No labels.
// Events with an absent flag are excluded.
func CountByTsunami(events []domain.Event) []Bucket {
	return sortByCountDesc(countBy(events, func(e domain.Event) string {
		if e.Tsunami == nil {
			return ""
		}
		if *e.Tsunami == 1 {
			return "Yes"
		}
		return "No"
	}))
}

// CountryDetails computes per-country summary statistics over the working
// set, sorted by descending count. Averages are taken over the records with a
// valid value for that measurement only; the tsunami rate is the percentage
// of the country's events with an observed tsunami.
func CountryDetails(events []domain.Event) []CountryStats {
	type accum struct {
		count      int
		magnitudes []float64
		depths     []float64
		tsunamis   int
	}

	groups := make(map[string]*accum)
	order := make([]string, 0)

	for _, e := range events {
		if e.Country == "" || e.Country == unknownKey {
			continue
		}
		g, ok := groups[e.Country]
		if !ok {
			g = &accum{}
			groups[e.Country] = g
			order = append(order, e.Country)
		}
		g.count++
		g.magnitudes = append(g.magnitudes, e.Magnitude)
		g.depths = append(g.depths, e.Depth)
		if e.Tsunami != nil && *e.Tsunami == 1 {
			g.tsunamis++
		}
	}

	details := make([]CountryStats, 0, len(order))
	for _, country := range order {
		g := groups[country]
		details = append(details, CountryStats{
			Country:      country,
			Count:        g.count,
			AvgMagnitude: stats.Mean(g.magnitudes),
			AvgDepth:     stats.Mean(g.depths),
			TsunamiRate:  float64(g.tsunamis) / float64(g.count) * 100,
		})
	}

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Count > details[j].Count
	})
	return details
}

// countBy partitions events by the extracted key. Events whose key is empty
// or the Unknown sentinel are excluded from this aggregation. An empty
// eligible set yields an empty result, never a single zero bucket.
func countBy(events []domain.Event, keyFn func(domain.Event) string) []Bucket {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, e := range events {
		key := keyFn(e)
		if key == "" || key == unknownKey {
			continue
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	buckets := make([]Bucket, 0, len(order))
	for _, key := range order {
		buckets = append(buckets, Bucket{Key: key, Count: counts[key]})
	}
	return buckets
}

func sortByCountDesc(buckets []Bucket) []Bucket {
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	return buckets
}
