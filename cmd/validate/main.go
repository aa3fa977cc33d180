// Command validate performs end-to-end integrity checks over an earthquake
// dataset fixture: it runs the raw collection through the actual domain
// normalizer and verifies canonical invariants, filter behavior, aggregation
// consistency, anomaly scoring policy, and the correlation matrix shape.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw data/mock/quake_records_raw.json \
//	  -events data/mock/quake_events_canonical.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"reflect"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/analysis"
	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawPath := flag.String("raw", "", "path to the raw JSON records fixture")
	eventsPath := flag.String("events", "", "optional path to the canonical events fixture to cross-check")
	flag.Parse()

	if *rawPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawPath, *eventsPath); code != 0 {
		os.Exit(code)
	}
}

func run(rawPath, eventsPath string) int {
	fmt.Println("=== Quake Dataset Integrity Validation ===")
	fmt.Println()

	raws, err := loadJSON[json.RawMessage](rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}

	events, dropped := domain.NormalizeRecords(raws)
	fmt.Printf("Normalized %d raw records into %d events (%d dropped)\n", len(raws), len(events), dropped)

	phases := []*phase{
		validateNormalization(raws, events, dropped),
		validateFiltering(events),
		validateAggregation(events),
		validateAnomalyPolicy(events),
		validateCorrelation(events),
	}

	if eventsPath != "" {
		expected, err := loadJSON[domain.Event](eventsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load canonical fixture: %v\n", err)
			return 1
		}
		phases = append(phases, validateFixtureParity(events, expected))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-46s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Normalization ──
// Every canonical event honors the field conventions: finite measurements,
// paired coordinates, and a category consistent with a derivable magnitude.

func validateNormalization(raws []json.RawMessage, events []domain.Event, dropped int) *phase {
	p := &phase{name: "Phase 1: Normalization invariants"}

	if len(events)+dropped != len(raws) {
		p.errorf("count mismatch: %d events + %d dropped != %d raw", len(events), dropped, len(raws))
	}

	for i := range events {
		e := &events[i]
		for _, m := range []struct {
			name  string
			value float64
		}{
			{"magnitude", e.Magnitude},
			{"depth", e.Depth},
			{"significance", e.Significance},
		} {
			if math.IsNaN(m.value) || math.IsInf(m.value, 0) {
				p.errorf("event %d: %s is not finite", i, m.name)
			}
		}

		if (e.Latitude == nil) != (e.Longitude == nil) {
			p.errorf("event %d: unpaired coordinates", i)
		}
		if e.Tsunami != nil && *e.Tsunami != 0 && *e.Tsunami != 1 {
			p.errorf("event %d: tsunami flag %d outside {0,1}", i, *e.Tsunami)
		}
	}
	return p
}

// ── Phase 2: Filtering ──

func validateFiltering(events []domain.Event) *phase {
	p := &phase{name: "Phase 2: Filter engine"}

	defaultSet := analysis.Filter(events, analysis.DefaultCriteria())
	twice := analysis.Filter(defaultSet, analysis.DefaultCriteria())
	if !reflect.DeepEqual(defaultSet, twice) {
		p.errorf("filtering is not idempotent under default criteria")
	}

	narrow := analysis.DefaultCriteria()
	narrow.MinMagnitude = 4.5
	narrowSet := analysis.Filter(events, narrow)
	if len(narrowSet) > len(defaultSet) {
		p.errorf("narrowing criteria grew the working set: %d > %d", len(narrowSet), len(defaultSet))
	}
	for i := range narrowSet {
		if narrowSet[i].Magnitude < 4.5 {
			p.errorf("working set event %d: magnitude %g below the minimum bound", i, narrowSet[i].Magnitude)
		}
	}

	// Inclusive-of-day end bound: bounding by an event's own calendar date
	// must keep that event.
	for i := range defaultSet {
		if !defaultSet[i].HasTime() {
			continue
		}
		bound := analysis.DefaultCriteria()
		endDay := time.Date(defaultSet[i].Time.Year(), defaultSet[i].Time.Month(), defaultSet[i].Time.Day(), 0, 0, 0, 0, time.UTC)
		bound.Start = &endDay
		bound.End = &endDay
		if len(analysis.Filter([]domain.Event{defaultSet[i]}, bound)) != 1 {
			p.errorf("event %d: excluded by its own calendar date bound %s", i, endDay.Format("2006-01-02"))
		}
		break
	}
	return p
}

// ── Phase 3: Aggregation ──

func validateAggregation(events []domain.Event) *phase {
	p := &phase{name: "Phase 3: Aggregation consistency"}

	eligible := 0
	for i := range events {
		if events[i].Country != "" && events[i].Country != "Unknown" {
			eligible++
		}
	}

	details := analysis.CountryDetails(events)
	total := 0
	for _, d := range details {
		total += d.Count
		if d.Country == "" || d.Country == "Unknown" {
			p.errorf("country details contain excluded key %q", d.Country)
		}
		if d.TsunamiRate < 0 || d.TsunamiRate > 100 {
			p.errorf("country %s: tsunami rate %g outside [0,100]", d.Country, d.TsunamiRate)
		}
	}
	if total != eligible {
		p.errorf("country detail counts sum to %d, expected %d eligible events", total, eligible)
	}

	top := analysis.CountByCountry(events)
	if len(top) > 10 {
		p.errorf("top countries returned %d buckets, limit is 10", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Count > top[i-1].Count {
			p.errorf("top countries not sorted by descending count at index %d", i)
		}
	}

	for _, period := range []analysis.Period{analysis.PeriodDay, analysis.PeriodWeek, analysis.PeriodMonth, analysis.PeriodYear} {
		buckets := analysis.CountByPeriod(events, period)
		sum := 0
		for _, b := range buckets {
			if b.Count <= 0 {
				p.errorf("%s bucket %q has non-positive count %d", period, b.Key, b.Count)
			}
			sum += b.Count
		}
		withTime := 0
		for i := range events {
			if events[i].HasTime() {
				withTime++
			}
		}
		if sum != withTime {
			p.errorf("%s buckets sum to %d, expected %d timestamped events", period, sum, withTime)
		}
	}
	return p
}

// ── Phase 4: Anomaly policy ──

func validateAnomalyPolicy(events []domain.Event) *phase {
	p := &phase{name: "Phase 4: Anomaly scoring policy"}

	scored := analysis.DetectAnomalies(events, analysis.MetricMagnitude, 2)
	if len(scored) != len(events) {
		p.errorf("scoring returned %d records for %d events", len(scored), len(events))
	}
	for i := range scored {
		if scored[i].ZScore < 0 {
			p.errorf("event %d: negative z-score %g", i, scored[i].ZScore)
		}
		if scored[i].IsAnomaly && scored[i].ZScore < 2 {
			p.errorf("event %d: flagged below threshold (z=%g)", i, scored[i].ZScore)
		}
	}

	top := analysis.TopAnomalies(scored)
	for i := 1; i < len(top); i++ {
		if top[i].ZScore > top[i-1].ZScore {
			p.errorf("top anomalies not sorted by descending z-score at index %d", i)
		}
	}

	// Degenerate policy: a constant series flags nothing.
	constant := []domain.Event{{Magnitude: 5}, {Magnitude: 5}, {Magnitude: 5}}
	for i, s := range analysis.DetectAnomalies(constant, analysis.MetricMagnitude, 2) {
		if s.IsAnomaly || s.ZScore != 0 {
			p.errorf("constant series event %d: flagged or scored despite zero stddev", i)
		}
	}
	return p
}

// ── Phase 5: Correlation ──

func validateCorrelation(events []domain.Event) *phase {
	p := &phase{name: "Phase 5: Correlation matrix"}

	for _, method := range []analysis.Method{analysis.MethodPearson, analysis.MethodSpearman} {
		matrix := analysis.Correlate(events, method)
		n := len(analysis.CorrelationParams)
		if len(matrix.Values) != n {
			p.errorf("%s: matrix has %d rows, expected %d", method, len(matrix.Values), n)
			continue
		}
		for i := 0; i < n; i++ {
			if len(matrix.Values[i]) != n {
				p.errorf("%s: row %d has %d columns, expected %d", method, i, len(matrix.Values[i]), n)
				continue
			}
			if matrix.Values[i][i] != 1.0 {
				p.errorf("%s: diagonal (%d,%d) is %g, expected exactly 1", method, i, i, matrix.Values[i][i])
			}
			for j := 0; j < n; j++ {
				v := matrix.Values[i][j]
				if math.IsNaN(v) || v < -1-1e-9 || v > 1+1e-9 {
					p.errorf("%s: coefficient (%d,%d)=%g outside [-1,1]", method, i, j, v)
				}
				if math.Abs(v-matrix.Values[j][i]) > 1e-12 {
					p.errorf("%s: matrix not symmetric at (%d,%d)", method, i, j)
				}
			}
		}
	}
	return p
}

// ── Phase 6: Fixture parity ──
// The canonical fixture on disk matches what the normalizer produces today.

func validateFixtureParity(events, expected []domain.Event) *phase {
	p := &phase{name: "Phase 6: Canonical fixture parity"}

	if len(events) != len(expected) {
		p.errorf("normalizer produced %d events, fixture has %d", len(events), len(expected))
		return p
	}
	for i := range events {
		if !eventsEqual(&events[i], &expected[i]) {
			p.errorf("event %d diverges from fixture", i)
		}
	}
	return p
}

func eventsEqual(a, b *domain.Event) bool {
	return a.Time.Equal(b.Time) &&
		a.Magnitude == b.Magnitude &&
		a.Depth == b.Depth &&
		a.Significance == b.Significance &&
		ptrIntEq(a.Tsunami, b.Tsunami) &&
		ptrFloatEq(a.Latitude, b.Latitude) &&
		ptrFloatEq(a.Longitude, b.Longitude) &&
		a.Country == b.Country &&
		a.Location == b.Location &&
		a.MagnitudeType == b.MagnitudeType &&
		a.MagnitudeCategory == b.MagnitudeCategory
}

// ── Helpers ──

func ptrIntEq(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func ptrFloatEq(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
