// Command genmock generates deterministic earthquake data fixtures for the
// test suites: a raw JSON collection in the upstream catalog's heterogeneous
// shape, and the canonical collection the normalizer derives from it. It runs
// the actual domain package so the normalized output matches real pipeline
// behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -count 200 \
//	  -raw-out data/mock/quake_records_raw.json \
//	  -events-out data/mock/quake_events_canonical.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// seed fixes the generator so regenerated fixtures are byte-identical.
const seed = 20230206

var baseDate = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

type region struct {
	country  string
	location string
	lat      float64
	lon      float64
}

var regions = []region{
	{"Japan", "Honshu", 36.2, 138.2},
	{"Chile", "Valparaiso", -33.4, -70.6},
	{"Turkey", "Pazarcik", 37.2, 37.0},
	{"Indonesia", "Sumatra", -0.6, 100.1},
	{"United States", "Alaska Peninsula", 56.3, -158.4},
	{"Mexico", "Oaxaca", 16.2, -95.2},
	{"New Zealand", "Kermadec Islands", -29.7, -177.8},
	{"Unknown", "", 0, 0},
}

var magnitudeTypes = []string{"mb", "ml", "mww", "mwr", "md"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	count := flag.Int("count", 200, "number of raw records to generate")
	rawOut := flag.String("raw-out", "", "output path for the raw JSON fixture")
	eventsOut := flag.String("events-out", "", "output path for the canonical events fixture")
	flag.Parse()

	if *rawOut == "" || *eventsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -events-out")
	}

	raws := generate(*count)
	log.Printf("generated %d raw records", len(raws))

	events, dropped := domain.NormalizeRecords(raws)
	log.Printf("normalized: %d events, %d dropped", len(events), dropped)

	if err := writeJSON(*rawOut, raws); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*eventsOut, events); err != nil {
		return fmt.Errorf("writing canonical fixture: %w", err)
	}
	log.Printf("wrote canonical fixture: %s", *eventsOut)

	printStats(events)
	return nil
}

// generate produces raw records exercising the catalog's full shape: numeric
// fields arriving as strings, the sig alias, absent coordinates, absent
// timestamps, and a sprinkling of records too malformed to decode.
func generate(count int) []json.RawMessage {
	rng := rand.New(rand.NewSource(seed))

	raws := make([]json.RawMessage, 0, count)
	for i := 0; i < count; i++ {
		reg := regions[rng.Intn(len(regions))]
		magnitude := 3.0 + rng.Float64()*6.5
		depth := rng.Float64() * 650
		significance := 100 + rng.Float64()*900
		when := baseDate.Add(time.Duration(rng.Intn(365*24)) * time.Hour)

		rec := map[string]any{
			"date_time":      when.Format("2006-01-02 15:04:05"),
			"magnitude":      round1(magnitude),
			"depth":          round1(depth),
			"significance":   float64(int(significance)),
			"tsunami":        rng.Intn(2),
			"latitude":       round1(reg.lat + rng.Float64()*4 - 2),
			"longitude":      round1(reg.lon + rng.Float64()*4 - 2),
			"country":        reg.country,
			"location":       reg.location,
			"magnitude_type": magnitudeTypes[rng.Intn(len(magnitudeTypes))],
		}

		// Every fifth record ships its numerics as strings, as the upstream
		// catalog sometimes does.
		if i%5 == 0 {
			rec["magnitude"] = fmt.Sprintf("%.1f", magnitude)
			rec["depth"] = fmt.Sprintf("%.1f", depth)
		}
		// Every seventh record uses the short significance alias.
		if i%7 == 0 {
			rec["sig"] = rec["significance"]
			delete(rec, "significance")
		}
		// Some records lack coordinates or a timestamp entirely.
		if i%11 == 0 {
			delete(rec, "latitude")
			delete(rec, "longitude")
		}
		if i%13 == 0 {
			delete(rec, "date_time")
		}
		// Tri-state tsunami: occasionally unreported.
		if i%17 == 0 {
			rec["tsunami"] = nil
		}

		data, err := json.Marshal(rec)
		if err != nil {
			log.Fatalf("marshal record: %v", err)
		}
		raws = append(raws, data)
	}

	return raws
}

func round1(v float64) float64 {
	return float64(int(v*10)) / 10
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type keyCount struct {
	key   string
	count int
}

func printStats(events []domain.Event) {
	countryCounts := map[string]int{}
	categoryCounts := map[string]int{}
	var tsunamis, withCoords, withTime int

	for i := range events {
		e := &events[i]
		countryCounts[e.Country]++
		categoryCounts[e.MagnitudeCategory]++
		if e.Tsunami != nil && *e.Tsunami == 1 {
			tsunamis++
		}
		if e.HasCoordinates() {
			withCoords++
		}
		if e.HasTime() {
			withTime++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(events))
	fmt.Printf("With coordinates: %d\n", withCoords)
	fmt.Printf("With timestamp: %d\n", withTime)
	fmt.Printf("Tsunami observed: %d\n", tsunamis)

	printBreakdown("Countries", countryCounts)
	printBreakdown("Categories", categoryCounts)
}

func printBreakdown(label string, counts map[string]int) {
	kc := make([]keyCount, 0, len(counts))
	for k, c := range counts {
		kc = append(kc, keyCount{k, c})
	}
	sort.Slice(kc, func(i, j int) bool { return kc[i].count > kc[j].count })
	fmt.Printf("%s (%d): ", label, len(kc))
	for _, e := range kc {
		key := e.key
		if key == "" {
			key = "<empty>"
		}
		fmt.Printf("%s=%d ", key, e.count)
	}
	fmt.Println()
}
