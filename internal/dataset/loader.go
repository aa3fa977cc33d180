package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/observability"
)

// Fetcher retrieves the raw record collection from its source.
type Fetcher interface {
	FetchRecords(ctx context.Context) ([]json.RawMessage, error)
}

// Load fetches the raw collection, normalizes it, and installs the result in
// the store. A fetch failure or an empty post-normalization collection is
// fatal: partial dashboards are worse than an explicit error state, so the
// store is left untouched in both cases.
func Load(ctx context.Context, fetcher Fetcher, store *Store, logger *slog.Logger, metrics *observability.Metrics) error {
	start := time.Now()

	raws, err := fetcher.FetchRecords(ctx)
	if err != nil {
		return fmt.Errorf("fetch records: %w", err)
	}
	metrics.RecordsFetched.Add(float64(len(raws)))

	events, dropped := domain.NormalizeRecords(raws)
	if dropped > 0 {
		logger.Warn("dropped malformed records during normalization",
			"dropped", dropped, "fetched", len(raws))
		metrics.NormalizeErrors.Add(float64(dropped))
	}

	if len(events) == 0 {
		return fmt.Errorf("no usable records after normalization (fetched %d)", len(raws))
	}

	store.Replace(events, time.Now().UTC())
	metrics.DatasetSize.Set(float64(len(events)))
	metrics.DatasetLoads.Inc()

	logger.Info("dataset loaded",
		"events", len(events),
		"dropped", dropped,
		"duration", time.Since(start),
	)
	return nil
}
