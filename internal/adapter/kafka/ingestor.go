// Package kafka supplements the fetched dataset with a live feed of raw
// event records.
package kafka

import (
	"context"
	"errors"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/quake-analytics-service/internal/config"
	"github.com/couchcryptid/quake-analytics-service/internal/dataset"
	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/observability"
)

// Ingestor consumes raw record messages from the source topic and appends
// the normalized events to the canonical store.
type Ingestor struct {
	reader  *kafkago.Reader
	store   *dataset.Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewIngestor creates a consumer for the configured source topic.
func NewIngestor(cfg *config.Config, store *dataset.Store, logger *slog.Logger, metrics *observability.Metrics) *Ingestor {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaSourceTopic,
		GroupID: cfg.KafkaGroupID,
	})
	return &Ingestor{
		reader:  reader,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Run consumes messages until the context is cancelled. Messages that fail
// to normalize are dropped with a warning; the feed keeps flowing, mirroring
// the normalizer's per-record drop policy.
func (i *Ingestor) Run(ctx context.Context) error {
	i.logger.Info("live ingest started", "topic", i.reader.Config().Topic)
	i.metrics.IngestRunning.Set(1)
	defer i.metrics.IngestRunning.Set(0)

	for {
		msg, err := i.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				i.logger.Info("live ingest stopping")
				return nil
			}
			return err
		}

		event, err := mapMessageToEvent(msg)
		if err != nil {
			i.logger.Warn("dropping malformed feed message",
				"error", err,
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			i.metrics.IngestErrors.Inc()
			continue
		}

		i.store.Append(event)
		i.metrics.IngestRecords.Inc()
		i.metrics.DatasetSize.Set(float64(i.store.Len()))
	}
}

// Close releases the underlying consumer.
func (i *Ingestor) Close() error {
	return i.reader.Close()
}

// mapMessageToEvent normalizes a feed message's value, which carries the same
// raw JSON record shape as the fetched collection.
func mapMessageToEvent(msg kafkago.Message) (domain.Event, error) {
	return domain.ParseRecord(msg.Value)
}
