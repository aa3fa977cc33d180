package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-analytics-service/internal/adapter/classifier"
	httpadapter "github.com/couchcryptid/quake-analytics-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-analytics-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-analytics-service/internal/adapter/quakefeed"
	"github.com/couchcryptid/quake-analytics-service/internal/config"
	"github.com/couchcryptid/quake-analytics-service/internal/dataset"
	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the canonical dataset. A fetch failure or an empty collection is
	// fatal: serving a dashboard with no data behind it helps nobody.
	store := dataset.NewStore()
	fetcher := quakefeed.NewClient(cfg.DataURL, cfg.FetchTimeout, logger)
	if err := dataset.Load(ctx, fetcher, store, logger, metrics); err != nil {
		logger.Error("dataset load failed", "error", err)
		os.Exit(1)
	}

	// Initialize the risk classifier (feature-flagged via CLASSIFIER_URL /
	// CLASSIFIER_ENABLED).
	var predictor domain.Classifier
	if cfg.ClassifierEnabled {
		client := classifier.NewClient(cfg.ClassifierURL, cfg.ClassifierTimeout, logger)
		predictor = classifier.NewCachedClassifier(client, cfg.ClassifierCacheSize, metrics)
		metrics.ClassifierEnabled.Set(1)
		logger.Info("risk classifier enabled", "cache_size", cfg.ClassifierCacheSize, "timeout", cfg.ClassifierTimeout)
	} else {
		logger.Info("risk classifier disabled")
	}

	pagination := httpadapter.Pagination{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, store, predictor, pagination, metrics, logger)

	// Optional live feed keeps the canonical collection growing between
	// restarts of the upstream cleaning job.
	var ingestor *kafkaadapter.Ingestor
	if cfg.KafkaIngestEnabled {
		ingestor = kafkaadapter.NewIngestor(cfg, store, logger, metrics)
		go func() {
			if err := ingestor.Run(ctx); err != nil {
				logger.Error("live ingest error", "error", err)
			}
		}()
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if ingestor != nil {
		if err := ingestor.Close(); err != nil {
			logger.Error("ingestor close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
