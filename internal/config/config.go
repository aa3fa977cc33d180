package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataURL      string
	FetchTimeout time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DefaultPageSize int
	MaxPageSize     int

	// Remote risk classifier configuration.
	ClassifierURL       string
	ClassifierEnabled   bool
	ClassifierTimeout   time.Duration
	ClassifierCacheSize int

	// Optional live record feed.
	KafkaIngestEnabled bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaGroupID       string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	classifierTimeout, err := parseDuration("CLASSIFIER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	defaultPageSize, err := parsePositiveInt("DEFAULT_PAGE_SIZE", 50)
	if err != nil {
		return nil, err
	}

	maxPageSize, err := parsePositiveInt("MAX_PAGE_SIZE", 500)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("CLASSIFIER_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	classifierURL := os.Getenv("CLASSIFIER_URL")
	classifierEnabled := classifierURL != ""
	if v := os.Getenv("CLASSIFIER_ENABLED"); v != "" {
		classifierEnabled = v == "true"
	}

	cfg := &Config{
		DataURL:      os.Getenv("DATA_URL"),
		FetchTimeout: fetchTimeout,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,

		ClassifierURL:       classifierURL,
		ClassifierEnabled:   classifierEnabled,
		ClassifierTimeout:   classifierTimeout,
		ClassifierCacheSize: cacheSize,

		KafkaIngestEnabled: os.Getenv("KAFKA_INGEST_ENABLED") == "true",
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "raw-quake-records"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "quake-analytics"),
	}

	if cfg.DataURL == "" {
		return nil, errors.New("DATA_URL is required")
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		return nil, errors.New("DEFAULT_PAGE_SIZE must not exceed MAX_PAGE_SIZE")
	}
	if cfg.ClassifierEnabled && cfg.ClassifierURL == "" {
		return nil, errors.New("CLASSIFIER_ENABLED is true but CLASSIFIER_URL is not set")
	}
	if cfg.KafkaIngestEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_INGEST_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_INGEST_ENABLED is true but KAFKA_SOURCE_TOPIC is empty")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func parseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
