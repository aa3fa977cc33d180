package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataURL = "http://localhost:5000/api/data"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_URL", testDataURL)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testDataURL, cfg.DataURL)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.DefaultPageSize)
	assert.Equal(t, 500, cfg.MaxPageSize)
	assert.False(t, cfg.ClassifierEnabled)
	assert.Empty(t, cfg.ClassifierURL)
	assert.Equal(t, 5*time.Second, cfg.ClassifierTimeout)
	assert.Equal(t, 1000, cfg.ClassifierCacheSize)
	assert.False(t, cfg.KafkaIngestEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-quake-records", cfg.KafkaSourceTopic)
	assert.Equal(t, "quake-analytics", cfg.KafkaGroupID)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_URL", testDataURL)
	t.Setenv("FETCH_TIMEOUT", "1m")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DEFAULT_PAGE_SIZE", "25")
	t.Setenv("MAX_PAGE_SIZE", "100")
	t.Setenv("CLASSIFIER_URL", "http://classifier:9000/predict")
	t.Setenv("CLASSIFIER_TIMEOUT", "10s")
	t.Setenv("CLASSIFIER_CACHE_SIZE", "200")
	t.Setenv("KAFKA_INGEST_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.FetchTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 25, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.True(t, cfg.ClassifierEnabled)
	assert.Equal(t, "http://classifier:9000/predict", cfg.ClassifierURL)
	assert.Equal(t, 10*time.Second, cfg.ClassifierTimeout)
	assert.Equal(t, 200, cfg.ClassifierCacheSize)
	assert.True(t, cfg.KafkaIngestEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
}

func TestLoad_MissingDataURL(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_URL")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("DATA_URL", testDataURL)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeFetchTimeout(t *testing.T) {
	t.Setenv("DATA_URL", testDataURL)
	t.Setenv("FETCH_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
}

func TestLoad_InvalidPageSize(t *testing.T) {
	t.Setenv("DATA_URL", testDataURL)
	t.Setenv("DEFAULT_PAGE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_PAGE_SIZE")
}

func TestLoad_PageSizeExceedsMax(t *testing.T) {
	t.Setenv("DATA_URL", testDataURL)
	t.Setenv("DEFAULT_PAGE_SIZE", "600")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_PAGE_SIZE")
}

func TestLoad_ClassifierURLImpliesEnabled(t *testing.T) {
	t.Setenv("DATA_URL", testDataURL)
	t.Setenv("CLASSIFIER_URL", "http://classifier:9000/predict")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.ClassifierEnabled)
}

func TestLoad_ClassifierExplicitlyDisabled(t *testing.T) {
	t.Setenv("DATA_URL", testDataURL)
	t.Setenv("CLASSIFIER_URL", "http://classifier:9000/predict")
	t.Setenv("CLASSIFIER_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.ClassifierEnabled)
}

func TestLoad_ClassifierEnabledWithoutURL(t *testing.T) {
	t.Setenv("DATA_URL", testDataURL)
	t.Setenv("CLASSIFIER_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLASSIFIER_URL")
}

func TestLoad_IngestEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("DATA_URL", testDataURL)
	t.Setenv("KAFKA_INGEST_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
