package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analytics service.
type Metrics struct {
	// Dataset lifecycle.
	RecordsFetched  prometheus.Counter
	NormalizeErrors prometheus.Counter
	DatasetLoads    prometheus.Counter
	DatasetSize     prometheus.Gauge

	// Derivation pipeline.
	SnapshotsComputed prometheus.Counter
	SnapshotDuration  prometheus.Histogram
	WorkingSetSize    prometheus.Histogram

	// Live ingest.
	IngestRecords prometheus.Counter
	IngestErrors  prometheus.Counter
	IngestRunning prometheus.Gauge

	// Remote classifier.
	PredictRequests   *prometheus.CounterVec // labels: outcome={success,error}
	PredictCache      *prometheus.CounterVec // labels: result={hit,miss}
	PredictDuration   prometheus.Histogram
	ClassifierEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_api",
			Name:      "records_fetched_total",
			Help:      "Total raw records fetched from the dataset source.",
		}),
		NormalizeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_api",
			Name:      "normalize_errors_total",
			Help:      "Total raw records dropped during normalization.",
		}),
		DatasetLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_api",
			Name:      "dataset_loads_total",
			Help:      "Total successful canonical dataset loads.",
		}),
		DatasetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_api",
			Name:      "dataset_size",
			Help:      "Current size of the canonical event collection.",
		}),
		SnapshotsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_api",
			Name:      "snapshots_computed_total",
			Help:      "Total derived-view snapshot computations.",
		}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_api",
			Name:      "snapshot_duration_seconds",
			Help:      "Duration of a full filter-aggregate-detect-correlate pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		WorkingSetSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_api",
			Name:      "working_set_size",
			Help:      "Number of events passing the filter per snapshot.",
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		IngestRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_api",
			Name:      "ingest_records_total",
			Help:      "Total events appended from the live Kafka feed.",
		}),
		IngestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_api",
			Name:      "ingest_errors_total",
			Help:      "Total live-feed messages that failed to normalize.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_api",
			Name:      "ingest_running",
			Help:      "1 when the live ingest loop is active, 0 otherwise.",
		}),
		PredictRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_api",
			Name:      "predict_requests_total",
			Help:      "Classifier requests by outcome.",
		}, []string{"outcome"}),
		PredictCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_api",
			Name:      "predict_cache_total",
			Help:      "Classifier cache lookups by result.",
		}, []string{"result"}),
		PredictDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_api",
			Name:      "predict_duration_seconds",
			Help:      "Remote classifier request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ClassifierEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_api",
			Name:      "classifier_enabled",
			Help:      "1 when the prediction endpoint is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsFetched,
		m.NormalizeErrors,
		m.DatasetLoads,
		m.DatasetSize,
		m.SnapshotsComputed,
		m.SnapshotDuration,
		m.WorkingSetSize,
		m.IngestRecords,
		m.IngestErrors,
		m.IngestRunning,
		m.PredictRequests,
		m.PredictCache,
		m.PredictDuration,
		m.ClassifierEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsFetched:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_api", Name: "records_fetched_total"}),
		NormalizeErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_api", Name: "normalize_errors_total"}),
		DatasetLoads:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_api", Name: "dataset_loads_total"}),
		DatasetSize:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_api", Name: "dataset_size"}),
		SnapshotsComputed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_api", Name: "snapshots_computed_total"}),
		SnapshotDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_api", Name: "snapshot_duration_seconds"}),
		WorkingSetSize:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_api", Name: "working_set_size"}),
		IngestRecords:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_api", Name: "ingest_records_total"}),
		IngestErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_api", Name: "ingest_errors_total"}),
		IngestRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_api", Name: "ingest_running"}),
		PredictRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_api", Name: "predict_requests_total"}, []string{"outcome"}),
		PredictCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_api", Name: "predict_cache_total"}, []string{"result"}),
		PredictDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_api", Name: "predict_duration_seconds"}),
		ClassifierEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_api", Name: "classifier_enabled"}),
	}
}
