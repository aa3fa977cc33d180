// Package http exposes the dashboard API: health and metrics endpoints, the
// paginated raw-data table, the derived-view snapshot, and the prediction
// proxy.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-analytics-service/internal/analysis"
	"github.com/couchcryptid/quake-analytics-service/internal/dataset"
	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/observability"
)

// Pagination bounds the raw-data table endpoint.
type Pagination struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Server exposes the dashboard HTTP endpoints.
type Server struct {
	httpServer *http.Server
	store      *dataset.Store
	classifier domain.Classifier // nil when the prediction endpoint is disabled
	pagination Pagination
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the API server. Pass a nil classifier to disable the
// prediction endpoint; it then answers with the failure envelope instead of
// 404, matching what the form expects.
func NewServer(addr string, store *dataset.Store, classifier domain.Classifier, pagination Pagination, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:      store,
		classifier: classifier,
		pagination: pagination,
		metrics:    metrics,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/data", s.handleData)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/predict", s.handlePredict)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// dataResponse is the paginated raw-table payload.
type dataResponse struct {
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Records []domain.Event `json:"records"`
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	events := s.store.Events()
	if len(events) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "data not available"})
		return
	}

	page, perPage, err := s.parsePagination(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	start := (page - 1) * perPage
	if start > len(events) {
		start = len(events)
	}
	end := start + perPage
	if end > len(events) {
		end = len(events)
	}

	writeJSON(w, http.StatusOK, dataResponse{
		Total:   len(events),
		Page:    page,
		PerPage: perPage,
		Records: events[start:end],
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	events := s.store.Events()
	if len(events) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "data not available"})
		return
	}

	params, err := parseParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	start := time.Now()
	snapshot := analysis.Compute(events, params)

	s.metrics.SnapshotsComputed.Inc()
	s.metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	s.metrics.WorkingSetSize.Observe(float64(len(snapshot.WorkingSet)))

	writeJSON(w, http.StatusOK, snapshot)
}

// predictResponse is the envelope the prediction form consumes. Failures stay
// HTTP 200 with success=false; the form owns the error display.
type predictResponse struct {
	Success    bool   `json:"success"`
	Prediction string `json:"prediction,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if s.classifier == nil {
		writeJSON(w, http.StatusOK, predictResponse{Success: false, Error: "prediction service not configured"})
		return
	}

	var features domain.Features
	if err := json.NewDecoder(r.Body).Decode(&features); err != nil {
		writeJSON(w, http.StatusBadRequest, predictResponse{Success: false, Error: "invalid feature payload"})
		return
	}

	start := time.Now()
	prediction, err := s.classifier.Predict(r.Context(), features)
	s.metrics.PredictDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.PredictRequests.WithLabelValues("error").Inc()
		s.logger.Warn("prediction failed", "error", err)
		writeJSON(w, http.StatusOK, predictResponse{Success: false, Error: err.Error()})
		return
	}

	s.metrics.PredictRequests.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, predictResponse{Success: true, Prediction: prediction.Label})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
