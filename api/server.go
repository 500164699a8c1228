// Package api - thin HTTP layer over the metric evaluator.
// The server is only responsible for input ingestion, evaluator
// orchestration and output serialization.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"costwatch/core/catalog"
	"costwatch/core/metric"
	"costwatch/core/types"
	"costwatch/internal/errors"
	"costwatch/internal/logging"
	"costwatch/internal/telemetry"
)

// Server is the evaluation API server
type Server struct {
	mux       *http.ServeMux
	evaluator *metric.Evaluator
	catalog   *catalog.Catalog
	metrics   *telemetry.Metrics
	version   string
}

// NewServer creates the API server. metrics may be nil to disable the
// /metrics endpoint.
func NewServer(version string, evaluator *metric.Evaluator, cat *catalog.Catalog, metrics *telemetry.Metrics) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		evaluator: evaluator,
		catalog:   cat,
		metrics:   metrics,
		version:   version,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /evaluate", s.handleEvaluate)
	s.mux.HandleFunc("POST /series", s.handleSeries)
	s.mux.HandleFunc("GET /catalog", s.handleCatalog)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleEvaluate handles POST /evaluate
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	start := time.Now()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, errors.Input("invalid JSON body"))
		return
	}

	evalReq := metric.EvalRequest{
		TenantID: req.TenantID,
		Metric:   req.Metric,
		TagID:    req.TagID,
	}
	if req.Now != nil {
		evalReq.Now = *req.Now
	}

	res, err := s.evaluator.Evaluate(r.Context(), evalReq)
	elapsed := time.Since(start)
	if err != nil {
		s.observe(req.Metric, "", outcomeForError(err), elapsed)
		s.writeError(w, requestID, err)
		return
	}

	outcome := telemetry.OutcomeOK
	if !res.Value.Valid {
		outcome = telemetry.OutcomeNull
	}
	s.observe(req.Metric, string(res.Definition.Provider), outcome, elapsed)

	s.writeJSON(w, http.StatusOK, EvaluateResponse{
		RequestID:   requestID,
		Metric:      res.Definition.Name,
		Value:       res.Value,
		Provider:    res.Definition.Provider,
		Granularity: res.Definition.Granularity,
		Shape:       res.Definition.Shape,
		WindowStart: res.Window.Start,
		WindowEnd:   res.Window.End,
		ElapsedDays: res.Window.ElapsedDays,
		TotalDays:   res.Window.TotalDays,
		DurationMs:  elapsed.Milliseconds(),
	})
}

// handleSeries handles POST /series
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req SeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, errors.Input("invalid JSON body"))
		return
	}

	seriesReq := metric.SeriesRequest{
		TenantID: req.TenantID,
		Metric:   req.Metric,
		Bucket:   req.Granularity,
		TagID:    req.TagID,
	}
	if req.From != nil {
		seriesReq.From = *req.From
	}
	if req.To != nil {
		seriesReq.To = *req.To
	}
	if req.Now != nil {
		seriesReq.Now = *req.Now
	}

	points, err := s.evaluator.Series(r.Context(), seriesReq)
	if err != nil {
		s.writeError(w, requestID, err)
		return
	}

	s.writeJSON(w, http.StatusOK, SeriesResponse{
		RequestID: requestID,
		Metric:    req.Metric,
		Series:    points,
	})
}

// handleCatalog handles GET /catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	providerFilter := r.URL.Query().Get("provider")

	entries := make([]CatalogEntry, 0)
	for _, def := range s.catalog.All() {
		if providerFilter != "" && def.Provider != types.Provider(providerFilter) {
			continue
		}
		entries = append(entries, CatalogEntry{
			Name:          def.Name,
			Provider:      def.Provider,
			Granularity:   def.Granularity,
			Shape:         def.Shape,
			ServiceFilter: def.ServiceFilter,
			BudgetBasis:   def.BudgetBasis,
		})
	}

	s.writeJSON(w, http.StatusOK, CatalogResponse{
		RequestID: requestID,
		Count:     len(entries),
		Metrics:   entries,
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) observe(metricName, provider, outcome string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveEvaluation(metricName, provider, outcome, elapsed)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, requestID string, err error) {
	errType := errors.TypeOf(err)
	logging.Warn("request failed",
		zap.String("request_id", requestID),
		zap.String("code", string(errType)),
		zap.Error(err))

	s.writeJSON(w, statusForType(errType), ErrorResponse{
		RequestID: requestID,
		Code:      string(errType),
		Message:   err.Error(),
	})
}

// statusForType maps the error taxonomy onto HTTP statuses
func statusForType(t errors.Type) int {
	switch t {
	case errors.TypeInput:
		return http.StatusBadRequest
	case errors.TypeUnknownMetric, errors.TypeMissingTenant:
		return http.StatusNotFound
	case errors.TypeRowSource:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func outcomeForError(err error) string {
	switch errors.TypeOf(err) {
	case errors.TypeUnknownMetric:
		return telemetry.OutcomeUnknownMetric
	case errors.TypeMissingTenant:
		return telemetry.OutcomeMissingTenant
	case errors.TypeRowSource:
		return telemetry.OutcomeRowSource
	default:
		return telemetry.OutcomeError
	}
}
