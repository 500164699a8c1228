// Package telemetry exposes operational metrics for the evaluation
// service.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks metric evaluation outcomes and latency.
//
// Exposed series:
//   - costwatch_evaluations_total: evaluations by metric, provider, outcome
//   - costwatch_evaluation_duration_seconds: evaluation latency
type Metrics struct {
	registry *prometheus.Registry

	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New creates and registers the evaluation metrics
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "costwatch",
				Name:      "evaluations_total",
				Help:      "Metric evaluations by metric name, provider and outcome",
			},
			[]string{"metric", "provider", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "costwatch",
				Name:      "evaluation_duration_seconds",
				Help:      "Metric evaluation latency including the row fetch",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"metric", "provider"},
		),
	}

	registry.MustRegister(m.evaluations, m.duration)
	return m
}

// Evaluation outcomes
const (
	OutcomeOK            = "ok"
	OutcomeNull          = "null"
	OutcomeUnknownMetric = "unknown_metric"
	OutcomeMissingTenant = "missing_tenant"
	OutcomeRowSource     = "row_source_error"
	OutcomeError         = "error"
)

// ObserveEvaluation records one evaluation
func (m *Metrics) ObserveEvaluation(metric, provider, outcome string, elapsed time.Duration) {
	m.evaluations.WithLabelValues(metric, provider, outcome).Inc()
	m.duration.WithLabelValues(metric, provider).Observe(elapsed.Seconds())
}

// Handler serves the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
