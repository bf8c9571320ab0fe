// Package monitoring provides Prometheus metrics for the generation engine.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	generationRequests *prometheus.CounterVec
	generationFallback prometheus.Counter
	generationDuration *prometheus.HistogramVec
	variationOps       *prometheus.CounterVec
}

// NewMetrics creates and registers the engine metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generationRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cookish_generation_requests_total",
				Help: "Generation requests by backend and outcome",
			},
			[]string{"backend", "outcome"},
		),
		generationFallback: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cookish_generation_fallbacks_total",
				Help: "Generations served by a fallback backend",
			},
		),
		generationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cookish_generation_duration_seconds",
				Help:    "Backend call latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		variationOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cookish_variation_operations_total",
				Help: "Variation engine operations by type and outcome",
			},
			[]string{"operation", "outcome"},
		),
	}

	reg.MustRegister(m.generationRequests, m.generationFallback, m.generationDuration, m.variationOps)
	return m
}

// ObserveGeneration records one backend call.
func (m *Metrics) ObserveGeneration(backend string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.generationRequests.WithLabelValues(backend, outcome).Inc()
	m.generationDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// ObserveFallback records a generation served by a fallback backend.
func (m *Metrics) ObserveFallback() {
	m.generationFallback.Inc()
}

// ObserveVariationOp records one variation engine operation.
func (m *Metrics) ObserveVariationOp(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.variationOps.WithLabelValues(operation, outcome).Inc()
}
