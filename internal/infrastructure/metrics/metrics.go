// Package metrics exposes Prometheus collectors for the comparison pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the comparison pipeline.
// All methods are safe to call on a nil receiver.
type Metrics struct {
	Registry             *prometheus.Registry
	StageDuration        *prometheus.HistogramVec
	CollaboratorFailures *prometheus.CounterVec
	ComparisonsTotal     prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopsense_stage_duration_seconds",
			Help:    "Elapsed time of each comparison pipeline stage.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsense_collaborator_failures_total",
			Help: "External collaborator failures replaced by a fallback value.",
		},
		[]string{"collaborator"},
	)
	comparisons := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopsense_comparisons_total",
			Help: "Total keyword comparisons completed.",
		},
	)

	registry.MustRegister(stageDuration, failures, comparisons)

	return &Metrics{
		Registry:             registry,
		StageDuration:        stageDuration,
		CollaboratorFailures: failures,
		ComparisonsTotal:     comparisons,
	}
}

// ObserveStage records a stage duration. The "total" stage also counts a
// completed comparison.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if stage == "total" {
		m.ComparisonsTotal.Inc()
	}
}

// IncFailure increments the failure counter for a collaborator label.
func (m *Metrics) IncFailure(collaborator string) {
	if m == nil {
		return
	}
	m.CollaboratorFailures.WithLabelValues(collaborator).Inc()
}
