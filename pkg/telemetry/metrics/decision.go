// Package metrics exposes Prometheus metrics for the decision service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"janus-hq/janus/pkg/config"
	"janus-hq/janus/pkg/policy"
)

// DecisionMetrics tracks policy evaluation outcomes.
//
// Metrics:
//   - janus_pdp_evaluations_total: evaluations by final effect
//   - janus_pdp_evaluation_duration_seconds: evaluation latency
//   - janus_pdp_policy_matches_total: wins per policy id and effect
//   - janus_pdp_default_denies_total: evaluations resolved by fallback
type DecisionMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	policyMatchesTotal *prometheus.CounterVec
	defaultDeniesTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewDecisionMetrics creates and registers decision metrics on a fresh
// registry.
func NewDecisionMetrics(cfg config.MetricsConfig) *DecisionMetrics {
	m := &DecisionMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of policy evaluations by final effect",
			},
			[]string{"effect"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of a full policy evaluation in seconds",
				// Evaluation is pure CPU over the policy set; expected
				// range is microseconds.
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
		),

		policyMatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_matches_total",
				Help:      "Total number of decisions won per policy",
			},
			[]string{"policy_id", "effect"},
		),

		defaultDeniesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "default_denies_total",
				Help:      "Total number of evaluations resolved by the default-deny fallback",
			},
		),

		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.evaluationsTotal,
		m.evaluationDuration,
		m.policyMatchesTotal,
		m.defaultDeniesTotal,
	)

	return m
}

// RecordEvaluation records one completed evaluation.
func (m *DecisionMetrics) RecordEvaluation(d policy.Decision, duration time.Duration) {
	m.evaluationsTotal.WithLabelValues(string(d.Effect)).Inc()
	m.evaluationDuration.Observe(duration.Seconds())

	if d.MatchedPolicy == "" {
		m.defaultDeniesTotal.Inc()
		return
	}
	m.policyMatchesTotal.WithLabelValues(d.MatchedPolicy, string(d.Effect)).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *DecisionMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *DecisionMetrics) Registry() *prometheus.Registry {
	return m.registry
}
