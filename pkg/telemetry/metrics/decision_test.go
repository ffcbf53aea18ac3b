package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"janus-hq/janus/pkg/config"
	"janus-hq/janus/pkg/policy"
)

func testMetricsConfig() config.MetricsConfig {
	return config.MetricsConfig{
		Enabled:   true,
		Namespace: "janus",
		Subsystem: "pdp",
	}
}

func TestRecordEvaluation(t *testing.T) {
	m := NewDecisionMetrics(testMetricsConfig())

	m.RecordEvaluation(policy.Decision{
		Effect:        policy.EffectAllow,
		Allow:         true,
		MatchedPolicy: "small-payments-allow",
		Reason:        "allowed by policy small-payments-allow",
	}, 50*time.Microsecond)
	m.RecordEvaluation(policy.Decision{
		Effect:        policy.EffectDeny,
		MatchedPolicy: "large-payments-deny",
	}, 30*time.Microsecond)
	m.RecordEvaluation(policy.DefaultDeny(), 10*time.Microsecond)

	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("allow")); got != 1 {
		t.Errorf("evaluations_total{effect=allow} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("deny")); got != 2 {
		t.Errorf("evaluations_total{effect=deny} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.policyMatchesTotal.WithLabelValues("small-payments-allow", "allow")); got != 1 {
		t.Errorf("policy_matches_total{small-payments-allow} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.defaultDeniesTotal); got != 1 {
		t.Errorf("default_denies_total = %v, want 1", got)
	}
}

func TestDefaultDenyDoesNotCountAsMatch(t *testing.T) {
	m := NewDecisionMetrics(testMetricsConfig())
	m.RecordEvaluation(policy.DefaultDeny(), time.Microsecond)

	if got := testutil.CollectAndCount(m.policyMatchesTotal); got != 0 {
		t.Errorf("policy_matches_total has %d series, want 0 for a default deny", got)
	}
}

func TestHandler_ServesNamespacedMetrics(t *testing.T) {
	m := NewDecisionMetrics(testMetricsConfig())
	m.RecordEvaluation(policy.Decision{Effect: policy.EffectAllow, Allow: true, MatchedPolicy: "p"}, time.Microsecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{
		"janus_pdp_evaluations_total",
		"janus_pdp_evaluation_duration_seconds",
		"janus_pdp_policy_matches_total",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}

func TestCustomNamespace(t *testing.T) {
	m := NewDecisionMetrics(config.MetricsConfig{Namespace: "acme", Subsystem: "decisions"})
	m.RecordEvaluation(policy.DefaultDeny(), time.Microsecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "acme_decisions_default_denies_total") {
		t.Error("metrics output missing acme_decisions_default_denies_total")
	}
}
