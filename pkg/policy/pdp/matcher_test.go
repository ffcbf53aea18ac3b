package pdp

import (
	"testing"

	"janus-hq/janus/pkg/policy"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
		want    bool
	}{
		{name: "star matches anything", pattern: "*", value: "finance-agent-1", want: true},
		{name: "star matches empty", pattern: "*", value: "", want: true},
		{name: "exact match", pattern: "data.export", value: "data.export", want: true},
		{name: "exact mismatch", pattern: "data.export", value: "data.import", want: false},
		{name: "prefix match", pattern: "finance-*", value: "finance-agent-1", want: true},
		{name: "prefix match manager", pattern: "finance-*", value: "finance-manager-1", want: true},
		{name: "prefix mismatch", pattern: "finance-*", value: "payment-agent-1", want: false},
		{name: "prefix matches bare prefix", pattern: "finance-*", value: "finance-", want: true},
		{name: "empty value fails non-star", pattern: "finance-*", value: "", want: false},
		{name: "dotted action prefix", pattern: "payment.*", value: "payment.execute", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchPattern(tt.pattern, tt.value); got != tt.want {
				t.Errorf("MatchPattern(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.want)
			}
		})
	}
}

func TestMatchConditions(t *testing.T) {
	tests := []struct {
		name  string
		match map[string]any
		attrs map[string]any
		want  bool
	}{
		{
			name:  "empty match is vacuously satisfied",
			match: map[string]any{},
			attrs: nil,
			want:  true,
		},
		{
			name:  "min satisfied at boundary",
			match: map[string]any{"amount_min": 1000},
			attrs: map[string]any{"amount": 1000},
			want:  true,
		},
		{
			name:  "min unsatisfied below boundary",
			match: map[string]any{"amount_min": 1000},
			attrs: map[string]any{"amount": 999},
			want:  false,
		},
		{
			name:  "max satisfied at boundary",
			match: map[string]any{"amount_max": 999},
			attrs: map[string]any{"amount": 999},
			want:  true,
		},
		{
			name:  "max unsatisfied above boundary",
			match: map[string]any{"amount_max": 999},
			attrs: map[string]any{"amount": 1000},
			want:  false,
		},
		{
			name:  "mixed int and float compare numerically",
			match: map[string]any{"amount_max": 999.5},
			attrs: map[string]any{"amount": 999},
			want:  true,
		},
		{
			name:  "equality on string",
			match: map[string]any{"data_classification": "pii"},
			attrs: map[string]any{"data_classification": "pii"},
			want:  true,
		},
		{
			name:  "equality mismatch",
			match: map[string]any{"data_classification": "pii"},
			attrs: map[string]any{"data_classification": "public"},
			want:  false,
		},
		{
			name:  "numeric equality across types",
			match: map[string]any{"retries": 3},
			attrs: map[string]any{"retries": float64(3)},
			want:  true,
		},
		{
			name:  "missing attribute fails",
			match: map[string]any{"amount_max": 999},
			attrs: map[string]any{},
			want:  false,
		},
		{
			name:  "missing equality attribute fails",
			match: map[string]any{"data_classification": "pii"},
			attrs: map[string]any{},
			want:  false,
		},
		{
			name:  "non-numeric value against min fails closed",
			match: map[string]any{"amount_min": 100},
			attrs: map[string]any{"amount": "a lot"},
			want:  false,
		},
		{
			name:  "non-numeric threshold fails closed",
			match: map[string]any{"amount_max": "high"},
			attrs: map[string]any{"amount": 50},
			want:  false,
		},
		{
			name:  "number never equals string",
			match: map[string]any{"amount": 100},
			attrs: map[string]any{"amount": "100"},
			want:  false,
		},
		{
			name:  "all conditions AND-combined",
			match: map[string]any{"amount_max": 1000, "data_classification": "internal"},
			attrs: map[string]any{"amount": 500, "data_classification": "internal"},
			want:  true,
		},
		{
			name:  "one failing condition fails the set",
			match: map[string]any{"amount_max": 1000, "data_classification": "internal"},
			attrs: map[string]any{"amount": 500, "data_classification": "pii"},
			want:  false,
		},
		{
			name:  "bool equality",
			match: map[string]any{"dry_run": true},
			attrs: map[string]any{"dry_run": true},
			want:  true,
		},
		{
			name:  "uncomparable attribute fails without panicking",
			match: map[string]any{"tags": "x"},
			attrs: map[string]any{"tags": []string{"x"}},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchConditions(tt.match, tt.attrs); got != tt.want {
				t.Errorf("MatchConditions(%v, %v) = %v, want %v", tt.match, tt.attrs, got, tt.want)
			}
		})
	}
}

func TestApplicable(t *testing.T) {
	p := &policy.Policy{
		ID:       "export-guard",
		Level:    policy.LevelEnterprise,
		Subject:  "finance-*",
		Action:   "data.export",
		Resource: "external",
		Effect:   policy.EffectDeny,
		Match:    map[string]any{"data_classification": "pii"},
		Priority: 1,
	}

	tests := []struct {
		name string
		req  policy.RequestContext
		want bool
	}{
		{
			name: "all dimensions match",
			req: policy.RequestContext{
				Subject:    "finance-agent-1",
				Action:     "data.export",
				Resource:   "external",
				Attributes: map[string]any{"data_classification": "pii"},
			},
			want: true,
		},
		{
			name: "subject outside prefix",
			req: policy.RequestContext{
				Subject:    "payment-agent-1",
				Action:     "data.export",
				Resource:   "external",
				Attributes: map[string]any{"data_classification": "pii"},
			},
			want: false,
		},
		{
			name: "wrong action",
			req: policy.RequestContext{
				Subject:    "finance-agent-1",
				Action:     "data.import",
				Resource:   "external",
				Attributes: map[string]any{"data_classification": "pii"},
			},
			want: false,
		},
		{
			name: "condition unsatisfied",
			req: policy.RequestContext{
				Subject:    "finance-agent-1",
				Action:     "data.export",
				Resource:   "external",
				Attributes: map[string]any{"data_classification": "public"},
			},
			want: false,
		},
		{
			name: "missing subject fails the prefix pattern",
			req: policy.RequestContext{
				Action:     "data.export",
				Resource:   "external",
				Attributes: map[string]any{"data_classification": "pii"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Applicable(p, tt.req.Normalize()); got != tt.want {
				t.Errorf("Applicable() = %v, want %v", got, tt.want)
			}
		})
	}
}
