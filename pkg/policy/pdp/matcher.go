package pdp

import (
	"encoding/json"
	"reflect"
	"strings"

	"janus-hq/janus/pkg/policy"
)

// Condition key suffixes recognized by the matcher. The base field name
// (key minus suffix) names the numeric attribute being compared.
const (
	condSuffixMin = "_min"
	condSuffixMax = "_max"
)

// MatchPattern reports whether value matches pattern: "*" matches any
// value, a pattern ending in "*" matches any value sharing its prefix,
// anything else matches exactly.
func MatchPattern(pattern, value string) bool {
	if pattern == policy.DefaultPattern {
		return true
	}
	if pattern == value {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(value, pattern[:len(pattern)-1])
	}
	return false
}

// MatchConditions reports whether every condition in match is satisfied
// by attrs (AND-combined; an empty map is vacuously satisfied). A
// condition referencing a missing attribute fails, and an attribute
// whose type is incompatible with the operator fails rather than
// raising: a request lacking information cannot satisfy a conditional
// rule.
func MatchConditions(match map[string]any, attrs map[string]any) bool {
	for key, threshold := range match {
		if !conditionSatisfied(key, threshold, attrs) {
			return false
		}
	}
	return true
}

// Applicable reports whether p governs req: subject, action and
// resource patterns must all match and every declared condition must
// hold.
func Applicable(p *policy.Policy, req policy.RequestContext) bool {
	if !MatchPattern(p.Action, req.Action) {
		return false
	}
	if !MatchPattern(p.Subject, req.Subject) {
		return false
	}
	if !MatchPattern(p.Resource, req.Resource) {
		return false
	}
	return MatchConditions(p.Match, req.Attributes)
}

// conditionSatisfied evaluates a single condition key against the
// request attributes.
func conditionSatisfied(key string, threshold any, attrs map[string]any) bool {
	switch {
	case strings.HasSuffix(key, condSuffixMin):
		field := strings.TrimSuffix(key, condSuffixMin)
		actual, ok := numericAttr(attrs, field)
		want, wok := toFloat(threshold)
		return ok && wok && actual >= want

	case strings.HasSuffix(key, condSuffixMax):
		field := strings.TrimSuffix(key, condSuffixMax)
		actual, ok := numericAttr(attrs, field)
		want, wok := toFloat(threshold)
		return ok && wok && actual <= want

	default:
		actual, ok := attrs[key]
		if !ok {
			return false
		}
		return valueEqual(actual, threshold)
	}
}

// numericAttr fetches a numeric attribute by base field name.
func numericAttr(attrs map[string]any, field string) (float64, bool) {
	v, ok := attrs[field]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// toFloat coerces the numeric types produced by YAML and JSON decoding
// to float64. Non-numeric values report false.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// valueEqual compares an attribute against an equality threshold by
// value. Numbers compare numerically regardless of concrete type (an
// int 5 equals a float64 5); everything else compares with DeepEqual so
// malformed attributes never panic the evaluator.
func valueEqual(actual, want any) bool {
	if af, ok := toFloat(actual); ok {
		wf, wok := toFloat(want)
		return wok && af == wf
	}
	if _, ok := toFloat(want); ok {
		return false
	}
	return reflect.DeepEqual(actual, want)
}
