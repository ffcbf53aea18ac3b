// Package policy defines the data model shared by the policy store and
// the policy decision point: typed policies with enumerated levels and
// effects, the request context evaluated against them, and the decision
// plus per-policy trace produced by an evaluation.
//
// Policies are immutable once built by the store's load step. All
// defaulting (subject/resource patterns, effect, level, priority)
// happens exactly once at load time; nothing downstream ever sees a
// partially-defaulted policy.
package policy
