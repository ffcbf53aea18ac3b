package policy

// RequestContext is the structured description of one request: who
// wants to perform what action on which resource, with which
// attributes. It arrives either from a direct caller or from an
// upstream text-understanding layer; both paths are treated
// identically and extended no special trust.
type RequestContext struct {
	Subject  string `json:"subject"`
	Action   string `json:"action"`
	Resource string `json:"resource,omitempty"`

	// Attributes carries arbitrary scalar facts about the request
	// (amounts, classifications, flags) consulted by policy conditions.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Normalize fills the documented request defaults. A missing resource
// means "any resource"; a missing subject simply fails every
// subject-specific pattern except "*" and falls through to
// default-deny, which is intentional rather than an error path.
func (c RequestContext) Normalize() RequestContext {
	if c.Resource == "" {
		c.Resource = DefaultPattern
	}
	if c.Attributes == nil {
		c.Attributes = map[string]any{}
	}
	return c
}

// MatchTrace records one policy's applicability during a single
// evaluation. The full trace is audit output owned by the caller; the
// engine keeps nothing.
type MatchTrace struct {
	PolicyID   string `json:"policy_id"`
	Level      Level  `json:"level"`
	Priority   int    `json:"priority"`
	Effect     Effect `json:"effect"`
	Applicable bool   `json:"applicable"`
}

// DefaultDenyReason is the reason string on the fallback decision
// returned when no policy applies.
const DefaultDenyReason = "default-deny"

// Decision is the authoritative outcome of one evaluation.
type Decision struct {
	// Effect is the final verdict.
	Effect Effect `json:"effect"`

	// Allow is derived: true iff Effect is EffectAllow. Downstream
	// layers must not execute anything when it is false.
	Allow bool `json:"allow"`

	// MatchedPolicy is the id of the winning policy, empty for the
	// default-deny decision.
	MatchedPolicy string `json:"matched_policy,omitempty"`

	// Reason explains the verdict for audit and reply phrasing.
	Reason string `json:"reason"`

	// Trace holds one entry per policy in store enumeration order,
	// applicable or not.
	Trace []MatchTrace `json:"trace"`
}

// DefaultDeny returns the secure fallback decision for a request no
// policy governs.
func DefaultDeny() Decision {
	return Decision{
		Effect: EffectDeny,
		Allow:  false,
		Reason: DefaultDenyReason,
	}
}
