package pdp

import (
	"fmt"
	"log/slog"

	"janus-hq/janus/pkg/policy"
)

// Snapshot is the read-only view of the policy set the PDP consumes.
// *store.Store satisfies it.
type Snapshot interface {
	// List returns the active policies in deterministic order.
	List() []*policy.Policy
}

// PDP is the policy decision point. It holds no evaluation state;
// every call reads one snapshot from the store and resolves it
// independently, so any number of evaluations may run in parallel.
type PDP struct {
	store  Snapshot
	logger *slog.Logger
}

// Option configures a PDP.
type Option func(*PDP)

// WithLogger sets the logger used for evaluation debug lines.
func WithLogger(logger *slog.Logger) Option {
	return func(p *PDP) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a policy decision point backed by the given store.
func New(store Snapshot, opts ...Option) *PDP {
	p := &PDP{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "pdp")
	return p
}

// Evaluation is the full output of one evaluation: the per-policy trace
// and the final decision (which also carries the trace).
type Evaluation struct {
	Trace []policy.MatchTrace `json:"trace"`
	Final policy.Decision     `json:"final"`
}

// EvaluateAll checks every policy in the current snapshot against req,
// recording a trace entry per policy in store enumeration order, then
// resolves the applicable subset to one final decision.
func (p *PDP) EvaluateAll(req policy.RequestContext) Evaluation {
	req = req.Normalize()

	snapshot := p.store.List()
	trace := make([]policy.MatchTrace, 0, len(snapshot))
	var applicable []*policy.Policy

	for _, pol := range snapshot {
		ok := Applicable(pol, req)
		trace = append(trace, policy.MatchTrace{
			PolicyID:   pol.ID,
			Level:      pol.Level,
			Priority:   pol.Priority,
			Effect:     pol.Effect,
			Applicable: ok,
		})
		if ok {
			applicable = append(applicable, pol)
		}
	}

	final := resolve(applicable)
	final.Trace = trace

	p.logger.Debug("request evaluated",
		"subject", req.Subject,
		"action", req.Action,
		"resource", req.Resource,
		"policies", len(snapshot),
		"applicable", len(applicable),
		"effect", final.Effect,
		"matched_policy", final.MatchedPolicy,
	)

	return Evaluation{Trace: trace, Final: final}
}

// Evaluate returns only the final decision from EvaluateAll.
func (p *PDP) Evaluate(req policy.RequestContext) policy.Decision {
	return p.EvaluateAll(req).Final
}

// resolve selects exactly one winner from the applicable policies, or
// default-deny when there is none.
func resolve(applicable []*policy.Policy) policy.Decision {
	if len(applicable) == 0 {
		return policy.DefaultDeny()
	}

	winner := applicable[0]
	for _, candidate := range applicable[1:] {
		if beats(candidate, winner) {
			winner = candidate
		}
	}

	return policy.Decision{
		Effect:        winner.Effect,
		Allow:         winner.Effect == policy.EffectAllow,
		MatchedPolicy: winner.ID,
		Reason:        reasonFor(winner),
	}
}

// beats reports whether a takes precedence over b: lower level rank,
// then lower priority, then more conservative effect, then ascending id
// so identical policies resolve the same way on every run.
func beats(a, b *policy.Policy) bool {
	if a.Level.Rank() != b.Level.Rank() {
		return a.Level.Rank() < b.Level.Rank()
	}
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.Effect.Rank() != b.Effect.Rank() {
		return a.Effect.Rank() < b.Effect.Rank()
	}
	return a.ID < b.ID
}

// reasonFor phrases the winning policy's verdict for audit output.
func reasonFor(p *policy.Policy) string {
	switch p.Effect {
	case policy.EffectDeny:
		return fmt.Sprintf("deny by policy %s", p.ID)
	case policy.EffectRequireApproval:
		return fmt.Sprintf("approval required by policy %s", p.ID)
	default:
		return fmt.Sprintf("allowed by policy %s", p.ID)
	}
}
