package policy

import "fmt"

// Level is the precedence tier a policy belongs to. Lower ranks take
// precedence during conflict resolution: an enterprise rule is never
// overridable by a domain or agent rule.
type Level string

const (
	// LevelEnterprise is the organization-wide tier (rank 0, highest).
	LevelEnterprise Level = "enterprise"

	// LevelDomain is the team/domain tier (rank 1).
	LevelDomain Level = "domain"

	// LevelAgent is the service/agent tier (rank 2, lowest).
	LevelAgent Level = "agent"
)

// Rank returns the precedence rank for the level (enterprise=0,
// domain=1, agent=2). Lower rank wins.
func (l Level) Rank() int {
	switch l {
	case LevelEnterprise:
		return 0
	case LevelDomain:
		return 1
	default:
		return 2
	}
}

// Valid reports whether the level is one of the known tiers.
func (l Level) Valid() bool {
	switch l {
	case LevelEnterprise, LevelDomain, LevelAgent:
		return true
	}
	return false
}

// ParseLevel parses a level string from a policy source. An empty
// string yields the default level (agent); an unknown value is an
// error so that typos reject the entry instead of silently demoting it.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelAgent, nil
	}
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

// Effect is the outcome a policy asserts when it applies.
type Effect string

const (
	// EffectAllow permits the requested operation.
	EffectAllow Effect = "allow"

	// EffectDeny refuses the requested operation.
	EffectDeny Effect = "deny"

	// EffectRequireApproval defers the operation to a human decision.
	// It is a terminal verdict for this engine; any approval workflow
	// lives outside it.
	EffectRequireApproval Effect = "require_approval"
)

// Rank returns the conservatism rank used to break ties between
// applicable policies: deny=0 beats require_approval=1 beats allow=2.
func (e Effect) Rank() int {
	switch e {
	case EffectDeny:
		return 0
	case EffectRequireApproval:
		return 1
	default:
		return 2
	}
}

// Valid reports whether the effect is one of the known outcomes.
func (e Effect) Valid() bool {
	switch e {
	case EffectAllow, EffectDeny, EffectRequireApproval:
		return true
	}
	return false
}

// ParseEffect parses an effect string from a policy source. An empty
// string yields the default effect (deny, the safe side); an unknown
// value is an error.
func ParseEffect(s string) (Effect, error) {
	if s == "" {
		return EffectDeny, nil
	}
	e := Effect(s)
	if !e.Valid() {
		return "", fmt.Errorf("unknown effect %q", s)
	}
	return e, nil
}

// Canonical defaults applied by the load step (see the source schema).
const (
	// DefaultPattern matches any subject/resource when the field is
	// absent from a policy entry.
	DefaultPattern = "*"

	// DefaultPriority is the intra-level ordinal assigned when a policy
	// entry carries no explicit priority. Lower numbers win.
	DefaultPriority = 50
)

// Policy is one declarative access rule. Policies are built and
// validated once by the store's load step and never mutated afterward;
// a reload produces an entirely new set.
type Policy struct {
	// ID uniquely identifies the policy across all loaded sources.
	// When two sources declare the same id, the last one loaded wins.
	ID string `json:"id"`

	// Description is free text for operators; it is never evaluated.
	Description string `json:"description,omitempty"`

	// Level is the precedence tier.
	Level Level `json:"level"`

	// Subject, Action and Resource are string patterns: "*" matches
	// anything, a trailing "*" matches by prefix, anything else matches
	// exactly.
	Subject  string `json:"subject"`
	Action   string `json:"action"`
	Resource string `json:"resource"`

	// Effect is the verdict this policy asserts when applicable.
	Effect Effect `json:"effect"`

	// Match maps condition keys to thresholds. Keys ending in "_min"
	// and "_max" compare the named numeric attribute against the
	// threshold; any other key requires attribute equality. An empty
	// map is vacuously satisfied.
	Match map[string]any `json:"match,omitempty"`

	// Priority orders policies within the same level; lower wins.
	Priority int `json:"priority"`

	// SourceFile is the path of the source the policy was loaded from,
	// kept for operator visibility.
	SourceFile string `json:"source_file,omitempty"`
}

// String returns a compact identifier for logs.
func (p *Policy) String() string {
	return fmt.Sprintf("%s/%s(p%d)", p.Level, p.ID, p.Priority)
}
