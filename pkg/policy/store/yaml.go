package store

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"janus-hq/janus/pkg/policy"
)

// yamlPolicyFile is the intermediate structure for one policy source.
// It matches the YAML document shape before validation and defaulting.
type yamlPolicyFile struct {
	Policies []yamlPolicyEntry `yaml:"policies"`
}

// yamlPolicyEntry is one rule as declared in YAML, before the schema's
// canonical defaults are applied.
type yamlPolicyEntry struct {
	ID          string         `yaml:"id"`
	Description string         `yaml:"description"`
	Level       string         `yaml:"level"`
	Subject     string         `yaml:"subject"`
	Action      string         `yaml:"action"`
	Resource    string         `yaml:"resource"`
	Effect      string         `yaml:"effect"`
	Match       map[string]any `yaml:"match"`
	Priority    *int           `yaml:"priority"` // pointer to distinguish unset from 0
}

// parsePolicyFile parses YAML bytes into the intermediate structure.
func parsePolicyFile(data []byte, sourcePath string) (*yamlPolicyFile, error) {
	var file yamlPolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ParseError{
			FilePath: sourcePath,
			Message:  "invalid YAML",
			Cause:    err,
		}
	}
	return &file, nil
}

// buildPolicy validates one entry and fills the schema defaults,
// producing an immutable policy. Index identifies the entry within its
// source for skip reporting.
func buildPolicy(entry *yamlPolicyEntry, sourcePath string, index int) (*policy.Policy, error) {
	source := fmt.Sprintf("%s#%d", sourcePath, index)

	if entry.ID == "" {
		return nil, &ValidationError{
			Source:  source,
			Message: "missing required field \"id\"",
		}
	}
	if entry.Action == "" {
		return nil, &ValidationError{
			Source:   source,
			PolicyID: entry.ID,
			Message:  "missing required field \"action\"",
		}
	}

	level, err := policy.ParseLevel(entry.Level)
	if err != nil {
		return nil, &ValidationError{
			Source:   source,
			PolicyID: entry.ID,
			Message:  err.Error(),
		}
	}

	effect, err := policy.ParseEffect(entry.Effect)
	if err != nil {
		return nil, &ValidationError{
			Source:   source,
			PolicyID: entry.ID,
			Message:  err.Error(),
		}
	}

	priority := policy.DefaultPriority
	if entry.Priority != nil {
		if *entry.Priority < 0 {
			return nil, &ValidationError{
				Source:   source,
				PolicyID: entry.ID,
				Message:  fmt.Sprintf("priority must be non-negative, got %d", *entry.Priority),
			}
		}
		priority = *entry.Priority
	}

	subject := entry.Subject
	if subject == "" {
		subject = policy.DefaultPattern
	}
	resource := entry.Resource
	if resource == "" {
		resource = policy.DefaultPattern
	}

	match := entry.Match
	if match == nil {
		match = map[string]any{}
	}

	return &policy.Policy{
		ID:          entry.ID,
		Description: entry.Description,
		Level:       level,
		Subject:     subject,
		Action:      entry.Action,
		Resource:    resource,
		Effect:      effect,
		Match:       match,
		Priority:    priority,
		SourceFile:  sourcePath,
	}, nil
}
