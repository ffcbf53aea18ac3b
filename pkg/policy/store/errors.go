package store

import (
	"fmt"
	"strings"
)

// LoadError represents a policy source that could not be read at all:
// missing file, permission problem, size or encoding violation. It is
// non-fatal to directory loads; the source is skipped and reported.
type LoadError struct {
	// FilePath is the path to the source that failed to load
	FilePath string

	// Message describes the error
	Message string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load policy file %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load policy file %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ParseError represents a source that was readable but is not valid
// YAML or does not have the expected document shape.
type ParseError struct {
	// FilePath is the path to the source that failed to parse
	FilePath string

	// Message describes the parsing error
	Message string

	// Cause is the underlying parser error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error in %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error in %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a single policy entry that failed
// validation (missing required field, unknown enum value, negative
// priority). The entry is skipped; sibling entries in the same source
// still load.
type ValidationError struct {
	// Source identifies the entry, e.g. "policies/finance.yaml#2".
	Source string

	// PolicyID is the entry's id, when it has one.
	PolicyID string

	// Message describes the validation error
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.PolicyID != "" {
		return fmt.Sprintf("invalid policy %q (%s): %s", e.PolicyID, e.Source, e.Message)
	}
	return fmt.Sprintf("invalid policy entry %s: %s", e.Source, e.Message)
}

// ErrorList aggregates errors from loading multiple sources, where some
// may succeed and others fail.
type ErrorList struct {
	Errors []error
}

// Error implements the error interface.
func (e *ErrorList) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %v\n", i+1, err))
	}
	return sb.String()
}

// Add adds an error to the list.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if the list contains any errors.
func (e *ErrorList) HasErrors() bool {
	return len(e.Errors) > 0
}

// ToError returns nil if there are no errors, the single error if there
// is exactly one, or the ErrorList itself otherwise.
func (e *ErrorList) ToError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return e
}
