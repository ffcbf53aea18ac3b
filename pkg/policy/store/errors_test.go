package store

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorList(t *testing.T) {
	var list ErrorList

	if list.HasErrors() {
		t.Error("empty list reports errors")
	}
	if list.ToError() != nil {
		t.Error("empty list converts to a non-nil error")
	}

	list.Add(nil)
	if list.HasErrors() {
		t.Error("Add(nil) recorded an error")
	}

	first := &LoadError{FilePath: "a.yaml", Message: "file not found"}
	list.Add(first)
	if got := list.ToError(); got != first {
		t.Errorf("single-error list converts to %v, want the error itself", got)
	}

	list.Add(&ParseError{FilePath: "b.yaml", Message: "invalid YAML"})
	err := list.ToError()
	if err != &list {
		t.Fatalf("multi-error list converts to %T, want *ErrorList", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "2 errors") ||
		!strings.Contains(msg, "a.yaml") ||
		!strings.Contains(msg, "b.yaml") {
		t.Errorf("aggregate message = %q", msg)
	}
}

func TestLoadError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := &LoadError{FilePath: "x.yaml", Message: "failed to read file", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is does not reach the cause")
	}
	if !strings.Contains(err.Error(), "underlying") {
		t.Errorf("message = %q, cause missing", err.Error())
	}
}
