package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestWithWorkflow(t *testing.T) {
	logger := slog.Default()
	result := WithWorkflow(logger, "create")
	if result == nil {
		t.Error("WithWorkflow returned nil")
	}
}

func TestWithSession(t *testing.T) {
	logger := slog.Default()
	result := WithSession(logger, "12345")
	if result == nil {
		t.Error("WithSession returned nil")
	}
}

func TestWorkflowAttr(t *testing.T) {
	attr := Workflow("find_time")
	if attr.Key != KeyWorkflow {
		t.Errorf("Workflow key = %q, want %q", attr.Key, KeyWorkflow)
	}
	if attr.Value.String() != "find_time" {
		t.Errorf("Workflow value = %q, want %q", attr.Value.String(), "find_time")
	}
}

func TestStateAttr(t *testing.T) {
	attr := State("await_title")
	if attr.Key != KeyState {
		t.Errorf("State key = %q, want %q", attr.Key, KeyState)
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "boom")
	}
}

func TestErrNil(t *testing.T) {
	attr := Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty group", attr.Key)
	}
}

func TestAnonymizeEmail(t *testing.T) {
	if AnonymizeEmail("") != "" {
		t.Error("empty email should anonymize to empty string")
	}

	a := AnonymizeEmail("alice@example.com")
	b := AnonymizeEmail("alice@example.com")
	c := AnonymizeEmail("bob@example.com")

	if a != b {
		t.Error("anonymization must be stable for correlation")
	}
	if a == c {
		t.Error("different emails must anonymize differently")
	}
	if a == "alice@example.com" {
		t.Error("anonymized email must not contain the original")
	}
}

func TestSanitizeToken(t *testing.T) {
	if SanitizeToken("") != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %q", SanitizeToken(""))
	}
	got := SanitizeToken("secret-token")
	if got != "[token:12 chars]" {
		t.Errorf("SanitizeToken = %q", got)
	}
}
