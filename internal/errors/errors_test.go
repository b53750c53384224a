package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestRuleNotFoundError_Is(t *testing.T) {
	err := NewRuleNotFoundError("rl_123")

	if !errors.Is(err, ErrRuleNotFound) {
		t.Error("expected RuleNotFoundError to match ErrRuleNotFound")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("expected RuleNotFoundError not to match ErrInvalidInput")
	}
	if err.Error() != "rule with ID 'rl_123' not found" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidationError_WithAndWithoutField(t *testing.T) {
	withField := NewValidationError("min_price", "must be numeric")
	if withField.Error() != "validation error for field 'min_price': must be numeric" {
		t.Errorf("unexpected message: %s", withField.Error())
	}

	withoutField := NewValidationError("", "something is off")
	if withoutField.Error() != "validation error: something is off" {
		t.Errorf("unexpected message: %s", withoutField.Error())
	}

	if !errors.Is(withField, ErrInvalidInput) {
		t.Error("expected ValidationError to match ErrInvalidInput")
	}
}

func TestBackendError_StatusAndTransport(t *testing.T) {
	statusErr := NewBackendError("rules/list", 502, nil)
	if statusErr.Error() != "backend rules/list returned status 502" {
		t.Errorf("unexpected message: %s", statusErr.Error())
	}
	if !errors.Is(statusErr, ErrBackendUnavailable) {
		t.Error("expected BackendError to match ErrBackendUnavailable")
	}

	cause := fmt.Errorf("connection refused")
	transportErr := NewBackendError("rules/list", 0, cause)
	if !errors.Is(transportErr, ErrBackendUnavailable) {
		t.Error("expected transport BackendError to match ErrBackendUnavailable")
	}
	if errors.Unwrap(transportErr) != cause {
		t.Error("expected Unwrap to return the transport cause")
	}
}

func TestDecodeError_Is(t *testing.T) {
	err := NewDecodeError("products", fmt.Errorf("unexpected end of JSON input"))
	if !errors.Is(err, ErrBadResponse) {
		t.Error("expected DecodeError to match ErrBadResponse")
	}
	if errors.Is(err, ErrBackendUnavailable) {
		t.Error("expected DecodeError not to match ErrBackendUnavailable")
	}
}
