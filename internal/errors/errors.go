package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrRuleNotFound is returned when a rule is not found
	ErrRuleNotFound = errors.New("rule not found")

	// ErrProductNotFound is returned when a product is not found
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrBackendUnavailable is returned when the webhook backend cannot be reached
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBadResponse is returned when a backend response fails decoding
	ErrBadResponse = errors.New("bad backend response")
)

// RuleNotFoundError represents a rule not found error with context
type RuleNotFoundError struct {
	RuleID string
}

func (e *RuleNotFoundError) Error() string {
	return fmt.Sprintf("rule with ID '%s' not found", e.RuleID)
}

func (e *RuleNotFoundError) Is(target error) bool {
	return target == ErrRuleNotFound
}

// NewRuleNotFoundError creates a new RuleNotFoundError
func NewRuleNotFoundError(ruleID string) *RuleNotFoundError {
	return &RuleNotFoundError{RuleID: ruleID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// BackendError represents a failed call to the webhook backend. Status is
// zero for transport failures and the HTTP status code otherwise.
type BackendError struct {
	Op     string
	Status int
	Err    error
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %s returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("backend %s failed: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

// NewBackendError creates a new BackendError
func NewBackendError(op string, status int, err error) *BackendError {
	return &BackendError{Op: op, Status: status, Err: err}
}

// DecodeError represents a backend response that failed schema decoding
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrBadResponse
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(op string, err error) *DecodeError {
	return &DecodeError{Op: op, Err: err}
}
