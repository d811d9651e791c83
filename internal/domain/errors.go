package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two lookup failure modes. Callers distinguish a
// missing record from a bankroll that was never set up, so the HTTP layer
// can prompt initial setup instead of reporting a plain 404.
var (
	ErrNotFound               = errors.New("not found")
	ErrBankrollNotInitialized = errors.New("bankroll not initialized")
)

// ValidationError reports malformed caller input. It is returned
// synchronously and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
