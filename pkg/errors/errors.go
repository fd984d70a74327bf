package courier_errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrRateLimited        = errors.New("rate limited")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrAlreadyExists      = errors.New("already exists")
)

// FieldError is a validation failure tied to one input field.
// errors.Is(err, ErrInvalidInput) holds for every FieldError.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidInput
}

func Invalid(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// Denied wraps ErrForbidden with a client-facing reason.
func Denied(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}
