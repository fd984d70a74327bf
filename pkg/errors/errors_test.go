package courier_errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFieldErrorMatchesInvalidInput(t *testing.T) {
	err := fmt.Errorf("create message: %w", Invalid("text", "may not be blank"))

	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected field error to match ErrInvalidInput")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("field error must not match ErrNotFound")
	}

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected errors.As to find the field error")
	}
	if fe.Field != "text" {
		t.Errorf("expected field text, got %q", fe.Field)
	}
	if fe.Error() != "text: may not be blank" {
		t.Errorf("unexpected message %q", fe.Error())
	}
}

func TestDeniedWrapsForbidden(t *testing.T) {
	err := Denied("you cannot mark as read your own message")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected denied error to wrap ErrForbidden")
	}
}
