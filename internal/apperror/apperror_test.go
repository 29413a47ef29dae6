package apperror

import (
	"errors"
	"fmt"
	"testing"
)

// Table-driven: each case checks that errors.Is() finds the right sentinel.
func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("stats", ""),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("hintId", "hintId is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "PreconditionFailed wraps ErrPreconditionFailed",
			err:       PreconditionFailed("insufficient funds"),
			target:    ErrPreconditionFailed,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("username", "alice"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("incorrect password"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrPreconditionFailed",
			err:       NotFound("hint", "hint_50_50"),
			target:    ErrPreconditionFailed,
			wantMatch: false,
		},
		{
			name:      "wrapped twice still matches",
			err:       fmt.Errorf("service: %w", fmt.Errorf("sqlite: %w", NotFound("achievements", ""))),
			target:    ErrNotFound,
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound with id",
			err:         NotFound("hint", "hint_magic"),
			wantMessage: "hint not found with id hint_magic",
		},
		{
			name:        "NotFound without id",
			err:         NotFound("stats", ""),
			wantMessage: "stats not found",
		},
		{
			name:        "PreconditionFailed uses custom message",
			err:         PreconditionFailed("no hints available"),
			wantMessage: "no hints available",
		},
		{
			name:        "Conflict message includes resource and id",
			err:         Conflict("username", "alice"),
			wantMessage: "username conflict with id alice",
		},
		{
			name:        "AlreadyTaken names the field",
			err:         AlreadyTaken("username"),
			wantMessage: "username already taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := PreconditionFailed("insufficient funds")
	if unwrapped := err.Unwrap(); unwrapped != ErrPreconditionFailed {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrPreconditionFailed)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("correctAnswers", "correctAnswers must be between 0 and 10")

	if err.Field != "correctAnswers" {
		t.Errorf("Field = %q, want %q", err.Field, "correctAnswers")
	}
}

func TestAlreadyTakenIsConflict(t *testing.T) {
	err := AlreadyTaken("username")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("AlreadyTaken() does not wrap ErrConflict")
	}
	if err.Field != "username" {
		t.Errorf("Field = %q, want username", err.Field)
	}
}
