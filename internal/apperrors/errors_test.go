package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"not found", NotFound("user not found"), ErrNotFound},
		{"conflict", Conflict("already following"), ErrConflict},
		{"invalid operation", InvalidOperation("cannot follow yourself"), ErrInvalidOperation},
		{"forbidden", Forbidden("not yours"), ErrForbidden},
		{"validation", Validation("name is required"), ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("failed to do thing: %w", tt.err)
			if !errors.Is(wrapped, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false, want true", wrapped, tt.kind)
			}
			if errors.Is(wrapped, ErrUnauthorized) {
				t.Errorf("errors.Is(%v, ErrUnauthorized) = true, want false", wrapped)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	t.Run("returns message from wrapped app error", func(t *testing.T) {
		err := fmt.Errorf("follow: %w", NotFound("user not found"))
		if got := Message(err, "internal error"); got != "user not found" {
			t.Errorf("Message() = %q, want %q", got, "user not found")
		}
	})

	t.Run("returns fallback for plain errors", func(t *testing.T) {
		if got := Message(errors.New("boom"), "internal error"); got != "internal error" {
			t.Errorf("Message() = %q, want %q", got, "internal error")
		}
	})

	t.Run("uses kind text when message is empty", func(t *testing.T) {
		err := &Error{Kind: ErrForbidden}
		if got := err.Error(); got != "forbidden" {
			t.Errorf("Error() = %q, want %q", got, "forbidden")
		}
	})
}
