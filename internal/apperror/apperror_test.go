package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind error
	}{
		{"not found", NotFound("user not found"), ErrNotFound},
		{"unauthorized", Unauthorized("invalid credentials"), ErrUnauthorized},
		{"forbidden", Forbidden("not your post"), ErrForbidden},
		{"conflict", Conflict("email already in use"), ErrConflict},
		{"validation", Validation("email is required"), ErrValidation},
		{"internal", Internal("something broke"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.kind)
			}
		})
	}
}

func TestKindsAreDistinct(t *testing.T) {
	if errors.Is(NotFound("x"), ErrForbidden) {
		t.Error("NotFound should not match ErrForbidden")
	}
	if errors.Is(Unauthorized("x"), ErrNotFound) {
		t.Error("Unauthorized should not match ErrNotFound")
	}
}

func TestMessagePassthrough(t *testing.T) {
	err := Conflict("Email already in use")
	if err.Error() != "Email already in use" {
		t.Errorf("Error() = %q, want %q", err.Error(), "Email already in use")
	}
}

func TestMatchingThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("deleting post: %w", Forbidden("You are not allowed to delete this post"))

	if !errors.Is(wrapped, ErrForbidden) {
		t.Error("wrapped error should still match ErrForbidden")
	}

	var appErr *Error
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should extract *Error from wrapped error")
	}
	if appErr.Message != "You are not allowed to delete this post" {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}
