// Package apperror defines the error kinds surfaced by the service layer.
//
// Services return *Error values tagged with one of the sentinel kinds below.
// Callers discriminate with errors.Is rather than inspecting messages, and
// the HTTP layer maps each kind to a status code in exactly one place.
package apperror

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrInternal     = errors.New("internal error")
)

// Error is a tagged application error. Kind is always one of the sentinel
// errors above; Message is safe to return to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound reports that the requested entity does not exist.
func NotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(message string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// Forbidden reports that the caller is authenticated but not permitted
// to act on this resource.
func Forbidden(message string) *Error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// Conflict reports a uniqueness or overlap violation.
func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

// Validation reports malformed or missing input.
func Validation(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

// Internal wraps an unexpected failure. The message is what the caller
// sees; the underlying cause must be logged where it occurred.
func Internal(message string) *Error {
	return &Error{Kind: ErrInternal, Message: message}
}
