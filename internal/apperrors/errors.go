package apperrors

import "errors"

// Error kinds. Match with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Error carries a user-facing message on top of one of the error kinds
type Error struct {
	Kind    error
	Message string
}

// Error implements error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Kind
}

// New creates an Error of the given kind
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// NotFound creates a not found error with a message
func NotFound(message string) error {
	return New(ErrNotFound, message)
}

// Conflict creates a conflict error with a message
func Conflict(message string) error {
	return New(ErrConflict, message)
}

// InvalidOperation creates an invalid operation error with a message
func InvalidOperation(message string) error {
	return New(ErrInvalidOperation, message)
}

// Forbidden creates a forbidden error with a message
func Forbidden(message string) error {
	return New(ErrForbidden, message)
}

// Validation creates a validation error with a message
func Validation(message string) error {
	return New(ErrValidation, message)
}

// Message returns the innermost user-facing message of err, or fallback
// when err carries none.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return fallback
}
