package apperr

import "errors"

// Error kinds. Every error surfaced to a client wraps exactly one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error of the given kind with a client-facing message.
func New(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Validation is shorthand for New(ErrValidation, msg).
func Validation(msg string) error { return New(ErrValidation, msg) }

// NotFound is shorthand for New(ErrNotFound, msg).
func NotFound(msg string) error { return New(ErrNotFound, msg) }

// Conflict is shorthand for New(ErrConflict, msg).
func Conflict(msg string) error { return New(ErrConflict, msg) }

// Message returns the client-facing message of err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
