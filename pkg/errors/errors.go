package lms_errors

import (
	"errors"
)

// Common errors
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrRateLimited        = errors.New("rate limited")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Error carries a client-facing message on top of one of the sentinel kinds above.
// errors.Is(err, ErrNotFound) keeps working through it.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" && e.Kind != nil {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New returns an error of the given kind with a client-facing message.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

