package symptoms

import (
	"errors"
	"fmt"
)

// Failure kinds. Match them with errors.Is.
var (
	ErrValidation    = errors.New("validation")
	ErrConfiguration = errors.New("configuration")
	ErrUpstream      = errors.New("upstream")
)

// User-facing messages. They never carry upstream detail.
const (
	msgConfiguration = "Symptom analysis is not available right now because it has not been configured. Please contact support."
	msgUpstream      = "We couldn't analyze your symptoms right now. Please try again later."
)

// Error is returned by every failed analysis. Error() is safe to show to a
// patient; the underlying cause, if any, has already been logged.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// KindName returns "validation", "configuration" or "upstream".
func (e *Error) KindName() string {
	if e.Kind == nil {
		return "unknown"
	}
	return e.Kind.Error()
}

func validationError(minLength int) *Error {
	return &Error{
		Kind:    ErrValidation,
		Message: fmt.Sprintf("Please describe your symptoms in at least %d characters.", minLength),
	}
}

func configurationError() *Error {
	return &Error{Kind: ErrConfiguration, Message: msgConfiguration}
}

func upstreamError() *Error {
	return &Error{Kind: ErrUpstream, Message: msgUpstream}
}
