package domain

import (
	"errors"
)

var (
	// ErrInvalidArgument signals a missing or malformed request parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound signals that a lookup or search produced nothing usable.
	ErrNotFound = errors.New("not found")
	// ErrExternalService signals a classifier or storage collaborator failure.
	ErrExternalService = errors.New("external service error")
	// ErrInternal signals an unexpected pipeline fault.
	ErrInternal = errors.New("internal error")
)

// NotFoundError wraps ErrNotFound with a client-facing message.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return ErrNotFound.Error()
	}
	return e.Message
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a not-found error carrying a context-specific message.
func NewNotFound(message string) error {
	return &NotFoundError{Message: message}
}

// InvalidArgumentError wraps ErrInvalidArgument with the offending parameter.
type InvalidArgumentError struct {
	Param  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid " + e.Param + ": " + e.Reason
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// NewInvalidArgument creates a validation error for a named parameter.
func NewInvalidArgument(param, reason string) error {
	return &InvalidArgumentError{Param: param, Reason: reason}
}
