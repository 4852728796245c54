// Package errors holds the console's error taxonomy. Callers import it as
// apperrors to keep the standard library package in scope.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication means the bearer credential was missing, expired or rejected.
	ErrAuthentication = errors.New("authentication required")
	// ErrNotFound means the remote resource does not exist.
	ErrNotFound = errors.New("resource not found")
)

// ValidationError is a local, recoverable input error. It is never sent upstream.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidation builds a ValidationError for field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateIdentityError reports a configuration title that already exists upstream.
type DuplicateIdentityError struct {
	Title string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("Configuration with title %q already exists", e.Title)
}

// ServerError is a non-2xx upstream response. Message is the upstream's own
// text when a structured payload was present, otherwise "Server error".
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}

// TransportError wraps a network failure talking to the upstream.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
