// Package docerr defines the error taxonomy shared by the document store,
// the catalog and the import bridge.
package docerr

import (
	"errors"
	"fmt"
)

// Kinds. Match with errors.Is.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageFailure     = errors.New("storage failure")
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("document not found")
)

// Error carries a kind, a human-readable message safe to show to users, and an optional cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Unavailable reports that the persistent backend cannot be reached or opened.
func Unavailable(message string, cause error) error {
	return &Error{Kind: ErrStorageUnavailable, Message: message, Cause: cause}
}

// Failure reports a read, write or transaction error.
func Failure(message string, cause error) error {
	return &Error{Kind: ErrStorageFailure, Message: message, Cause: cause}
}

// Validation reports a user mistake, such as an empty selection.
func Validation(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

// NotFound reports a missing document.
func NotFound(id string) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("document %q not found", id)}
}

// Message returns the text to display for err. Storage causes are appended so
// the user sees why the operation failed.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return err.Error()
}

// Code maps err to a short machine-readable code.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrStorageUnavailable):
		return "STORAGE_UNAVAILABLE"
	case errors.Is(err, ErrStorageFailure):
		return "STORAGE_FAILURE"
	default:
		return "INTERNAL_ERROR"
	}
}
