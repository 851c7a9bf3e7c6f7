package orchestrators

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the target record does not exist or has the wrong role.
var ErrNotFound = errors.New("data tidak ditemukan")

// ValidationError is a user-correctable input problem. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// FileFormatError rejects a whole upload before any row is processed.
type FileFormatError struct {
	Err error
}

// Error implements the error interface.
func (e *FileFormatError) Error() string {
	return "format file tidak valid: " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *FileFormatError) Unwrap() error {
	return e.Err
}
