package api

import "fmt"

// ErrorKind represents the category of an API error.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation_error"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindIntegrity       ErrorKind = "integrity_error"
	KindInternal        ErrorKind = "internal_error"
)

// Error is the structured error carried from handlers and plugins to the
// dispatcher boundary, where it is translated to an HTTP response. Field
// names the offending request field when one is known.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewValidationError creates an Error for an invalid or missing field.
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NewNotFoundError creates an Error for a keyed lookup that matched no row.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewConflictError creates an Error for a uniqueness violation.
func NewConflictError(field, message string) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: message}
}

// NewIntegrityError creates an Error for a non-unique integrity violation
// (foreign key, not-null, check constraint).
func NewIntegrityError(message string) *Error {
	return &Error{Kind: KindIntegrity, Message: message}
}

// NewInternalError creates an Error for an unexpected failure.
func NewInternalError(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}
