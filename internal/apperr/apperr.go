// Package apperr defines the typed failures raised by the validation and
// repository layers. A single boundary middleware maps them to HTTP
// responses, so every deterministic condition yields a deterministic status.
package apperr

import (
	"fmt"
	"net/http"
)

// Error is a failure with a fixed HTTP status and a single message body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(subject string) *Error {
	return New(http.StatusNotFound, fmt.Sprintf("%s not found", subject))
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// AlreadyExists is a domain conflict such as a duplicate email. It maps to
// 400, matching the storage-level unique constraint translation.
func AlreadyExists(subject string) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf("%s already exists", subject))
}

func ServiceUnavailable(message string) *Error {
	return New(http.StatusServiceUnavailable, message)
}

// ValidationError aggregates every field failure collected in one
// validation pass. It maps to 422 with an errors array body.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d error(s)", len(e.Errors))
}

func Validation(errs []string) *ValidationError {
	return &ValidationError{Errors: errs}
}
