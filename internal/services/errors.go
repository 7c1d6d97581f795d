// ===============================
// internal/services/errors.go - Service error types
// ===============================

package services

import (
	"errors"
	"fmt"

	"luemtv/internal/repositories"
)

// ErrNotFound is returned when the requested record does not exist. It is
// the repository sentinel so errors.Is matches at either layer.
var ErrNotFound = repositories.ErrNotFound

var (
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("not authenticated")
)

// ValidationError is a user-correctable input problem. Handlers render it
// as 400 with Message; it never indicates a server fault.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// UpstreamError marks a failure of an external service (TMDB, Firebase).
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstream(service string, err error) error {
	return &UpstreamError{Service: service, Err: err}
}
