// Package apperr defines the single application error contract shared across layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the service.
const (
	CodeValidation      = "validation.failed"
	CodeNotFound        = "resource.not_found"
	CodeUnauthenticated = "auth.unauthenticated"
	CodeForbidden       = "auth.forbidden"
	CodeStore           = "store.failure"
	CodeRateLimited     = "rate.limited"
)

// AppError carries an error code, an HTTP status hint, and optional details.
// Controllers map it to a transport response; services construct it at the
// point where the failure is classified.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithDetails attaches structured details to the error.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause records the underlying error without changing the classification.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// NewValidation creates a malformed-input error (filter, pagination, sort, body).
func NewValidation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewValidationf creates a validation error with a formatted message.
func NewValidationf(format string, args ...interface{}) *AppError {
	return NewValidation(fmt.Sprintf(format, args...))
}

// NewNotFound creates an error for operations targeting a missing id.
func NewNotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// NewUnauthenticated creates an error for requests with no established identity.
func NewUnauthenticated(message string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewForbidden creates an error for identities that fail the authorization guard.
func NewForbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

// NewTooManyRequests creates an error for requests rejected by rate limiting.
func NewTooManyRequests(message string) *AppError {
	return &AppError{Code: CodeRateLimited, Message: message, HTTPStatus: http.StatusTooManyRequests}
}

// NewStore wraps an underlying persistence failure. The cause is preserved for
// logging; callers must not retry.
func NewStore(message string, cause error) *AppError {
	return &AppError{Code: CodeStore, Message: message, HTTPStatus: http.StatusBadGateway, cause: cause}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// IsNotFound reports whether err classifies as a missing resource.
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsValidation reports whether err classifies as malformed input.
func IsValidation(err error) bool { return HasCode(err, CodeValidation) }

// IsForbidden reports whether err classifies as an authorization rejection.
func IsForbidden(err error) bool { return HasCode(err, CodeForbidden) }

// IsUnauthenticated reports whether err classifies as a missing identity.
func IsUnauthenticated(err error) bool { return HasCode(err, CodeUnauthenticated) }
