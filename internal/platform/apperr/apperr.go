// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package apperr defines the error vocabulary of the portal agent.

Every failure that leaves a service, the session store, or a Postgres store is an
[*AppError]. Handlers never inspect raw driver errors; they render the AppError's
status and code, and log its Cause.

Portal-specific codes:

  - AUTH_ERROR: sign-in rejected. The [AppError.Reason] says why.
  - PROFILE_NOT_FOUND: an identity has no directory row. The session is torn down.
  - FETCH_ERROR: a directory or resource query failed. No partial data is returned.
  - SESSION_LOADING: the session store has not finished its first resolution.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the portal agent.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "AUTH_ERROR").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// Reason refines AUTH_ERROR. It is logged, never rendered.
	Reason string `json:"-"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Error Codes

const (
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeAuth            = "AUTH_ERROR"
	CodeProfileNotFound = "PROFILE_NOT_FOUND"
	CodeFetch           = "FETCH_ERROR"
	CodeSessionLoading  = "SESSION_LOADING"
	CodeInternal        = "INTERNAL_ERROR"
)

// # Sign-in Reasons

const (
	ReasonNoDirectoryRecord     = "no_directory_record"
	ReasonPasswordMismatch      = "password_mismatch"
	ReasonAccountInactive       = "account_inactive"
	ReasonProviderSessionFailed = "provider_session_failed"
)

// MsgInvalidCredentials is shared by the unknown-login and wrong-password paths so
// the two are indistinguishable to the caller.
const MsgInvalidCredentials = "Invalid email or password"

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Task") // Returns "Task not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError], used for invalid state transitions.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// AuthError creates a 401 AUTH_ERROR carrying a machine-readable sign-in reason.
func AuthError(reason, msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeAuth,
		Message:    msg,
		Reason:     reason,
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// ProfileNotFound creates a 401 [AppError] for an identity without a directory row.
func ProfileNotFound() *AppError {
	return &AppError{
		Code:       CodeProfileNotFound,
		Message:    "No directory profile for this account",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// FetchError creates a 502 [AppError] for a failed directory or resource query.
func FetchError(cause error) *AppError {
	return &AppError{
		Code:       CodeFetch,
		Message:    "Failed to fetch data",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// SessionLoading creates a 503 [AppError] returned while the session is resolving.
func SessionLoading() *AppError {
	return &AppError{
		Code:       CodeSessionLoading,
		Message:    "Session is still loading",
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// ServiceUnavailable creates a 503 [AppError].
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
