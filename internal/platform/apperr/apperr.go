// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type every handler speaks.

An [AppError] pairs a machine-readable code with a client-safe message and
the HTTP status it maps to. Services return AppErrors for outcomes the user
can act on (a wrong current password, a taken user ID, a missing farmer);
anything else is treated as internal by the responder.

The Cause of an AppError is logged server-side and never serialized.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Codes

const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
	CodeUpdateFailed       = "UPDATE_FAILED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// AppError is a client-facing error with its HTTP mapping.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes Cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Client Errors (4xx)

// NotFound reports a missing resource, e.g. NotFound("Farmer") reads
// "Farmer not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg)
}

// Conflict reports a uniqueness violation or an action the current state
// does not allow, such as submitting a closed modal.
func Conflict(msg string) *AppError {
	return newError(http.StatusConflict, CodeConflict, msg)
}

func TooManyRequests(msg string) *AppError {
	return newError(http.StatusTooManyRequests, CodeTooManyRequests, msg)
}

// ValidationError carries the single message the forms display, plus
// optional per-field details for REST clients.
func ValidationError(msg string, details ...FieldError) *AppError {
	appErr := newError(http.StatusBadRequest, CodeValidation, msg)
	appErr.Details = details
	return appErr
}

// # Server Errors (5xx)

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	appErr := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	appErr.Cause = cause
	return appErr
}

// UpdateFailed reports a credential update the system of record did not
// accept. msg is the retry prompt shown to the user.
func UpdateFailed(msg string, cause error) *AppError {
	appErr := newError(http.StatusBadGateway, CodeUpdateFailed, msg)
	appErr.Cause = cause
	return appErr
}

// ServiceUnavailable reports a dependency outage the user may retry.
func ServiceUnavailable(msg string) *AppError {
	return newError(http.StatusServiceUnavailable, CodeServiceUnavailable, msg)
}

// # Helpers

// As extracts the [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsAppError reports whether err's chain holds an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// IsNotFound reports whether err carries [CodeNotFound].
func IsNotFound(err error) bool {
	appErr := As(err)
	return appErr != nil && appErr.Code == CodeNotFound
}
