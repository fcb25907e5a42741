// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes every HTTP response the service produces: JSON
// envelopes for the REST API and view models, 303 redirects for screen
// navigation, and the placeholder shown while a session is still loading.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/ctxutil"
	"github.com/taibuivan/farmreg/pkg/pagination"
)

// # Envelopes

// SuccessEnvelope wraps a single resource or view model.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope wraps one page of a list.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the body of every error response.
type ErrorEnvelope struct {
	Error     string              `json:"error"`
	Code      string              `json:"code"`
	RequestID string              `json:"request_id,omitempty"`
	Details   []apperr.FieldError `json:"details,omitempty"`
}

// # Success

// JSON writes payload with statusCode.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes data with 200 inside a [SuccessEnvelope].
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Paginated writes one page of data with its metadata.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// NoContent writes 204.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// # Screen Navigation

// Redirect sends the browser to path with 303 See Other, so a POST is
// followed by a GET. Navigation responses are never cached.
func Redirect(writer http.ResponseWriter, request *http.Request, path string) {
	writer.Header().Set("Cache-Control", "no-store")
	http.Redirect(writer, request, path, http.StatusSeeOther)
}

// Loading writes the placeholder for a session that has not finished
// loading. "Refresh: 1" makes the browser retry after a second.
func Loading(writer http.ResponseWriter) {
	writer.Header().Set("Refresh", "1")
	writer.Header().Set("Cache-Control", "no-store")
	JSON(writer, http.StatusOK, map[string]string{constants.FieldStatus: "loading"})
}

// # Errors

// Error writes err as an [ErrorEnvelope]. Errors that are not an
// [apperr.AppError] become INTERNAL_ERROR; 5xx causes are logged.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()
	requestID := ctxutil.GetRequestID(ctx)

	appErr := apperr.As(err)
	if appErr == nil {
		appErr = apperr.Internal(err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "api_server_error",
			slog.String("code", appErr.Code),
			slog.String("request_id", requestID),
			slog.Any("cause", appErr.Cause),
		)
	}

	JSON(writer, appErr.HTTPStatus, ErrorEnvelope{
		Error:     appErr.Message,
		Code:      appErr.Code,
		RequestID: requestID,
		Details:   appErr.Details,
	})
}
