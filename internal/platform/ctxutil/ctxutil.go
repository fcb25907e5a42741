// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores and reads the request-scoped values the
// middleware chain attaches: request ID, logger, browser profile and
// verified token claims.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/farmreg/internal/platform/ctxkey"
	"github.com/taibuivan/farmreg/internal/platform/sec"
)

func value[T any](ctx context.Context, key ctxkey.Key) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// # Request Tracing

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the request ID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := value[string](ctx, ctxkey.KeyRequestID)
	return id
}

// # Structured Logging

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := value[*slog.Logger](ctx, ctxkey.KeyLogger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Browser Profile

func WithProfileID(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyProfileID, profileID)
}

// GetProfileID returns the profile cookie value resolved by the session
// middleware, or "".
func GetProfileID(ctx context.Context) string {
	id, _ := value[string](ctx, ctxkey.KeyProfileID)
	return id
}

// # Token Claims

func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, claims)
}

// GetAuthUser returns the verified bearer claims, or nil for anonymous
// requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := value[*sec.AuthClaims](ctx, ctxkey.KeyUser)
	return claims
}
