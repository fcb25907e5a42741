// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/farmreg/internal/platform/ctxutil"
	"github.com/taibuivan/farmreg/internal/platform/sec"
)

func TestContext_Defaults(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx))
	assert.Empty(t, ctxutil.GetProfileID(ctx))
	assert.Nil(t, ctxutil.GetAuthUser(ctx))
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))
}

func TestContext_RoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	claims := &sec.AuthClaims{UserID: "0192f7a0-0000-7000-8000-000000000003", Role: "EMPLOYEE"}

	ctx := context.Background()
	ctx = ctxutil.WithRequestID(ctx, "req-1")
	ctx = ctxutil.WithProfileID(ctx, "0192f7a0-0000-7000-8000-0000000000aa")
	ctx = ctxutil.WithLogger(ctx, logger)
	ctx = ctxutil.WithAuthUser(ctx, claims)

	assert.Equal(t, "req-1", ctxutil.GetRequestID(ctx))
	assert.Equal(t, "0192f7a0-0000-7000-8000-0000000000aa", ctxutil.GetProfileID(ctx))
	assert.Same(t, logger, ctxutil.GetLogger(ctx))

	retrieved := ctxutil.GetAuthUser(ctx)
	require.NotNil(t, retrieved)
	assert.Equal(t, "EMPLOYEE", retrieved.Role)
}

func TestContext_IgnoresPlainStringKeys(t *testing.T) {
	//nolint:staticcheck // plain string key on purpose
	ctx := context.WithValue(context.Background(), "request_id", "spoofed")

	assert.Empty(t, ctxutil.GetRequestID(ctx))
}

func TestContext_NilLoggerFallsBack(t *testing.T) {
	ctx := ctxutil.WithLogger(context.Background(), nil)

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))
}
