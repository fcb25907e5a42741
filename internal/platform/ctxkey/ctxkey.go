// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the context keys shared by middleware, the session
// layer and handlers. Keys have their own type so they never collide with
// string keys set by other packages.
package ctxkey

// Key identifies one request-scoped value.
type Key string

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID Key = "request_id"

	// KeyUser holds the verified bearer claims ([sec.AuthClaims]).
	KeyUser Key = "user"

	KeyLogger Key = "logger"

	// KeyProfileID holds the browser profile cookie value.
	KeyProfileID Key = "profile_id"

	// KeyAuthContext holds the profile's auth context. The route guard reads
	// it through middleware.SessionView.
	KeyAuthContext Key = "auth_context"
)
