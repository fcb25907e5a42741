// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants holds the fixed values shared across the admin: server
timing, request budgets, token lifetimes, the browser profile cookie, screen
paths and the names of the persisted session slots.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "farmreg-admin"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// GlobalRequestTimeout bounds one request end to end, database calls included.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the drain window for in-flight requests.
	ShutdownTimeout = 30 * time.Second
)

// # Request Budget

const (
	DefaultRateLimitRPS   = 50.0
	DefaultRateLimitBurst = 100

	// Idle client buckets are swept every RateLimitCleanupInterval once
	// unused for RateLimitClientTTL.
	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the iss claim of every access token.
	AuthIssuer = "farmreg.admin"

	AccessTokenTTL = 8 * time.Hour

	// RefreshTokenLength is in bytes, before hex encoding.
	RefreshTokenLength = 32
)

// # Browser Profile

const (
	// ProfileCookieName carries the ID of the browser profile that owns a
	// set of session slots.
	ProfileCookieName = "profile_id"

	// ProfileCookieMaxAge is one year, in seconds.
	ProfileCookieMaxAge = 365 * 24 * 60 * 60
)

// # Screens

const (
	PathLogin               = "/login"
	PathDashboard           = "/dashboard"
	PathEmployeeDashboard   = "/employee/dashboard"
	PathAdminDashboard      = "/admin/dashboard"
	PathSuperAdminDashboard = "/super-admin/dashboard"
	PathChangePassword      = "/change-password"
	PathChangeUserID        = "/change-user-id"
)

// # Session Slots

// Slot names match the keys the admin persists per browser profile.
const (
	SlotUser         = "user"
	SlotToken        = "token"
	SlotRefreshToken = "refreshToken"
)

// FieldStatus is the JSON key of the guard's placeholder body.
const FieldStatus = "status"

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # Redis Keys

// Session slots of a profile live at RedisPrefixProfile + id + RedisSuffixSession.
const (
	RedisPrefixProfile = "farmreg:profile:"
	RedisSuffixSession = ":session"
)
