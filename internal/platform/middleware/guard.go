// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/ctxkey"
	"github.com/taibuivan/farmreg/internal/platform/respond"
	"github.com/taibuivan/farmreg/internal/platform/sec"
)

// # Route Guard

// SessionView is the read side of a profile's auth context that the guard
// needs. The session middleware stores it under [ctxkey.KeyAuthContext].
type SessionView interface {
	Loading() bool
	IsAuthenticated() bool
	RoleName() string
}

// Outcome is the guard's verdict for one navigation.
type Outcome int

const (
	// OutcomeLoading renders the neutral placeholder; no decision yet.
	OutcomeLoading Outcome = iota
	// OutcomeLogin redirects to the login screen.
	OutcomeLogin
	// OutcomeWrongRole redirects to the role's home screen.
	OutcomeWrongRole
	// OutcomeAllow renders the guarded screen.
	OutcomeAllow
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeLogin:
		return "login"
	case OutcomeWrongRole:
		return "wrong_role"
	case OutcomeAllow:
		return "allow"
	}
	return "unknown"
}

// Decision is an [Outcome] plus the redirect target, if any.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Admits reports whether role passes the allow-list. Both sides are trimmed
// and case-folded; an empty list admits every role.
func Admits(role string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}

	normalized := sec.NormalizeRole(role)
	for _, entry := range allowed {
		if sec.NormalizeRole(entry) == normalized {
			return true
		}
	}
	return false
}

/*
Decide runs the guard state machine for one navigation.

Parameters:
  - view: SessionView (nil is treated as signed out)
  - allowed: []string (Role allow-list, empty for any signed-in role)

Returns:
  - Decision: Loading, redirect to login, redirect to the role's home, or allow
*/
func Decide(view SessionView, allowed []string) Decision {
	switch {
	case view == nil:
		return Decision{Outcome: OutcomeLogin, Location: constants.PathLogin}
	case view.Loading():
		return Decision{Outcome: OutcomeLoading}
	case !view.IsAuthenticated():
		return Decision{Outcome: OutcomeLogin, Location: constants.PathLogin}
	case !Admits(view.RoleName(), allowed):
		return Decision{Outcome: OutcomeWrongRole, Location: sec.ParseRole(view.RoleName()).HomePath()}
	}
	return Decision{Outcome: OutcomeAllow}
}

// RequireRoles guards a screen with [Decide]. Redirects are 303 See Other
// and the loading placeholder carries "Refresh: 1".
//
// Must be registered AFTER the session middleware.
func RequireRoles(allowed ...sec.UserRole) func(http.Handler) http.Handler {
	names := make([]string, len(allowed))
	for i, role := range allowed {
		names[i] = string(role)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			view, _ := request.Context().Value(ctxkey.KeyAuthContext).(SessionView)
			decision := Decide(view, names)

			switch decision.Outcome {
			case OutcomeLoading:
				respond.Loading(writer)
			case OutcomeLogin, OutcomeWrongRole:
				respond.Redirect(writer, request, decision.Location)
			default:
				next.ServeHTTP(writer, request)
			}
		})
	}
}
