// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/ctxutil"
	"github.com/taibuivan/farmreg/internal/platform/respond"
	"github.com/taibuivan/farmreg/internal/platform/sec"
)

// # Bearer Authentication

// TokenVerifier verifies bearer tokens for [Authenticate].
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

var errAuthenticationRequired = apperr.Unauthorized("Authentication required")

/*
Authenticate verifies the "Authorization: Bearer <jwt>" header of REST
requests and stores the claims with [ctxutil.WithAuthUser].

Requests without the header continue anonymously; [RequireAuth] and
[RequireRole] decide whether that is allowed. A malformed header or a
token that fails verification is rejected with 401.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "bearer_token_rejected", slog.Any("error", err))
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
		})
	}
}

// # Authorization

// RequireAuth rejects anonymous requests. Register after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, errAuthenticationRequired)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole admits tokens whose role ranks at least minimum in the
// SUPER_ADMIN > ADMIN > EMPLOYEE > FARMER hierarchy. Anonymous requests get
// 401, lower roles 403.
func RequireRole(minimum sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, errAuthenticationRequired)
				return
			}

			if !sec.ParseRole(claims.Role).AtLeast(minimum) {
				ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "role_insufficient",
					slog.String("role", claims.Role),
					slog.String("required", string(minimum)),
				)
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
