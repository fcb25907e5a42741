// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/ctxutil"
	"github.com/taibuivan/farmreg/pkg/uuid"
)

/*
Sessions resolves the browser profile of every request and attaches its
auth context.

Description: The profile is identified by the long-lived profile cookie. A
missing or malformed cookie gets a fresh UUIDv7 profile. The profile's
Context is re-synchronized with the store before the handler runs.

Parameters:
  - secureCookies: bool (Sets the Secure attribute on the profile cookie)

Returns:
  - func(http.Handler) http.Handler: The middleware
*/
func (provider *Provider) Sessions(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			profileID := ""
			if cookie, err := request.Cookie(constants.ProfileCookieName); err == nil && uuid.IsValid(cookie.Value) {
				profileID = cookie.Value
			}

			if profileID == "" {
				profileID = uuid.New()
				http.SetCookie(writer, &http.Cookie{
					Name:     constants.ProfileCookieName,
					Value:    profileID,
					Path:     "/",
					MaxAge:   constants.ProfileCookieMaxAge,
					Secure:   secureCookies,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := ctxutil.WithProfileID(request.Context(), profileID)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("profile_id", profileID)))

			authContext := provider.For(ctx, profileID)
			authContext.Sync(ctx)

			next.ServeHTTP(writer, request.WithContext(WithContext(ctx, authContext)))
		})
	}
}
