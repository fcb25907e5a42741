// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads request input for handlers: JSON bodies, screen
form posts, chi URL parameters and the verified bearer claims.

Bodies are capped at [MaxBodyBytes]; anything larger fails to decode.
*/
package requestutil

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/ctxutil"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/internal/platform/validate"
)

// MaxBodyBytes bounds every decoded request body.
const MaxBodyBytes = 64 << 10

// ErrInvalidForm is returned when a form post cannot be parsed.
var ErrInvalidForm = apperr.ValidationError("Invalid form payload")

// # Body Decoding

/*
DecodeJSON decodes the request body into target.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON on malformed or oversized bodies
*/
func DecodeJSON(request *http.Request, target any) error {
	body := http.MaxBytesReader(nil, request.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeForm fills target from a JSON object or an HTML form post, chosen
by Content-Type. Screens are driven by both browsers and JSON clients.

Parameters:
  - request: *http.Request
  - target: map of field name to destination string pointer

Returns:
  - error: validate.ErrInvalidJSON or ErrInvalidForm
*/
func DecodeForm(request *http.Request, target map[string]*string) error {
	if isJSON(request) {
		values := map[string]string{}
		if err := DecodeJSON(request, &values); err != nil {
			return err
		}
		for name, destination := range target {
			*destination = values[name]
		}
		return nil
	}

	request.Body = http.MaxBytesReader(nil, request.Body, MaxBodyBytes)
	if err := request.ParseForm(); err != nil {
		return ErrInvalidForm
	}
	for name, destination := range target {
		*destination = request.PostForm.Get(name)
	}
	return nil
}

func isJSON(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// # Routing

// Param returns the chi URL parameter name.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// # Identity

// RequiredClaims returns the verified bearer claims or a 401.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequiredUserID returns the caller's account ID or a 401.
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
