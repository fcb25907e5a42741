// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/kvstore"
	requestutil "github.com/taibuivan/farmreg/internal/platform/request"
	"github.com/taibuivan/farmreg/internal/platform/respond"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the sign-in screens and the session REST endpoints.
//
// Every route expects [Provider.Sessions] upstream, which attaches the
// profile's [Context] to the request.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the session API.
//
// # Endpoints
//   - POST  /login         : Authenticates and signs the profile in.
//   - POST  /logout        : Signs the profile out.
//   - GET   /session       : Current auth context snapshot.
//   - PATCH /session/user  : Merges name and email into the signed-in user.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.apiLogin)
	router.Post("/logout", handler.apiLogout)
	router.Get("/session", handler.session)
	router.Patch("/session/user", handler.updateSessionUser)

	return router
}

// MountScreens registers the login and logout screens on router.
func (handler *Handler) MountScreens(router chi.Router) {
	router.Get(constants.PathLogin, handler.loginScreen)
	router.Post(constants.PathLogin, handler.submitLogin)
	router.Post("/logout", handler.submitLogout)
}

// # Request Payloads

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginView struct {
	Screen string   `json:"screen"`
	Fields []string `json:"fields"`
}

// # Screens

/*
LoginScreen renders the login view model.

GET /login

Response:
  - 200: loginView
  - 303: Signed-in profiles are sent to their role home
*/
func (handler *Handler) loginScreen(writer http.ResponseWriter, request *http.Request) {
	authContext, err := requiredContext(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if authContext.IsAuthenticated() {
		respond.Redirect(writer, request, landingPath(authContext))
		return
	}

	respond.OK(writer, loginView{
		Screen: "login",
		Fields: []string{FieldLogin, FieldPassword},
	})
}

/*
SubmitLogin authenticates the credentials posted from the login screen.

POST /login

Request:
  - Form or JSON: login, password

Response:
  - 303: Role home (or the password screen when a change is forced)
  - 400: Missing fields
  - 401: Invalid credentials
*/
func (handler *Handler) submitLogin(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeForm(request, map[string]*string{
		FieldLogin:    &input.Login,
		FieldPassword: &input.Password,
	}); err != nil {
		respond.Error(writer, request, err)
		return
	}

	authContext, err := handler.signIn(request, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Redirect(writer, request, landingPath(authContext))
}

/*
SubmitLogout signs the profile out and returns to the login screen.

POST /logout

Response:
  - 303: /login
*/
func (handler *Handler) submitLogout(writer http.ResponseWriter, request *http.Request) {
	if authContext := FromContext(request.Context()); authContext != nil {
		authContext.Logout(request.Context())
	}
	respond.Redirect(writer, request, constants.PathLogin)
}

// # Session API

/*
APILogin authenticates a JSON client and signs the profile in.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: Access token, refresh token, user record and landing path
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) apiLogin(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	authContext, err := handler.signIn(request, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, _ := authContext.User()
	refreshToken, _ := authContext.RefreshToken(request.Context())

	respond.OK(writer, map[string]any{
		FieldAccessToken:  authContext.Token(),
		FieldRefreshToken: refreshToken,
		FieldTokenType:    "Bearer",
		FieldExpiresIn:    int64(constants.AccessTokenTTL / time.Second),
		FieldUser:         user,
		FieldRedirect:     landingPath(authContext),
	})
}

/*
APILogout signs the profile out.

POST /api/v1/auth/logout

Response:
  - 204: No Content (also when already signed out)
*/
func (handler *Handler) apiLogout(writer http.ResponseWriter, request *http.Request) {
	if authContext := FromContext(request.Context()); authContext != nil {
		authContext.Logout(request.Context())
	}
	respond.NoContent(writer)
}

/*
Session returns the auth context snapshot of the calling profile.

GET /api/v1/auth/session

Response:
  - 200: Snapshot
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	authContext, err := requiredContext(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, authContext.Snapshot())
}

// sessionUserRequest is the self-service slice of [UserPatch]. Role,
// permissions and credentials are listed only so their presence can be
// refused; they change through sign-in and the account endpoints.
type sessionUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`

	UserID              json.RawMessage `json:"userId"`
	Role                json.RawMessage `json:"role"`
	Permissions         json.RawMessage `json:"permissions"`
	ForcePasswordChange json.RawMessage `json:"forcePasswordChange"`
}

func (input sessionUserRequest) privileged() bool {
	return input.UserID != nil || input.Role != nil || input.Permissions != nil || input.ForcePasswordChange != nil
}

/*
UpdateSessionUser merges display fields into the signed-in user.

PATCH /api/v1/auth/session/user

Request:
  - Body: {name?, email?}

Response:
  - 200: UserRecord
  - 401: No signed-in user
  - 403: Role, permissions, user ID or the forced change flag in the body
  - 503: The record could only be kept in memory
*/
func (handler *Handler) updateSessionUser(writer http.ResponseWriter, request *http.Request) {
	authContext, err := requiredContext(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input sessionUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.privileged() {
		respond.Error(writer, request, apperr.Forbidden("Only name and email can be changed here"))
		return
	}

	record, err := authContext.UpdateUser(request.Context(), UserPatch{Name: input.Name, Email: input.Email})
	if err != nil {
		var storageErr *kvstore.StorageError
		if errors.As(err, &storageErr) {
			respond.Error(writer, request, apperr.ServiceUnavailable("Session could not be saved. Please try again."))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

// # Helpers

// signIn validates the credentials, authenticates them and replaces the
// profile session.
func (handler *Handler) signIn(request *http.Request, input loginRequest) (*Context, error) {
	authContext, err := requiredContext(request)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).
		MaxLen(FieldLogin, input.Login, maxLoginLength).
		Required(FieldPassword, input.Password).
		MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	session, err := handler.authService.Authenticate(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	establish(request.Context(), authContext, session)
	return authContext, nil
}

func establish(ctx context.Context, authContext *Context, session *LoginSession) {
	authContext.Login(ctx, session.User.Record(), session.AccessToken)
	authContext.SetRefreshToken(ctx, session.RefreshToken)
}

// landingPath is the screen a freshly signed-in profile should open.
func landingPath(authContext *Context) string {
	if user, ok := authContext.User(); ok && user.ForcePasswordChange {
		return constants.PathChangePassword
	}
	return authContext.Role().HomePath()
}

func requiredContext(request *http.Request) (*Context, error) {
	authContext := FromContext(request.Context())
	if authContext == nil {
		return nil, apperr.Internal(errors.New("auth context missing from request"))
	}
	return authContext, nil
}
