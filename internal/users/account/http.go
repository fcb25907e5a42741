// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account provides the HTTP delivery layer for credential management.

# Security

All endpoints in this package require a verified access token provided by
the Authenticate middleware.
*/
package account

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/farmreg/internal/credential"
	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/farmreg/internal/platform/request"
	"github.com/taibuivan/farmreg/internal/platform/respond"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/internal/platform/validate"
	"github.com/taibuivan/farmreg/internal/users/auth"
	"github.com/taibuivan/farmreg/pkg/pagination"
	"github.com/taibuivan/farmreg/pkg/pointer"
)

// recentChangesLimit caps the audit entries returned by GET /changes.
const recentChangesLimit = 20

// Handler implements the HTTP layer for credential management.
type Handler struct {
	accountService    *Service
	strictComposition bool
}

// NewHandler constructs a new account [Handler]. strictComposition applies
// the password composition rule to submissions.
func NewHandler(service *Service, strictComposition bool) *Handler {
	return &Handler{accountService: service, strictComposition: strictComposition}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
//
// # Endpoints
//   - POST /change-password : Replaces the caller's password.
//   - POST /change-user-id  : Replaces the caller's login user ID.
//   - GET  /changes         : Recent credential changes of the caller.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/change-password", handler.changePassword)
	router.Post("/change-user-id", handler.changeUserID)
	router.Get("/changes", handler.listChanges)

	return router
}

// # Request Payloads

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type changeUserIDRequest struct {
	CurrentUserID string `json:"current_user_id"`
	NewUserID     string `json:"new_user_id"`
	ConfirmUserID string `json:"confirm_user_id"`
}

type changeResponse struct {
	Message string     `json:"message"`
	User    *auth.User `json:"user"`
}

// # Credential Endpoints

/*
POST /api/v1/account/change-password.

Description: Applies the shared form rules, re-verifies the current
password and stores the new hash.

Request:
  - body: changePasswordRequest

Response:
  - 200: changeResponse
  - 400: Validation failure or wrong current password
  - 401: ErrUnauthorized: Authentication required
  - 502: ErrUpdateFailed: Storage failure, retry prompt
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	spec := credential.SpecFor(credential.KindPassword, handler.strictComposition)
	if err := credential.Validate(spec, input.CurrentPassword, input.NewPassword, input.ConfirmPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.MaxBytes(FieldNewPassword, input.NewPassword, sec.MaxPasswordBytes).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.ChangePassword(request.Context(), accountID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, updateError(spec, err))
		return
	}

	SyncSession(request.Context(), user)
	respond.OK(writer, changeResponse{Message: spec.SuccessMessage(), User: user})
}

/*
POST /api/v1/account/change-user-id.

Description: Applies the shared form rules, re-verifies the current user
ID and stores the new one.

Request:
  - body: changeUserIDRequest

Response:
  - 200: changeResponse
  - 400: Validation failure or wrong current user ID
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: User ID already taken
  - 502: ErrUpdateFailed: Storage failure, retry prompt
*/
func (handler *Handler) changeUserID(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeUserIDRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := credential.Validate(credential.UserIDSpec, input.CurrentUserID, input.NewUserID, input.ConfirmUserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.MaxLen(FieldNewUserID, input.NewUserID, MaxUserIDLength).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.ChangeUserID(request.Context(), accountID, input.CurrentUserID, input.NewUserID)
	if err != nil {
		respond.Error(writer, request, updateError(credential.UserIDSpec, err))
		return
	}

	SyncSession(request.Context(), user)
	respond.OK(writer, changeResponse{Message: credential.UserIDSpec.SuccessMessage(), User: user})
}

/*
GET /api/v1/account/changes.

Response:
  - 200: []ChangeRecord (paginated envelope, single page)
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listChanges(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	records, err := handler.accountService.RecentChanges(request.Context(), accountID, recentChangesLimit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, records, pagination.NewMeta(1, recentChangesLimit, len(records)))
}

// updateError keeps user-actionable errors and turns storage failures,
// classified or not, into the retry prompt the forms show.
func updateError(spec credential.FieldSpec, err error) error {
	if appErr := apperr.As(err); appErr != nil && appErr.Code != apperr.CodeInternal {
		return err
	}
	return apperr.UpdateFailed(spec.FailureMessage(), err)
}

// # Session Synchronization

// SyncSession copies the changed credential fields into the signed-in
// session of the calling profile, when that session belongs to user.
func SyncSession(ctx context.Context, user *auth.User) {
	authContext := auth.FromContext(ctx)
	if authContext == nil {
		return
	}

	current, ok := authContext.User()
	if !ok || current.ID != user.ID {
		return
	}

	patch := auth.UserPatch{
		UserID:              pointer.To(user.UserID),
		ForcePasswordChange: pointer.To(user.ForcePasswordChange),
	}
	if _, err := authContext.UpdateUser(ctx, patch); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "account_session_sync_failed", slog.Any("error", err))
	}
}
