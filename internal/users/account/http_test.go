// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/ctxutil"
	"github.com/taibuivan/farmreg/internal/platform/kvstore"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/internal/users/account"
	"github.com/taibuivan/farmreg/internal/users/auth"
	"github.com/taibuivan/farmreg/internal/users/auth/authtest"
)

func newAccountRouter(service *account.Service, claims *sec.AuthClaims, authContext *auth.Context) http.Handler {
	routes := account.NewHandler(service, false).Routes()

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		if claims != nil {
			ctx = ctxutil.WithAuthUser(ctx, claims)
		}
		if authContext != nil {
			ctx = auth.WithContext(ctx, authContext)
		}
		routes.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func errorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Error
}

func TestHandler_ChangePassword_Validation(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "acc-1", Role: "ADMIN"}
	long := strings.Repeat("a", sec.MaxPasswordBytes+1)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "missing field",
			body:    `{"current_password":"abc123","new_password":"","confirm_password":""}`,
			wantMsg: "All fields are required",
		},
		{
			name:    "too short",
			body:    `{"current_password":"abc123","new_password":"abc","confirm_password":"abc"}`,
			wantMsg: "New password must be at least 6 characters long",
		},
		{
			name:    "mismatch",
			body:    `{"current_password":"abc123","new_password":"abcdef","confirm_password":"abcdeg"}`,
			wantMsg: "New passwords do not match",
		},
		{
			name:    "unchanged",
			body:    `{"current_password":"abcdef","new_password":"abcdef","confirm_password":"abcdef"}`,
			wantMsg: "New password must be different from current password",
		},
		{
			name:    "longer than bcrypt accepts",
			body:    `{"current_password":"abc123","new_password":"` + long + `","confirm_password":"` + long + `"}`,
			wantMsg: "Validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(authtest.MockUserRepository)
			service := account.NewService(repo, new(MockAuditRepository), discardLogger())

			recorder := postJSON(newAccountRouter(service, claims, nil), "/change-password", tt.body)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, recorder))
			repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_RequiresAuthentication(t *testing.T) {
	service := account.NewService(new(authtest.MockUserRepository), new(MockAuditRepository), discardLogger())
	router := newAccountRouter(service, nil, nil)

	recorder := postJSON(router, "/change-user-id", `{}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/changes", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_ChangeUserID_SyncsSession verifies that a successful change is
reflected in the signed-in session of the calling profile.
*/
func TestHandler_ChangeUserID_SyncsSession(t *testing.T) {
	ctx := context.Background()
	stored := authtest.User(t, "asha", "ADMIN", "secret1")

	repo := new(authtest.MockUserRepository)
	audit := new(MockAuditRepository)
	repo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	repo.On("UpdateUserID", mock.Anything, stored.ID, "asha.rao").Return(nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	authContext := auth.NewContext(kvstore.New(kvstore.NewMemoryBackend(), "profile-1", discardLogger()), discardLogger())
	t.Cleanup(authContext.Close)
	authContext.Init(ctx)
	authContext.Login(ctx, stored.Record(), "token")

	service := account.NewService(repo, audit, discardLogger())
	claims := &sec.AuthClaims{UserID: stored.ID, Role: "ADMIN"}

	recorder := postJSON(newAccountRouter(service, claims, authContext), "/change-user-id",
		`{"current_user_id":"asha","new_user_id":"asha.rao","confirm_user_id":"asha.rao"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "User ID changed successfully!")

	user, ok := authContext.User()
	require.True(t, ok)
	assert.Equal(t, "asha.rao", user.UserID)
}

func TestHandler_ChangePassword_StorageFailure(t *testing.T) {
	stored := authtest.User(t, "asha", "ADMIN", "secret1")

	repo := new(authtest.MockUserRepository)
	repo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	repo.On("UpdatePassword", mock.Anything, stored.ID, mock.Anything).Return(errors.New("pool closed"))

	service := account.NewService(repo, new(MockAuditRepository), discardLogger())
	claims := &sec.AuthClaims{UserID: stored.ID, Role: "ADMIN"}

	recorder := postJSON(newAccountRouter(service, claims, nil), "/change-password",
		`{"current_password":"secret1","new_password":"secret2","confirm_password":"secret2"}`)

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Equal(t, "Failed to change password. Please try again.", errorMessage(t, recorder))
}

func TestHandler_ChangeUserID_LookupFailure(t *testing.T) {
	repo := new(authtest.MockUserRepository)
	repo.On("FindByID", mock.Anything, "acc-1").Return(nil, apperr.Internal(errors.New("connection reset")))

	service := account.NewService(repo, new(MockAuditRepository), discardLogger())
	claims := &sec.AuthClaims{UserID: "acc-1", Role: "ADMIN"}

	recorder := postJSON(newAccountRouter(service, claims, nil), "/change-user-id",
		`{"current_user_id":"asha","new_user_id":"asha.rao","confirm_user_id":"asha.rao"}`)

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Equal(t, "Failed to change user ID. Please try again.", errorMessage(t, recorder))
	repo.AssertNotCalled(t, "UpdateUserID", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ListChanges(t *testing.T) {
	audit := new(MockAuditRepository)
	audit.On("ListRecent", mock.Anything, "acc-1", 20).Return([]account.ChangeRecord{}, nil)

	service := account.NewService(new(authtest.MockUserRepository), audit, discardLogger())
	router := newAccountRouter(service, &sec.AuthClaims{UserID: "acc-1"}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/changes", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	audit.AssertExpectations(t)
}
