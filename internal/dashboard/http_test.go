// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/farmreg/internal/credential"
	"github.com/taibuivan/farmreg/internal/dashboard"
	"github.com/taibuivan/farmreg/internal/farmer"
	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/kvstore"
	"github.com/taibuivan/farmreg/internal/users/auth"
	"github.com/taibuivan/farmreg/pkg/uuid"
)

type dashboardFixture struct {
	t         *testing.T
	router    http.Handler
	provider  *auth.Provider
	profileID string
	clock     *clock.Mock
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockClock := clock.NewMock()
	mockClock.Set(time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local))

	provider, err := auth.NewProvider(kvstore.NewMemoryBackend(), 16, logger)
	require.NoError(t, err)

	screens, err := dashboard.NewScreens(16, func(auth.UserRecord) credential.Updater { return succeed() }, dashboard.ScreenOptions{
		Clock:         mockClock,
		CloseDelay:    closeDelay,
		ToastDuration: toastDuration,
	})
	require.NoError(t, err)
	t.Cleanup(screens.Purge)

	router := chi.NewRouter()
	router.Use(provider.Sessions(false))
	dashboard.NewHandler(screens, &farmer.StaticLoader{Clock: mockClock}, mockClock).MountScreens(router)

	return &dashboardFixture{t: t, router: router, provider: provider, profileID: uuid.New(), clock: mockClock}
}

func (f *dashboardFixture) signIn(role string) {
	ctx := context.Background()
	f.provider.For(ctx, f.profileID).Login(ctx, auth.UserRecord{
		ID:     "0192f7a0-0000-7000-8000-000000000001",
		UserID: "asha",
		Name:   "Asha Rao",
		Role:   role,
	}, "token")
}

func (f *dashboardFixture) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, body)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	request.AddCookie(&http.Cookie{Name: constants.ProfileCookieName, Value: f.profileID})

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()

	envelope := struct {
		Data any `json:"data"`
	}{Data: target}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
}

type dashboardBody struct {
	Screen   string `json:"screen"`
	Greeting string `json:"greeting"`
	Role     string `json:"role"`
	Profile  struct {
		Placeholder bool `json:"placeholder"`
		Assignments struct {
			Pending int `json:"pending"`
		} `json:"assignments"`
	} `json:"profile"`
	Modals map[string]struct {
		Open bool             `json:"open"`
		Form credential.State `json:"form"`
	} `json:"modals"`
	Toast *dashboard.Toast `json:"toast"`
}

func TestDashboard_RoleScreens(t *testing.T) {
	t.Run("signed out is sent to login", func(t *testing.T) {
		fixture := newDashboardFixture(t)

		recorder := fixture.do(http.MethodGet, constants.PathAdminDashboard, nil, "")
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, constants.PathLogin, recorder.Header().Get("Location"))
	})

	t.Run("wrong role is sent home", func(t *testing.T) {
		fixture := newDashboardFixture(t)
		fixture.signIn("employee")

		recorder := fixture.do(http.MethodGet, constants.PathAdminDashboard, nil, "")
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, constants.PathEmployeeDashboard, recorder.Header().Get("Location"))
	})

	t.Run("admin dashboard", func(t *testing.T) {
		fixture := newDashboardFixture(t)
		fixture.signIn(" Admin ")

		recorder := fixture.do(http.MethodGet, constants.PathAdminDashboard, nil, "")
		require.Equal(t, http.StatusOK, recorder.Code)

		var body dashboardBody
		decodeData(t, recorder, &body)
		assert.Equal(t, constants.PathAdminDashboard, body.Screen)
		assert.Equal(t, "Good Morning, Asha Rao", body.Greeting)
		assert.Equal(t, "ADMIN", body.Role)
		assert.True(t, body.Profile.Placeholder)
		assert.Equal(t, 2, body.Profile.Assignments.Pending)
		assert.False(t, body.Modals[string(credential.KindPassword)].Open)
		assert.Nil(t, body.Toast)
	})

	t.Run("generic dashboard admits any role", func(t *testing.T) {
		fixture := newDashboardFixture(t)
		fixture.signIn("FARMER")

		recorder := fixture.do(http.MethodGet, constants.PathDashboard, nil, "")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestDashboard_ModalFlow(t *testing.T) {
	fixture := newDashboardFixture(t)
	fixture.signIn("SUPER_ADMIN")

	path := constants.PathDashboard + "/modals/user-id/"

	recorder := fixture.do(http.MethodPost, path+"open", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := strings.NewReader(`{"current":"asha","new":"asha.rao","confirm":"asha.rao"}`)
	recorder = fixture.do(http.MethodPost, path+"submit", body, "application/json")
	require.Equal(t, http.StatusOK, recorder.Code)

	var view dashboardBody
	decodeData(t, recorder, &view)
	modal := view.Modals[string(credential.KindUserID)]
	assert.True(t, modal.Open)
	assert.Equal(t, "User ID changed successfully!", modal.Form.Success)

	fixture.clock.Add(closeDelay)

	assert.Eventually(t, func() bool {
		recorder := fixture.do(http.MethodGet, constants.PathSuperAdminDashboard, nil, "")
		var view dashboardBody
		decodeData(t, recorder, &view)
		return !view.Modals[string(credential.KindUserID)].Open &&
			view.Toast != nil && view.Toast.Message == "User ID updated successfully"
	}, time.Second, 10*time.Millisecond)
}

func TestDashboard_ModalErrors(t *testing.T) {
	fixture := newDashboardFixture(t)
	fixture.signIn("ADMIN")

	recorder := fixture.do(http.MethodPost, constants.PathDashboard+"/modals/pin/open", nil, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = fixture.do(http.MethodPost, constants.PathDashboard+"/modals/password/explode", nil, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	values := url.Values{"current": {"old"}, "new": {"newpass"}, "confirm": {"newpass"}}
	recorder = fixture.do(http.MethodPost, constants.PathDashboard+"/modals/password/submit",
		strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestDashboard_PanelRedirectsHome(t *testing.T) {
	fixture := newDashboardFixture(t)
	fixture.signIn("EMPLOYEE")

	recorder := fixture.do(http.MethodGet, constants.PathChangePassword, nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"variant":"panel"`)

	values := url.Values{"current": {"same"}, "new": {"same"}, "confirm": {"same"}}
	recorder = fixture.do(http.MethodPost, constants.PathChangePassword,
		strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, recorder.Code)

	var failed struct {
		Form     credential.State `json:"form"`
		Redirect string           `json:"redirect"`
	}
	decodeData(t, recorder, &failed)
	assert.Equal(t, "New password must be different from current password", failed.Form.Error)
	assert.Empty(t, failed.Redirect)

	values = url.Values{"current": {"old"}, "new": {"newpass"}, "confirm": {"newpass"}}
	recorder = fixture.do(http.MethodPost, constants.PathChangePassword,
		strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, recorder.Code)

	var succeeded struct {
		Form     credential.State `json:"form"`
		Redirect string           `json:"redirect"`
	}
	decodeData(t, recorder, &succeeded)
	assert.Equal(t, "Password changed successfully!", succeeded.Form.Success)
	assert.Equal(t, constants.PathEmployeeDashboard, succeeded.Redirect)
}

func TestDashboard_PanelValidatesEveryPost(t *testing.T) {
	fixture := newDashboardFixture(t)
	fixture.signIn("EMPLOYEE")

	post := func(current, next, confirm string) (credential.State, string, string) {
		values := url.Values{"current": {current}, "new": {next}, "confirm": {confirm}}
		recorder := fixture.do(http.MethodPost, constants.PathChangePassword,
			strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
		require.Equal(t, http.StatusOK, recorder.Code)

		var view struct {
			Form     credential.State `json:"form"`
			Redirect string           `json:"redirect"`
		}
		decodeData(t, recorder, &view)
		return view.Form, view.Redirect, recorder.Body.String()
	}

	state, redirect, _ := post("old", "newpass", "newpass")
	assert.Equal(t, "Password changed successfully!", state.Success)
	assert.Equal(t, constants.PathEmployeeDashboard, redirect)

	// Still inside the close delay
	state, redirect, raw := post("x", "abcdef", "zzzzzz")
	assert.Equal(t, "New passwords do not match", state.Error)
	assert.Empty(t, state.Success)
	assert.Empty(t, redirect)
	assert.NotContains(t, raw, "abcdef")
	assert.NotContains(t, raw, "zzzzzz")
}
