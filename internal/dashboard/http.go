// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/farmreg/internal/credential"
	"github.com/taibuivan/farmreg/internal/farmer"
	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/ctxutil"
	"github.com/taibuivan/farmreg/internal/platform/middleware"
	requestutil "github.com/taibuivan/farmreg/internal/platform/request"
	"github.com/taibuivan/farmreg/internal/platform/respond"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/internal/users/auth"
)

// # Handler Implementation

// Handler renders the dashboards and drives their forms.
//
// Every route expects [auth.Provider.Sessions] upstream.
type Handler struct {
	screens *Screens
	loader  farmer.ProfileLoader
	clock   clock.Clock
}

// NewHandler constructs a dashboard [Handler].
func NewHandler(screens *Screens, loader farmer.ProfileLoader, clk clock.Clock) *Handler {
	if clk == nil {
		clk = clock.New()
	}
	return &Handler{screens: screens, loader: loader, clock: clk}
}

// MountScreens registers the guarded dashboard screens on router.
//
// # Endpoints
//   - GET  /dashboard                          : Any signed-in role.
//   - GET  /employee/dashboard                 : EMPLOYEE.
//   - GET  /admin/dashboard                    : ADMIN.
//   - GET  /super-admin/dashboard              : SUPER_ADMIN.
//   - POST /dashboard/modals/{kind}/{action}   : open, close or submit a modal.
//   - GET|POST /change-password, /change-user-id : Standalone forms.
func (handler *Handler) MountScreens(router chi.Router) {
	router.With(middleware.RequireRoles()).Get(constants.PathDashboard, handler.dashboard)
	router.With(middleware.RequireRoles(sec.RoleEmployee)).Get(constants.PathEmployeeDashboard, handler.dashboard)
	router.With(middleware.RequireRoles(sec.RoleAdmin)).Get(constants.PathAdminDashboard, handler.dashboard)
	router.With(middleware.RequireRoles(sec.RoleSuperAdmin)).Get(constants.PathSuperAdminDashboard, handler.dashboard)

	router.Group(func(signedIn chi.Router) {
		signedIn.Use(middleware.RequireRoles())

		signedIn.Post(constants.PathDashboard+"/modals/{kind}/{action}", handler.modalAction)

		signedIn.Get(constants.PathChangePassword, handler.panelScreen(credential.KindPassword))
		signedIn.Post(constants.PathChangePassword, handler.submitPanel(credential.KindPassword))
		signedIn.Get(constants.PathChangeUserID, handler.panelScreen(credential.KindUserID))
		signedIn.Post(constants.PathChangeUserID, handler.submitPanel(credential.KindUserID))
	})
}

// # View Models

type dashboardView struct {
	Screen   string                `json:"screen"`
	Greeting string                `json:"greeting"`
	Role     sec.UserRole          `json:"role"`
	User     auth.UserRecord       `json:"user"`
	Profile  *farmer.ProfileRecord `json:"profile"`
	ScreenView
}

type panelView struct {
	Screen    string             `json:"screen"`
	Kind      credential.Kind    `json:"kind"`
	Variant   credential.Variant `json:"variant"`
	MinLength int                `json:"min_length"`
	Form      credential.State   `json:"form"`
	Redirect  string             `json:"redirect,omitempty"`
}

// # Dashboard

/*
GET /dashboard (and the role dashboards).

Response:
  - 200: dashboardView
  - 303: Redirect from the route guard
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	authContext, user, err := signedIn(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.loader.LoadProfile(request.Context(), user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	screen := handler.screens.For(request.Context(), ctxutil.GetProfileID(request.Context()), user)

	respond.OK(writer, dashboardView{
		Screen:     request.URL.Path,
		Greeting:   Greeting(handler.clock.Now().Hour(), user.Name),
		Role:       authContext.Role(),
		User:       user,
		Profile:    profile,
		ScreenView: screen.View(),
	})
}

/*
POST /dashboard/modals/{kind}/{action}.

Description: {kind} is "password" or "user-id"; {action} is "open",
"close" or "submit". Submissions read the fields "current", "new" and
"confirm" from a form or JSON body. Validation and update failures are
reported in the modal's form state, not as HTTP errors.

Response:
  - 200: ScreenView
  - 404: Unknown kind or action
  - 409: Submitting a closed modal
*/
func (handler *Handler) modalAction(writer http.ResponseWriter, request *http.Request) {
	_, user, err := signedIn(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	kind, ok := credential.ParseKind(requestutil.Param(request, "kind"))
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Modal"))
		return
	}

	screen := handler.screens.For(request.Context(), ctxutil.GetProfileID(request.Context()), user)

	switch requestutil.Param(request, "action") {
	case "open":
		err = screen.OpenModal(kind)
	case "close":
		_, err = screen.CloseModal(kind)
	case "submit":
		var fields Fields
		if err = decodeFields(request, &fields); err == nil {
			_, err = screen.SubmitModal(request.Context(), kind, fields)
		}
	default:
		err = apperr.NotFound("Action")
	}

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, screen.View())
}

// # Standalone Forms

/*
GET /change-password, GET /change-user-id.

Response:
  - 200: panelView (form opened with empty fields)
*/
func (handler *Handler) panelScreen(kind credential.Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		_, user, err := signedIn(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		form, err := handler.screens.For(request.Context(), ctxutil.GetProfileID(request.Context()), user).Panel(kind)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		form.Open()
		respond.OK(writer, newPanelView(request, form, form.State()))
	}
}

/*
POST /change-password, POST /change-user-id.

Description: On success the view carries the signed-in role's home as
redirect, which is where a forced password change continues.

Response:
  - 200: panelView
*/
func (handler *Handler) submitPanel(kind credential.Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		authContext, user, err := signedIn(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var fields Fields
		if err := decodeFields(request, &fields); err != nil {
			respond.Error(writer, request, err)
			return
		}

		screen := handler.screens.For(request.Context(), ctxutil.GetProfileID(request.Context()), user)
		state, err := screen.SubmitPanel(request.Context(), kind, fields)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		form, _ := screen.Panel(kind)
		view := newPanelView(request, form, state)
		if state.Success != "" {
			view.Redirect = authContext.Role().HomePath()
		}
		respond.OK(writer, view)
	}
}

// # Helpers

func newPanelView(request *http.Request, form *credential.Form, state credential.State) panelView {
	return panelView{
		Screen:    request.URL.Path,
		Kind:      form.Spec().Kind,
		Variant:   form.Variant(),
		MinLength: form.Spec().MinLength,
		Form:      state,
	}
}

func decodeFields(request *http.Request, fields *Fields) error {
	return requestutil.DecodeForm(request, map[string]*string{
		string(credential.FieldCurrent): &fields.Current,
		string(credential.FieldNext):    &fields.Next,
		string(credential.FieldConfirm): &fields.Confirm,
	})
}

// signedIn returns the profile's auth context and user. The route guard
// has already rejected signed-out profiles.
func signedIn(request *http.Request) (*auth.Context, auth.UserRecord, error) {
	authContext := auth.FromContext(request.Context())
	if authContext == nil {
		return nil, auth.UserRecord{}, apperr.Unauthorized("Authentication required")
	}

	user, ok := authContext.User()
	if !ok {
		return nil, auth.UserRecord{}, apperr.Unauthorized("Authentication required")
	}
	return authContext, user, nil
}
