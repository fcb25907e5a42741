// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package farmer

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/middleware"
	requestutil "github.com/taibuivan/farmreg/internal/platform/request"
	"github.com/taibuivan/farmreg/internal/platform/respond"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/pkg/pagination"
	"github.com/taibuivan/farmreg/pkg/query"
)

// selfIdentifier addresses the caller's own profile.
const selfIdentifier = "me"

// # Handler Implementation

// Handler implements the HTTP layer for registry reads.
type Handler struct {
	service *Service
}

// NewHandler constructs a new farmer [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the registry endpoints.
//
// # Routing Strategy
//
//   - Profiles: Any signed-in account may read its own; staff may read any.
//   - Registry: Listing and direct lookups require [sec.RoleEmployee].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)
	router.Get("/{id}/profile", handler.getProfile)

	router.Group(func(staff chi.Router) {
		staff.Use(middleware.RequireRole(sec.RoleEmployee))

		staff.Get("/", handler.listFarmers)
		staff.Get("/{id}", handler.getFarmer)
	})

	return router
}

/*
GET /api/v1/farmers.

Request:
  - q: string (Name, village or phone search)
  - district: string
  - kyc: []string (pending, approved, rejected; repeated or comma separated)
  - limit: int
  - page: int

Response:
  - 200: []Farmer: Paginated list of farmers
  - 400: ErrValidation: Unknown KYC status
*/
func (handler *Handler) listFarmers(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Query:    strings.TrimSpace(queryParams.Get("q")),
		District: strings.TrimSpace(queryParams.Get("district")),
	}

	for _, raw := range query.List(queryParams, "kyc") {
		status := KYCStatus(strings.ToLower(raw))
		if !status.IsValid() {
			respond.Error(writer, request, apperr.ValidationError("Unknown KYC status",
				apperr.FieldError{Field: "kyc", Message: "must be one of pending, approved, rejected"}))
			return
		}
		filter.KYCStatus = append(filter.KYCStatus, status)
	}

	farmers, total, err := handler.service.ListFarmers(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, farmers, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/farmers/{id}.

Response:
  - 200: Farmer
  - 404: ErrNotFound
*/
func (handler *Handler) getFarmer(writer http.ResponseWriter, request *http.Request) {
	farmer, err := handler.service.GetFarmer(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, farmer)
}

/*
GET /api/v1/farmers/{id}/profile.

Description: {id} is an account ID, or "me" for the caller.

Response:
  - 200: ProfileRecord
  - 403: ErrForbidden: Another account's profile without staff role
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID := requestutil.Param(request, "id")
	if accountID == selfIdentifier {
		accountID = claims.UserID
	}

	if accountID != claims.UserID && !sec.ParseRole(claims.Role).AtLeast(sec.RoleEmployee) {
		respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
		return
	}

	profile, err := handler.service.LoadProfile(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
