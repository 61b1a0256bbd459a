// Copyright (c) 2026 Promptix. All rights reserved.

package employee

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/promptix/portal/internal/platform/middleware"
	requestutil "github.com/promptix/portal/internal/platform/request"
	"github.com/promptix/portal/internal/platform/respond"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/users/directory"
	"github.com/promptix/portal/pkg/convert"
	"github.com/promptix/portal/pkg/pagination"
	"github.com/promptix/portal/pkg/pointer"
)

// Handler serves /api/v1/users.
type Handler struct {
	service *Service
}

// NewHandler constructs an employee [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the admin directory endpoints. The router must be mounted
// behind an active session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAdmin)

	router.Get("/", handler.list)

	return router
}

/*
GET /api/v1/users?q=&role=sales&department=Sales&is_active=true&page=&limit=

Description: Unknown roles and departments are ignored rather than rejected.

Response:
  - 200: paginated directory profiles
  - 403: caller is not an administrator
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	values := request.URL.Query()

	filter := directory.Filter{Query: values.Get("q")}
	if role := sec.Role(values.Get("role")); role.Valid() {
		filter.Role = string(role)
	}
	if department := values.Get("department"); slices.Contains(directory.Departments, department) {
		filter.Department = department
	}
	if values.Has("is_active") {
		filter.IsActive = pointer.To(convert.ToBool(values.Get("is_active")))
	}

	profiles, total, err := handler.service.List(request.Context(), profile, filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, profiles, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
