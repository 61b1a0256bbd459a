// Copyright (c) 2026 Promptix. All rights reserved.

package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptix/portal/internal/platform/middleware"
	requestutil "github.com/promptix/portal/internal/platform/request"
	"github.com/promptix/portal/internal/platform/respond"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/pkg/convert"
)

// Handler serves /api/v1/budgets.
type Handler struct {
	service *Service
}

// NewHandler constructs a budget [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the budget endpoints. The router must already require an
// active session.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.overview)
	router.Get("/{id}", handler.get)
	router.With(middleware.RequireAction(sec.ActionManageBudget)).Patch("/{id}", handler.update)
}

/*
GET /api/v1/budgets?fiscal_year=2026

Response:
  - 200: departments and company totals; a missing or malformed year means the current one
*/
func (handler *Handler) overview(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fiscalYear := convert.ToIntD(request.URL.Query().Get("fiscal_year"), 0)

	overview, err := handler.service.Overview(request.Context(), profile, fiscalYear)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, overview)
}

// GET /api/v1/budgets/{id} where id is a department id or slug.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	department, err := handler.service.Get(request.Context(), profile, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, department)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	department, err := handler.service.Update(request.Context(), profile, requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, department)
}
