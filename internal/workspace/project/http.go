// Copyright (c) 2026 Promptix. All rights reserved.

package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptix/portal/internal/platform/middleware"
	requestutil "github.com/promptix/portal/internal/platform/request"
	"github.com/promptix/portal/internal/platform/respond"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/pkg/pagination"
	"github.com/promptix/portal/pkg/query"
)

// Handler serves /api/v1/projects.
type Handler struct {
	service *Service
}

// NewHandler constructs a project [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the project endpoints. The router must already require an
// active session.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Patch("/{id}/status", handler.updateStatus)

	router.Group(func(managers chi.Router) {
		managers.Use(middleware.RequireAction(sec.ActionManageProjects))

		managers.Post("/", handler.create)
		managers.Delete("/{id}", handler.delete)
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

/*
GET /api/v1/projects?q=&status=Pending,Completed&priority=high&page=&limit=

Response:
  - 200: paginated projects visible to the caller
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	values := request.URL.Query()
	filter := Filter{
		Query:      values.Get("q"),
		Statuses:   query.Allowed(values.Get("status"), Statuses...),
		Priorities: query.Allowed(values.Get("priority"), Priorities...),
	}

	projects, total, err := handler.service.List(request.Context(), profile, filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, projects, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.service.Get(request.Context(), profile, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, project)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.service.Create(request.Context(), profile, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, project)
}

func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.service.UpdateStatus(request.Context(), profile, requestutil.ID(request, "id"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, project)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), profile, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
