// Copyright (c) 2026 Promptix. All rights reserved.

package request

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptix/portal/internal/platform/middleware"
	requestutil "github.com/promptix/portal/internal/platform/request"
	"github.com/promptix/portal/internal/platform/respond"
	"github.com/promptix/portal/pkg/pagination"
	"github.com/promptix/portal/pkg/query"
)

// Handler serves /api/v1/requests.
type Handler struct {
	service *Service
}

// NewHandler constructs an item request [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the request endpoints. The router must already require
// an active session.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/summary", handler.summary)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)

	router.Group(func(reviewers chi.Router) {
		reviewers.Use(middleware.RequireAdmin)

		reviewers.Post("/{id}/approve", handler.approve)
		reviewers.Post("/{id}/reject", handler.reject)
	})
}

/*
GET /api/v1/requests?q=&status=pending&urgency=high,urgent&page=&limit=

Response:
  - 200: paginated requests visible to the caller
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
		Query:     values.Get("q"),
		Statuses:  query.Allowed(values.Get("status"), Statuses...),
		Urgencies: query.Allowed(values.Get("urgency"), Urgencies...),
	}

	requests, total, err := handler.service.List(request.Context(), profile, filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, requests, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// GET /api/v1/requests/summary
func (handler *Handler) summary(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.service.Summarize(request.Context(), profile)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	itemRequest, err := handler.service.Get(request.Context(), profile, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, itemRequest)
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

	itemRequest, err := handler.service.Create(request.Context(), profile, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, itemRequest)
}

func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	itemRequest, err := handler.service.Approve(request.Context(), profile, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, itemRequest)
}

func (handler *Handler) reject(writer http.ResponseWriter, request *http.Request) {
	profile, err := requestutil.RequiredProfile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	itemRequest, err := handler.service.Reject(request.Context(), profile, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, itemRequest)
}
