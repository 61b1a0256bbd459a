// Copyright (c) 2026 Promptix. All rights reserved.

package request

import (
	"context"
	"log/slog"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/validate"
	"github.com/promptix/portal/internal/users/directory"
)

// CreateInput is the caller-supplied part of a new item request.
type CreateInput struct {
	Title         string `json:"title"`
	Quantity      int    `json:"quantity"`
	Justification string `json:"justification"`
	Urgency       string `json:"urgency"`
}

// Service applies access rules to item request operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs an item request [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the caller's visible requests.
func (service *Service) List(context context.Context, profile *directory.Profile, filter Filter, limit, offset int) ([]*ItemRequest, int, error) {
	scope, err := access.ScopeFor(profile, access.Requests)
	if err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, scope, filter, limit, offset)
}

// Summarize counts the caller's visible requests by status.
func (service *Service) Summarize(context context.Context, profile *directory.Profile) (*Summary, error) {
	scope, err := access.ScopeFor(profile, access.Requests)
	if err != nil {
		return nil, err
	}
	return service.repo.Summarize(context, scope)
}

// Get returns one visible request.
func (service *Service) Get(context context.Context, profile *directory.Profile, id string) (*ItemRequest, error) {
	scope, err := access.ScopeFor(profile, access.Requests)
	if err != nil {
		return nil, err
	}
	return service.repo.Get(context, scope, id)
}

/*
Create files a request on behalf of the caller. Any signed-in employee may ask.

Description: The requester is always the caller. Quantity defaults to 1 and
urgency to medium.

Returns:
  - *ItemRequest: the pending request
  - error: UNAUTHORIZED, VALIDATION_ERROR, or FETCH_ERROR
*/
func (service *Service) Create(context context.Context, profile *directory.Profile, input CreateInput) (*ItemRequest, error) {
	if profile == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Urgency == "" {
		input.Urgency = UrgencyMedium
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		Range(FieldQuantity, input.Quantity, 1, 1000).
		MaxLen(FieldJustification, input.Justification, 2000).
		OneOf(FieldUrgency, input.Urgency, Urgencies...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	itemRequest := &ItemRequest{
		Title:         input.Title,
		Quantity:      input.Quantity,
		Justification: input.Justification,
		Urgency:       input.Urgency,
		Status:        StatusPending,
		RequestedBy:   profile.ID,
	}
	if err := service.repo.Create(context, itemRequest); err != nil {
		return nil, err
	}

	service.logger.Info("item_request_created",
		slog.String("request_id", itemRequest.ID),
		slog.String("urgency", itemRequest.Urgency),
		slog.String("requested_by", profile.ID),
	)
	return itemRequest, nil
}

// Approve marks a pending request approved. Administrators only.
func (service *Service) Approve(context context.Context, profile *directory.Profile, id string) (*ItemRequest, error) {
	return service.review(context, profile, id, StatusApproved)
}

// Reject marks a pending request rejected. Administrators only.
func (service *Service) Reject(context context.Context, profile *directory.Profile, id string) (*ItemRequest, error) {
	return service.review(context, profile, id, StatusRejected)
}

func (service *Service) review(context context.Context, profile *directory.Profile, id, status string) (*ItemRequest, error) {
	if err := access.RequireAdmin(profile); err != nil {
		return nil, err
	}

	current, err := service.repo.Get(context, access.Unrestricted(access.Requests), id)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusPending {
		return nil, apperr.Conflict("Request has already been " + current.Status)
	}

	reviewed, err := service.repo.Review(context, id, status, profile.ID)
	if err != nil {
		// Reviewed by someone else between the read and the update.
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Conflict("Request has already been reviewed")
		}
		return nil, err
	}

	service.logger.Info("item_request_reviewed",
		slog.String("request_id", id),
		slog.String("status", status),
		slog.String("reviewed_by", profile.ID),
	)
	return reviewed, nil
}
