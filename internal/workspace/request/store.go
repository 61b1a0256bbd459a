// Copyright (c) 2026 Promptix. All rights reserved.

package request

import (
	"context"

	"github.com/promptix/portal/internal/access"
)

// Repository persists item requests, narrowed by the caller's scope.
type Repository interface {
	List(context context.Context, scope access.Scope, filter Filter, limit, offset int) ([]*ItemRequest, int, error)
	Summarize(context context.Context, scope access.Scope) (*Summary, error)
	Get(context context.Context, scope access.Scope, id string) (*ItemRequest, error)
	Create(context context.Context, itemRequest *ItemRequest) error

	// Review moves a pending request to status. A request that is no longer
	// pending is reported as NOT_FOUND.
	Review(context context.Context, id, status, reviewerID string) (*ItemRequest, error)
}
