// Copyright (c) 2026 Promptix. All rights reserved.

package project

import (
	"context"

	"github.com/promptix/portal/internal/access"
)

// Repository persists projects and their members. Reads and writes are narrowed
// by the caller's scope.
type Repository interface {
	List(context context.Context, scope access.Scope, filter Filter, limit, offset int) ([]*Project, int, error)
	Get(context context.Context, scope access.Scope, id string) (*Project, error)
	Create(context context.Context, project *Project) error
	UpdateStatus(context context.Context, scope access.Scope, id, status string) (*Project, error)
	Delete(context context.Context, scope access.Scope, id string) error
}
