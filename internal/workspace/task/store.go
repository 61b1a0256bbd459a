// Copyright (c) 2026 Promptix. All rights reserved.

package task

import (
	"context"

	"github.com/promptix/portal/internal/access"
)

// Repository persists tasks. Every read and write is narrowed by the caller's
// scope; a task outside the scope behaves as if it did not exist.
type Repository interface {
	List(context context.Context, scope access.Scope, filter Filter, limit, offset int) ([]*Task, int, error)
	Get(context context.Context, scope access.Scope, id string) (*Task, error)
	Create(context context.Context, task *Task) error
	UpdateStatus(context context.Context, scope access.Scope, id, status string) (*Task, error)
	Delete(context context.Context, scope access.Scope, id string) error
}
