// Copyright (c) 2026 Promptix. All rights reserved.

package budget

import "context"

// Repository persists department budgets.
type Repository interface {
	// List returns the departments of fiscalYear, or of every year when it is 0.
	List(context context.Context, fiscalYear int) ([]*Department, error)

	// GetByID and GetBySlug return NOT_FOUND for unknown departments.
	GetByID(context context.Context, id string) (*Department, error)
	GetBySlug(context context.Context, slug string) (*Department, error)

	// Update writes the editable fields of department.
	Update(context context.Context, department *Department) error
}
