// Copyright (c) 2026 Promptix. All rights reserved.

package budget

import (
	"context"
	"log/slog"
	"time"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/platform/validate"
	"github.com/promptix/portal/internal/users/directory"
	"github.com/promptix/portal/pkg/pointer"
	"github.com/promptix/portal/pkg/slug"
	"github.com/promptix/portal/pkg/uuid"
)

// UpdateInput is a partial update. Nil fields are left unchanged; an empty
// head_id removes the department head.
type UpdateInput struct {
	TotalBudget *float64 `json:"total_budget"`
	SpentBudget *float64 `json:"spent_budget"`
	Description *string  `json:"description"`
	HeadID      *string  `json:"head_id"`
}

// Service applies access rules to budget operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a budget [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

/*
Overview returns every department of a fiscal year with company totals.

Parameters:
  - context: context.Context
  - profile: *directory.Profile (any signed-in employee)
  - fiscalYear: int (0 means the current year)

Returns:
  - *Overview: departments and totals
  - error: UNAUTHORIZED or FETCH_ERROR
*/
func (service *Service) Overview(context context.Context, profile *directory.Profile, fiscalYear int) (*Overview, error) {
	if profile == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	if fiscalYear <= 0 {
		fiscalYear = service.now().Year()
	}

	departments, err := service.repo.List(context, fiscalYear)
	if err != nil {
		return nil, err
	}

	return &Overview{
		FiscalYear:  fiscalYear,
		Departments: departments,
		Totals:      Summarize(departments),
	}, nil
}

// Get returns one department by id or slug.
func (service *Service) Get(context context.Context, profile *directory.Profile, identifier string) (*Department, error) {
	if profile == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return service.find(context, identifier)
}

/*
Update changes a department's figures. Requires manage_budget.

Returns:
  - *Department: the updated department
  - error: FORBIDDEN, NOT_FOUND, VALIDATION_ERROR, or FETCH_ERROR
*/
func (service *Service) Update(context context.Context, profile *directory.Profile, identifier string, input UpdateInput) (*Department, error) {
	if err := access.RequireAction(profile, sec.ActionManageBudget); err != nil {
		return nil, err
	}

	department, err := service.find(context, identifier)
	if err != nil {
		return nil, err
	}

	department.TotalBudget = pointer.Fallback(input.TotalBudget, department.TotalBudget)
	department.SpentBudget = pointer.Fallback(input.SpentBudget, department.SpentBudget)
	department.Description = pointer.Fallback(input.Description, department.Description)
	if input.HeadID != nil {
		department.HeadID = pointer.NilIfZero(*input.HeadID)
	}

	validator := &validate.Validator{}
	validator.NonNegative(FieldTotalBudget, department.TotalBudget).
		NonNegative(FieldSpentBudget, department.SpentBudget).
		MaxLen(FieldDescription, department.Description, 2000)
	if department.HeadID != nil {
		validator.UUID(FieldHeadID, *department.HeadID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, department); err != nil {
		return nil, err
	}

	service.logger.Info("department_budget_updated",
		slog.String("department_id", department.ID),
		slog.Float64("total_budget", department.TotalBudget),
		slog.Float64("spent_budget", department.SpentBudget),
		slog.String("status", department.Status),
		slog.String("user_id", profile.ID),
	)
	return department, nil
}

// find resolves a UUID or a slug. Names like "Design & Development" are
// accepted and folded to their slug.
func (service *Service) find(context context.Context, identifier string) (*Department, error) {
	if uuid.IsValid(identifier) {
		return service.repo.GetByID(context, identifier)
	}

	normalized := slug.From(identifier)
	if normalized == "" {
		return nil, apperr.NotFound("Department")
	}
	return service.repo.GetBySlug(context, normalized)
}
