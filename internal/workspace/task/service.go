// Copyright (c) 2026 Promptix. All rights reserved.

package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/platform/validate"
	"github.com/promptix/portal/internal/users/directory"
)

// CreateInput is the caller-supplied part of a new task.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assigned_to"`
	Department  string `json:"department"`
}

// Service applies access rules to task operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a task [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
List returns the caller's visible tasks.

Parameters:
  - context: context.Context
  - profile: *directory.Profile (the caller)
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Task: page of visible tasks
  - int: total visible tasks
  - error: UNAUTHORIZED or FETCH_ERROR
*/
func (service *Service) List(context context.Context, profile *directory.Profile, filter Filter, limit, offset int) ([]*Task, int, error) {
	scope, err := access.ScopeFor(profile, access.Tasks)
	if err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, scope, filter, limit, offset)
}

// Get returns one visible task.
func (service *Service) Get(context context.Context, profile *directory.Profile, id string) (*Task, error) {
	scope, err := access.ScopeFor(profile, access.Tasks)
	if err != nil {
		return nil, err
	}
	return service.repo.Get(context, scope, id)
}

/*
Create adds a task. Requires manage_tasks.

Description: An empty assignee assigns the task to the caller. New tasks start
Pending with medium priority unless a priority is given.

Returns:
  - *Task: the created task
  - error: FORBIDDEN, VALIDATION_ERROR, or FETCH_ERROR
*/
func (service *Service) Create(context context.Context, profile *directory.Profile, input CreateInput) (*Task, error) {
	if err := access.RequireAction(profile, sec.ActionManageTasks); err != nil {
		return nil, err
	}

	if input.AssignedTo == "" {
		input.AssignedTo = profile.ID
	}
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}
	if input.Department == "" {
		input.Department = profile.Department
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		MaxLen(FieldDescription, input.Description, 5000).
		OneOf(FieldPriority, input.Priority, Priorities...).
		UUID(FieldAssignedTo, input.AssignedTo).
		OneOf(FieldDepartment, input.Department, directory.Departments...)
	if input.DueDate != "" {
		validator.Date(FieldDueDate, input.DueDate)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	task := &Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      StatusPending,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   profile.ID,
		Department:  input.Department,
	}
	if input.DueDate != "" {
		dueDate, _ := time.Parse(time.DateOnly, input.DueDate)
		task.DueDate = &dueDate
	}

	if err := service.repo.Create(context, task); err != nil {
		return nil, err
	}

	service.logger.Info("task_created",
		slog.String("task_id", task.ID),
		slog.String("assigned_to", task.AssignedTo),
		slog.String("created_by", profile.ID),
	)
	return task, nil
}

// UpdateStatus moves a visible task to status. Any caller who can see the task
// may change its status.
func (service *Service) UpdateStatus(context context.Context, profile *directory.Profile, id, status string) (*Task, error) {
	scope, err := access.ScopeFor(profile, access.Tasks)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, status, Statuses...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	task, err := service.repo.UpdateStatus(context, scope, id, status)
	if err != nil {
		return nil, err
	}

	service.logger.Info("task_status_updated",
		slog.String("task_id", id),
		slog.String("status", status),
		slog.String("user_id", profile.ID),
	)
	return task, nil
}

// Delete removes a task. Requires manage_tasks.
func (service *Service) Delete(context context.Context, profile *directory.Profile, id string) error {
	if err := access.RequireAction(profile, sec.ActionManageTasks); err != nil {
		return err
	}

	scope, err := access.ScopeFor(profile, access.Tasks)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, scope, id); err != nil {
		return err
	}

	service.logger.Warn("task_deleted", slog.String("task_id", id), slog.String("user_id", profile.ID))
	return nil
}
