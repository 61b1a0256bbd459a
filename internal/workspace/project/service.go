// Copyright (c) 2026 Promptix. All rights reserved.

package project

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/platform/validate"
	"github.com/promptix/portal/internal/users/directory"
)

// CreateInput is the caller-supplied part of a new project.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Client      string   `json:"client"`
	Budget      float64  `json:"budget"`
	DueDate     string   `json:"due_date"`
	Priority    string   `json:"priority"`
	Department  string   `json:"department"`
	Members     []string `json:"members"`
}

// Service applies access rules to project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a project [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the caller's visible projects.
func (service *Service) List(context context.Context, profile *directory.Profile, filter Filter, limit, offset int) ([]*Project, int, error) {
	scope, err := access.ScopeFor(profile, access.Projects)
	if err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, scope, filter, limit, offset)
}

// Get returns one visible project.
func (service *Service) Get(context context.Context, profile *directory.Profile, id string) (*Project, error) {
	scope, err := access.ScopeFor(profile, access.Projects)
	if err != nil {
		return nil, err
	}
	return service.repo.Get(context, scope, id)
}

/*
Create adds a project with its members. Requires manage_projects.

Description: Member ids are de-duplicated. New projects start Pending with
nothing spent.

Returns:
  - *Project: the created project
  - error: FORBIDDEN, VALIDATION_ERROR, or FETCH_ERROR
*/
func (service *Service) Create(context context.Context, profile *directory.Profile, input CreateInput) (*Project, error) {
	if err := access.RequireAction(profile, sec.ActionManageProjects); err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = PriorityMedium
	}
	if input.Department == "" {
		input.Department = profile.Department
	}

	members := slices.Clone(input.Members)
	slices.Sort(members)
	members = slices.Compact(members)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		MaxLen(FieldDescription, input.Description, 5000).
		MaxLen(FieldClient, input.Client, 200).
		NonNegative(FieldBudget, input.Budget).
		OneOf(FieldPriority, input.Priority, Priorities...).
		OneOf(FieldDepartment, input.Department, directory.Departments...)
	if input.DueDate != "" {
		validator.Date(FieldDueDate, input.DueDate)
	}
	for _, member := range members {
		validator.UUID(FieldMembers, member)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	project := &Project{
		Title:       input.Title,
		Description: input.Description,
		Client:      input.Client,
		Budget:      input.Budget,
		Priority:    input.Priority,
		Status:      StatusPending,
		CreatedBy:   profile.ID,
		Department:  input.Department,
		Members:     members,
	}
	if input.DueDate != "" {
		dueDate, _ := time.Parse(time.DateOnly, input.DueDate)
		project.DueDate = &dueDate
	}

	if err := service.repo.Create(context, project); err != nil {
		return nil, err
	}

	service.logger.Info("project_created",
		slog.String("project_id", project.ID),
		slog.Int("members", len(project.Members)),
		slog.String("created_by", profile.ID),
	)
	return project, nil
}

// UpdateStatus moves a visible project to status. Any member may change it.
func (service *Service) UpdateStatus(context context.Context, profile *directory.Profile, id, status string) (*Project, error) {
	scope, err := access.ScopeFor(profile, access.Projects)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, status, Statuses...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	project, err := service.repo.UpdateStatus(context, scope, id, status)
	if err != nil {
		return nil, err
	}

	service.logger.Info("project_status_updated",
		slog.String("project_id", id),
		slog.String("status", status),
		slog.String("user_id", profile.ID),
	)
	return project, nil
}

// Delete removes a project. Requires manage_projects.
func (service *Service) Delete(context context.Context, profile *directory.Profile, id string) error {
	if err := access.RequireAction(profile, sec.ActionManageProjects); err != nil {
		return err
	}

	scope, err := access.ScopeFor(profile, access.Projects)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, scope, id); err != nil {
		return err
	}

	service.logger.Warn("project_deleted", slog.String("project_id", id), slog.String("user_id", profile.ID))
	return nil
}
