// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package employee provides the administrators' view of the employee directory.

# Security

Every endpoint requires an administrative role. Password hashes never leave the
directory package.
*/
package employee

import (
	"context"
	"log/slog"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/users/directory"
)

// Lister is the part of the directory the admin view reads.
type Lister interface {
	List(context context.Context, filter directory.Filter, limit, offset int) ([]*directory.Profile, int, error)
}

// Service lists directory profiles for administrators.
type Service struct {
	directory Lister
	logger    *slog.Logger
}

// NewService constructs an employee [Service].
func NewService(directory Lister, logger *slog.Logger) *Service {
	return &Service{directory: directory, logger: logger}
}

/*
List returns a filtered page of the directory.

Parameters:
  - context: context.Context
  - profile: *directory.Profile (must be an administrator)
  - filter: directory.Filter
  - limit: int
  - offset: int

Returns:
  - []*directory.Profile: page of profiles ordered by name
  - int: total matching profiles
  - error: UNAUTHORIZED, FORBIDDEN, or FETCH_ERROR
*/
func (service *Service) List(context context.Context, profile *directory.Profile, filter directory.Filter, limit, offset int) ([]*directory.Profile, int, error) {
	if err := access.RequireAdmin(profile); err != nil {
		return nil, 0, err
	}

	profiles, total, err := service.directory.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	service.logger.Debug("directory_listed",
		slog.String("user_id", profile.ID),
		slog.Int("total", total),
	)
	return profiles, total, nil
}
