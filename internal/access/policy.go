// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package access turns a directory profile into authorization decisions.

Two kinds of decision live here:

  - Policy: [HasRole], [Can], [RequireAction], and [RequireAdmin] answer whether a
    caller may do something at all.
  - Scope: [ScopeFor] narrows a collection fetch to the records the caller may see.
    Stores render the scope into their WHERE clause, so filtering happens in the
    database and never after fetch.
*/
package access

import (
	"slices"

	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/users/directory"
)

// HasRole reports whether profile is non-nil and its role is one of roles.
// An empty role set never matches.
func HasRole(profile *directory.Profile, roles ...sec.Role) bool {
	return profile != nil && slices.Contains(roles, profile.Role)
}

// IsAdmin reports whether profile is non-nil and holds an admin role.
func IsAdmin(profile *directory.Profile) bool {
	return profile.IsAdmin()
}

// Can reports whether profile is non-nil and its role is allowed action.
func Can(profile *directory.Profile, action sec.Action) bool {
	return profile != nil && sec.Allowed(profile.Role, action)
}

// RequireAction returns UNAUTHORIZED for a nil profile and FORBIDDEN when the
// role may not perform action.
func RequireAction(profile *directory.Profile, action sec.Action) error {
	if profile == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !sec.Allowed(profile.Role, action) {
		return apperr.Forbidden("Your role may not " + describe(action))
	}
	return nil
}

// RequireAdmin returns UNAUTHORIZED for a nil profile and FORBIDDEN for non-admins.
func RequireAdmin(profile *directory.Profile) error {
	if profile == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !profile.Role.IsAdmin() {
		return apperr.Forbidden("Administrator role required")
	}
	return nil
}

func describe(action sec.Action) string {
	switch action {
	case sec.ActionManageTasks:
		return "manage tasks"
	case sec.ActionManageProjects:
		return "manage projects"
	case sec.ActionManageBudget:
		return "manage budgets"
	default:
		return "perform this action"
	}
}
