// Copyright (c) 2026 Promptix. All rights reserved.

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/users/directory"
)

func profileWith(role sec.Role) *directory.Profile {
	return &directory.Profile{ID: "u-42", Role: role, IsActive: true}
}

/*
TestHasRole verifies membership checks, including the nil profile and the empty set.
*/
func TestHasRole(t *testing.T) {
	assert.False(t, HasRole(nil, sec.Roles...))
	assert.False(t, HasRole(profileWith(sec.RoleSales)))
	assert.True(t, HasRole(profileWith(sec.RoleSales), sec.RoleExecutive, sec.RoleSales))
	assert.False(t, HasRole(profileWith(sec.Role3DModeler), sec.RoleExecutive, sec.RoleSales))

	for _, role := range sec.Roles {
		assert.True(t, HasRole(profileWith(role), role))
	}
}

/*
TestCan verifies that Can follows the role policy and denies a nil profile.
*/
func TestCan(t *testing.T) {
	for _, action := range sec.Actions {
		assert.False(t, Can(nil, action))
		for _, role := range sec.Roles {
			assert.Equal(t, sec.Allowed(role, action), Can(profileWith(role), action))
		}
	}

	assert.False(t, Can(profileWith(sec.RoleSystemsAdmin), sec.ActionManageBudget))
	assert.True(t, Can(profileWith(sec.RoleExecutive), sec.ActionManageBudget))
}

func TestRequireAction(t *testing.T) {
	assert.True(t, apperr.HasCode(RequireAction(nil, sec.ActionManageTasks), apperr.CodeUnauthorized))
	assert.True(t, apperr.HasCode(RequireAction(profileWith(sec.RoleSales), sec.ActionManageTasks), apperr.CodeForbidden))
	assert.NoError(t, RequireAction(profileWith(sec.RoleITManager), sec.ActionManageTasks))
}

func TestRequireAdmin(t *testing.T) {
	assert.True(t, apperr.HasCode(RequireAdmin(nil), apperr.CodeUnauthorized))
	assert.True(t, apperr.HasCode(RequireAdmin(profileWith(sec.RoleEmployee)), apperr.CodeForbidden))
	assert.NoError(t, RequireAdmin(profileWith(sec.RoleSystemsAdmin)))
}

/*
TestScopeFor verifies the predicate rendered for each collection and the
unrestricted scope granted to admins.
*/
func TestScopeFor(t *testing.T) {
	t.Run("nil profile", func(t *testing.T) {
		_, err := ScopeFor(nil, Tasks)
		assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	})

	t.Run("unknown collection", func(t *testing.T) {
		_, err := ScopeFor(profileWith(sec.RoleSales), Collection("budgets"))
		assert.Error(t, err)
	})

	tests := []struct {
		collection Collection
		alias      string
		want       string
	}{
		{Tasks, "t", "t.assignedto = $3"},
		{Requests, "r", "r.requestedby = $3"},
		{Projects, "p", "EXISTS (SELECT 1 FROM portal.project_member pm WHERE pm.projectid = p.id AND pm.userid = $3)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.collection), func(t *testing.T) {
			scope, err := ScopeFor(profileWith(sec.RoleEmployee), tt.collection)
			require.NoError(t, err)
			assert.True(t, scope.Restricted())
			assert.Equal(t, "u-42", scope.UserID())

			clause, args := scope.Where(tt.alias, 3)
			assert.Equal(t, tt.want, clause)
			assert.Equal(t, []any{"u-42"}, args)
		})
	}

	t.Run("admin unrestricted", func(t *testing.T) {
		for _, role := range []sec.Role{sec.RoleExecutive, sec.RoleSystemsAdmin, sec.RoleITManager} {
			scope, err := ScopeFor(profileWith(role), Tasks)
			require.NoError(t, err)
			assert.False(t, scope.Restricted())

			clause, args := scope.Where("t", 1)
			assert.Equal(t, "TRUE", clause)
			assert.Empty(t, args)
		}
	})
}

/*
TestScope_Permits verifies that the in-memory rule matches the SQL rule: a
non-admin sees exactly their own tasks and requests and the projects they belong to.
*/
func TestScope_Permits(t *testing.T) {
	caller := profileWith(sec.RoleSales)

	tasks, _ := ScopeFor(caller, Tasks)
	assert.True(t, tasks.Permits(Record{OwnerID: "u-42"}))
	assert.False(t, tasks.Permits(Record{OwnerID: "u-7"}))

	requests, _ := ScopeFor(caller, Requests)
	assert.False(t, requests.Permits(Record{OwnerID: ""}))

	projects, _ := ScopeFor(caller, Projects)
	assert.True(t, projects.Permits(Record{MemberIDs: []string{"u-7", "u-42"}}))
	assert.False(t, projects.Permits(Record{MemberIDs: nil}))

	admin, _ := ScopeFor(profileWith(sec.RoleExecutive), Projects)
	assert.True(t, admin.Permits(Record{}))
}
