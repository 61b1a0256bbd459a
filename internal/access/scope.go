// Copyright (c) 2026 Promptix. All rights reserved.

package access

import (
	"fmt"

	"github.com/promptix/portal/internal/platform/apperr"
	"github.com/promptix/portal/internal/platform/database/schema"
	"github.com/promptix/portal/internal/users/directory"
)

// # Collections

// Collection names a scoped resource collection.
type Collection string

const (
	Tasks    Collection = "tasks"
	Projects Collection = "projects"
	Requests Collection = "requests"
)

// # Scope

// Scope is the visibility rule for one caller over one collection.
//
// The zero value is not usable; obtain scopes from [ScopeFor] or [Unrestricted].
type Scope struct {
	collection Collection
	userID     string
	restricted bool
}

// Record is what an in-memory check needs to know about a row.
type Record struct {
	// OwnerID is assigned_to for tasks and requested_by for requests.
	OwnerID string
	// MemberIDs lists project members.
	MemberIDs []string
}

/*
ScopeFor builds the visibility scope of profile over collection.

Admins get an unrestricted scope. Everyone else is restricted to:

  - tasks: assigned to them
  - projects: they are a member of
  - requests: requested by them

Returns UNAUTHORIZED for a nil profile.
*/
func ScopeFor(profile *directory.Profile, collection Collection) (Scope, error) {
	if profile == nil {
		return Scope{}, apperr.Unauthorized("Authentication required")
	}

	switch collection {
	case Tasks, Projects, Requests:
	default:
		return Scope{}, apperr.Internal(fmt.Errorf("access: unknown collection %q", collection))
	}

	if profile.Role.IsAdmin() {
		return Unrestricted(collection), nil
	}

	return Scope{collection: collection, userID: profile.ID, restricted: true}, nil
}

// Unrestricted returns a scope that sees every record of collection.
func Unrestricted(collection Collection) Scope {
	return Scope{collection: collection}
}

// Collection returns the collection the scope applies to.
func (scope Scope) Collection() Collection { return scope.collection }

// Restricted reports whether the scope narrows the collection.
func (scope Scope) Restricted() bool { return scope.restricted }

// UserID returns the caller id a restricted scope is pinned to, or "".
func (scope Scope) UserID() string { return scope.userID }

/*
Where renders the scope as a SQL predicate.

Parameters:
  - alias: table alias of the collection's table in the caller's query
  - nextArg: the next free positional parameter number

Returns:
  - string: predicate to AND into the WHERE clause ("TRUE" when unrestricted)
  - []any: arguments for the placeholders used by the predicate
*/
func (scope Scope) Where(alias string, nextArg int) (string, []any) {
	if !scope.restricted {
		return "TRUE", nil
	}

	switch scope.collection {
	case Tasks:
		return fmt.Sprintf("%s.%s = $%d", alias, schema.Task.AssignedTo, nextArg), []any{scope.userID}
	case Requests:
		return fmt.Sprintf("%s.%s = $%d", alias, schema.ItemRequest.RequestedBy, nextArg), []any{scope.userID}
	case Projects:
		return fmt.Sprintf("EXISTS (SELECT 1 FROM %s pm WHERE pm.%s = %s.%s AND pm.%s = $%d)",
			schema.ProjectMember.Table, schema.ProjectMember.ProjectID, alias, schema.Project.ID,
			schema.ProjectMember.UserID, nextArg), []any{scope.userID}
	default:
		return "FALSE", nil
	}
}

// Permits evaluates the scope against an in-memory record.
func (scope Scope) Permits(record Record) bool {
	if !scope.restricted {
		return true
	}

	switch scope.collection {
	case Tasks, Requests:
		return record.OwnerID == scope.userID
	case Projects:
		for _, member := range record.MemberIDs {
			if member == scope.userID {
				return true
			}
		}
		return false
	default:
		return false
	}
}
