// Copyright (c) 2026 Promptix. All rights reserved.

package sec

import "fmt"

// # Roles

// Role is the organizational role recorded on a directory row.
//
// Roles only ever come from the directory. Nothing in the agent converts caller
// input into a Role that is then trusted for authorization.
type Role string

const (
	RoleExecutive    Role = "executive"
	RoleSystemsAdmin Role = "systems_admin"
	RoleITManager    Role = "it_manager"
	RoleSales        Role = "sales"
	Role3DModeler    Role = "3d_modeler"
	RoleEmployee     Role = "employee"
)

// Roles lists every known role in directory order.
var Roles = []Role{
	RoleExecutive,
	RoleSystemsAdmin,
	RoleITManager,
	RoleSales,
	Role3DModeler,
	RoleEmployee,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// IsAdmin reports whether r belongs to the admin set.
func (r Role) IsAdmin() bool {
	return IsAdmin(r)
}

// IsAdmin reports whether role is executive, systems_admin, or it_manager.
// Unknown roles are never admin.
func IsAdmin(role Role) bool {
	switch role {
	case RoleExecutive, RoleSystemsAdmin, RoleITManager:
		return true
	default:
		return false
	}
}

// ParseRole converts a directory column value into a Role.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.Valid() {
		return "", fmt.Errorf("sec: unknown role %q", value)
	}
	return role, nil
}
