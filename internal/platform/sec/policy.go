// Copyright (c) 2026 Promptix. All rights reserved.

package sec

// # Actions

// Action names a privileged operation guarded by [Allowed].
type Action string

const (
	ActionManageTasks    Action = "manage_tasks"
	ActionManageProjects Action = "manage_projects"
	ActionManageBudget   Action = "manage_budget"
)

// Actions lists every known action.
var Actions = []Action{ActionManageTasks, ActionManageProjects, ActionManageBudget}

// operationalActions are the actions delegated to the operational admins.
var operationalActions = map[Action]struct{}{
	ActionManageTasks:    {},
	ActionManageProjects: {},
}

// Allowed is the tiered action policy.
//
//   - executive: every known action.
//   - systems_admin, it_manager: manage_tasks and manage_projects only.
//   - everyone else: nothing.
//
// The function is pure and total. Unknown roles and unknown actions are denied.
func Allowed(role Role, action Action) bool {
	if !isKnownAction(action) {
		return false
	}

	switch role {
	case RoleExecutive:
		return true
	case RoleSystemsAdmin, RoleITManager:
		_, ok := operationalActions[action]
		return ok
	default:
		return false
	}
}

func isKnownAction(action Action) bool {
	for _, known := range Actions {
		if action == known {
			return true
		}
	}
	return false
}
