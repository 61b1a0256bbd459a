// Copyright (c) 2026 Promptix. All rights reserved.

package schema

// ProjectTable represents the 'portal.project' table.
type ProjectTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	Client      string
	Budget      string
	Spent       string
	DueDate     string
	Priority    string
	Status      string
	CreatedBy   string
	Department  string
	CreatedAt   string
	UpdatedAt   string
}

// Project is the schema definition for portal.project
var Project = ProjectTable{
	Table:       "portal.project",
	ID:          "id",
	Title:       "title",
	Description: "description",
	Client:      "client",
	Budget:      "budget",
	Spent:       "spent",
	DueDate:     "duedate",
	Priority:    "priority",
	Status:      "status",
	CreatedBy:   "createdby",
	Department:  "department",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t ProjectTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.Client, t.Budget, t.Spent, t.DueDate,
		t.Priority, t.Status, t.CreatedBy, t.Department, t.CreatedAt, t.UpdatedAt,
	}
}

// ProjectMemberTable represents the 'portal.project_member' join table.
type ProjectMemberTable struct {
	Table     string
	ProjectID string
	UserID    string
}

// ProjectMember is the schema definition for portal.project_member
var ProjectMember = ProjectMemberTable{
	Table:     "portal.project_member",
	ProjectID: "projectid",
	UserID:    "userid",
}
