// Copyright (c) 2026 Promptix. All rights reserved.

package schema

// TaskTable represents the 'portal.task' table.
type TaskTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	AssignedTo  string
	CreatedBy   string
	Department  string
	CreatedAt   string
	UpdatedAt   string
}

// Task is the schema definition for portal.task
var Task = TaskTable{
	Table:       "portal.task",
	ID:          "id",
	Title:       "title",
	Description: "description",
	DueDate:     "duedate",
	Priority:    "priority",
	Status:      "status",
	AssignedTo:  "assignedto",
	CreatedBy:   "createdby",
	Department:  "department",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t TaskTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.DueDate, t.Priority, t.Status,
		t.AssignedTo, t.CreatedBy, t.Department, t.CreatedAt, t.UpdatedAt,
	}
}
