// Copyright (c) 2026 Promptix. All rights reserved.

// Package task manages workspace tasks. Employees see the tasks assigned to
// them; administrators see every task.
package task

import "time"

// Task statuses.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Statuses lists every task status in workflow order.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// Task priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Priorities lists every task priority.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// Task is a unit of work assigned to one employee.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssignedTo  string     `json:"assigned_to"`
	CreatedBy   string     `json:"created_by"`
	Department  string     `json:"department"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Filter narrows a task listing inside the caller's scope.
type Filter struct {
	Query      string   // ILIKE against title and description
	Statuses   []string // any of
	Priorities []string // any of
}

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDueDate     = "due_date"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldAssignedTo  = "assigned_to"
	FieldDepartment  = "department"
)
