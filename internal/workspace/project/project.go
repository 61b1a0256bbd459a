// Copyright (c) 2026 Promptix. All rights reserved.

// Package project manages workspace projects and their members. Employees see
// the projects they are members of; administrators see every project.
package project

import "time"

// Project statuses.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Statuses lists every project status in workflow order.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// Project priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Priorities lists every project priority.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// Budget burn levels, by share of budget spent.
const (
	LevelSuccess = "success"
	LevelWarning = "warning" // above 75%
	LevelDanger  = "danger"  // above 90%
)

// Project is a client engagement with a budget and a member list.
type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Client      string     `json:"client"`
	Budget      float64    `json:"budget"`
	Spent       float64    `json:"spent"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"created_by"`
	Department  string     `json:"department"`
	Members     []string   `json:"members"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Derived from Budget and Spent on read.
	Progress      float64 `json:"progress"`
	ProgressLevel string  `json:"progress_level"`
}

// Burn returns the percentage of budget spent and its level. A project without
// a budget reports zero.
func Burn(budget, spent float64) (float64, string) {
	if budget <= 0 {
		return 0, LevelSuccess
	}

	progress := spent / budget * 100
	switch {
	case progress > 90:
		return progress, LevelDanger
	case progress > 75:
		return progress, LevelWarning
	default:
		return progress, LevelSuccess
	}
}

func (project *Project) derive() {
	project.Progress, project.ProgressLevel = Burn(project.Budget, project.Spent)
	if project.Members == nil {
		project.Members = []string{}
	}
}

// Filter narrows a project listing inside the caller's scope.
type Filter struct {
	Query      string // ILIKE against title and client
	Statuses   []string
	Priorities []string
}

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldClient      = "client"
	FieldBudget      = "budget"
	FieldDueDate     = "due_date"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldDepartment  = "department"
	FieldMembers     = "members"
)
