// Copyright (c) 2026 Promptix. All rights reserved.

// Package schema names the tables and columns of the portal schema so stores
// build SQL from one definition.
package schema

// EmployeeTable represents the 'portal.employee' directory table.
type EmployeeTable struct {
	Table        string
	ID           string
	Email        string
	FullName     string
	Username     string
	Role         string
	Department   string
	Rank         string
	AvatarURL    string
	IsActive     string
	PasswordHash string
	CreatedAt    string
	UpdatedAt    string
}

// Employee is the schema definition for portal.employee
var Employee = EmployeeTable{
	Table:        "portal.employee",
	ID:           "id",
	Email:        "email",
	FullName:     "fullname",
	Username:     "username",
	Role:         "role",
	Department:   "department",
	Rank:         "rank",
	AvatarURL:    "avatarurl",
	IsActive:     "isactive",
	PasswordHash: "passwordhash",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// ProfileColumns returns the columns of a directory profile, excluding the password hash.
func (t EmployeeTable) ProfileColumns() []string {
	return []string{
		t.ID, t.Email, t.FullName, t.Username, t.Role, t.Department,
		t.Rank, t.AvatarURL, t.IsActive, t.CreatedAt, t.UpdatedAt,
	}
}
