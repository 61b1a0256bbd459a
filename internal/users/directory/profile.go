// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package directory is the employee directory: the authoritative record of who an
employee is, which role they hold, and whether their account is active.

# Core Responsibility

  - Profile: the directory row attached to a signed-in identity.
  - Resolver: looks a profile up by email with a deadline and classifies failures.
  - Credentials: the bcrypt hash checked at sign-in. It never leaves the session layer.

Roles are read from here and nowhere else.
*/
package directory

import (
	"time"

	"github.com/promptix/portal/internal/platform/sec"
)

// # Departments

const (
	DepartmentExecutive = "Executive"
	DepartmentIT        = "IT/Infrastructure"
	DepartmentSales     = "Sales"
	DepartmentDesign    = "Design & Development"
)

// Departments lists every department an employee can belong to.
var Departments = []string{DepartmentExecutive, DepartmentIT, DepartmentSales, DepartmentDesign}

// # Core Entities

// Profile is an employee's directory record.
type Profile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Username   string    `json:"username"`
	Role       sec.Role  `json:"role"`
	Department string    `json:"department"`
	Rank       string    `json:"rank"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsAdmin reports whether the profile's role is in the admin set.
// A nil profile is never admin.
func (profile *Profile) IsAdmin() bool {
	return profile != nil && profile.Role.IsAdmin()
}

// Credentials pairs a profile with its stored password hash.
type Credentials struct {
	Profile      *Profile
	PasswordHash string
}

// # Search & Filtering

// Filter holds parameters for the admin employee listing.
type Filter struct {
	Query      string
	Role       string
	Department string
	IsActive   *bool
}
