// Copyright (c) 2026 Promptix. All rights reserved.

package schema

// DepartmentTable represents the 'portal.department' budget table.
type DepartmentTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	HeadID      string
	TotalBudget string
	SpentBudget string
	FiscalYear  string
	UpdatedAt   string
}

// Department is the schema definition for portal.department
var Department = DepartmentTable{
	Table:       "portal.department",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	HeadID:      "headid",
	TotalBudget: "totalbudget",
	SpentBudget: "spentbudget",
	FiscalYear:  "fiscalyear",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t DepartmentTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Description, t.HeadID,
		t.TotalBudget, t.SpentBudget, t.FiscalYear, t.UpdatedAt,
	}
}
