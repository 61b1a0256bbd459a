// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package budget reports department budgets for a fiscal year.

Every signed-in employee may read the figures. Only roles allowed to
manage_budget may change them.
*/
package budget

import (
	"time"

	"github.com/promptix/portal/pkg/slice"
)

// Budget status labels, by share of the allocation spent.
const (
	StatusOverBudget  = "Over Budget"
	StatusNearLimit   = "Near Limit"   // above 75%
	StatusOnTrack     = "On Track"     // above 50%
	StatusUnderBudget = "Under Budget" // 50% or less
)

// Department is one department's allocation for a fiscal year.
type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	HeadID      *string   `json:"head_id"`
	TotalBudget float64   `json:"total_budget"`
	SpentBudget float64   `json:"spent_budget"`
	FiscalYear  int       `json:"fiscal_year"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Derived on read.
	Remaining   float64 `json:"remaining"`
	Utilization float64 `json:"utilization"`
	Status      string  `json:"status"`
}

// Totals aggregates a set of departments.
type Totals struct {
	TotalBudget float64 `json:"total_budget"`
	SpentBudget float64 `json:"spent_budget"`
	Remaining   float64 `json:"remaining"`
	Utilization float64 `json:"utilization"`
	Status      string  `json:"status"`
	OverBudget  int     `json:"over_budget"`
}

// Overview is the budget page: every department plus company totals.
type Overview struct {
	FiscalYear  int           `json:"fiscal_year"`
	Departments []*Department `json:"departments"`
	Totals      Totals        `json:"totals"`
}

// Label classifies spending against an allocation.
func Label(total, spent float64) string {
	if spent > total {
		return StatusOverBudget
	}
	if total <= 0 {
		return StatusUnderBudget
	}

	ratio := spent / total
	switch {
	case ratio > 0.75:
		return StatusNearLimit
	case ratio > 0.5:
		return StatusOnTrack
	default:
		return StatusUnderBudget
	}
}

// utilization returns spent as a percentage of total, or 0 without an allocation.
func utilization(total, spent float64) float64 {
	if total <= 0 {
		return 0
	}
	return spent / total * 100
}

func (department *Department) derive() {
	department.Remaining = department.TotalBudget - department.SpentBudget
	department.Utilization = utilization(department.TotalBudget, department.SpentBudget)
	department.Status = Label(department.TotalBudget, department.SpentBudget)
}

// Summarize totals departments.
func Summarize(departments []*Department) Totals {
	totals := slice.Reduce(departments, Totals{}, func(accumulator Totals, department *Department) Totals {
		accumulator.TotalBudget += department.TotalBudget
		accumulator.SpentBudget += department.SpentBudget
		return accumulator
	})

	over := slice.Filter(departments, func(department *Department) bool {
		return department.SpentBudget > department.TotalBudget
	})

	totals.Remaining = totals.TotalBudget - totals.SpentBudget
	totals.Utilization = utilization(totals.TotalBudget, totals.SpentBudget)
	totals.Status = Label(totals.TotalBudget, totals.SpentBudget)
	totals.OverBudget = len(over)
	return totals
}

const (
	FieldTotalBudget = "total_budget"
	FieldSpentBudget = "spent_budget"
	FieldDescription = "description"
	FieldHeadID      = "head_id"
	FieldFiscalYear  = "fiscal_year"
)
