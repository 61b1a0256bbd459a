// Copyright (c) 2026 Promptix. All rights reserved.

// Package request manages item requests: equipment and supplies an employee asks
// for, reviewed by an administrator.
package request

import "time"

// Request urgencies.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
	UrgencyUrgent = "urgent"
)

// Urgencies lists every urgency, least pressing first.
var Urgencies = []string{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent}

// Review states. Only pending requests can be reviewed.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Statuses lists every request status.
var Statuses = []string{StatusPending, StatusApproved, StatusRejected}

// ItemRequest is one employee's request for an item.
type ItemRequest struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Quantity      int        `json:"quantity"`
	Justification string     `json:"justification"`
	Urgency       string     `json:"urgency"`
	Status        string     `json:"status"`
	RequestedBy   string     `json:"requested_by"`
	ReviewedBy    *string    `json:"reviewed_by"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Summary counts the visible requests by status.
type Summary struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Filter narrows a request listing inside the caller's scope.
type Filter struct {
	Query     string // ILIKE against title and justification
	Statuses  []string
	Urgencies []string
}

const (
	FieldTitle         = "title"
	FieldQuantity      = "quantity"
	FieldJustification = "justification"
	FieldUrgency       = "urgency"
)
