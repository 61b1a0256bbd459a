// Copyright (c) 2026 Promptix. All rights reserved.

package schema

// ItemRequestTable represents the 'portal.item_request' table.
type ItemRequestTable struct {
	Table         string
	ID            string
	Title         string
	Quantity      string
	Justification string
	Urgency       string
	Status        string
	RequestedBy   string
	ReviewedBy    string
	ReviewedAt    string
	CreatedAt     string
}

// ItemRequest is the schema definition for portal.item_request
var ItemRequest = ItemRequestTable{
	Table:         "portal.item_request",
	ID:            "id",
	Title:         "title",
	Quantity:      "quantity",
	Justification: "justification",
	Urgency:       "urgency",
	Status:        "status",
	RequestedBy:   "requestedby",
	ReviewedBy:    "reviewedby",
	ReviewedAt:    "reviewedat",
	CreatedAt:     "createdat",
}

// Columns returns all standard column names
func (t ItemRequestTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Quantity, t.Justification, t.Urgency, t.Status,
		t.RequestedBy, t.ReviewedBy, t.ReviewedAt, t.CreatedAt,
	}
}
