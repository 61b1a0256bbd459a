// Copyright (c) 2026 Promptix. All rights reserved.

package request

import (
	"context"
	"fmt"
	"strings"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/platform/database/schema"
	"github.com/promptix/portal/internal/platform/dberr"
	"github.com/promptix/portal/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a PostgreSQL backed item request store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const alias = "r"

var requestColumns = alias + "." + strings.Join(schema.ItemRequest.Columns(), ", "+alias+".")

/*
List returns a page of the requests visible in scope, newest first.

Parameters:
  - context: context.Context
  - scope: access.Scope (requests)
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*ItemRequest: page of requests
  - int: total visible requests matching filter
  - error: FETCH_ERROR on query failure
*/
func (repository *PostgresRepository) List(context context.Context, scope access.Scope, filter Filter, limit, offset int) ([]*ItemRequest, int, error) {
	predicate, args := scope.Where(alias, 1)
	argID := len(args) + 1

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total FROM %s %s WHERE %s`,
		requestColumns, schema.ItemRequest.Table, alias, predicate))

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s.%s ILIKE $%d OR %s.%s ILIKE $%d)",
			alias, schema.ItemRequest.Title, argID, alias, schema.ItemRequest.Justification, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	if len(filter.Statuses) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s.%s = ANY($%d)", alias, schema.ItemRequest.Status, argID))
		args = append(args, filter.Statuses)
		argID++
	}

	if len(filter.Urgencies) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s.%s = ANY($%d)", alias, schema.ItemRequest.Urgency, argID))
		args = append(args, filter.Urgencies)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s.%s DESC LIMIT $%d OFFSET $%d",
		alias, schema.ItemRequest.CreatedAt, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Request", "list_requests")
	}
	defer rows.Close()

	requests := make([]*ItemRequest, 0)
	var total int
	for rows.Next() {
		itemRequest := &ItemRequest{}
		if err := rows.Scan(append(fields(itemRequest), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "Request", "scan_request")
		}
		requests = append(requests, itemRequest)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Request", "list_requests")
	}

	return requests, total, nil
}

// Summarize counts the requests visible in scope by status.
func (repository *PostgresRepository) Summarize(context context.Context, scope access.Scope) (*Summary, error) {
	predicate, args := scope.Where(alias, 1)
	status := alias + "." + schema.ItemRequest.Status
	query := fmt.Sprintf(`
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE %s = '%s'),
			COUNT(*) FILTER (WHERE %s = '%s'),
			COUNT(*) FILTER (WHERE %s = '%s')
		FROM %s %s WHERE %s`,
		status, StatusPending, status, StatusApproved, status, StatusRejected,
		schema.ItemRequest.Table, alias, predicate,
	)

	summary := &Summary{}
	err := repository.db.QueryRow(context, query, args...).
		Scan(&summary.Total, &summary.Pending, &summary.Approved, &summary.Rejected)
	if err != nil {
		return nil, dberr.Wrap(err, "Request", "summarize_requests")
	}
	return summary, nil
}

// Get retrieves one request visible in scope.
func (repository *PostgresRepository) Get(context context.Context, scope access.Scope, id string) (*ItemRequest, error) {
	predicate, args := scope.Where(alias, 2)
	query := fmt.Sprintf(`SELECT %s FROM %s %s WHERE %s.%s = $1 AND %s`,
		requestColumns, schema.ItemRequest.Table, alias, alias, schema.ItemRequest.ID, predicate)

	itemRequest := &ItemRequest{}
	if err := repository.db.QueryRow(context, query, append([]any{id}, args...)...).Scan(fields(itemRequest)...); err != nil {
		return nil, dberr.Wrap(err, "Request", "get_request")
	}
	return itemRequest, nil
}

// Create inserts a request and fills in its generated id and creation time.
func (repository *PostgresRepository) Create(context context.Context, itemRequest *ItemRequest) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		schema.ItemRequest.Table, schema.ItemRequest.Title, schema.ItemRequest.Quantity,
		schema.ItemRequest.Justification, schema.ItemRequest.Urgency, schema.ItemRequest.Status,
		schema.ItemRequest.RequestedBy,
		schema.ItemRequest.ID, schema.ItemRequest.CreatedAt,
	)

	err := repository.db.QueryRow(context, query,
		itemRequest.Title, itemRequest.Quantity, itemRequest.Justification,
		itemRequest.Urgency, itemRequest.Status, itemRequest.RequestedBy,
	).Scan(&itemRequest.ID, &itemRequest.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "Request", "create_request")
	}
	return nil
}

/*
Review records an administrator's decision on a pending request.

Description: The pending check is part of the UPDATE, so two reviewers racing on
the same request cannot both succeed.

Parameters:
  - context: context.Context
  - id: string
  - status: string (approved or rejected)
  - reviewerID: string

Returns:
  - *ItemRequest: the reviewed request
  - error: NOT_FOUND when the request is missing or no longer pending
*/
func (repository *PostgresRepository) Review(context context.Context, id, status, reviewerID string) (*ItemRequest, error) {
	query := fmt.Sprintf(`
		UPDATE %s %s SET %s = $2, %s = $3, %s = NOW()
		WHERE %s.%s = $1 AND %s.%s = '%s'
		RETURNING %s`,
		schema.ItemRequest.Table, alias, schema.ItemRequest.Status, schema.ItemRequest.ReviewedBy,
		schema.ItemRequest.ReviewedAt,
		alias, schema.ItemRequest.ID, alias, schema.ItemRequest.Status, StatusPending,
		requestColumns,
	)

	itemRequest := &ItemRequest{}
	if err := repository.db.QueryRow(context, query, id, status, reviewerID).Scan(fields(itemRequest)...); err != nil {
		return nil, dberr.Wrap(err, "Request", "review_request")
	}
	return itemRequest, nil
}

// fields returns scan targets in [schema.ItemRequestTable.Columns] order.
func fields(itemRequest *ItemRequest) []any {
	return []any{
		&itemRequest.ID, &itemRequest.Title, &itemRequest.Quantity, &itemRequest.Justification,
		&itemRequest.Urgency, &itemRequest.Status, &itemRequest.RequestedBy, &itemRequest.ReviewedBy,
		&itemRequest.ReviewedAt, &itemRequest.CreatedAt,
	}
}
