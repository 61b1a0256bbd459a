// Copyright (c) 2026 Promptix. All rights reserved.

package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/promptix/portal/internal/access"
	"github.com/promptix/portal/internal/platform/database/schema"
	"github.com/promptix/portal/internal/platform/dberr"
	"github.com/promptix/portal/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a PostgreSQL backed task store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const alias = "t"

var taskColumns = alias + "." + strings.Join(schema.Task.Columns(), ", "+alias+".")

/*
List returns a page of the tasks visible in scope.

Description: The scope predicate is part of the WHERE clause, so rows outside
it are never read. COUNT(*) OVER() yields the scoped total in the same query.

Parameters:
  - context: context.Context
  - scope: access.Scope (tasks)
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Task: page of tasks, due soonest first
  - int: total visible tasks matching filter
  - error: FETCH_ERROR on query failure
*/
func (repository *PostgresRepository) List(context context.Context, scope access.Scope, filter Filter, limit, offset int) ([]*Task, int, error) {
	predicate, args := scope.Where(alias, 1)
	argID := len(args) + 1

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total FROM %s %s WHERE %s`,
		taskColumns, schema.Task.Table, alias, predicate))

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s.%s ILIKE $%d OR %s.%s ILIKE $%d)",
			alias, schema.Task.Title, argID, alias, schema.Task.Description, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	if len(filter.Statuses) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s.%s = ANY($%d)", alias, schema.Task.Status, argID))
		args = append(args, filter.Statuses)
		argID++
	}

	if len(filter.Priorities) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s.%s = ANY($%d)", alias, schema.Task.Priority, argID))
		args = append(args, filter.Priorities)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s.%s ASC NULLS LAST, %s.%s DESC LIMIT $%d OFFSET $%d",
		alias, schema.Task.DueDate, alias, schema.Task.CreatedAt, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Task", "list_tasks")
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	var total int
	for rows.Next() {
		task := &Task{}
		if err := rows.Scan(append(fields(task), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "Task", "scan_task")
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Task", "list_tasks")
	}

	return tasks, total, nil
}

// Get retrieves one task visible in scope.
func (repository *PostgresRepository) Get(context context.Context, scope access.Scope, id string) (*Task, error) {
	predicate, args := scope.Where(alias, 2)
	query := fmt.Sprintf(`SELECT %s FROM %s %s WHERE %s.%s = $1 AND %s`,
		taskColumns, schema.Task.Table, alias, alias, schema.Task.ID, predicate)

	task := &Task{}
	err := repository.db.QueryRow(context, query, append([]any{id}, args...)...).Scan(fields(task)...)
	if err != nil {
		return nil, dberr.Wrap(err, "Task", "get_task")
	}
	return task, nil
}

/*
Create inserts a task and fills in its generated id and timestamps.

Parameters:
  - context: context.Context
  - task: *Task (ID is generated by the database)

Returns:
  - error: VALIDATION_ERROR for an unknown assignee, FETCH_ERROR otherwise
*/
func (repository *PostgresRepository) Create(context context.Context, task *Task) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s, %s`,
		schema.Task.Table, schema.Task.Title, schema.Task.Description, schema.Task.DueDate,
		schema.Task.Priority, schema.Task.Status, schema.Task.AssignedTo, schema.Task.CreatedBy,
		schema.Task.Department,
		schema.Task.ID, schema.Task.CreatedAt, schema.Task.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		task.Title, task.Description, task.DueDate, task.Priority, task.Status,
		task.AssignedTo, task.CreatedBy, task.Department,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	return dberr.Wrap(err, "Task", "create_task")
}

// UpdateStatus moves a task visible in scope to status and returns it.
func (repository *PostgresRepository) UpdateStatus(context context.Context, scope access.Scope, id, status string) (*Task, error) {
	predicate, args := scope.Where(alias, 3)
	query := fmt.Sprintf(`
		UPDATE %s %s SET %s = $2, %s = NOW()
		WHERE %s.%s = $1 AND %s
		RETURNING %s`,
		schema.Task.Table, alias, schema.Task.Status, schema.Task.UpdatedAt,
		alias, schema.Task.ID, predicate,
		taskColumns,
	)

	task := &Task{}
	err := repository.db.QueryRow(context, query, append([]any{id, status}, args...)...).Scan(fields(task)...)
	if err != nil {
		return nil, dberr.Wrap(err, "Task", "update_task_status")
	}
	return task, nil
}

// Delete removes a task visible in scope.
func (repository *PostgresRepository) Delete(context context.Context, scope access.Scope, id string) error {
	predicate, args := scope.Where(alias, 2)
	query := fmt.Sprintf(`DELETE FROM %s %s WHERE %s.%s = $1 AND %s`,
		schema.Task.Table, alias, alias, schema.Task.ID, predicate)

	tag, err := repository.db.Exec(context, query, append([]any{id}, args...)...)
	if err != nil {
		return dberr.Wrap(err, "Task", "delete_task")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Task", "delete_task")
	}
	return nil
}

// fields returns scan targets in [schema.TaskTable.Columns] order.
func fields(task *Task) []any {
	return []any{
		&task.ID, &task.Title, &task.Description, &task.DueDate, &task.Priority, &task.Status,
		&task.AssignedTo, &task.CreatedBy, &task.Department, &task.CreatedAt, &task.UpdatedAt,
	}
}
