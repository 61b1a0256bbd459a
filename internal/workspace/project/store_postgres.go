// Copyright (c) 2026 Promptix. All rights reserved.

package project

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

// NewPostgresRepository constructs a PostgreSQL backed project store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const alias = "p"

var (
	projectColumns = alias + "." + strings.Join(schema.Project.Columns(), ", "+alias+".")

	// membersColumn aggregates member ids per project row.
	membersColumn = fmt.Sprintf(`COALESCE((SELECT array_agg(m.%s ORDER BY m.%s) FROM %s m WHERE m.%s = %s.%s), '{}') AS members`,
		schema.ProjectMember.UserID, schema.ProjectMember.UserID, schema.ProjectMember.Table,
		schema.ProjectMember.ProjectID, alias, schema.Project.ID)
)

/*
List returns a page of the projects visible in scope, with their members.

Parameters:
  - context: context.Context
  - scope: access.Scope (projects)
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Project: page of projects, due soonest first
  - int: total visible projects matching filter
  - error: FETCH_ERROR on query failure
*/
func (repository *PostgresRepository) List(context context.Context, scope access.Scope, filter Filter, limit, offset int) ([]*Project, int, error) {
	predicate, args := scope.Where(alias, 1)
	argID := len(args) + 1

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, %s, COUNT(*) OVER() AS total FROM %s %s WHERE %s`,
		projectColumns, membersColumn, schema.Project.Table, alias, predicate))

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s.%s ILIKE $%d OR %s.%s ILIKE $%d)",
			alias, schema.Project.Title, argID, alias, schema.Project.Client, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	if len(filter.Statuses) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s.%s = ANY($%d)", alias, schema.Project.Status, argID))
		args = append(args, filter.Statuses)
		argID++
	}

	if len(filter.Priorities) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s.%s = ANY($%d)", alias, schema.Project.Priority, argID))
		args = append(args, filter.Priorities)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s.%s ASC NULLS LAST, %s.%s DESC LIMIT $%d OFFSET $%d",
		alias, schema.Project.DueDate, alias, schema.Project.CreatedAt, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Project", "list_projects")
	}
	defer rows.Close()

	projects := make([]*Project, 0)
	var total int
	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(append(fields(project), &project.Members, &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "Project", "scan_project")
		}
		project.derive()
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Project", "list_projects")
	}

	return projects, total, nil
}

// Get retrieves one project visible in scope.
func (repository *PostgresRepository) Get(context context.Context, scope access.Scope, id string) (*Project, error) {
	predicate, args := scope.Where(alias, 2)
	query := fmt.Sprintf(`SELECT %s, %s FROM %s %s WHERE %s.%s = $1 AND %s`,
		projectColumns, membersColumn, schema.Project.Table, alias, alias, schema.Project.ID, predicate)

	project := &Project{}
	err := repository.db.QueryRow(context, query, append([]any{id}, args...)...).
		Scan(append(fields(project), &project.Members)...)
	if err != nil {
		return nil, dberr.Wrap(err, "Project", "get_project")
	}

	project.derive()
	return project, nil
}

/*
Create inserts a project and its member rows in one transaction.

Parameters:
  - context: context.Context
  - project: *Project (ID and timestamps are generated by the database)

Returns:
  - error: VALIDATION_ERROR for unknown members, FETCH_ERROR otherwise
*/
func (repository *PostgresRepository) Create(context context.Context, project *Project) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "Project", "begin_create_project")
	}
	defer func() { _ = tx.Rollback(context) }()

	insertProject := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s, %s`,
		schema.Project.Table, schema.Project.Title, schema.Project.Description, schema.Project.Client,
		schema.Project.Budget, schema.Project.Spent, schema.Project.DueDate, schema.Project.Priority,
		schema.Project.Status, schema.Project.CreatedBy, schema.Project.Department,
		schema.Project.ID, schema.Project.CreatedAt, schema.Project.UpdatedAt,
	)

	err = tx.QueryRow(context, insertProject,
		project.Title, project.Description, project.Client, project.Budget, project.Spent,
		project.DueDate, project.Priority, project.Status, project.CreatedBy, project.Department,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Project", "create_project")
	}

	if len(project.Members) > 0 {
		insertMembers := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, unnest($2::uuid[])`,
			schema.ProjectMember.Table, schema.ProjectMember.ProjectID, schema.ProjectMember.UserID)

		if _, err := tx.Exec(context, insertMembers, project.ID, project.Members); err != nil {
			return dberr.Wrap(err, "Project member", "create_project_members")
		}
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "Project", "commit_create_project")
	}

	project.derive()
	return nil
}

// UpdateStatus moves a project visible in scope to status and returns it.
func (repository *PostgresRepository) UpdateStatus(context context.Context, scope access.Scope, id, status string) (*Project, error) {
	predicate, args := scope.Where(alias, 3)
	query := fmt.Sprintf(`
		UPDATE %s %s SET %s = $2, %s = NOW()
		WHERE %s.%s = $1 AND %s
		RETURNING %s, %s`,
		schema.Project.Table, alias, schema.Project.Status, schema.Project.UpdatedAt,
		alias, schema.Project.ID, predicate,
		projectColumns, membersColumn,
	)

	project := &Project{}
	err := repository.db.QueryRow(context, query, append([]any{id, status}, args...)...).
		Scan(append(fields(project), &project.Members)...)
	if err != nil {
		return nil, dberr.Wrap(err, "Project", "update_project_status")
	}

	project.derive()
	return project, nil
}

// Delete removes a project visible in scope. Member rows cascade.
func (repository *PostgresRepository) Delete(context context.Context, scope access.Scope, id string) error {
	predicate, args := scope.Where(alias, 2)
	query := fmt.Sprintf(`DELETE FROM %s %s WHERE %s.%s = $1 AND %s`,
		schema.Project.Table, alias, alias, schema.Project.ID, predicate)

	tag, err := repository.db.Exec(context, query, append([]any{id}, args...)...)
	if err != nil {
		return dberr.Wrap(err, "Project", "delete_project")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Project", "delete_project")
	}
	return nil
}

// fields returns scan targets in [schema.ProjectTable.Columns] order.
func fields(project *Project) []any {
	return []any{
		&project.ID, &project.Title, &project.Description, &project.Client, &project.Budget,
		&project.Spent, &project.DueDate, &project.Priority, &project.Status, &project.CreatedBy,
		&project.Department, &project.CreatedAt, &project.UpdatedAt,
	}
}
