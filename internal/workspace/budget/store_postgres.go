// Copyright (c) 2026 Promptix. All rights reserved.

package budget

import (
	"context"
	"fmt"
	"strings"

	"github.com/promptix/portal/internal/platform/database/schema"
	"github.com/promptix/portal/internal/platform/dberr"
	"github.com/promptix/portal/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a PostgreSQL backed budget store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var departmentColumns = strings.Join(schema.Department.Columns(), ", ")

// List returns departments ordered by name.
func (repository *PostgresRepository) List(context context.Context, fiscalYear int) ([]*Department, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE ($1 = 0 OR %s = $1) ORDER BY %s ASC, %s DESC`,
		departmentColumns, schema.Department.Table, schema.Department.FiscalYear,
		schema.Department.Name, schema.Department.FiscalYear)

	rows, err := repository.db.Query(context, query, fiscalYear)
	if err != nil {
		return nil, dberr.Wrap(err, "Department", "list_departments")
	}
	defer rows.Close()

	departments := make([]*Department, 0)
	for rows.Next() {
		department := &Department{}
		if err := rows.Scan(fields(department)...); err != nil {
			return nil, dberr.Wrap(err, "Department", "scan_department")
		}
		department.derive()
		departments = append(departments, department)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Department", "list_departments")
	}

	return departments, nil
}

// GetByID retrieves one department by id.
func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Department, error) {
	return repository.getBy(context, schema.Department.ID, id)
}

// GetBySlug retrieves one department by slug.
func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Department, error) {
	return repository.getBy(context, schema.Department.Slug, slug)
}

func (repository *PostgresRepository) getBy(context context.Context, column, value string) (*Department, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, departmentColumns, schema.Department.Table, column)

	department := &Department{}
	if err := repository.db.QueryRow(context, query, value).Scan(fields(department)...); err != nil {
		return nil, dberr.Wrap(err, "Department", "get_department")
	}

	department.derive()
	return department, nil
}

/*
Update writes a department's allocation, spending, description, and head.

Parameters:
  - context: context.Context
  - department: *Department (UpdatedAt is refreshed from the database)

Returns:
  - error: NOT_FOUND, VALIDATION_ERROR for an unknown head, or FETCH_ERROR
*/
func (repository *PostgresRepository) Update(context context.Context, department *Department) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.Department.Table, schema.Department.TotalBudget, schema.Department.SpentBudget,
		schema.Department.Description, schema.Department.HeadID, schema.Department.UpdatedAt,
		schema.Department.ID, schema.Department.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		department.ID, department.TotalBudget, department.SpentBudget, department.Description, department.HeadID,
	).Scan(&department.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Department", "update_department")
	}

	department.derive()
	return nil
}

// fields returns scan targets in [schema.DepartmentTable.Columns] order.
func fields(department *Department) []any {
	return []any{
		&department.ID, &department.Name, &department.Slug, &department.Description, &department.HeadID,
		&department.TotalBudget, &department.SpentBudget, &department.FiscalYear, &department.UpdatedAt,
	}
}
