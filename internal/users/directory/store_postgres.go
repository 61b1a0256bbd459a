// Copyright (c) 2026 Promptix. All rights reserved.

package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/promptix/portal/internal/platform/database/schema"
	"github.com/promptix/portal/internal/platform/dberr"
	"github.com/promptix/portal/internal/platform/postgres"
	"github.com/promptix/portal/internal/platform/sec"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a PostgreSQL backed directory store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var profileColumns = strings.Join(schema.Employee.ProfileColumns(), ", ")

// # Profile Retrieval

/*
FindByEmail retrieves exactly one profile by email.

Description: Emails are unique in the directory. The comparison is case-insensitive
so an identity minted from a differently-cased login still resolves.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Profile: Hydrated entity
  - error: NOT_FOUND or FETCH_ERROR
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`,
		profileColumns, schema.Employee.Table, schema.Employee.Email)

	profile, err := scanProfile(repository.db.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "Profile", "find_profile_by_email")
	}
	return profile, nil
}

/*
FindCredentials retrieves the profile and password hash for a sign-in attempt.

Description: A login containing '@' is matched against email, anything else
against username.

Parameters:
  - context: context.Context
  - login: string (normalized)

Returns:
  - *Credentials: Profile plus hash
  - error: NOT_FOUND or FETCH_ERROR
*/
func (repository *PostgresRepository) FindCredentials(context context.Context, login string) (*Credentials, error) {
	column := schema.Employee.Username
	if IsEmail(login) {
		column = schema.Employee.Email
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE LOWER(%s) = $1`,
		profileColumns, schema.Employee.PasswordHash, schema.Employee.Table, column)

	credentials := &Credentials{Profile: &Profile{}}
	var role string
	profile := credentials.Profile
	err := repository.db.QueryRow(context, query, login).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.Username, &role, &profile.Department,
		&profile.Rank, &profile.AvatarURL, &profile.IsActive, &profile.CreatedAt, &profile.UpdatedAt,
		&credentials.PasswordHash,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Employee", "find_credentials")
	}

	if profile.Role, err = sec.ParseRole(role); err != nil {
		return nil, dberr.Wrap(err, "Employee", "find_credentials")
	}

	return credentials, nil
}

/*
List returns a filtered page of directory profiles.

Description: Uses ILIKE across name, email, and username, and COUNT(*) OVER()
for the total.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Profile: Page of profiles
  - int: Total matching rows
  - error: FETCH_ERROR on query failure
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Profile, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total FROM %s WHERE TRUE`,
		profileColumns, schema.Employee.Table))

	args := []any{}
	argID := 1

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d OR %s ILIKE $%d)",
			schema.Employee.FullName, argID, schema.Employee.Email, argID, schema.Employee.Username, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	if filter.Role != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Employee.Role, argID))
		args = append(args, filter.Role)
		argID++
	}

	if filter.Department != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Employee.Department, argID))
		args = append(args, filter.Department)
		argID++
	}

	if filter.IsActive != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Employee.IsActive, argID))
		args = append(args, *filter.IsActive)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC LIMIT $%d OFFSET $%d", schema.Employee.FullName, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Employee", "list_employees")
	}
	defer rows.Close()

	profiles := make([]*Profile, 0)
	var total int
	for rows.Next() {
		profile := &Profile{}
		var role string
		err := rows.Scan(
			&profile.ID, &profile.Email, &profile.FullName, &profile.Username, &role, &profile.Department,
			&profile.Rank, &profile.AvatarURL, &profile.IsActive, &profile.CreatedAt, &profile.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Employee", "scan_employee")
		}
		if profile.Role, err = sec.ParseRole(role); err != nil {
			return nil, 0, dberr.Wrap(err, "Employee", "scan_employee")
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Employee", "list_employees")
	}

	return profiles, total, nil
}

// scanProfile reads one profile row, rejecting role values outside [sec.Roles].
func scanProfile(row pgx.Row) (*Profile, error) {
	profile := &Profile{}
	var role string
	err := row.Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.Username, &role, &profile.Department,
		&profile.Rank, &profile.AvatarURL, &profile.IsActive, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if profile.Role, err = sec.ParseRole(role); err != nil {
		return nil, err
	}
	return profile, nil
}
