// Copyright (c) 2026 Promptix. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/promptix/portal/internal/platform/apperr"
)

// SQLSTATE codes with a client-facing meaning.
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrCheckViolation      = "23514"
)

// Wrap inspects a database error and classifies it as an [apperr.AppError].
//
// pgx.ErrNoRows becomes NOT_FOUND for the named resource. Constraint violations
// become CONFLICT or VALIDATION_ERROR. Every other failure is a FETCH_ERROR; the
// action names the failing operation in the cause chain.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// Already classified further down the stack.
	if apperr.IsAppError(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return apperr.Conflict(resource + " already exists")
		case pgErrForeignKeyViolation:
			return apperr.ValidationError("Referenced record does not exist")
		case pgErrCheckViolation:
			return apperr.ValidationError("Invalid " + resource + " value")
		}
	}

	return apperr.FetchError(fmt.Errorf("%s: %w", action, err))
}
