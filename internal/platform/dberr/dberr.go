// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies Postgres failures into [apperr.AppError] values
// so storage details never reach a response body.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return sqlState(err) == pgerrcode.UniqueViolation
}

/*
Wrap maps a database error onto the application error taxonomy.

Parameters:
  - err: error (nil passes through)
  - resource: string (names the entity in messages, e.g. "User")

Returns:
  - error: NotFound for no rows or a dangling reference, Conflict for a
    duplicate, Validation for a rejected value, Internal otherwise
*/
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	switch sqlState(err) {
	case pgerrcode.UniqueViolation:
		return apperr.Conflict(fmt.Sprintf("%s already exists", resource))
	case pgerrcode.ForeignKeyViolation:
		return apperr.NotFound(resource)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return apperr.ValidationError(fmt.Sprintf("%s has an invalid value", resource))
	}
	return apperr.Internal(err)
}
