// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/bisik/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		if resource != "" {
			return apperr.NotFound(resource)
		}
		return ErrNotFound
	}

	// 2. Unique/FK constraint violations surface as Conflict, by SQLSTATE.
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(resource + " already exists")
		case pgerrcode.ForeignKeyViolation:
			return apperr.NotFound(resource)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}
