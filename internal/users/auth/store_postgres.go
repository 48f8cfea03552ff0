// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the user Directory.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bisik/internal/platform/apperr"
)

// PostgresDirectory implements the [Directory] interface using pgx.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewDirectory creates a new PostgreSQL implementation of the Directory.
func NewDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for the identify step and credential
verification. An absent password hash scans as the empty string.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (directory *PostgresDirectory) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, displayname, COALESCE(passwordhash, ''), createdat, updatedat
		FROM users.account
		WHERE username = $1`

	user := &User{}
	err := directory.pool.QueryRow(context, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Username")
		}
		return nil, fmt.Errorf("postgres_directory_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
SetPasswordHash provisions the password hash for a first-time login.

Description: Optimistic single-statement write. The WHERE clause only matches
while passwordhash is still NULL, so of two concurrent provisioners exactly
one updates the row; the other matches zero rows and is told apart from an
unknown username by a follow-up lookup.

Parameters:
  - context: context.Context
  - username: string
  - hash: string

Returns:
  - *User: Updated account entity
  - error: apperr.NotFound, apperr.Conflict, or execution errors
*/
func (directory *PostgresDirectory) SetPasswordHash(context context.Context, username string, hash string) (*User, error) {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE username = $1 AND passwordhash IS NULL
		RETURNING id, username, displayname, passwordhash, createdat, updatedat`

	user := &User{}
	err := directory.pool.QueryRow(context, query, username, hash, time.Now()).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == nil {
		return user, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("postgres_directory_set_password_failed: %w", err)
	}

	// Zero rows updated: either the username does not exist, or another
	// provisioner already set a hash. Disambiguate for the caller.
	existing, findErr := directory.FindByUsername(context, username)
	if findErr != nil {
		return nil, findErr
	}
	if existing.HasPassword() {
		return nil, apperr.Conflict("Password is already set for this account")
	}

	// Row exists with no hash yet the guarded update matched nothing —
	// only possible if the record changed mid-flight. Treat as conflict.
	return nil, apperr.Conflict("Password provisioning raced another writer")
}
