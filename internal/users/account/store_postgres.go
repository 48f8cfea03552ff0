// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the member directory listing.

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bisik/internal/platform/database/schema"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListUsers returns every account ordered by display name.
//
// The full listing is intentional: the directory is small (seeded by hand)
// and the client renders it as a single recipient picker.
func (repository *PostgresRepository) ListUsers(context context.Context) ([]Summary, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		ORDER BY %s ASC`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.DisplayName,
		schema.UserAccount.Table, schema.UserAccount.DisplayName,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_list_failed: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var summary Summary
		if err := rows.Scan(&summary.ID, &summary.Username, &summary.DisplayName); err != nil {
			return nil, fmt.Errorf("postgres_account_scan_failed: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_account_rows_failed: %w", err)
	}

	return summaries, nil
}
