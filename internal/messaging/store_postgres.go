// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the message Repository.

package messaging

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bisik/internal/platform/database/schema"
	"github.com/taibuivan/bisik/internal/platform/dberr"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert persists a new message row.
//
// A foreign-key violation on receiverid maps to NotFound — the recipient
// vanished between the directory listing and the send.
func (repository *PostgresRepository) Insert(context context.Context, message *Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)`,
		schema.Message.Table,
		schema.Message.ID, schema.Message.ReceiverID, schema.Message.Body, schema.Message.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		message.ID,
		message.ReceiverID,
		message.Body,
		message.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Receiver")
	}

	return nil
}

// ListByReceiver returns one inbox page, newest first.
func (repository *PostgresRepository) ListByReceiver(context context.Context, receiverID string, limit, offset int) ([]Message, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		schema.Message.ID, schema.Message.ReceiverID, schema.Message.Body, schema.Message.CreatedAt,
		schema.Message.Table,
		schema.Message.ReceiverID,
		schema.Message.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, receiverID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_message_list_failed: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var message Message
		if err := rows.Scan(&message.ID, &message.ReceiverID, &message.Body, &message.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_message_scan_failed: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_message_rows_failed: %w", err)
	}

	return messages, nil
}

// CountByReceiver returns the inbox total for pagination metadata.
func (repository *PostgresRepository) CountByReceiver(context context.Context, receiverID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE %s = $1`,
		schema.Message.Table, schema.Message.ReceiverID,
	)

	var total int
	if err := repository.pool.QueryRow(context, query, receiverID).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres_message_count_failed: %w", err)
	}

	return total, nil
}
