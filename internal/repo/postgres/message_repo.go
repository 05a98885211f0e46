package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

type MessageRecord struct {
	ID           int64
	ConnectionID int64
	SenderID     int64
	Body         string
	CreatedAt    time.Time
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, connectionID, senderID int64, body string) (MessageRecord, error) {
	if connectionID <= 0 || senderID <= 0 || body == "" {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var item MessageRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO messages (connection_id, sender_id, body, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, connection_id, sender_id, body, created_at
`, connectionID, senderID, body).Scan(&item.ID, &item.ConnectionID, &item.SenderID, &item.Body, &item.CreatedAt)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("insert message: %w", err)
	}

	return item, nil
}

// ListByConnection returns the newest messages first. A beforeID of zero
// means start from the latest message.
func (r *MessageRepo) ListByConnection(ctx context.Context, connectionID, beforeID int64, limit int) ([]MessageRecord, error) {
	if connectionID <= 0 {
		return nil, fmt.Errorf("invalid connection id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if r.pool == nil {
		return []MessageRecord{}, nil
	}

	query := `
SELECT id, connection_id, sender_id, body, created_at
FROM messages
WHERE connection_id = $1
`
	args := []any{connectionID}
	if beforeID > 0 {
		query += " AND id < $2 ORDER BY id DESC LIMIT $3"
		args = append(args, beforeID, limit)
	} else {
		query += " ORDER BY id DESC LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]MessageRecord, 0, limit)
	for rows.Next() {
		var item MessageRecord
		if err := rows.Scan(&item.ID, &item.ConnectionID, &item.SenderID, &item.Body, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	return items, nil
}

func (r *MessageRepo) DeleteByConnection(ctx context.Context, tx pgx.Tx, connectionID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM messages WHERE connection_id = $1`, connectionID)
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return tag.RowsAffected(), nil
}
