package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrConnectionNotFound = errors.New("connection not found")

type ConnectionRepo struct {
	pool *pgxpool.Pool
}

type ConnectionRecord struct {
	ID        int64
	User1ID   int64
	User2ID   int64
	Skill1    string
	Skill2    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingRequestRecord is a pending connection joined with the sender's
// profile, for the recipient-side inbox.
type PendingRequestRecord struct {
	ConnectionRecord
	SenderName      string
	SenderSkills    []string
	SenderInterests []string
	SenderTimezone  string
}

func NewConnectionRepo(pool *pgxpool.Pool) *ConnectionRepo {
	return &ConnectionRepo{pool: pool}
}

// CreateRequest inserts a pending connection in a single conditional
// statement. The unique index over the normalized pair makes concurrent
// duplicate requests collapse to one row; the loser sees inserted=false
// rather than a race.
func (r *ConnectionRepo) CreateRequest(ctx context.Context, tx pgx.Tx, user1ID, user2ID int64, skill1, skill2 string) (ConnectionRecord, bool, error) {
	if user1ID <= 0 || user2ID <= 0 || user1ID == user2ID {
		return ConnectionRecord{}, false, fmt.Errorf("invalid connection payload")
	}
	if tx == nil {
		return ConnectionRecord{}, false, fmt.Errorf("transaction is required")
	}

	var record ConnectionRecord
	err := tx.QueryRow(ctx, `
INSERT INTO connections (user1_id, user2_id, skill1, skill2, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'pending', NOW(), NOW())
ON CONFLICT (LEAST(user1_id, user2_id), GREATEST(user1_id, user2_id)) DO NOTHING
RETURNING id, user1_id, user2_id, skill1, skill2, status, created_at, updated_at
`, user1ID, user2ID, skill1, skill2).Scan(
		&record.ID,
		&record.User1ID,
		&record.User2ID,
		&record.Skill1,
		&record.Skill2,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConnectionRecord{}, false, nil
		}
		return ConnectionRecord{}, false, fmt.Errorf("create connection request: %w", err)
	}

	return record, true, nil
}

func (r *ConnectionRepo) GetByPair(ctx context.Context, userA, userB int64) (ConnectionRecord, error) {
	if userA <= 0 || userB <= 0 {
		return ConnectionRecord{}, fmt.Errorf("invalid connection pair")
	}
	if r.pool == nil {
		return ConnectionRecord{}, ErrConnectionNotFound
	}

	var record ConnectionRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user1_id, user2_id, skill1, skill2, status, created_at, updated_at
FROM connections
WHERE LEAST(user1_id, user2_id) = LEAST($1::bigint, $2::bigint)
  AND GREATEST(user1_id, user2_id) = GREATEST($1::bigint, $2::bigint)
LIMIT 1
`, userA, userB).Scan(
		&record.ID,
		&record.User1ID,
		&record.User2ID,
		&record.Skill1,
		&record.Skill2,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConnectionRecord{}, ErrConnectionNotFound
		}
		return ConnectionRecord{}, fmt.Errorf("get connection by pair: %w", err)
	}

	return record, nil
}

func (r *ConnectionRepo) GetByID(ctx context.Context, connectionID int64) (ConnectionRecord, error) {
	if connectionID <= 0 {
		return ConnectionRecord{}, fmt.Errorf("invalid connection id")
	}
	if r.pool == nil {
		return ConnectionRecord{}, ErrConnectionNotFound
	}

	var record ConnectionRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user1_id, user2_id, skill1, skill2, status, created_at, updated_at
FROM connections
WHERE id = $1
LIMIT 1
`, connectionID).Scan(
		&record.ID,
		&record.User1ID,
		&record.User2ID,
		&record.Skill1,
		&record.Skill2,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConnectionRecord{}, ErrConnectionNotFound
		}
		return ConnectionRecord{}, fmt.Errorf("get connection by id: %w", err)
	}

	return record, nil
}

// UpdateStatusIfPending performs the one-shot pending transition. It reports
// false when the row exists but is no longer pending.
func (r *ConnectionRepo) UpdateStatusIfPending(ctx context.Context, tx pgx.Tx, connectionID int64, status string) (ConnectionRecord, bool, error) {
	if connectionID <= 0 || status == "" {
		return ConnectionRecord{}, false, fmt.Errorf("invalid status transition payload")
	}
	if tx == nil {
		return ConnectionRecord{}, false, fmt.Errorf("transaction is required")
	}

	var record ConnectionRecord
	err := tx.QueryRow(ctx, `
UPDATE connections
SET status = $2, updated_at = NOW()
WHERE id = $1 AND status = 'pending'
RETURNING id, user1_id, user2_id, skill1, skill2, status, created_at, updated_at
`, connectionID, status).Scan(
		&record.ID,
		&record.User1ID,
		&record.User2ID,
		&record.Skill1,
		&record.Skill2,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConnectionRecord{}, false, nil
		}
		return ConnectionRecord{}, false, fmt.Errorf("update connection status: %w", err)
	}

	return record, true, nil
}

func (r *ConnectionRepo) ListPendingForRecipient(ctx context.Context, userID int64) ([]PendingRequestRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []PendingRequestRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	c.id, c.user1_id, c.user2_id, c.skill1, c.skill2, c.status, c.created_at, c.updated_at,
	COALESCE(p.display_name, ''), COALESCE(p.skills, '{}'), COALESCE(p.interests, '{}'), COALESCE(p.timezone, '')
FROM connections c
LEFT JOIN profiles p ON p.user_id = c.user1_id
WHERE c.user2_id = $1 AND c.status = 'pending'
ORDER BY c.created_at DESC, c.id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer rows.Close()

	items := make([]PendingRequestRecord, 0, 8)
	for rows.Next() {
		var item PendingRequestRecord
		if err := rows.Scan(
			&item.ID,
			&item.User1ID,
			&item.User2ID,
			&item.Skill1,
			&item.Skill2,
			&item.Status,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.SenderName,
			&item.SenderSkills,
			&item.SenderInterests,
			&item.SenderTimezone,
		); err != nil {
			return nil, fmt.Errorf("scan pending request: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate pending requests: %w", rows.Err())
	}

	return items, nil
}

func (r *ConnectionRepo) ListAcceptedForUser(ctx context.Context, userID int64) ([]ConnectionRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []ConnectionRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user1_id, user2_id, skill1, skill2, status, created_at, updated_at
FROM connections
WHERE (user1_id = $1 OR user2_id = $1) AND status = 'accepted'
ORDER BY updated_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accepted connections: %w", err)
	}
	defer rows.Close()

	items := make([]ConnectionRecord, 0, 8)
	for rows.Next() {
		var item ConnectionRecord
		if err := rows.Scan(
			&item.ID,
			&item.User1ID,
			&item.User2ID,
			&item.Skill1,
			&item.Skill2,
			&item.Status,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan accepted connection: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate accepted connections: %w", rows.Err())
	}

	return items, nil
}

// ListAcceptedPartnerIDs feeds the matcher's exclusion set.
func (r *ConnectionRepo) ListAcceptedPartnerIDs(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
FROM connections
WHERE (user1_id = $1 OR user2_id = $1) AND status = 'accepted'
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accepted partner ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 8)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan partner id: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate partner ids: %w", rows.Err())
	}

	return ids, nil
}

func (r *ConnectionRepo) DeleteByID(ctx context.Context, tx pgx.Tx, connectionID int64) (bool, error) {
	if connectionID <= 0 {
		return false, fmt.Errorf("invalid connection id")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	tag, err := tx.Exec(ctx, `
DELETE FROM connections WHERE id = $1
`, connectionID)
	if err != nil {
		return false, fmt.Errorf("delete connection: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *ConnectionRepo) DeleteRejectedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM connections
WHERE status = 'rejected' AND updated_at < $1
`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete stale rejected connections: %w", err)
	}

	return tag.RowsAffected(), nil
}
