package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

type ReviewRecord struct {
	ID         int64
	FromUserID int64
	ToUserID   int64
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

type RatingAggregate struct {
	Avg   float64
	Count int
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

func (r *ReviewRepo) Upsert(ctx context.Context, fromUserID, toUserID int64, rating int, comment string) error {
	if fromUserID <= 0 || toUserID <= 0 || rating < 1 || rating > 5 {
		return fmt.Errorf("invalid review payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO reviews (from_user_id, to_user_id, rating, comment, created_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (from_user_id, to_user_id) DO UPDATE SET
	rating = EXCLUDED.rating,
	comment = EXCLUDED.comment,
	created_at = NOW()
`, fromUserID, toUserID, rating, comment); err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}

	return nil
}

func (r *ReviewRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]ReviewRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []ReviewRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, from_user_id, to_user_id, rating, comment, created_at
FROM reviews
WHERE to_user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	items := make([]ReviewRecord, 0, limit)
	for rows.Next() {
		var item ReviewRecord
		if err := rows.Scan(&item.ID, &item.FromUserID, &item.ToUserID, &item.Rating, &item.Comment, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate reviews: %w", rows.Err())
	}

	return items, nil
}

// AverageForUsers computes per-user rating aggregates in one grouped query.
// Users without reviews are absent from the result map.
func (r *ReviewRepo) AverageForUsers(ctx context.Context, userIDs []int64) (map[int64]RatingAggregate, error) {
	result := make(map[int64]RatingAggregate, len(userIDs))
	if len(userIDs) == 0 || r.pool == nil {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT to_user_id, AVG(rating)::float8, COUNT(*)
FROM reviews
WHERE to_user_id = ANY($1)
GROUP BY to_user_id
`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var agg RatingAggregate
		if err := rows.Scan(&userID, &agg.Avg, &agg.Count); err != nil {
			return nil, fmt.Errorf("scan rating aggregate: %w", err)
		}
		result[userID] = agg
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate rating aggregates: %w", rows.Err())
	}

	return result, nil
}
