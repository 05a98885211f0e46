package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepo struct {
	pool *pgxpool.Pool
}

type ReportRecord struct {
	ID             int64
	ReporterID     int64
	ReportedUserID int64
	Reason         string
	Details        string
	Resolved       bool
	CreatedAt      time.Time
	ResolvedAt     *time.Time
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, reporterID, reportedUserID int64, reason, details string) (ReportRecord, error) {
	if reporterID <= 0 || reportedUserID <= 0 || reason == "" {
		return ReportRecord{}, fmt.Errorf("invalid report payload")
	}
	if r.pool == nil {
		return ReportRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var item ReportRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO reports (reporter_id, reported_user_id, reason, details, resolved, created_at)
VALUES ($1, $2, $3, $4, FALSE, NOW())
RETURNING id, reporter_id, reported_user_id, reason, details, resolved, created_at, resolved_at
`, reporterID, reportedUserID, reason, details).Scan(
		&item.ID, &item.ReporterID, &item.ReportedUserID,
		&item.Reason, &item.Details, &item.Resolved,
		&item.CreatedAt, &item.ResolvedAt,
	)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("insert report: %w", err)
	}

	return item, nil
}

func (r *ReportRepo) List(ctx context.Context, onlyOpen bool, limit int) ([]ReportRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if r.pool == nil {
		return []ReportRecord{}, nil
	}

	query := `
SELECT id, reporter_id, reported_user_id, reason, details, resolved, created_at, resolved_at
FROM reports
`
	if onlyOpen {
		query += " WHERE NOT resolved"
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT $1"

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	items := make([]ReportRecord, 0, limit)
	for rows.Next() {
		var item ReportRecord
		if err := rows.Scan(
			&item.ID, &item.ReporterID, &item.ReportedUserID,
			&item.Reason, &item.Details, &item.Resolved,
			&item.CreatedAt, &item.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate reports: %w", rows.Err())
	}

	return items, nil
}

func (r *ReportRepo) Resolve(ctx context.Context, reportID int64) (ReportRecord, error) {
	if reportID <= 0 {
		return ReportRecord{}, fmt.Errorf("invalid report id")
	}
	if r.pool == nil {
		return ReportRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var item ReportRecord
	err := r.pool.QueryRow(ctx, `
UPDATE reports
SET resolved = TRUE, resolved_at = NOW()
WHERE id = $1
RETURNING id, reporter_id, reported_user_id, reason, details, resolved, created_at, resolved_at
`, reportID).Scan(
		&item.ID, &item.ReporterID, &item.ReportedUserID,
		&item.Reason, &item.Details, &item.Resolved,
		&item.CreatedAt, &item.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReportRecord{}, ErrReportNotFound
		}
		return ReportRecord{}, fmt.Errorf("resolve report: %w", err)
	}

	return item, nil
}
