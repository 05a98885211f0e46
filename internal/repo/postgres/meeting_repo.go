package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMeetingNotFound = errors.New("meeting not found")

type MeetingRepo struct {
	pool *pgxpool.Pool
}

type MeetingRecord struct {
	ID            int64
	ConnectionID  int64
	OrganizerID   int64
	StartsAt      time.Time
	DurationMin   int
	Status        string
	ZoomMeetingID string
	ZoomJoinURL   string
	CalendarEvent string
	CreatedAt     time.Time
}

func NewMeetingRepo(pool *pgxpool.Pool) *MeetingRepo {
	return &MeetingRepo{pool: pool}
}

func (r *MeetingRepo) Create(ctx context.Context, record MeetingRecord) (int64, error) {
	if record.ConnectionID <= 0 || record.OrganizerID <= 0 || record.StartsAt.IsZero() {
		return 0, fmt.Errorf("invalid meeting payload")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if record.DurationMin <= 0 {
		record.DurationMin = 60
	}

	var meetingID int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO meetings (
	connection_id, organizer_id, starts_at, duration_min, status,
	zoom_meeting_id, zoom_join_url, calendar_event_id, created_at
) VALUES ($1, $2, $3, $4, 'scheduled', $5, $6, $7, NOW())
RETURNING id
`,
		record.ConnectionID,
		record.OrganizerID,
		record.StartsAt.UTC(),
		record.DurationMin,
		record.ZoomMeetingID,
		record.ZoomJoinURL,
		record.CalendarEvent,
	).Scan(&meetingID)
	if err != nil {
		return 0, fmt.Errorf("create meeting: %w", err)
	}

	return meetingID, nil
}

func (r *MeetingRepo) GetByID(ctx context.Context, meetingID int64) (MeetingRecord, error) {
	if meetingID <= 0 {
		return MeetingRecord{}, fmt.Errorf("invalid meeting id")
	}
	if r.pool == nil {
		return MeetingRecord{}, ErrMeetingNotFound
	}

	var record MeetingRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, connection_id, organizer_id, starts_at, duration_min, status,
	zoom_meeting_id, zoom_join_url, calendar_event_id, created_at
FROM meetings
WHERE id = $1
LIMIT 1
`, meetingID).Scan(
		&record.ID,
		&record.ConnectionID,
		&record.OrganizerID,
		&record.StartsAt,
		&record.DurationMin,
		&record.Status,
		&record.ZoomMeetingID,
		&record.ZoomJoinURL,
		&record.CalendarEvent,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MeetingRecord{}, ErrMeetingNotFound
		}
		return MeetingRecord{}, fmt.Errorf("get meeting: %w", err)
	}

	return record, nil
}

// ListFutureByConnection returns scheduled meetings starting after now,
// used by the end-match cascade.
func (r *MeetingRepo) ListFutureByConnection(ctx context.Context, connectionID int64, now time.Time) ([]MeetingRecord, error) {
	if connectionID <= 0 {
		return nil, fmt.Errorf("invalid connection id")
	}
	if r.pool == nil {
		return []MeetingRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, connection_id, organizer_id, starts_at, duration_min, status,
	zoom_meeting_id, zoom_join_url, calendar_event_id, created_at
FROM meetings
WHERE connection_id = $1 AND status = 'scheduled' AND starts_at > $2
ORDER BY starts_at
`, connectionID, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("list future meetings: %w", err)
	}
	defer rows.Close()

	return scanMeetings(rows)
}

func (r *MeetingRepo) ListUpcomingForUser(ctx context.Context, userID int64, now time.Time, limit int) ([]MeetingRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []MeetingRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT m.id, m.connection_id, m.organizer_id, m.starts_at, m.duration_min, m.status,
	m.zoom_meeting_id, m.zoom_join_url, m.calendar_event_id, m.created_at
FROM meetings m
JOIN connections c ON c.id = m.connection_id
WHERE (c.user1_id = $1 OR c.user2_id = $1)
  AND m.status = 'scheduled'
  AND m.starts_at > $2
ORDER BY m.starts_at
LIMIT $3
`, userID, now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming meetings: %w", err)
	}
	defer rows.Close()

	return scanMeetings(rows)
}

func (r *MeetingRepo) SetStatus(ctx context.Context, meetingID int64, status string) (bool, error) {
	if meetingID <= 0 || status == "" {
		return false, fmt.Errorf("invalid meeting status payload")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE meetings SET status = $2 WHERE id = $1 AND status = 'scheduled'
`, meetingID, status)
	if err != nil {
		return false, fmt.Errorf("set meeting status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *MeetingRepo) DeleteByID(ctx context.Context, tx pgx.Tx, meetingID int64) error {
	if meetingID <= 0 {
		return fmt.Errorf("invalid meeting id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, meetingID); err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}

	return nil
}

func (r *MeetingRepo) DeleteFinishedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM meetings
WHERE status IN ('cancelled', 'completed') AND starts_at < $1
`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete finished meetings: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanMeetings(rows pgx.Rows) ([]MeetingRecord, error) {
	items := make([]MeetingRecord, 0, 8)
	for rows.Next() {
		var item MeetingRecord
		if err := rows.Scan(
			&item.ID,
			&item.ConnectionID,
			&item.OrganizerID,
			&item.StartsAt,
			&item.DurationMin,
			&item.Status,
			&item.ZoomMeetingID,
			&item.ZoomJoinURL,
			&item.CalendarEvent,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate meetings: %w", rows.Err())
	}

	return items, nil
}
