package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/model"
)

var ErrRequesterNotFound = errors.New("requester profile not found")

// CandidateRepo serves the reciprocal matcher's read queries.
type CandidateRepo struct {
	pool *pgxpool.Pool
}

func NewCandidateRepo(pool *pgxpool.Pool) *CandidateRepo {
	return &CandidateRepo{pool: pool}
}

// RequesterContext is the slice of the requester's profile the matcher
// needs: what they can teach and when they can meet.
type RequesterContext struct {
	UserID       int64
	Skills       []string
	Availability []model.AvailabilitySlot
}

type CandidateRecord struct {
	UserID       int64
	DisplayName  string
	Interests    []string
	Availability []model.AvailabilitySlot
	Timezone     string
}

func (r *CandidateRepo) GetRequesterContext(ctx context.Context, userID int64) (RequesterContext, error) {
	if userID <= 0 {
		return RequesterContext{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return RequesterContext{}, ErrRequesterNotFound
	}

	var requester RequesterContext
	err := r.pool.QueryRow(ctx, `
SELECT user_id, skills, availability
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID).Scan(&requester.UserID, &requester.Skills, &requester.Availability)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RequesterContext{}, ErrRequesterNotFound
		}
		return RequesterContext{}, fmt.Errorf("get requester context: %w", err)
	}

	return requester, nil
}

// ListCandidates returns profiles that teach the requested interest, want
// something the requester teaches, and are neither the requester nor an
// already-connected user. Order follows the (created_at, user_id) index;
// no further ranking is applied.
func (r *CandidateRepo) ListCandidates(ctx context.Context, requesterID int64, interest string, requesterSkills []string, excludeIDs []int64) ([]CandidateRecord, error) {
	if requesterID <= 0 || interest == "" {
		return nil, fmt.Errorf("invalid candidate query")
	}
	if r.pool == nil {
		return []CandidateRecord{}, nil
	}
	if requesterSkills == nil {
		requesterSkills = []string{}
	}
	if excludeIDs == nil {
		excludeIDs = []int64{}
	}

	rows, err := r.pool.Query(ctx, `
SELECT p.user_id, p.display_name, p.interests, p.availability, p.timezone
FROM profiles p
JOIN users u ON u.id = p.user_id
WHERE p.user_id <> $1
  AND p.user_id <> ALL($4)
  AND $2 = ANY(p.skills)
  AND p.interests && $3
  AND NOT u.banned
ORDER BY p.created_at, p.user_id
`, requesterID, interest, requesterSkills, excludeIDs)
	if err != nil {
		return nil, fmt.Errorf("list match candidates: %w", err)
	}
	defer rows.Close()

	items := make([]CandidateRecord, 0, 16)
	for rows.Next() {
		var item CandidateRecord
		if err := rows.Scan(
			&item.UserID,
			&item.DisplayName,
			&item.Interests,
			&item.Availability,
			&item.Timezone,
		); err != nil {
			return nil, fmt.Errorf("scan match candidate: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate match candidates: %w", rows.Err())
	}

	return items, nil
}
