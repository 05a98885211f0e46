package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/model"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.Profile{}, ErrProfileNotFound
	}

	var profile model.Profile
	err := r.pool.QueryRow(ctx, `
SELECT user_id, display_name, bio, skills, interests, availability, timezone, avatar_key, created_at, updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.Skills,
		&profile.Interests,
		&profile.Availability,
		&profile.Timezone,
		&profile.AvatarKey,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

func (r *ProfileRepo) SaveCore(ctx context.Context, userID int64, displayName, bio, timezone string) error {
	if r.pool == nil {
		return nil
	}

	const query = `
INSERT INTO profiles (user_id, display_name, bio, timezone, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	bio = EXCLUDED.bio,
	timezone = EXCLUDED.timezone,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(ctx, query, userID, displayName, bio, timezone); err != nil {
		return fmt.Errorf("save profile core: %w", err)
	}

	return nil
}

func (r *ProfileRepo) SaveSkills(ctx context.Context, userID int64, skills, interests []string) error {
	if r.pool == nil {
		return nil
	}
	if skills == nil {
		skills = []string{}
	}
	if interests == nil {
		interests = []string{}
	}

	const query = `
INSERT INTO profiles (user_id, skills, interests, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	skills = EXCLUDED.skills,
	interests = EXCLUDED.interests,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(ctx, query, userID, skills, interests); err != nil {
		return fmt.Errorf("save profile skills: %w", err)
	}

	return nil
}

func (r *ProfileRepo) SaveAvailability(ctx context.Context, userID int64, slots []model.AvailabilitySlot) error {
	if r.pool == nil {
		return nil
	}
	if slots == nil {
		slots = []model.AvailabilitySlot{}
	}

	const query = `
INSERT INTO profiles (user_id, availability, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	availability = EXCLUDED.availability,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(ctx, query, userID, slots); err != nil {
		return fmt.Errorf("save profile availability: %w", err)
	}

	return nil
}

func (r *ProfileRepo) SaveAvatarKey(ctx context.Context, userID int64, key string) error {
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE profiles SET avatar_key = $2, updated_at = NOW() WHERE user_id = $1
`, userID, key); err != nil {
		return fmt.Errorf("save avatar key: %w", err)
	}

	return nil
}

// ProfileSummary is the partner-facing slice of a profile, used when
// populating pending requests and connection lists.
type ProfileSummary struct {
	UserID      int64
	DisplayName string
	Skills      []string
	Interests   []string
	Timezone    string
	UpdatedAt   time.Time
}

func (r *ProfileRepo) GetSummaries(ctx context.Context, userIDs []int64) (map[int64]ProfileSummary, error) {
	result := make(map[int64]ProfileSummary, len(userIDs))
	if len(userIDs) == 0 || r.pool == nil {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT user_id, display_name, skills, interests, timezone, updated_at
FROM profiles
WHERE user_id = ANY($1)
`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get profile summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var summary ProfileSummary
		if err := rows.Scan(
			&summary.UserID,
			&summary.DisplayName,
			&summary.Skills,
			&summary.Interests,
			&summary.Timezone,
			&summary.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan profile summary: %w", err)
		}
		result[summary.UserID] = summary
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profile summaries: %w", rows.Err())
	}

	return result, nil
}
