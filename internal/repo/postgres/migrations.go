package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user',
	banned BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS profiles (
	user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	display_name TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	skills TEXT[] NOT NULL DEFAULT '{}',
	interests TEXT[] NOT NULL DEFAULT '{}',
	availability JSONB NOT NULL DEFAULT '[]'::jsonb,
	timezone TEXT NOT NULL DEFAULT '',
	avatar_key TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_profiles_skills ON profiles USING GIN (skills);
CREATE INDEX IF NOT EXISTS idx_profiles_interests ON profiles USING GIN (interests);

CREATE TABLE IF NOT EXISTS connections (
	id BIGSERIAL PRIMARY KEY,
	user1_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	user2_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	skill1 TEXT NOT NULL,
	skill2 TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT no_self_connection CHECK (user1_id <> user2_id),
	CONSTRAINT valid_connection_status CHECK (status IN ('pending', 'accepted', 'rejected'))
);

-- one connection per unordered pair, enforced by the storage layer
CREATE UNIQUE INDEX IF NOT EXISTS connections_pair_key
	ON connections (LEAST(user1_id, user2_id), GREATEST(user1_id, user2_id));

CREATE INDEX IF NOT EXISTS idx_connections_user2_status ON connections(user2_id, status);

CREATE TABLE IF NOT EXISTS meetings (
	id BIGSERIAL PRIMARY KEY,
	connection_id BIGINT NOT NULL REFERENCES connections(id) ON DELETE CASCADE,
	organizer_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	starts_at TIMESTAMPTZ NOT NULL,
	duration_min INTEGER NOT NULL DEFAULT 60,
	status TEXT NOT NULL DEFAULT 'scheduled',
	zoom_meeting_id TEXT NOT NULL DEFAULT '',
	zoom_join_url TEXT NOT NULL DEFAULT '',
	calendar_event_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT valid_meeting_status CHECK (status IN ('scheduled', 'cancelled', 'completed'))
);

CREATE INDEX IF NOT EXISTS idx_meetings_connection ON meetings(connection_id, starts_at);

CREATE TABLE IF NOT EXISTS reviews (
	id BIGSERIAL PRIMARY KEY,
	from_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	to_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	rating INTEGER NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT valid_rating CHECK (rating BETWEEN 1 AND 5),
	CONSTRAINT one_review_per_pair UNIQUE (from_user_id, to_user_id)
);

CREATE INDEX IF NOT EXISTS idx_reviews_to_user ON reviews(to_user_id);

CREATE TABLE IF NOT EXISTS messages (
	id BIGSERIAL PRIMARY KEY,
	connection_id BIGINT NOT NULL REFERENCES connections(id) ON DELETE CASCADE,
	sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	body TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messages_connection ON messages(connection_id, id DESC);

CREATE TABLE IF NOT EXISTS reports (
	id BIGSERIAL PRIMARY KEY,
	reporter_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	target_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	reason TEXT NOT NULL,
	details TEXT NOT NULL DEFAULT '',
	resolved BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate applies the bootstrap schema. Statements are idempotent so this is
// safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}
