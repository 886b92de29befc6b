package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash BYTEA NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		avatar_url TEXT,
		currency TEXT NOT NULL DEFAULT 'USD',
		salary DOUBLE PRECISION NOT NULL DEFAULT 0,
		work_days TEXT[],
		work_start TEXT,
		work_end TEXT,
		total_sessions BIGINT NOT NULL DEFAULT 0,
		total_earnings DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_duration BIGINT NOT NULL DEFAULT 0,
		longest_session BIGINT NOT NULL DEFAULT 0,
		current_streak INT NOT NULL DEFAULT 0,
		best_streak INT NOT NULL DEFAULT 0,
		last_session_at TIMESTAMPTZ,
		onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
		is_premium BOOLEAN NOT NULL DEFAULT FALSE,
		fcm_token TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_total_earnings ON users (total_earnings DESC)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		duration BIGINT NOT NULL,
		earnings DOUBLE PRECISION NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		was_work_hours BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_created ON sessions (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		device_id TEXT NOT NULL,
		device_name TEXT NOT NULL DEFAULT '',
		refresh_token_hash BYTEA NOT NULL,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, device_id)
	)`,
	`CREATE TABLE IF NOT EXISTS friend_requests (
		id TEXT PRIMARY KEY,
		from_user_id TEXT NOT NULL REFERENCES users(id),
		to_user_id TEXT NOT NULL REFERENCES users(id),
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		responded_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_friend_requests_to ON friend_requests (to_user_id, status)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		to_user_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		data JSONB NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'pending',
		message_id TEXT,
		error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		sent_at TIMESTAMPTZ,
		failed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications (created_at)`,
}

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so repeated startups are safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
