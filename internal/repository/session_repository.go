package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syntherra/PooDough/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	const query = `
		INSERT INTO sessions (
			id, user_id, start_time, end_time, duration, earnings, currency, was_work_hours, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.StartTime,
		session.EndTime,
		session.Duration,
		session.Earnings,
		session.Currency,
		session.WasWorkHours,
		session.CreatedAt,
	)
	return err
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	const query = `
		SELECT id, user_id, start_time, end_time, duration, earnings, currency, was_work_hours, created_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.StartTime,
			&s.EndTime,
			&s.Duration,
			&s.Earnings,
			&s.Currency,
			&s.WasWorkHours,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// PurgeUser deletes every session for the user and zeroes the profile
// aggregates in one transaction; either both happen or neither does.
// Purging a user with no sessions is a successful no-op.
func (r *SessionRepository) PurgeUser(ctx context.Context, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin purge: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}

	const reset = `
		UPDATE users SET
			total_sessions = 0,
			total_earnings = 0,
			total_duration = 0,
			longest_session = 0,
			current_streak = 0,
			last_session_at = NULL,
			updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := tx.Exec(ctx, reset, userID)
	if err != nil {
		return fmt.Errorf("reset aggregates: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return tx.Commit(ctx)
}
