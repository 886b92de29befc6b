package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syntherra/PooDough/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `
	id, email, password_hash, display_name, avatar_url,
	currency, salary, work_days, work_start, work_end,
	total_sessions, total_earnings, total_duration, longest_session,
	current_streak, best_streak, last_session_at,
	onboarding_completed, is_premium, fcm_token, created_at, updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var workStart, workEnd *string
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Currency,
		&user.Salary,
		&user.WorkDays,
		&workStart,
		&workEnd,
		&user.TotalSessions,
		&user.TotalEarnings,
		&user.TotalDuration,
		&user.LongestSession,
		&user.CurrentStreak,
		&user.BestStreak,
		&user.LastSessionAt,
		&user.OnboardingCompleted,
		&user.IsPremium,
		&user.FCMToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	if workStart != nil {
		user.WorkStart = *workStart
	}
	if workEnd != nil {
		user.WorkEnd = *workEnd
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, email, password_hash, display_name, currency, salary,
			work_days, work_start, work_end, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Currency,
		user.Salary,
		user.WorkDays,
		user.WorkStart,
		user.WorkEnd,
	)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) FindByDisplayName(ctx context.Context, name string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE LOWER(display_name) = LOWER($1)`
	row := r.pool.QueryRow(ctx, query, name)
	return scanUser(row)
}

// CountByDisplayName backs the availability pre-check. The check-then-write
// is advisory only: there is no unique index, so two concurrent sign-ups can
// both pass it.
func (r *UserRepository) CountByDisplayName(ctx context.Context, name string, excludeUserID string) (int, error) {
	const query = `
		SELECT COUNT(*) FROM users
		WHERE LOWER(display_name) = LOWER($1) AND id <> $2
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, name, excludeUserID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SaveProfile writes the profile-editable fields only. Aggregate counters
// are off limits here; the recorder owns them.
func (r *UserRepository) SaveProfile(ctx context.Context, user models.User) error {
	const query = `
		UPDATE users SET
			display_name = $2,
			currency = $3,
			salary = $4,
			work_days = $5,
			work_start = NULLIF($6, ''),
			work_end = NULLIF($7, ''),
			onboarding_completed = $8,
			updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		user.ID,
		user.DisplayName,
		user.Currency,
		user.Salary,
		user.WorkDays,
		user.WorkStart,
		user.WorkEnd,
		user.OnboardingCompleted,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetAvatarURL(ctx context.Context, id string, url string) error {
	const query = `UPDATE users SET avatar_url = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, url)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetFCMToken(ctx context.Context, id string, token string) error {
	const query = `UPDATE users SET fcm_token = NULLIF($2, ''), updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RecordSession applies one completed session to the running aggregates in a
// single statement. The counters are SQL-side increments so concurrent
// completions from other devices add up instead of overwriting each other.
func (r *UserRepository) RecordSession(ctx context.Context, userID string, amount float64, duration int64, at time.Time, streak int) error {
	const query = `
		UPDATE users SET
			total_sessions = total_sessions + 1,
			total_earnings = total_earnings + $2,
			total_duration = total_duration + $3,
			longest_session = GREATEST(longest_session, $3),
			current_streak = $4,
			best_streak = GREATEST(best_streak, $4),
			last_session_at = $5,
			updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, userID, amount, duration, streak, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) TopByEarnings(ctx context.Context, limit int) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY total_earnings DESC, id ASC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) TopByEarningsAmong(ctx context.Context, ids []string, limit int) ([]models.User, error) {
	const query = `
		SELECT ` + userColumns + ` FROM users
		WHERE id = ANY($1)
		ORDER BY total_earnings DESC, id ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, ids, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
