package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syntherra/PooDough/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n models.Notification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO notifications (id, to_user_id, title, body, data, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err = r.pool.Exec(ctx, query, n.ID, n.ToUserID, n.Title, n.Body, data, n.Status)
	return err
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (models.Notification, error) {
	const query = `
		SELECT id, to_user_id, title, body, data, status, message_id, error, created_at, sent_at, failed_at
		FROM notifications WHERE id = $1
	`
	var n models.Notification
	var data []byte
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID,
		&n.ToUserID,
		&n.Title,
		&n.Body,
		&data,
		&n.Status,
		&n.MessageID,
		&n.Error,
		&n.CreatedAt,
		&n.SentAt,
		&n.FailedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Notification{}, ErrNotificationNotFound
		}
		return models.Notification{}, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return models.Notification{}, err
		}
	}
	return n, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id string, messageID string, at time.Time) error {
	const query = `
		UPDATE notifications SET status = 'sent', message_id = $2, sent_at = $3 WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, messageID, at)
	return err
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id string, reason string, at time.Time) error {
	const query = `
		UPDATE notifications SET status = 'failed', error = $2, failed_at = $3 WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, reason, at)
	return err
}

func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
