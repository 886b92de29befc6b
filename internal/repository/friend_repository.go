package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syntherra/PooDough/internal/models"
)

var ErrFriendRequestNotFound = errors.New("friend request not found")

type FriendRepository struct {
	pool *pgxpool.Pool
}

func NewFriendRepository(pool *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{pool: pool}
}

func (r *FriendRepository) Create(ctx context.Context, req models.FriendRequest) error {
	const query = `
		INSERT INTO friend_requests (id, from_user_id, to_user_id, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query, req.ID, req.FromUserID, req.ToUserID, req.Status)
	return err
}

func (r *FriendRepository) GetByID(ctx context.Context, id string) (models.FriendRequest, error) {
	const query = `
		SELECT id, from_user_id, to_user_id, status, created_at, responded_at
		FROM friend_requests WHERE id = $1
	`
	var req models.FriendRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.FromUserID,
		&req.ToUserID,
		&req.Status,
		&req.CreatedAt,
		&req.RespondedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FriendRequest{}, ErrFriendRequestNotFound
		}
		return models.FriendRequest{}, err
	}
	return req, nil
}

func (r *FriendRepository) UpdateStatus(ctx context.Context, id string, status models.FriendRequestStatus, at time.Time) error {
	const query = `UPDATE friend_requests SET status = $2, responded_at = $3 WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, status, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrFriendRequestNotFound
	}
	return nil
}

// LinkExists reports whether any pending or accepted request already joins
// the two users, in either direction.
func (r *FriendRepository) LinkExists(ctx context.Context, userA string, userB string) (bool, error) {
	const query = `
		SELECT COUNT(*) FROM friend_requests
		WHERE status IN ('pending', 'accepted')
		  AND ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1))
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, userA, userB).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FriendRepository) ListPendingFor(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	const query = `
		SELECT id, from_user_id, to_user_id, status, created_at, responded_at
		FROM friend_requests
		WHERE to_user_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []models.FriendRequest
	for rows.Next() {
		var req models.FriendRequest
		if err := rows.Scan(
			&req.ID,
			&req.FromUserID,
			&req.ToUserID,
			&req.Status,
			&req.CreatedAt,
			&req.RespondedAt,
		); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// ListFriendIDs returns the user ids linked to userID by accepted requests.
func (r *FriendRepository) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `
		SELECT CASE WHEN from_user_id = $1 THEN to_user_id ELSE from_user_id END
		FROM friend_requests
		WHERE status = 'accepted' AND (from_user_id = $1 OR to_user_id = $1)
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
