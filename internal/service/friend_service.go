package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/ids"
	"github.com/syntherra/PooDough/internal/models"
	"github.com/syntherra/PooDough/internal/repository"
)

// FriendService handles the request/accept handshake. Requests are addressed
// by display name, the one identifier users actually see.
type FriendService struct {
	friends       *repository.FriendRepository
	users         *repository.UserRepository
	notifications *NotificationService
	log           zerolog.Logger
}

func NewFriendService(
	friends *repository.FriendRepository,
	users *repository.UserRepository,
	notifications *NotificationService,
	log zerolog.Logger,
) *FriendService {
	return &FriendService{
		friends:       friends,
		users:         users,
		notifications: notifications,
		log:           log,
	}
}

// Send creates a pending request to the user owning displayName and pushes a
// notification to them. At most one live link may exist per user pair.
func (s *FriendService) Send(ctx context.Context, from models.User, displayName string) (models.FriendRequest, error) {
	if from.ID == "" {
		return models.FriendRequest{}, ErrNotSignedIn
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return models.FriendRequest{}, ErrNameEmpty
	}

	target, err := s.users.FindByDisplayName(ctx, displayName)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.FriendRequest{}, ErrUserNotFound
		}
		return models.FriendRequest{}, fmt.Errorf("look up user: %w", err)
	}

	if target.ID == from.ID {
		return models.FriendRequest{}, ErrSelfFriend
	}

	linked, err := s.friends.LinkExists(ctx, from.ID, target.ID)
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("check existing link: %w", err)
	}
	if linked {
		return models.FriendRequest{}, ErrAlreadyLinked
	}

	req := models.FriendRequest{
		ID:         ids.New(),
		FromUserID: from.ID,
		ToUserID:   target.ID,
		Status:     models.FriendRequestPending,
	}
	if err := s.friends.Create(ctx, req); err != nil {
		return models.FriendRequest{}, fmt.Errorf("save friend request: %w", err)
	}

	if err := s.notifications.FriendRequest(ctx, target.ID, from.DisplayName); err != nil {
		s.log.Warn().Err(err).Str("request_id", req.ID).Msg("friend request notification failed")
	}
	return req, nil
}

// Accept settles a pending request addressed to user and tells the sender.
func (s *FriendService) Accept(ctx context.Context, user models.User, requestID string) error {
	req, err := s.settle(ctx, user, requestID, models.FriendRequestAccepted)
	if err != nil {
		return err
	}

	if err := s.notifications.FriendAccepted(ctx, req.FromUserID, user.DisplayName); err != nil {
		s.log.Warn().Err(err).Str("request_id", req.ID).Msg("friend accepted notification failed")
	}
	return nil
}

// Decline settles a pending request addressed to user. The sender is not
// notified.
func (s *FriendService) Decline(ctx context.Context, user models.User, requestID string) error {
	_, err := s.settle(ctx, user, requestID, models.FriendRequestDeclined)
	return err
}

func (s *FriendService) settle(ctx context.Context, user models.User, requestID string, status models.FriendRequestStatus) (models.FriendRequest, error) {
	if user.ID == "" {
		return models.FriendRequest{}, ErrNotSignedIn
	}

	req, err := s.friends.GetByID(ctx, requestID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if req.ToUserID != user.ID {
		return models.FriendRequest{}, ErrNotYourRequest
	}
	if req.Status != models.FriendRequestPending {
		return models.FriendRequest{}, ErrNotYourRequest
	}

	if err := s.friends.UpdateStatus(ctx, req.ID, status, time.Now()); err != nil {
		return models.FriendRequest{}, fmt.Errorf("update friend request: %w", err)
	}
	req.Status = status
	return req, nil
}

// PendingRequest pairs a request with its sender's public profile fields.
type PendingRequest struct {
	Request  models.FriendRequest
	FromName string
	Avatar   *string
}

func (s *FriendService) ListPending(ctx context.Context, user models.User) ([]PendingRequest, error) {
	if user.ID == "" {
		return nil, ErrNotSignedIn
	}

	reqs, err := s.friends.ListPendingFor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load pending requests: %w", err)
	}

	pending := make([]PendingRequest, 0, len(reqs))
	for _, req := range reqs {
		item := PendingRequest{Request: req}
		if sender, err := s.users.GetByID(ctx, req.FromUserID); err == nil {
			item.FromName = sender.DisplayName
			item.Avatar = sender.AvatarURL
		}
		pending = append(pending, item)
	}
	return pending, nil
}

func (s *FriendService) ListFriends(ctx context.Context, user models.User) ([]models.User, error) {
	if user.ID == "" {
		return nil, ErrNotSignedIn
	}

	ids, err := s.friends.ListFriendIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load friends: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.users.TopByEarningsAmong(ctx, ids, len(ids))
}
