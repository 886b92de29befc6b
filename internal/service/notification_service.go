package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/ids"
	"github.com/syntherra/PooDough/internal/models"
)

type notificationStore interface {
	Create(ctx context.Context, n models.Notification) error
}

// NotificationService records a pending push request and hands its id to the
// worker over the notify stream. Delivery and status settlement happen in
// the worker; a stream enqueue failure is logged but does not fail the
// caller, the row stays pending for inspection.
type NotificationService struct {
	notifications notificationStore
	queue         *redis.Client
	stream        string
	log           zerolog.Logger
}

func NewNotificationService(notifications notificationStore, queue *redis.Client, stream string, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		queue:         queue,
		stream:        stream,
		log:           log,
	}
}

func (s *NotificationService) Enqueue(ctx context.Context, toUserID string, title string, body string, data map[string]string) error {
	n := models.Notification{
		ID:       ids.New(),
		ToUserID: toUserID,
		Title:    title,
		Body:     body,
		Data:     data,
		Status:   models.NotificationPending,
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	if s.queue == nil {
		return nil
	}
	err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"type":           "push",
			"notificationId": n.ID,
		},
	}).Err()
	if err != nil {
		s.log.Error().Err(err).Str("notification_id", n.ID).Msg("enqueue push failed")
	}
	return nil
}

func (s *NotificationService) FriendRequest(ctx context.Context, toUserID string, fromUserName string) error {
	return s.Enqueue(ctx, toUserID,
		"New Friend Request! 👥",
		fmt.Sprintf("%s wants to be your poop buddy!", fromUserName),
		map[string]string{
			"type":         models.NotificationTypeFriendRequest,
			"fromUserName": fromUserName,
		})
}

func (s *NotificationService) FriendAccepted(ctx context.Context, toUserID string, acceptedByName string) error {
	return s.Enqueue(ctx, toUserID,
		"Friend Request Accepted! 🎉",
		fmt.Sprintf("%s accepted your friend request!", acceptedByName),
		map[string]string{
			"type":           models.NotificationTypeFriendAccepted,
			"acceptedByName": acceptedByName,
		})
}

var topRankTitles = map[int]string{
	1: "Porcelain Emperor 👑",
	2: "Flush Master 🥈",
	3: "Toilet Titan 🥉",
	4: "Bathroom Baron 🏆",
	5: "Restroom Royalty 👸",
}

// RankOvertaken tells a user they slipped a place. Only the top five ranks
// are worth interrupting someone for.
func (s *NotificationService) RankOvertaken(ctx context.Context, toUserID string, overtakenByName string, newRank int, oldRank int) error {
	if oldRank > 5 {
		return nil
	}

	lostTitle := topRankTitles[oldRank]
	if lostTitle == "" {
		lostTitle = fmt.Sprintf("#%d", oldRank)
	}

	return s.Enqueue(ctx, toUserID,
		"You've Been Overtaken! 😱",
		fmt.Sprintf("%s just passed you! You lost your %s position.", overtakenByName, lostTitle),
		map[string]string{
			"type":            models.NotificationTypeRankOvertaken,
			"overtakenByName": overtakenByName,
			"newRank":         strconv.Itoa(newRank),
			"oldRank":         strconv.Itoa(oldRank),
			"lostTitle":       lostTitle,
		})
}
