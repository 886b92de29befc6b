package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/push"
	"github.com/syntherra/PooDough/internal/repository"
	"github.com/syntherra/PooDough/internal/service"
)

// Processor executes the worker's task types: push deliveries, the daily
// exchange-rate refresh, and cleanup of settled notification rows.
type Processor struct {
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
	fx            *service.FXService
	sender        push.Sender
	retention     time.Duration
	logger        zerolog.Logger
}

type TaskPayload struct {
	Type           string `json:"type"`
	NotificationID string `json:"notificationId"`
}

func NewProcessor(
	notifications *repository.NotificationRepository,
	users *repository.UserRepository,
	fx *service.FXService,
	sender push.Sender,
	retention time.Duration,
	logger zerolog.Logger,
) *Processor {
	return &Processor{
		notifications: notifications,
		users:         users,
		fx:            fx,
		sender:        sender,
		retention:     retention,
		logger:        logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case "push":
		return p.handlePush(ctx, payload)
	case "fx_refresh":
		return p.handleFXRefresh(ctx)
	case "cleanup":
		return p.handleCleanup(ctx)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}

// handlePush delivers one pending notification. A recipient without a push
// token settles the row as failed; the message is never retried for them.
func (p *Processor) handlePush(ctx context.Context, payload TaskPayload) error {
	n, err := p.notifications.GetByID(ctx, payload.NotificationID)
	if err != nil {
		return fmt.Errorf("load notification: %w", err)
	}

	user, err := p.users.GetByID(ctx, n.ToUserID)
	if err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}

	if user.FCMToken == nil || *user.FCMToken == "" {
		if err := p.notifications.MarkFailed(ctx, n.ID, "no push token", time.Now()); err != nil {
			return fmt.Errorf("mark failed: %w", err)
		}
		p.logger.Debug().Str("notification_id", n.ID).Msg("recipient has no push token")
		return nil
	}

	messageID, err := p.sender.Send(ctx, *user.FCMToken, n)
	if err != nil {
		if markErr := p.notifications.MarkFailed(ctx, n.ID, err.Error(), time.Now()); markErr != nil {
			p.logger.Error().Err(markErr).Str("notification_id", n.ID).Msg("mark failed errored")
		}
		p.logger.Warn().Err(err).Str("notification_id", n.ID).Msg("push delivery failed")
		return nil
	}

	if err := p.notifications.MarkSent(ctx, n.ID, messageID, time.Now()); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}

	p.logger.Info().
		Str("notification_id", n.ID).
		Str("message_id", messageID).
		Msg("push delivered")
	return nil
}

func (p *Processor) handleFXRefresh(ctx context.Context) error {
	if err := p.fx.Refresh(ctx); err != nil {
		// Last known good keeps serving; just surface the failure.
		p.logger.Error().Err(err).Msg("exchange rate refresh failed")
		return nil
	}
	return nil
}

func (p *Processor) handleCleanup(ctx context.Context) error {
	cutoff := time.Now().Add(-p.retention)
	deleted, err := p.notifications.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cleanup notifications: %w", err)
	}

	p.logger.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("notification cleanup done")
	return nil
}
