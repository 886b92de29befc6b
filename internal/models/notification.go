package models

import "time"

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

const (
	NotificationTypeFriendRequest  = "friend_request"
	NotificationTypeFriendAccepted = "friend_accepted"
	NotificationTypeRankOvertaken  = "rank_overtaken"
)

// Notification is a push request record. The API writes it as pending and
// enqueues its id on the notify stream; the worker delivers it and settles
// the status. Delivery metadata stays on the row for inspection.
type Notification struct {
	ID        string
	ToUserID  string
	Title     string
	Body      string
	Data      map[string]string
	Status    NotificationStatus
	MessageID *string
	Error     *string
	CreatedAt time.Time
	SentAt    *time.Time
	FailedAt  *time.Time
}
