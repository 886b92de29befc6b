package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

type FriendRequest struct {
	ID          string
	FromUserID  string
	ToUserID    string
	Status      FriendRequestStatus
	CreatedAt   time.Time
	RespondedAt *time.Time
}
