package models

import "time"

// User is the profile document behind one authenticated identity. Aggregate
// fields (TotalSessions, TotalEarnings, TotalDuration, LongestSession,
// streaks, LastSessionAt) are written only by the session recorder and the
// bulk history delete; profile edits never touch them.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	DisplayName  string
	AvatarURL    *string

	Currency  string
	Salary    float64
	WorkDays  []string
	WorkStart string
	WorkEnd   string

	TotalSessions  int64
	TotalEarnings  float64
	TotalDuration  int64
	LongestSession int64
	CurrentStreak  int
	BestStreak     int
	LastSessionAt  *time.Time

	OnboardingCompleted bool
	IsPremium           bool
	FCMToken            *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthSession is one signed-in device (refresh-token holder) for a user.
type AuthSession struct {
	ID               string
	UserID           string
	DeviceID         string
	DeviceName       string
	RefreshTokenHash []byte
	IPAddress        string
	UserAgent        string
	CreatedAt        time.Time
	LastSeenAt       time.Time
	ExpiresAt        time.Time
}
