package models

import "time"

// Session is one completed start-to-stop timer run. Rows are immutable once
// written; the only delete path is the full history wipe. Earnings are frozen
// at record time using the profile's salary and currency at that moment.
type Session struct {
	ID           string
	UserID       string
	StartTime    time.Time
	EndTime      time.Time
	Duration     int64
	Earnings     float64
	Currency     string
	WasWorkHours bool
	CreatedAt    time.Time
}
