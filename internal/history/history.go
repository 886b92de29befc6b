// Package history computes windowed statistics over a user's session list.
// Everything here is a pure fold: no I/O, safe to recompute on every request.
package history

import (
	"fmt"
	"time"

	"github.com/syntherra/PooDough/internal/models"
)

type Window string

const (
	WindowAll   Window = "all"
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ParseWindow maps a request filter to a Window. The "this-" spellings are
// accepted alongside the short forms; anything else is rejected. An empty
// filter means all time.
func ParseWindow(s string) (Window, error) {
	switch s {
	case "", string(WindowAll):
		return WindowAll, nil
	case string(WindowToday):
		return WindowToday, nil
	case string(WindowWeek), "this-week":
		return WindowWeek, nil
	case string(WindowMonth), "this-month":
		return WindowMonth, nil
	default:
		return WindowAll, fmt.Errorf("unknown window %q", s)
	}
}

type Stats struct {
	Sessions        int     `json:"sessions"`
	Earnings        float64 `json:"earnings"`
	Duration        int64   `json:"duration"`
	LongestSession  int64   `json:"longestSession"`
	AverageDuration float64 `json:"averageDuration"`
	WorkHours       int     `json:"workHoursSessions"`
}

// Aggregate folds the sessions whose creation instant falls inside the
// window containing now. Weeks start on Sunday; day boundaries are local
// midnights in now's location.
func Aggregate(sessions []models.Session, w Window, now time.Time) Stats {
	start, end, bounded := bounds(w, now)

	var stats Stats
	for _, s := range sessions {
		if bounded && (s.CreatedAt.Before(start) || !s.CreatedAt.Before(end)) {
			continue
		}
		stats.Sessions++
		stats.Earnings += s.Earnings
		stats.Duration += s.Duration
		if s.Duration > stats.LongestSession {
			stats.LongestSession = s.Duration
		}
		if s.WasWorkHours {
			stats.WorkHours++
		}
	}

	if stats.Sessions > 0 {
		stats.AverageDuration = float64(stats.Duration) / float64(stats.Sessions)
	}
	return stats
}

func bounds(w Window, now time.Time) (time.Time, time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch w {
	case WindowToday:
		return midnight, midnight.AddDate(0, 0, 1), true
	case WindowWeek:
		start := midnight.AddDate(0, 0, -int(now.Weekday()))
		return start, start.AddDate(0, 0, 7), true
	case WindowMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}
