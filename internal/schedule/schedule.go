// Package schedule decides whether an instant falls inside a user's paid
// work window.
package schedule

import (
	"strings"
	"time"
)

const (
	DefaultStart = "09:00"
	DefaultEnd   = "17:00"
)

// DefaultDays is the fallback for profiles that never configured a schedule.
var DefaultDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

// WorkWindow is a weekly recurring time range: enabled weekdays plus a
// start/end time-of-day in 24h "HH:MM" form. The bounds are inclusive and
// the range never wraps midnight: End before Start means the window is
// never satisfied.
type WorkWindow struct {
	Days  []string
	Start string
	End   string
}

// Default returns the 9-to-5 Monday-Friday window.
func Default() WorkWindow {
	return WorkWindow{Days: DefaultDays, Start: DefaultStart, End: DefaultEnd}
}

// Normalize fills missing fields with defaults. A nil day list means the
// schedule was never configured and gets the weekday default; an empty but
// non-nil list is an explicit "no work days" and is kept as-is.
func (w WorkWindow) Normalize() WorkWindow {
	if w.Days == nil {
		w.Days = DefaultDays
	}
	if w.Start == "" {
		w.Start = DefaultStart
	}
	if w.End == "" {
		w.End = DefaultEnd
	}
	return w
}

// Contains reports whether t (in its own location) is paid time. Weekday
// entries match on their first three letters, case-insensitively, so
// "mon", "Mon" and "monday" all select Monday.
func (w WorkWindow) Contains(t time.Time) bool {
	w = w.Normalize()

	weekday := strings.ToLower(t.Weekday().String())
	match := false
	for _, day := range w.Days {
		prefix := strings.ToLower(strings.TrimSpace(day))
		if prefix == "" {
			continue
		}
		if len(prefix) > 3 {
			prefix = prefix[:3]
		}
		if strings.Contains(weekday, prefix) {
			match = true
			break
		}
	}
	if !match {
		return false
	}

	clock := t.Format("15:04")
	return clock >= w.Start && clock <= w.End
}
