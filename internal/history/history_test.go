package history_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/syntherra/PooDough/internal/history"
	"github.com/syntherra/PooDough/internal/models"
)

// Wednesday 2024-05-15 noon.
var now = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func session(createdAt time.Time, duration int64, amount float64, work bool) models.Session {
	return models.Session{
		ID:           "s-" + createdAt.Format("20060102T150405"),
		UserID:       "u1",
		Duration:     duration,
		Earnings:     amount,
		WasWorkHours: work,
		CreatedAt:    createdAt,
	}
}

func TestAggregate_EmptyList(t *testing.T) {
	got := history.Aggregate(nil, history.WindowToday, now)
	if got != (history.Stats{}) {
		t.Fatalf("empty input must yield zeroed stats, got %+v", got)
	}
}

func TestAggregate_AllTime(t *testing.T) {
	sessions := []models.Session{
		session(now.Add(-time.Hour), 120, 0.83, true),
		session(now.AddDate(0, -2, 0), 300, 2.08, false),
		session(now.AddDate(-1, 0, 0), 600, 4.17, true),
	}

	got := history.Aggregate(sessions, history.WindowAll, now)
	if got.Sessions != 3 {
		t.Fatalf("expected 3 sessions, got %d", got.Sessions)
	}
	if got.Duration != 1020 {
		t.Fatalf("expected duration 1020, got %d", got.Duration)
	}
	if got.LongestSession != 600 {
		t.Fatalf("expected longest 600, got %d", got.LongestSession)
	}
	if got.WorkHours != 2 {
		t.Fatalf("expected 2 work-hour sessions, got %d", got.WorkHours)
	}
	if got.AverageDuration != 340 {
		t.Fatalf("expected average 340, got %v", got.AverageDuration)
	}
}

func TestAggregate_TodayBoundaries(t *testing.T) {
	midnight := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	sessions := []models.Session{
		session(midnight, 60, 1, false),                     // first second of today
		session(midnight.Add(-time.Second), 60, 1, false),   // yesterday
		session(midnight.AddDate(0, 0, 1), 60, 1, false),    // tomorrow
		session(midnight.Add(23*time.Hour), 60, 1, false),   // tonight
	}

	got := history.Aggregate(sessions, history.WindowToday, now)
	if got.Sessions != 2 {
		t.Fatalf("expected 2 sessions today, got %d", got.Sessions)
	}
}

func TestAggregate_WeekStartsSunday(t *testing.T) {
	sunday := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	sessions := []models.Session{
		session(sunday, 60, 1, false),
		session(sunday.Add(-time.Minute), 60, 1, false), // previous week
		session(sunday.AddDate(0, 0, 6), 60, 1, false),  // Saturday, same week
		session(sunday.AddDate(0, 0, 7), 60, 1, false),  // next Sunday
	}

	got := history.Aggregate(sessions, history.WindowWeek, now)
	if got.Sessions != 2 {
		t.Fatalf("expected 2 sessions this week, got %d", got.Sessions)
	}
}

func TestAggregate_Month(t *testing.T) {
	sessions := []models.Session{
		session(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 60, 1, false),
		session(time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC), 60, 1, false),
		session(time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC), 60, 1, false),
		session(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 60, 1, false),
	}

	got := history.Aggregate(sessions, history.WindowMonth, now)
	if got.Sessions != 2 {
		t.Fatalf("expected 2 sessions this month, got %d", got.Sessions)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	sessions := []models.Session{
		session(now.Add(-time.Hour), 120, 0.83, true),
		session(now.Add(-2*time.Hour), 45, 0.31, false),
	}

	first := history.Aggregate(sessions, history.WindowAll, now)
	second := history.Aggregate(sessions, history.WindowAll, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregate is not idempotent: %+v vs %+v", first, second)
	}
}

func TestParseWindow(t *testing.T) {
	cases := map[string]history.Window{
		"today":      history.WindowToday,
		"week":       history.WindowWeek,
		"this-week":  history.WindowWeek,
		"month":      history.WindowMonth,
		"this-month": history.WindowMonth,
		"all":        history.WindowAll,
		"":           history.WindowAll,
	}
	for in, want := range cases {
		got, err := history.ParseWindow(in)
		if err != nil {
			t.Fatalf("ParseWindow(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseWindow(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := history.ParseWindow("bogus"); err == nil {
		t.Fatalf("unknown selector must be rejected")
	}
}
