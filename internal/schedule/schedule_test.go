package schedule_test

import (
	"testing"
	"time"

	"github.com/syntherra/PooDough/internal/schedule"
)

// 2024-01-01 was a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2024, 1, 1, hour, min, 0, 0, time.UTC)
}

func saturday(hour, min int) time.Time {
	return time.Date(2024, 1, 6, hour, min, 0, 0, time.UTC)
}

func TestContains_WorkdayInsideWindow(t *testing.T) {
	w := schedule.WorkWindow{
		Days:  []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		Start: "09:00",
		End:   "17:00",
	}

	if !w.Contains(monday(10, 0)) {
		t.Fatalf("expected Monday 10:00 to be work time")
	}
	if w.Contains(saturday(10, 0)) {
		t.Fatalf("expected Saturday 10:00 to be off the clock")
	}
}

func TestContains_InclusiveBounds(t *testing.T) {
	w := schedule.WorkWindow{Days: []string{"mon"}, Start: "09:00", End: "17:00"}

	if !w.Contains(monday(9, 0)) {
		t.Fatalf("start bound should be inclusive")
	}
	if !w.Contains(monday(17, 0)) {
		t.Fatalf("end bound should be inclusive")
	}
	if w.Contains(monday(8, 59)) {
		t.Fatalf("08:59 is before the window")
	}
	if w.Contains(monday(17, 1)) {
		t.Fatalf("17:01 is after the window")
	}
}

func TestContains_EmptyDaySetNeverMatches(t *testing.T) {
	w := schedule.WorkWindow{Days: []string{}, Start: "00:00", End: "23:59"}

	for hour := 0; hour < 24; hour++ {
		if w.Contains(monday(hour, 30)) {
			t.Fatalf("empty day set matched at hour %d", hour)
		}
	}
}

func TestContains_MissingScheduleFallsBackToDefaults(t *testing.T) {
	var w schedule.WorkWindow

	if !w.Contains(monday(10, 0)) {
		t.Fatalf("nil schedule should default to Mon-Fri 09:00-17:00")
	}
	if w.Contains(saturday(10, 0)) {
		t.Fatalf("default schedule should not include Saturday")
	}
	if w.Contains(monday(18, 0)) {
		t.Fatalf("default schedule ends at 17:00")
	}
}

func TestContains_OvernightWindowNeverMatches(t *testing.T) {
	w := schedule.WorkWindow{Days: []string{"monday"}, Start: "22:00", End: "06:00"}

	for _, tc := range []time.Time{monday(23, 0), monday(2, 0), monday(12, 0)} {
		if w.Contains(tc) {
			t.Fatalf("overnight window should never match, matched at %v", tc)
		}
	}
}

func TestContains_ShortDayNames(t *testing.T) {
	w := schedule.WorkWindow{Days: []string{"Mon", "WED"}, Start: "09:00", End: "17:00"}

	if !w.Contains(monday(12, 0)) {
		t.Fatalf("three-letter prefix should match Monday")
	}
	wednesday := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	if !w.Contains(wednesday) {
		t.Fatalf("uppercase prefix should match Wednesday")
	}
}
