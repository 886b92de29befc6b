package earnings_test

import (
	"math"
	"testing"

	"github.com/syntherra/PooDough/internal/earnings"
)

func TestHourlyRate(t *testing.T) {
	// 104000 / 2080 = 50 exactly.
	if got := earnings.HourlyRate(104000); got != 50 {
		t.Fatalf("expected rate 50, got %v", got)
	}
	if got := earnings.HourlyRate(52000); got != 25 {
		t.Fatalf("expected rate 25, got %v", got)
	}
	if got := earnings.HourlyRate(0); got != 0 {
		t.Fatalf("zero salary must yield zero rate, got %v", got)
	}
	if got := earnings.HourlyRate(-100); got != 0 {
		t.Fatalf("negative salary must degrade to zero, got %v", got)
	}
}

func TestForDuration_Exactness(t *testing.T) {
	if got := earnings.ForDuration(104000, 3600); got != 50 {
		t.Fatalf("one hour at 104000/yr should earn exactly 50, got %v", got)
	}

	// 120s at 52000/yr: 25 * 120/3600 = 0.8333...
	got := earnings.ForDuration(52000, 120)
	if math.Abs(got-25.0/30.0) > 1e-9 {
		t.Fatalf("expected %v, got %v", 25.0/30.0, got)
	}
}

func TestForDuration_Monotonic(t *testing.T) {
	prev := 0.0
	for _, secs := range []int64{0, 1, 59, 60, 3599, 3600, 86400} {
		got := earnings.ForDuration(75000, secs)
		if got < prev {
			t.Fatalf("earnings decreased at %ds: %v < %v", secs, got, prev)
		}
		prev = got
	}
}

func TestForDuration_ZeroSalary(t *testing.T) {
	for _, secs := range []int64{0, 60, 3600} {
		if got := earnings.ForDuration(0, secs); got != 0 {
			t.Fatalf("zero salary earned %v over %ds", got, secs)
		}
	}
}
