package timer_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/syntherra/PooDough/internal/timer"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestManager_StartAndStop(t *testing.T) {
	clock := newFakeClock()
	m := timer.NewManager(clock, time.Second)
	defer m.Shutdown()

	snap, err := m.Start("user-1", 52000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snap.Running {
		t.Fatalf("expected running snapshot")
	}

	clock.Advance(120 * time.Second)

	result, err := m.Stop("user-1", 52000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duration != 120 {
		t.Fatalf("expected duration 120, got %d", result.Duration)
	}
	// 25/hr * 120s = 0.8333...
	if math.Abs(result.Earnings-25.0/30.0) > 1e-9 {
		t.Fatalf("expected earnings %v, got %v", 25.0/30.0, result.Earnings)
	}
	if got := m.Snapshot("user-1"); got.Running {
		t.Fatalf("expected idle state after stop")
	}
}

func TestManager_DuplicateStartIsRejected(t *testing.T) {
	m := timer.NewManager(newFakeClock(), time.Second)
	defer m.Shutdown()

	if _, err := m.Start("user-1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Start("user-1", 0); err != timer.ErrAlreadyRunning {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestManager_StopWhenIdle(t *testing.T) {
	m := timer.NewManager(newFakeClock(), time.Second)
	defer m.Shutdown()

	if _, err := m.Stop("user-1", 0); err != timer.ErrNotRunning {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestManager_ImmediateStopIsZeroDuration(t *testing.T) {
	m := timer.NewManager(newFakeClock(), time.Second)
	defer m.Shutdown()

	if _, err := m.Start("user-1", 52000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := m.Stop("user-1", 52000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duration != 0 || result.Earnings != 0 {
		t.Fatalf("expected zeroed result, got %+v", result)
	}
}

func TestManager_TickUpdatesSnapshot(t *testing.T) {
	clock := newFakeClock()
	m := timer.NewManager(clock, 5*time.Millisecond)
	defer m.Shutdown()

	if _, err := m.Start("user-1", 52000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(90 * time.Second)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if snap := m.Snapshot("user-1"); snap.Elapsed == 90 {
			if snap.Earnings <= 0 {
				t.Fatalf("expected live earnings, got %v", snap.Earnings)
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("tick never observed the advanced clock")
}

func TestManager_AbortDiscardsRun(t *testing.T) {
	m := timer.NewManager(newFakeClock(), time.Second)
	defer m.Shutdown()

	if _, err := m.Start("user-1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Abort("user-1")

	if snap := m.Snapshot("user-1"); snap.Running {
		t.Fatalf("expected idle after abort")
	}
	if _, err := m.Start("user-1", 0); err != nil {
		t.Fatalf("expected restart after abort, got %v", err)
	}
}

func TestManager_IndependentUsers(t *testing.T) {
	clock := newFakeClock()
	m := timer.NewManager(clock, time.Second)
	defer m.Shutdown()

	if _, err := m.Start("user-1", 52000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(60 * time.Second)
	if _, err := m.Start("user-2", 104000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(60 * time.Second)

	r1, err := m.Stop("user-1", 52000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := m.Stop("user-2", 104000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.Duration != 120 || r2.Duration != 60 {
		t.Fatalf("expected 120/60, got %d/%d", r1.Duration, r2.Duration)
	}
}
