// Package timer holds the live run state machine: one idle/running cycle
// per user, ticked once a second while running. Runs are ephemeral; nothing
// here touches storage. Stopping hands the finalized numbers to the caller.
package timer

import (
	"errors"
	"sync"
	"time"

	"github.com/syntherra/PooDough/internal/earnings"
)

var (
	ErrAlreadyRunning = errors.New("timer already running")
	ErrNotRunning     = errors.New("timer not running")
)

// Clock abstracts time.Now so tests can drive the state machine
// deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Snapshot is the observable state of a live run.
type Snapshot struct {
	Running   bool      `json:"running"`
	StartedAt time.Time `json:"startedAt"`
	Elapsed   int64     `json:"elapsed"`
	Earnings  float64   `json:"earnings"`
}

// Result is the finalized outcome handed off on stop.
type Result struct {
	StartedAt time.Time
	StoppedAt time.Time
	Duration  int64
	Earnings  float64
}

type run struct {
	mu        sync.Mutex
	startedAt time.Time
	salary    float64
	elapsed   int64
	earnings  float64
	stop      chan struct{}
}

// Manager owns all live runs, keyed by user id. One run per user; a second
// start while running is rejected without touching the live run.
type Manager struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	runs     map[string]*run
}

func NewManager(clock Clock, tickInterval time.Duration) *Manager {
	if clock == nil {
		clock = SystemClock
	}
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	return &Manager{
		clock:    clock,
		interval: tickInterval,
		runs:     make(map[string]*run),
	}
}

// Start captures the current instant and begins ticking. The salary is used
// for the live earnings display; the final amount is recomputed on stop with
// whatever salary the profile holds then.
func (m *Manager) Start(userID string, salary float64) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[userID]; exists {
		return Snapshot{}, ErrAlreadyRunning
	}

	r := &run{
		startedAt: m.clock.Now(),
		salary:    salary,
		stop:      make(chan struct{}),
	}
	m.runs[userID] = r
	go m.tickLoop(r)

	return Snapshot{Running: true, StartedAt: r.startedAt}, nil
}

func (m *Manager) tickLoop(r *run) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.tick(m.clock.Now())
		}
	}
}

func (r *run) tick(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elapsed = int64(now.Sub(r.startedAt) / time.Second)
	r.earnings = earnings.ForDuration(r.salary, r.elapsed)
}

// Snapshot returns the live state for a user, or a zero idle snapshot.
func (m *Manager) Snapshot(userID string) Snapshot {
	m.mu.Lock()
	r, exists := m.runs[userID]
	m.mu.Unlock()

	if !exists {
		return Snapshot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Running:   true,
		StartedAt: r.startedAt,
		Elapsed:   r.elapsed,
		Earnings:  r.earnings,
	}
}

// Stop cancels the ticker, removes the run, and returns the finalized
// duration and earnings computed at the stop instant with the given salary.
// The run is always removed, so the user is never stuck running even when
// the caller fails to persist the result afterwards.
func (m *Manager) Stop(userID string, salary float64) (Result, error) {
	m.mu.Lock()
	r, exists := m.runs[userID]
	if exists {
		delete(m.runs, userID)
	}
	m.mu.Unlock()

	if !exists {
		return Result{}, ErrNotRunning
	}
	close(r.stop)

	stoppedAt := m.clock.Now()
	duration := int64(stoppedAt.Sub(r.startedAt) / time.Second)
	if duration < 0 {
		duration = 0
	}

	return Result{
		StartedAt: r.startedAt,
		StoppedAt: stoppedAt,
		Duration:  duration,
		Earnings:  earnings.ForDuration(salary, duration),
	}, nil
}

// Abort discards a run without producing a result, for sign-out and
// shutdown teardown.
func (m *Manager) Abort(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, exists := m.runs[userID]; exists {
		close(r.stop)
		delete(m.runs, userID)
	}
}

// Shutdown cancels every live ticker.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.runs {
		close(r.stop)
		delete(m.runs, id)
	}
}
