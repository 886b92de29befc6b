package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/models"
	"github.com/syntherra/PooDough/internal/service"
	"github.com/syntherra/PooDough/internal/timer"
)

type fakeSessionStore struct {
	created   []models.Session
	purged    []string
	createErr error
	purgeErr  error
}

func (f *fakeSessionStore) Create(_ context.Context, s models.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSessionStore) PurgeUser(_ context.Context, userID string) error {
	if f.purgeErr != nil {
		return f.purgeErr
	}
	f.purged = append(f.purged, userID)
	return nil
}

type aggregateCall struct {
	userID   string
	amount   float64
	duration int64
	streak   int
}

type fakeAggregateStore struct {
	calls []aggregateCall
	err   error
}

func (f *fakeAggregateStore) RecordSession(_ context.Context, userID string, amount float64, duration int64, _ time.Time, streak int) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, aggregateCall{userID: userID, amount: amount, duration: duration, streak: streak})
	return nil
}

func workdayUser() models.User {
	return models.User{
		ID:       "u1",
		Salary:   52000,
		Currency: "USD",
		WorkDays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
	}
}

// Monday 2024-01-01.
func mondayRun(durationSecs int64, amount float64) timer.Result {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return timer.Result{
		StartedAt: start,
		StoppedAt: start.Add(time.Duration(durationSecs) * time.Second),
		Duration:  durationSecs,
		Earnings:  amount,
	}
}

func TestRecord_PersistsSessionAndAggregates(t *testing.T) {
	sessions := &fakeSessionStore{}
	users := &fakeAggregateStore{}
	rec := service.NewRecorder(sessions, users, zerolog.Nop())

	got, err := rec.Record(context.Background(), workdayUser(), mondayRun(120, 0.8333))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sessions.created) != 1 {
		t.Fatalf("expected 1 session write, got %d", len(sessions.created))
	}
	if got.Duration != 120 || got.Earnings != 0.8333 {
		t.Fatalf("unexpected session values: %+v", got)
	}
	if !got.WasWorkHours {
		t.Fatalf("Monday 10:02 should be inside the default work window")
	}
	if got.Currency != "USD" {
		t.Fatalf("session must freeze the profile currency, got %q", got.Currency)
	}
	if !got.CreatedAt.Equal(got.EndTime) {
		t.Fatalf("creation instant must be the stop instant, got %v vs %v", got.CreatedAt, got.EndTime)
	}
	if !sessions.created[0].CreatedAt.Equal(got.CreatedAt) {
		t.Fatalf("the stored row must carry the same creation instant as the response")
	}

	if len(users.calls) != 1 {
		t.Fatalf("expected 1 aggregate update, got %d", len(users.calls))
	}
	call := users.calls[0]
	if call.userID != "u1" || call.amount != 0.8333 || call.duration != 120 {
		t.Fatalf("unexpected aggregate call: %+v", call)
	}
	if call.streak != 1 {
		t.Fatalf("first session should start a streak of 1, got %d", call.streak)
	}
}

func TestRecord_OffHoursStillEarns(t *testing.T) {
	sessions := &fakeSessionStore{}
	users := &fakeAggregateStore{}
	rec := service.NewRecorder(sessions, users, zerolog.Nop())

	// Saturday 2024-01-06.
	start := time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)
	run := timer.Result{
		StartedAt: start,
		StoppedAt: start.Add(time.Hour),
		Duration:  3600,
		Earnings:  25,
	}

	got, err := rec.Record(context.Background(), workdayUser(), run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WasWorkHours {
		t.Fatalf("Saturday must be outside the work window")
	}
	if got.Earnings != 25 {
		t.Fatalf("off-hours earnings must still accrue, got %v", got.Earnings)
	}
	if users.calls[0].amount != 25 {
		t.Fatalf("off-hours earnings must reach the aggregates, got %v", users.calls[0].amount)
	}
}

func TestRecord_RequiresSignedInUser(t *testing.T) {
	sessions := &fakeSessionStore{}
	rec := service.NewRecorder(sessions, &fakeAggregateStore{}, zerolog.Nop())

	_, err := rec.Record(context.Background(), models.User{}, mondayRun(60, 1))
	if !errors.Is(err, service.ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
	if len(sessions.created) != 0 {
		t.Fatalf("no write may happen without a user")
	}
}

func TestRecord_SessionWriteFailure(t *testing.T) {
	sessions := &fakeSessionStore{createErr: errors.New("store down")}
	users := &fakeAggregateStore{}
	rec := service.NewRecorder(sessions, users, zerolog.Nop())

	_, err := rec.Record(context.Background(), workdayUser(), mondayRun(60, 1))
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(users.calls) != 0 {
		t.Fatalf("aggregates must not move when the session write fails")
	}
}

func TestRecord_AggregateFailureKeepsSession(t *testing.T) {
	sessions := &fakeSessionStore{}
	users := &fakeAggregateStore{err: errors.New("store down")}
	rec := service.NewRecorder(sessions, users, zerolog.Nop())

	got, err := rec.Record(context.Background(), workdayUser(), mondayRun(60, 1))
	if !errors.Is(err, service.ErrAggregatesStale) {
		t.Fatalf("expected ErrAggregatesStale, got %v", err)
	}
	if got.ID == "" {
		t.Fatalf("the recorded session must be returned despite the stale aggregates")
	}
	if len(sessions.created) != 1 {
		t.Fatalf("session must remain recorded")
	}
}

func TestRecord_StreakProgression(t *testing.T) {
	stop := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		last    time.Time
		hasLast bool
		current int
		want    int
	}{
		{name: "first ever", want: 1},
		{name: "same day", last: stop.Add(-2 * time.Hour), hasLast: true, current: 3, want: 3},
		{name: "yesterday", last: stop.AddDate(0, 0, -1), hasLast: true, current: 3, want: 4},
		{name: "gap resets", last: stop.AddDate(0, 0, -3), hasLast: true, current: 9, want: 1},
	}

	for _, tc := range cases {
		users := &fakeAggregateStore{}
		rec := service.NewRecorder(&fakeSessionStore{}, users, zerolog.Nop())

		user := workdayUser()
		user.CurrentStreak = tc.current
		if tc.hasLast {
			last := tc.last
			user.LastSessionAt = &last
		}

		run := timer.Result{StartedAt: stop.Add(-time.Minute), StoppedAt: stop, Duration: 60, Earnings: 1}
		if _, err := rec.Record(context.Background(), user, run); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got := users.calls[0].streak; got != tc.want {
			t.Fatalf("%s: expected streak %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestDeleteAllSessions(t *testing.T) {
	sessions := &fakeSessionStore{}
	rec := service.NewRecorder(sessions, &fakeAggregateStore{}, zerolog.Nop())

	if err := rec.DeleteAllSessions(context.Background(), workdayUser()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions.purged) != 1 || sessions.purged[0] != "u1" {
		t.Fatalf("expected purge for u1, got %v", sessions.purged)
	}

	if err := rec.DeleteAllSessions(context.Background(), models.User{}); !errors.Is(err, service.ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}
