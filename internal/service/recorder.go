package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/ids"
	"github.com/syntherra/PooDough/internal/models"
	"github.com/syntherra/PooDough/internal/schedule"
	"github.com/syntherra/PooDough/internal/timer"
)

// ErrAggregatesStale marks the partial-failure case: the session row is
// durably written but the profile aggregates missed its increment. Not
// retried automatically; the session list is already correct.
var ErrAggregatesStale = fmt.Errorf("session saved but stats update failed")

type sessionStore interface {
	Create(ctx context.Context, session models.Session) error
	PurgeUser(ctx context.Context, userID string) error
}

type aggregateStore interface {
	RecordSession(ctx context.Context, userID string, amount float64, duration int64, at time.Time, streak int) error
}

// Recorder turns a finished timer run into an immutable session row and an
// aggregate update. The two writes are deliberately not wrapped in a
// transaction: the append lands first, then a single increment statement.
// A crash between the two leaves aggregates undercounted by one session.
type Recorder struct {
	sessions sessionStore
	users    aggregateStore
	log      zerolog.Logger
}

func NewRecorder(sessions sessionStore, users aggregateStore, log zerolog.Logger) *Recorder {
	return &Recorder{
		sessions: sessions,
		users:    users,
		log:      log,
	}
}

// Record persists the run for user and applies it to the running aggregates.
// The work-window flag is evaluated once, at the stop instant. Zero-duration
// runs are recorded like any other.
func (r *Recorder) Record(ctx context.Context, user models.User, run timer.Result) (models.Session, error) {
	if user.ID == "" {
		return models.Session{}, ErrNotSignedIn
	}

	window := schedule.WorkWindow{
		Days:  user.WorkDays,
		Start: user.WorkStart,
		End:   user.WorkEnd,
	}

	session := models.Session{
		ID:           ids.New(),
		UserID:       user.ID,
		StartTime:    run.StartedAt,
		EndTime:      run.StoppedAt,
		Duration:     run.Duration,
		Earnings:     run.Earnings,
		Currency:     user.Currency,
		WasWorkHours: window.Contains(run.StoppedAt),
		CreatedAt:    run.StoppedAt,
	}

	if err := r.sessions.Create(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}

	streak := nextStreak(user.LastSessionAt, run.StoppedAt, user.CurrentStreak)

	if err := r.users.RecordSession(ctx, user.ID, session.Earnings, session.Duration, run.StoppedAt, streak); err != nil {
		r.log.Error().Err(err).
			Str("user_id", user.ID).
			Str("session_id", session.ID).
			Msg("aggregate update failed after session write")
		return session, fmt.Errorf("%w: %v", ErrAggregatesStale, err)
	}

	return session, nil
}

// DeleteAllSessions wipes the user's history and zeroes the aggregates as
// one unit. Wiping an empty history succeeds.
func (r *Recorder) DeleteAllSessions(ctx context.Context, user models.User) error {
	if user.ID == "" {
		return ErrNotSignedIn
	}
	if err := r.sessions.PurgeUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}

// nextStreak extends the consecutive-day streak: same calendar day keeps it,
// the day after the last session grows it, anything else restarts at one.
func nextStreak(last *time.Time, now time.Time, current int) int {
	if last == nil {
		return 1
	}

	prev := last.In(now.Location())
	py, pm, pd := prev.Date()
	ny, nm, nd := now.Date()

	if py == ny && pm == nm && pd == nd {
		if current < 1 {
			return 1
		}
		return current
	}

	yesterday := now.AddDate(0, 0, -1)
	yy, ym, yd := yesterday.Date()
	if py == yy && pm == ym && pd == yd {
		return current + 1
	}

	return 1
}
