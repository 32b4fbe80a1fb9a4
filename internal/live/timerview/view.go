// Package timerview is the live view for a countdown-timer module. The
// displayed remaining time is derived from the polled server state plus the
// local clock, so it counts down smoothly between fetches.
package timerview

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/crowdstage/live/clients/stageapi"
	"github.com/crowdstage/live/internal/models"
	"github.com/crowdstage/live/internal/poll"
)

// DefaultInterval is how often timer state is re-fetched.
const DefaultInterval = 2 * time.Second

// API is what the view needs from the backend client.
type API interface {
	TimerState(ctx context.Context, sessionID, moduleID, bearer string) (*models.TimerState, error)
	TimerAction(ctx context.Context, sessionID, moduleID, bearer, action string) error
	SetTimer(ctx context.Context, sessionID, moduleID, bearer string, durationSeconds int) error
}

type Option func(*View)

func WithClock(clock clockwork.Clock) Option {
	return func(v *View) { v.clock = clock }
}

func WithPollOptions(opts ...poll.Option) Option {
	return func(v *View) { v.pollOpts = opts }
}

func WithInterval(interval time.Duration) Option {
	return func(v *View) { v.interval = interval }
}

// View is one mounted timer module.
type View struct {
	api       API
	sessionID string
	moduleID  string
	bearer    string
	interval  time.Duration
	clock     clockwork.Clock
	pollOpts  []poll.Option

	poller *poll.Poller

	mu    sync.Mutex
	state models.TimerState
}

func NewView(api API, sessionID, moduleID, bearer string, opts ...Option) *View {
	v := &View{
		api:       api,
		sessionID: sessionID,
		moduleID:  moduleID,
		bearer:    bearer,
		interval:  DefaultInterval,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.poller = poll.New("timer", v.interval, v.refetch, v.pollOpts...)
	return v
}

func (v *View) Start(ctx context.Context) {
	v.poller.Start(ctx)
}

func (v *View) Stop() {
	v.poller.Stop()
}

func (v *View) refetch(ctx context.Context) error {
	state, err := v.api.TimerState(ctx, v.sessionID, v.moduleID, v.bearer)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.state = *state
	v.mu.Unlock()
	return nil
}

// State returns the last fetched server state.
func (v *View) State() models.TimerState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Remaining derives the time left from server state and the local clock.
func (v *View) Remaining() time.Duration {
	state := v.State()
	switch state.Status {
	case models.TimerRunning:
		if state.EndsAt == nil {
			return 0
		}
		if left := state.EndsAt.Sub(v.clock.Now()); left > 0 {
			return left
		}
		return 0
	case models.TimerPaused:
		if state.RemainingSeconds == nil {
			return 0
		}
		return time.Duration(*state.RemainingSeconds) * time.Second
	case models.TimerIdle:
		return time.Duration(state.DurationSeconds) * time.Second
	}
	return 0
}

// Phase reports the effective status, accounting for a running timer whose
// deadline has already passed locally.
func (v *View) Phase() models.TimerStatus {
	state := v.State()
	if state.Status == models.TimerRunning && v.Remaining() == 0 {
		return models.TimerFinished
	}
	return state.Status
}

// StartTimer starts the countdown.
func (v *View) StartTimer(ctx context.Context) error { return v.action(ctx, stageapi.TimerActionStart) }

// Pause freezes the countdown, preserving the remaining time.
func (v *View) Pause(ctx context.Context) error { return v.action(ctx, stageapi.TimerActionPause) }

// Resume continues a paused countdown.
func (v *View) Resume(ctx context.Context) error { return v.action(ctx, stageapi.TimerActionResume) }

// Reset returns the timer to idle at its configured duration.
func (v *View) Reset(ctx context.Context) error { return v.action(ctx, stageapi.TimerActionReset) }

// SetDuration replaces the configured duration.
func (v *View) SetDuration(ctx context.Context, d time.Duration) error {
	if err := v.api.SetTimer(ctx, v.sessionID, v.moduleID, v.bearer, int(d.Seconds())); err != nil {
		return err
	}
	return v.refetch(ctx)
}

func (v *View) action(ctx context.Context, verb string) error {
	if err := v.api.TimerAction(ctx, v.sessionID, v.moduleID, v.bearer, verb); err != nil {
		return err
	}
	return v.refetch(ctx)
}
