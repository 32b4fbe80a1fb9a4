// Package heartbeat sends periodic liveness pings for a joined participant.
// Liveness is best-effort: a failed ping is logged and swallowed, never
// surfaced to the UI.
package heartbeat

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	VisibleInterval = 15 * time.Second
	HiddenInterval  = 60 * time.Second
)

// BeatFunc sends one liveness ping.
type BeatFunc func(ctx context.Context) error

type Option func(*Scheduler)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

// WithIntervals overrides the visible/hidden ping intervals.
func WithIntervals(visible, hidden time.Duration) Option {
	return func(s *Scheduler) {
		s.visibleEvery = visible
		s.hiddenEvery = hidden
	}
}

// Scheduler sends one ping immediately on Start, then repeats on an
// interval keyed to page visibility. A visibility change cancels the
// pending timer, pings immediately, and reschedules on the new interval.
// At most one timer is ever pending, so pings never overlap or duplicate.
type Scheduler struct {
	beat         BeatFunc
	clock        clockwork.Clock
	visibleEvery time.Duration
	hiddenEvery  time.Duration

	visCh chan bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(beat BeatFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		beat:         beat,
		clock:        clockwork.NewRealClock(),
		visibleEvery: VisibleInterval,
		hiddenEvery:  HiddenInterval,
		visCh:        make(chan bool, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins heartbeating in the visible state. Restarting a running
// scheduler stops the previous loop first, so only one timer is ever live.
func (s *Scheduler) Start(ctx context.Context) {
	s.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.run(runCtx, done)
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// SetVisibility reschedules pings on the interval for the given visibility.
// The pending timer is cancelled rather than waited out.
func (s *Scheduler) SetVisibility(visible bool) {
	// Coalesce: only the latest visibility matters.
	select {
	case <-s.visCh:
	default:
	}
	s.visCh <- visible
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	interval := s.visibleEvery

	timer := s.clock.NewTimer(interval)
	defer timer.Stop()

	s.ping(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case visible := <-s.visCh:
			if visible {
				interval = s.visibleEvery
			} else {
				interval = s.hiddenEvery
			}
		case <-timer.Chan():
		}

		// Cancel the pending timer and reschedule on the current interval
		// before pinging, so exactly one timer is ever outstanding.
		if !timer.Stop() {
			select {
			case <-timer.Chan():
			default:
			}
		}
		timer.Reset(interval)

		s.ping(ctx)
	}
}

func (s *Scheduler) ping(ctx context.Context) {
	if err := s.beat(ctx); err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Msg("heartbeat failed")
	}
}
