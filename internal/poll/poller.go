// Package poll implements the periodic-refetch loop shared by the module
// list, participant roster, and per-module content views. The first fetch is
// the "initial load": its failure is surfaced to the owner. Every later
// fetch is a background refresh whose failure is swallowed so a transient
// error never replaces good data on screen.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// FetchFunc loads fresh data and overwrites the owner's state wholesale.
type FetchFunc func(ctx context.Context) error

// ErrorFunc observes a failed fetch. initial is true only for the very
// first fetch of the poller's life.
type ErrorFunc func(err error, initial bool)

type Option func(*Poller)

func WithClock(clock clockwork.Clock) Option {
	return func(p *Poller) { p.clock = clock }
}

func WithOnError(fn ErrorFunc) Option {
	return func(p *Poller) { p.onError = fn }
}

// Poller calls fetch immediately on Start, then once per interval until
// Stop. Refresh wakes the loop early; refreshes are coalesced through a
// buffered-1 wake channel and serialized with ticks on a single goroutine,
// so an in-flight fetch and a post-mutation refetch never run concurrently.
type Poller struct {
	name     string
	interval time.Duration
	fetch    FetchFunc
	onError  ErrorFunc
	clock    clockwork.Clock

	wakeCh chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	initial bool
}

func New(name string, interval time.Duration, fetch FetchFunc, opts ...Option) *Poller {
	p := &Poller{
		name:     name,
		interval: interval,
		fetch:    fetch,
		clock:    clockwork.NewRealClock(),
		wakeCh:   make(chan struct{}, 1),
		initial:  true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the polling loop. Starting an already-running poller is a
// no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(runCtx, p.done)
}

// Stop cancels the loop and waits for it to exit, so no fetch can mutate
// owner state after Stop returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Refresh requests an immediate refetch, coalescing with any refresh already
// pending.
func (p *Poller) Refresh() {
	select {
	case p.wakeCh <- struct{}{}:
	default:
	}
}

// InitialLoad reports whether the first fetch has yet to complete.
func (p *Poller) InitialLoad() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initial
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := p.clock.NewTimer(p.interval)
	defer timer.Stop()

	for {
		// Re-arm before fetching so the next tick is measured from the
		// start of this one.
		if !timer.Stop() {
			select {
			case <-timer.Chan():
			default:
			}
		}
		timer.Reset(p.interval)

		p.tick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-timer.Chan():
		case <-p.wakeCh:
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	err := p.fetch(ctx)

	p.mu.Lock()
	initial := p.initial
	p.initial = false
	p.mu.Unlock()

	if err == nil || ctx.Err() != nil {
		return
	}

	if initial {
		log.Warn().Err(err).Str("poller", p.name).Msg("initial load failed")
	} else {
		log.Debug().Err(err).Str("poller", p.name).Msg("background refresh failed")
	}
	if p.onError != nil {
		p.onError(err, initial)
	}
}
