package cooldown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Gate holds a submission deadline derived from a throttling response. The
// restriction is derived from the clock on every read, so it clears itself
// once the deadline passes without any explicit reset.
type Gate struct {
	clock clockwork.Clock

	mu    sync.Mutex
	until time.Time
}

func NewGate(clock clockwork.Clock) *Gate {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Gate{clock: clock}
}

// Apply blocks submissions for the next secs seconds. Non-positive values
// are ignored.
func (g *Gate) Apply(secs int) {
	if secs <= 0 {
		return
	}
	deadline := g.clock.Now().Add(time.Duration(secs) * time.Second)
	g.mu.Lock()
	if deadline.After(g.until) {
		g.until = deadline
	}
	g.mu.Unlock()
}

// Blocked reports whether submissions are currently gated.
func (g *Gate) Blocked() bool {
	return g.Remaining() > 0
}

// Remaining returns how long until submissions unblock, zero when unblocked.
func (g *Gate) Remaining() time.Duration {
	g.mu.Lock()
	until := g.until
	g.mu.Unlock()
	if until.IsZero() {
		return 0
	}
	if remaining := until.Sub(g.clock.Now()); remaining > 0 {
		return remaining
	}
	return 0
}

// Until returns the absolute deadline, or false when no future deadline is
// set.
func (g *Gate) Until() (time.Time, bool) {
	g.mu.Lock()
	until := g.until
	g.mu.Unlock()
	if until.IsZero() || !until.After(g.clock.Now()) {
		return time.Time{}, false
	}
	return until, true
}

// Clear drops any pending deadline.
func (g *Gate) Clear() {
	g.mu.Lock()
	g.until = time.Time{}
	g.mu.Unlock()
}
