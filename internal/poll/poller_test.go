package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const interval = 3 * time.Second

func TestPollerFetchesImmediatelyThenOnInterval(t *testing.T) {
	fc := clockwork.NewFakeClock()
	calls := make(chan struct{}, 16)
	p := New("test", interval, func(ctx context.Context) error {
		calls <- struct{}{}
		return nil
	}, WithClock(fc))

	p.Start(context.Background())
	defer p.Stop()

	requireRecv(t, calls, "immediate first fetch")

	fc.Advance(interval)
	requireRecv(t, calls, "fetch after one interval")

	fc.Advance(interval)
	requireRecv(t, calls, "fetch after second interval")
}

func TestPollerInitialVsBackgroundErrors(t *testing.T) {
	fc := clockwork.NewFakeClock()
	boom := errors.New("boom")

	type report struct {
		err     error
		initial bool
	}
	reports := make(chan report, 16)
	calls := make(chan struct{}, 16)

	p := New("test", interval, func(ctx context.Context) error {
		calls <- struct{}{}
		return boom
	}, WithClock(fc), WithOnError(func(err error, initial bool) {
		reports <- report{err: err, initial: initial}
	}))

	p.Start(context.Background())
	defer p.Stop()

	requireRecv(t, calls, "first fetch")
	r := <-reports
	assert.True(t, r.initial, "first failure is the visible one")
	assert.ErrorIs(t, r.err, boom)

	fc.Advance(interval)
	requireRecv(t, calls, "second fetch")
	r = <-reports
	assert.False(t, r.initial, "later failures are background refreshes")
}

func TestPollerInitialLoadFlag(t *testing.T) {
	fc := clockwork.NewFakeClock()
	calls := make(chan struct{}, 16)
	p := New("test", interval, func(ctx context.Context) error {
		calls <- struct{}{}
		return nil
	}, WithClock(fc))

	assert.True(t, p.InitialLoad())
	p.Start(context.Background())
	defer p.Stop()

	requireRecv(t, calls, "first fetch")
	assert.Eventually(t, func() bool { return !p.InitialLoad() }, time.Second, 5*time.Millisecond)
}

func TestPollerRefreshCoalesces(t *testing.T) {
	fc := clockwork.NewFakeClock()
	release := make(chan struct{}, 1)
	calls := make(chan struct{}, 16)

	p := New("test", time.Hour, func(ctx context.Context) error {
		calls <- struct{}{}
		<-release
		return nil
	}, WithClock(fc))

	p.Start(context.Background())
	requireRecv(t, calls, "first fetch in flight")

	// Two refreshes while a fetch is in flight collapse into one wake.
	p.Refresh()
	p.Refresh()
	release <- struct{}{}

	requireRecv(t, calls, "single coalesced refetch")
	release <- struct{}{}

	select {
	case <-calls:
		t.Fatal("coalesced refreshes caused a second refetch")
	case <-time.After(50 * time.Millisecond):
	}

	p.Stop()
}

func TestPollerStopIsDeterministic(t *testing.T) {
	fc := clockwork.NewFakeClock()
	var mu sync.Mutex
	count := 0
	calls := make(chan struct{}, 16)

	p := New("test", interval, func(ctx context.Context) error {
		mu.Lock()
		count++
		mu.Unlock()
		calls <- struct{}{}
		return nil
	}, WithClock(fc))

	p.Start(context.Background())
	requireRecv(t, calls, "first fetch")
	p.Stop()

	mu.Lock()
	before := count
	mu.Unlock()

	fc.Advance(10 * interval)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	after := count
	mu.Unlock()
	assert.Equal(t, before, after, "no fetch may run after Stop returns")

	// Stopping twice is safe.
	p.Stop()
}

func TestPollerStopDuringFetchWaitsForExit(t *testing.T) {
	fc := clockwork.NewFakeClock()
	started := make(chan struct{})
	p := New("test", interval, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, WithClock(fc))

	p.Start(context.Background())
	<-started

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not unblock the in-flight fetch")
	}
}

func requireRecv(t *testing.T, ch chan struct{}, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting: "+msg)
	}
}
