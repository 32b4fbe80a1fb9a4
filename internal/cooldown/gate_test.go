package cooldown

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestGateBlocksUntilDeadlinePasses(t *testing.T) {
	fc := clockwork.NewFakeClock()
	g := NewGate(fc)

	assert.False(t, g.Blocked())

	g.Apply(10)
	assert.True(t, g.Blocked())
	assert.Equal(t, 10*time.Second, g.Remaining())

	fc.Advance(4 * time.Second)
	assert.Equal(t, 6*time.Second, g.Remaining())

	// Expiry is derived from the clock, no explicit clear needed.
	fc.Advance(6 * time.Second)
	assert.False(t, g.Blocked())
	assert.Equal(t, time.Duration(0), g.Remaining())
}

func TestGateIgnoresNonPositiveAndShorterDeadlines(t *testing.T) {
	fc := clockwork.NewFakeClock()
	g := NewGate(fc)

	g.Apply(0)
	g.Apply(-5)
	assert.False(t, g.Blocked())

	g.Apply(10)
	g.Apply(3) // must not shorten the existing window
	assert.Equal(t, 10*time.Second, g.Remaining())
}

func TestGateUntilAndClear(t *testing.T) {
	fc := clockwork.NewFakeClock()
	g := NewGate(fc)

	_, ok := g.Until()
	assert.False(t, ok)

	g.Apply(5)
	until, ok := g.Until()
	assert.True(t, ok)
	assert.Equal(t, fc.Now().Add(5*time.Second), until)

	g.Clear()
	assert.False(t, g.Blocked())
}
