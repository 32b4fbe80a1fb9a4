package roster

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdstage/live/clients/stageapi"
	"github.com/crowdstage/live/internal/models"
)

type fakeRosterAPI struct {
	resp stageapi.RosterResponse
}

func (f *fakeRosterAPI) Participants(ctx context.Context, sessionID, bearer string) (*stageapi.RosterResponse, error) {
	resp := f.resp
	return &resp, nil
}

func TestTrackerUsesServerAggregate(t *testing.T) {
	api := &fakeRosterAPI{resp: stageapi.RosterResponse{
		Participants: []models.Participant{{ID: "p1"}, {ID: "p2"}},
		ActiveCount:  7,
	}}
	tr := New(api, "sess-1", "tok")
	require.NoError(t, tr.refetch(context.Background()))

	assert.Equal(t, 7, tr.ActiveCount())
	assert.Len(t, tr.Participants(), 2)
}

func TestTrackerFallsBackToClientCount(t *testing.T) {
	fc := clockwork.NewFakeClock()
	now := fc.Now()
	recent := now.Add(-30 * time.Second)
	stale := now.Add(-5 * time.Minute)

	api := &fakeRosterAPI{resp: stageapi.RosterResponse{
		Participants: []models.Participant{
			{ID: "flagged", IsActive: true},
			{ID: "recent", LastSeenAt: &recent},
			{ID: "stale", LastSeenAt: &stale},
			{ID: "never"},
		},
		ActiveCount: -1,
	}}
	tr := New(api, "sess-1", "tok", WithClock(fc))
	require.NoError(t, tr.refetch(context.Background()))

	assert.Equal(t, 2, tr.ActiveCount())

	// The fallback reads the injected clock: an hour later every last-seen
	// timestamp has aged out of the window.
	fc.Advance(time.Hour)
	require.NoError(t, tr.refetch(context.Background()))
	assert.Equal(t, 1, tr.ActiveCount())
}

func TestCountActiveWindowBoundary(t *testing.T) {
	now := time.Now()
	edge := now.Add(-activeWindow)
	outside := now.Add(-activeWindow - time.Second)

	participants := []models.Participant{
		{ID: "edge", LastSeenAt: &edge},
		{ID: "outside", LastSeenAt: &outside},
	}
	assert.Equal(t, 1, countActive(participants, now))
}
