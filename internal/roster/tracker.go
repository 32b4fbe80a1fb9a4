// Package roster keeps the presenter's participant list fresh.
package roster

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/crowdstage/live/clients/stageapi"
	"github.com/crowdstage/live/internal/models"
	"github.com/crowdstage/live/internal/poll"
)

// DefaultInterval is how often the roster is re-fetched.
const DefaultInterval = 10 * time.Second

// activeWindow bounds the client-side fallback when the backend does not
// report an active-count aggregate: a participant seen within this window
// counts as active. Matches the hidden-tab heartbeat interval.
const activeWindow = 60 * time.Second

// API is what the tracker needs from the backend client.
type API interface {
	Participants(ctx context.Context, sessionID, bearer string) (*stageapi.RosterResponse, error)
}

type Option func(*Tracker)

func WithPollOptions(opts ...poll.Option) Option {
	return func(t *Tracker) { t.pollOpts = opts }
}

func WithInterval(interval time.Duration) Option {
	return func(t *Tracker) { t.interval = interval }
}

func WithClock(clock clockwork.Clock) Option {
	return func(t *Tracker) { t.clock = clock }
}

// Tracker polls the roster endpoint and exposes the participant list plus
// the active-participant count.
type Tracker struct {
	api       API
	sessionID string
	bearer    string
	interval  time.Duration
	clock     clockwork.Clock
	pollOpts  []poll.Option

	poller *poll.Poller

	mu           sync.Mutex
	participants []models.Participant
	activeCount  int
}

func New(api API, sessionID, bearer string, opts ...Option) *Tracker {
	t := &Tracker{
		api:       api,
		sessionID: sessionID,
		bearer:    bearer,
		interval:  DefaultInterval,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.poller = poll.New("participants", t.interval, t.refetch, t.pollOpts...)
	return t
}

func (t *Tracker) Start(ctx context.Context) {
	t.poller.Start(ctx)
}

func (t *Tracker) Stop() {
	t.poller.Stop()
}

// Refresh requests an immediate roster refetch.
func (t *Tracker) Refresh() {
	t.poller.Refresh()
}

func (t *Tracker) refetch(ctx context.Context) error {
	resp, err := t.api.Participants(ctx, t.sessionID, t.bearer)
	if err != nil {
		return err
	}

	active := resp.ActiveCount
	if active < 0 {
		active = countActive(resp.Participants, t.clock.Now())
	}

	t.mu.Lock()
	t.participants = resp.Participants
	t.activeCount = active
	t.mu.Unlock()
	return nil
}

// Participants returns a copy of the current roster.
func (t *Tracker) Participants() []models.Participant {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Participant, len(t.participants))
	copy(out, t.participants)
	return out
}

// ActiveCount returns the number of currently active participants.
func (t *Tracker) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeCount
}

func countActive(participants []models.Participant, now time.Time) int {
	count := 0
	for _, p := range participants {
		if p.IsActive {
			count++
			continue
		}
		if p.LastSeenAt != nil && now.Sub(*p.LastSeenAt) <= activeWindow {
			count++
		}
	}
	return count
}
