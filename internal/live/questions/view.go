// Package questions is the live view for a question-board module:
// poll-refreshed content with derived display ordering and cooldown-gated
// submissions.
package questions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/crowdstage/live/internal/cooldown"
	"github.com/crowdstage/live/internal/models"
	"github.com/crowdstage/live/internal/poll"
)

// DefaultInterval is how often the question list is re-fetched.
const DefaultInterval = 3 * time.Second

// ErrCooldownActive means the submit action is gated; check
// CooldownRemaining for the wait.
var ErrCooldownActive = errors.New("submission cooldown active")

// API is what the view needs from the backend client.
type API interface {
	Questions(ctx context.Context, sessionID, moduleID, bearer string) ([]models.Question, error)
	CreateQuestion(ctx context.Context, sessionID, moduleID, bearer, content string, parentID *string) (*models.Question, error)
	LikeQuestion(ctx context.Context, sessionID, moduleID, questionID, bearer string) error
	UnlikeQuestion(ctx context.Context, sessionID, moduleID, questionID, bearer string) error
	PinQuestion(ctx context.Context, sessionID, moduleID, questionID, bearer string) error
	UnpinQuestion(ctx context.Context, sessionID, moduleID, questionID, bearer string) error
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

// WithFallbackCooldown sets the module-configured cooldown used when a 429
// response carries no usable duration.
func WithFallbackCooldown(seconds int) Option {
	return func(v *View) { v.fallbackSecs = seconds }
}

// View is one mounted question board.
type View struct {
	api          API
	sessionID    string
	moduleID     string
	bearer       string
	interval     time.Duration
	fallbackSecs int
	clock        clockwork.Clock
	pollOpts     []poll.Option

	norm   cooldown.Normalizer
	gate   *cooldown.Gate
	poller *poll.Poller

	mu        sync.Mutex
	questions []models.Question
	loadErr   error
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
	v.norm = cooldown.NewNormalizer(v.clock)
	v.gate = cooldown.NewGate(v.clock)
	pollOpts := append([]poll.Option{poll.WithOnError(v.noteError)}, v.pollOpts...)
	v.poller = poll.New("questions", v.interval, v.refetch, pollOpts...)
	return v
}

func (v *View) Start(ctx context.Context) {
	v.poller.Start(ctx)
}

func (v *View) Stop() {
	v.poller.Stop()
}

// Questions returns the current list in display order.
func (v *View) Questions() []models.Question {
	v.mu.Lock()
	defer v.mu.Unlock()
	return SortForDisplay(v.questions)
}

// LoadError returns the initial-load failure, if any.
func (v *View) LoadError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadErr
}

func (v *View) noteError(err error, initial bool) {
	if !initial {
		return
	}
	v.mu.Lock()
	v.loadErr = err
	v.mu.Unlock()
}

func (v *View) refetch(ctx context.Context) error {
	list, err := v.api.Questions(ctx, v.sessionID, v.moduleID, v.bearer)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.questions = list
	v.loadErr = nil
	v.mu.Unlock()
	return nil
}

// Submit posts a question (or a reply with parentID set). While the
// cooldown gate is closed it fails fast with ErrCooldownActive. A 429 from
// the backend is converted into a cooldown window instead of surfacing as a
// generic error.
func (v *View) Submit(ctx context.Context, content string, parentID *string) error {
	if v.gate.Blocked() {
		return fmt.Errorf("%w: %s left", ErrCooldownActive, v.gate.Remaining().Round(time.Second))
	}

	_, err := v.api.CreateQuestion(ctx, v.sessionID, v.moduleID, v.bearer, content, parentID)
	if err != nil {
		if secs := v.norm.ExtractSeconds(err, v.fallbackSecs); secs > 0 {
			v.gate.Apply(secs)
			return fmt.Errorf("%w: %ds left", ErrCooldownActive, secs)
		}
		return err
	}
	v.poller.Refresh()
	return nil
}

// CooldownRemaining reports how long submissions stay gated; zero when
// open. The restriction clears itself once the deadline passes.
func (v *View) CooldownRemaining() time.Duration {
	return v.gate.Remaining()
}

// SetLiked toggles the caller's like on a question.
func (v *View) SetLiked(ctx context.Context, questionID string, liked bool) error {
	var err error
	if liked {
		err = v.api.LikeQuestion(ctx, v.sessionID, v.moduleID, questionID, v.bearer)
	} else {
		err = v.api.UnlikeQuestion(ctx, v.sessionID, v.moduleID, questionID, v.bearer)
	}
	if err != nil {
		return err
	}
	v.poller.Refresh()
	return nil
}

// SetPinned toggles a pin. Presenter only.
func (v *View) SetPinned(ctx context.Context, questionID string, pinned bool) error {
	var err error
	if pinned {
		err = v.api.PinQuestion(ctx, v.sessionID, v.moduleID, questionID, v.bearer)
	} else {
		err = v.api.UnpinQuestion(ctx, v.sessionID, v.moduleID, questionID, v.bearer)
	}
	if err != nil {
		return err
	}
	v.poller.Refresh()
	return nil
}
