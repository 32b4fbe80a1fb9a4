package join

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/crowdstage/live/clients"
	"github.com/crowdstage/live/clients/stageapi"
	"github.com/crowdstage/live/internal/credentials"
	"github.com/crowdstage/live/internal/heartbeat"
	"github.com/crowdstage/live/internal/models"
)

// Mode-specific fallback messages, used when the backend error body carries
// nothing parseable.
const (
	msgLoadFailed   = "Unable to load the session. Check the code and try again."
	msgJoinFailed   = "Could not join the session. Please try again."
	msgLoginFailed  = "Could not join with your account. Please try again."
	msgCodeFailed   = "Could not send a verification code. Please try again."
	msgVerifyFailed = "The code is invalid or has expired."
	msgGuestFailed  = "Could not join the session as a guest. Please try again."
)

// ErrNotJoined is returned by operations that require a completed join.
var ErrNotJoined = errors.New("negotiator is not in the joined state")

// API is what the negotiator needs from the backend client.
type API interface {
	SessionByCode(ctx context.Context, code string) (*models.SessionSnapshot, error)
	JoinAnonymous(ctx context.Context, sessionID, bearer string, req stageapi.AnonymousJoinRequest) (*stageapi.JoinResult, error)
	JoinRegistered(ctx context.Context, sessionID, userToken string) (*stageapi.JoinResult, error)
	JoinGuest(ctx context.Context, sessionID, guestToken string) (*stageapi.JoinResult, error)
	RequestEmailCode(ctx context.Context, sessionID, email string) (*stageapi.EmailCodeResponse, error)
	VerifyEmailCode(ctx context.Context, sessionID, email, code, displayName string) (*stageapi.EmailVerifyResponse, error)
	Heartbeat(ctx context.Context, sessionID string, mode models.EntryMode, bearer string) error
}

type Option func(*Negotiator)

// WithHeartbeatOptions forwards options to the heartbeat scheduler built
// after a successful join (tests inject a fake clock this way).
func WithHeartbeatOptions(opts ...heartbeat.Option) Option {
	return func(n *Negotiator) { n.hbOpts = opts }
}

// WithOnChange registers a state observer, called after every transition.
func WithOnChange(fn func(State)) Option {
	return func(n *Negotiator) { n.onChange = fn }
}

// Negotiator drives the join protocol for one page load. It is created
// fresh per load and never persisted; the credential store is what survives
// reloads.
type Negotiator struct {
	api      API
	store    credentials.Store
	onChange func(State)
	hbOpts   []heartbeat.Option

	mu    sync.Mutex
	state State
	hb    *heartbeat.Scheduler
}

func New(api API, store credentials.Store, opts ...Option) *Negotiator {
	n := &Negotiator{
		api:   api,
		store: store,
		state: State{Kind: KindLoading},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// State returns the current join state.
func (n *Negotiator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *Negotiator) apply(e event) State {
	n.mu.Lock()
	n.state = transition(n.state, e)
	next := n.state
	n.mu.Unlock()
	if n.onChange != nil {
		n.onChange(next)
	}
	return next
}

// LoadSession fetches session metadata by passcode and, when possible,
// resumes or auto-completes the join. Load failure is the one terminal
// failure: without session metadata there is no actionable fallback.
func (n *Negotiator) LoadSession(ctx context.Context, code string) State {
	session, err := n.api.SessionByCode(ctx, code)
	if err != nil {
		return n.apply(evLoadFailed{message: clients.ParseAPIMessage(err, msgLoadFailed)})
	}

	state := n.apply(evSessionLoaded{session: session})
	if !session.IsStarted {
		return state
	}

	switch session.EntryMode {
	case models.EntryAnonymous:
		// Idempotent resume: an existing participant token resolves to the
		// same participant server-side.
		if token, ok := n.store.ParticipantToken(); ok {
			if state, ok := n.resumeAnonymous(ctx, session, token); ok {
				return state
			}
		}
	case models.EntryEmailCode:
		if token, ok := n.store.GuestToken(); ok {
			if state, ok := n.resumeGuest(ctx, session, token); ok {
				return state
			}
		}
	case models.EntryRegistered:
		return n.JoinRegistered(ctx)
	case models.EntrySSO:
		return n.apply(evNotAvailable{})
	}
	return n.State()
}

func (n *Negotiator) resumeAnonymous(ctx context.Context, session *models.SessionSnapshot, token string) (State, bool) {
	fingerprint, err := n.store.Fingerprint()
	if err != nil {
		return State{}, false
	}
	result, err := n.api.JoinAnonymous(ctx, session.ID, token, stageapi.AnonymousJoinRequest{DeviceFingerprint: fingerprint})
	if err != nil {
		// Stale token: drop it and fall back to the normal join screen.
		log.Debug().Err(err).Msg("anonymous resume failed, clearing participant token")
		_ = n.store.SetParticipantToken("")
		return State{}, false
	}
	if result.ParticipantToken != "" {
		_ = n.store.SetParticipantToken(result.ParticipantToken)
	}
	return n.apply(evJoined{
		sessionID:     result.SessionID,
		participantID: result.ParticipantID,
		mode:          models.EntryAnonymous,
	}), true
}

func (n *Negotiator) resumeGuest(ctx context.Context, session *models.SessionSnapshot, token string) (State, bool) {
	result, err := n.api.JoinGuest(ctx, session.ID, token)
	if err != nil {
		log.Debug().Err(err).Msg("guest resume failed, clearing guest token")
		_ = n.store.SetGuestToken("")
		return State{}, false
	}
	return n.apply(evJoined{
		sessionID:     result.SessionID,
		participantID: result.ParticipantID,
		mode:          models.EntryEmailCode,
	}), true
}

// JoinAnonymous performs an optimistic anonymous join with an optional
// display name and the device fingerprint. On success the returned
// participant token is persisted for idempotent resume.
func (n *Negotiator) JoinAnonymous(ctx context.Context, displayName string) State {
	session, ok := n.loadedSession()
	if !ok {
		return n.State()
	}
	fingerprint, err := n.store.Fingerprint()
	if err != nil {
		return n.apply(evRejected{message: msgJoinFailed})
	}
	bearer, _ := n.store.ParticipantToken()
	result, err := n.api.JoinAnonymous(ctx, session.ID, bearer, stageapi.AnonymousJoinRequest{
		DisplayName:       displayName,
		DeviceFingerprint: fingerprint,
	})
	if err != nil {
		return n.apply(evRejected{message: clients.ParseAPIMessage(err, msgJoinFailed)})
	}
	if result.ParticipantToken != "" {
		if err := n.store.SetParticipantToken(result.ParticipantToken); err != nil {
			log.Warn().Err(err).Msg("failed to persist participant token")
		}
	}
	return n.apply(evJoined{
		sessionID:     result.SessionID,
		participantID: result.ParticipantID,
		mode:          models.EntryAnonymous,
	})
}

// JoinRegistered joins with the global user session token. Without one the
// visitor is sent to login with a return path back to this session.
func (n *Negotiator) JoinRegistered(ctx context.Context) State {
	session, ok := n.loadedSession()
	if !ok {
		return n.State()
	}
	userToken, ok := n.store.UserToken()
	if !ok {
		return n.apply(evLoginRequired{returnPath: path.Join("/join", session.Code)})
	}
	result, err := n.api.JoinRegistered(ctx, session.ID, userToken)
	if err != nil {
		return n.apply(evRejected{message: clients.ParseAPIMessage(err, msgLoginFailed)})
	}
	return n.apply(evJoined{
		sessionID:     result.SessionID,
		participantID: result.ParticipantID,
		mode:          models.EntryRegistered,
	})
}

// RequestEmailCode starts the email-code flow. The backend may echo a
// development-mode code, surfaced on the resulting state.
func (n *Negotiator) RequestEmailCode(ctx context.Context, email string) State {
	session, ok := n.loadedSession()
	if !ok {
		return n.State()
	}
	resp, err := n.api.RequestEmailCode(ctx, session.ID, email)
	if err != nil {
		return n.apply(evRejected{message: clients.ParseAPIMessage(err, msgCodeFailed)})
	}
	return n.apply(evCodeRequested{email: email, devCode: resp.DevCode})
}

// VerifyEmailCode exchanges the mailed code for a guest token, persists it,
// and immediately performs the guest join.
func (n *Negotiator) VerifyEmailCode(ctx context.Context, code, displayName string) State {
	session, ok := n.loadedSession()
	if !ok {
		return n.State()
	}
	current := n.State()
	if current.Kind != KindEmailRequest {
		return current
	}

	resp, err := n.api.VerifyEmailCode(ctx, session.ID, current.Email, code, displayName)
	if err != nil {
		return n.apply(evRejected{message: clients.ParseAPIMessage(err, msgVerifyFailed)})
	}
	if err := n.store.SetGuestToken(resp.GuestToken); err != nil {
		log.Warn().Err(err).Msg("failed to persist guest token")
	}

	result, err := n.api.JoinGuest(ctx, session.ID, resp.GuestToken)
	if err != nil {
		return n.apply(evRejected{message: clients.ParseAPIMessage(err, msgGuestFailed)})
	}
	return n.apply(evJoined{
		sessionID:     result.SessionID,
		participantID: result.ParticipantID,
		mode:          models.EntryEmailCode,
	})
}

// StartHeartbeat begins liveness pings for the joined participant, using
// whichever token is authoritative for the entry mode.
func (n *Negotiator) StartHeartbeat(ctx context.Context) error {
	state := n.State()
	if state.Kind != KindJoined {
		return ErrNotJoined
	}
	bearer, err := credentials.Authoritative(n.store, state.Mode)
	if err != nil {
		return fmt.Errorf("cannot start heartbeat: %w", err)
	}

	beat := func(ctx context.Context) error {
		return n.api.Heartbeat(ctx, state.SessionID, state.Mode, bearer)
	}

	n.mu.Lock()
	if n.hb != nil {
		n.mu.Unlock()
		return nil
	}
	n.hb = heartbeat.NewScheduler(beat, n.hbOpts...)
	hb := n.hb
	n.mu.Unlock()

	hb.Start(ctx)
	return nil
}

// SetVisibility forwards page visibility to the heartbeat scheduler.
func (n *Negotiator) SetVisibility(visible bool) {
	n.mu.Lock()
	hb := n.hb
	n.mu.Unlock()
	if hb != nil {
		hb.SetVisibility(visible)
	}
}

// Close stops the heartbeat. The join state itself needs no teardown.
func (n *Negotiator) Close() {
	n.mu.Lock()
	hb := n.hb
	n.hb = nil
	n.mu.Unlock()
	if hb != nil {
		hb.Stop()
	}
}

func (n *Negotiator) loadedSession() (*models.SessionSnapshot, bool) {
	state := n.State()
	if state.Session == nil || state.Kind == KindJoined || state.Kind == KindFailed {
		return nil, false
	}
	return state.Session, true
}
