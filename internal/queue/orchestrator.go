// Package queue maintains the ordered list of modules attached to a session
// and which one is active, reconciling presenter intents against the
// backend. Server state is authoritative: every successful fetch overwrites
// the local list wholesale, so the client never drifts for longer than one
// poll interval.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crowdstage/live/internal/models"
	"github.com/crowdstage/live/internal/poll"
)

// DefaultInterval is how often the module list is re-fetched.
const DefaultInterval = 3 * time.Second

// ErrUnsupportedModuleType rejects library modules whose type has no live
// view wired.
var ErrUnsupportedModuleType = errors.New("module type has no live view")

// API is what the orchestrator needs from the backend client.
type API interface {
	SessionModules(ctx context.Context, sessionID, bearer string) ([]models.SessionModule, error)
	CreateSessionModule(ctx context.Context, sessionID, bearer, workspaceModuleID string) (*models.SessionModule, error)
	DeleteSessionModule(ctx context.Context, sessionID, bearer, moduleID string) error
	ActivateSessionModule(ctx context.Context, sessionID, bearer, moduleID string) error
	DeactivateSessionModule(ctx context.Context, sessionID, bearer, moduleID string) error
}

type Option func(*Orchestrator)

func WithPollOptions(opts ...poll.Option) Option {
	return func(o *Orchestrator) { o.pollOpts = opts }
}

func WithInterval(interval time.Duration) Option {
	return func(o *Orchestrator) { o.interval = interval }
}

// Orchestrator owns the session's module list on the presenter side.
type Orchestrator struct {
	api       API
	sessionID string
	bearer    string
	interval  time.Duration
	pollOpts  []poll.Option

	poller *poll.Poller

	mu      sync.Mutex
	modules []models.SessionModule
	loadErr error
}

func New(api API, sessionID, bearer string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:       api,
		sessionID: sessionID,
		bearer:    bearer,
		interval:  DefaultInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	pollOpts := append([]poll.Option{poll.WithOnError(o.noteError)}, o.pollOpts...)
	o.poller = poll.New("session-modules", o.interval, o.refetch, pollOpts...)
	return o
}

// Start begins polling the module list.
func (o *Orchestrator) Start(ctx context.Context) {
	o.poller.Start(ctx)
}

// Stop tears down the poller; no state is mutated afterwards.
func (o *Orchestrator) Stop() {
	o.poller.Stop()
}

// LoadError returns the initial-load failure, if any. Background refresh
// failures never land here.
func (o *Orchestrator) LoadError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loadErr
}

func (o *Orchestrator) noteError(err error, initial bool) {
	if !initial {
		return
	}
	o.mu.Lock()
	o.loadErr = err
	o.mu.Unlock()
}

// refetch overwrites the module list with server truth. No field-level
// merging.
func (o *Orchestrator) refetch(ctx context.Context) error {
	modules, err := o.api.SessionModules(ctx, o.sessionID, o.bearer)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.modules = modules
	o.loadErr = nil
	o.mu.Unlock()
	return nil
}

// Modules returns a copy of the full module list.
func (o *Orchestrator) Modules() []models.SessionModule {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]models.SessionModule, len(o.modules))
	copy(out, o.modules)
	return out
}

// ActiveModule returns the single active module, if any.
func (o *Orchestrator) ActiveModule() (models.SessionModule, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, m := range o.modules {
		if m.IsActive {
			return m, true
		}
	}
	return models.SessionModule{}, false
}

// QueueModules returns the non-active modules sorted by Order.
func (o *Orchestrator) QueueModules() []models.SessionModule {
	o.mu.Lock()
	defer o.mu.Unlock()
	return queueOf(o.modules)
}

// Activate makes moduleID the active module. The local state is never
// flipped optimistically: misreporting "active" to participants is worse
// than a one-poll delay, so the follow-up refetch is what surfaces the
// change.
func (o *Orchestrator) Activate(ctx context.Context, moduleID string) error {
	if err := o.api.ActivateSessionModule(ctx, o.sessionID, o.bearer, moduleID); err != nil {
		o.selfHeal(ctx)
		return fmt.Errorf("failed to activate module: %w", err)
	}
	return o.refetch(ctx)
}

// Deactivate demotes the active module back into the queue.
func (o *Orchestrator) Deactivate(ctx context.Context, moduleID string) error {
	if err := o.api.DeactivateSessionModule(ctx, o.sessionID, o.bearer, moduleID); err != nil {
		o.selfHeal(ctx)
		return fmt.Errorf("failed to deactivate module: %w", err)
	}
	return o.refetch(ctx)
}

// Remove deletes a module. The local removal is optimistic (destructive and
// idempotent, so snappy wins); a backend failure triggers a full refetch to
// self-heal.
func (o *Orchestrator) Remove(ctx context.Context, moduleID string) error {
	o.mu.Lock()
	kept := o.modules[:0:0]
	for _, m := range o.modules {
		if m.ID != moduleID {
			kept = append(kept, m)
		}
	}
	// Reindex over the Order-sorted queue, not slice position: the server
	// list carries no position guarantee, and removal must keep the
	// survivors' relative order.
	o.modules = rebuild(kept, queueOf(kept))
	o.mu.Unlock()

	if err := o.api.DeleteSessionModule(ctx, o.sessionID, o.bearer, moduleID); err != nil {
		o.selfHeal(ctx)
		return fmt.Errorf("failed to remove module: %w", err)
	}
	return nil
}

// AddFromLibrary instantiates a library module into the session, rejecting
// types with no live view. With activate set (item dropped on the active
// zone) the new module is activated immediately after creation.
func (o *Orchestrator) AddFromLibrary(ctx context.Context, lib models.WorkspaceModule, activate bool) (*models.SessionModule, error) {
	if !models.SupportedModuleType(lib.Type) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModuleType, lib.Type)
	}
	created, err := o.api.CreateSessionModule(ctx, o.sessionID, o.bearer, lib.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add module from library: %w", err)
	}
	if activate {
		if err := o.Activate(ctx, created.ID); err != nil {
			return created, err
		}
		return created, nil
	}
	if err := o.refetch(ctx); err != nil {
		log.Debug().Err(err).Msg("refetch after add failed")
	}
	return created, nil
}

// ReorderQueue moves fromID within the queue so it lands at toID's
// position. Pure presentation state: no backend call, just a splice and a
// dense zero-based reindex of every queue member.
func (o *Orchestrator) ReorderQueue(fromID, toID string) {
	if fromID == toID {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	queue := queueOf(o.modules)
	from, to := -1, -1
	for i, m := range queue {
		switch m.ID {
		case fromID:
			from = i
		case toID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return
	}

	moved := queue[from]
	queue = append(queue[:from], queue[from+1:]...)
	queue = append(queue[:to], append([]models.SessionModule{moved}, queue[to:]...)...)

	o.modules = rebuild(o.modules, queue)
}

// MoveToQueueEnd moves fromID to the back of the queue (drop on the empty
// part of the queue zone).
func (o *Orchestrator) MoveToQueueEnd(fromID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	queue := queueOf(o.modules)
	from := -1
	for i, m := range queue {
		if m.ID == fromID {
			from = i
		}
	}
	if from < 0 || from == len(queue)-1 {
		return
	}
	moved := queue[from]
	queue = append(queue[:from], queue[from+1:]...)
	queue = append(queue, moved)

	o.modules = rebuild(o.modules, queue)
}

// selfHeal re-fetches server truth after a failed mutation so the UI never
// trusts a possibly-wrong local state.
func (o *Orchestrator) selfHeal(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := o.refetch(ctx); err != nil {
		log.Warn().Err(err).Str("session_id", o.sessionID).Msg("self-heal refetch failed")
		o.poller.Refresh()
	}
}

func queueOf(modules []models.SessionModule) []models.SessionModule {
	queue := make([]models.SessionModule, 0, len(modules))
	for _, m := range modules {
		if !m.IsActive {
			queue = append(queue, m)
		}
	}
	sort.SliceStable(queue, func(i, j int) bool { return queue[i].Order < queue[j].Order })
	return queue
}

// rebuild recombines the active module (if any) with a reindexed queue.
func rebuild(modules, queue []models.SessionModule) []models.SessionModule {
	out := make([]models.SessionModule, 0, len(modules))
	for _, m := range modules {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return append(out, reindex(queue)...)
}

// reindex reassigns dense zero-based Order values across the non-active
// modules, leaving the active module untouched.
func reindex(modules []models.SessionModule) []models.SessionModule {
	next := 0
	for i := range modules {
		if modules[i].IsActive {
			continue
		}
		modules[i].Order = next
		next++
	}
	return modules
}
