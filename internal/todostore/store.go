// Package todostore holds the client-side copy of the remote todo collection.
//
// The store is the only writer of its items, draft and loading flag. Each of
// the four operations issues one remote call and patches local state only
// after the server confirms it; failures are logged and leave state untouched.
// Requests are not serialized: two in-flight operations race and the last
// response to arrive wins.
package todostore

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/model"
)

// Remote is the todo collection the store mirrors.
type Remote interface {
	List(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, d model.Draft) (model.Todo, error)
	SetStatus(ctx context.Context, id string, status bool) (model.Todo, error)
	Delete(ctx context.Context, id string) error
}

// State is a copy of the store contents at one point in time.
type State struct {
	Items   []model.Todo
	Draft   model.Draft
	Loading bool
}

// Store mirrors a Remote collection in memory.
type Store struct {
	remote Remote
	logger zerolog.Logger

	mu      sync.RWMutex
	items   []model.Todo
	draft   model.Draft
	loading bool

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// New returns an empty store backed by remote. Failures are reported to logger.
func New(remote Remote, logger zerolog.Logger) *Store {
	return &Store{
		remote: remote,
		logger: logger,
		items:  []model.Todo{},
		subs:   make(map[int]func(State)),
	}
}

// LoadAll replaces the local list with the remote collection.
func (s *Store) LoadAll(ctx context.Context) error {
	s.write(func() { s.loading = true })
	defer s.write(func() { s.loading = false })

	items, err := s.remote.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("op", "load").Msg("failed to fetch todos")
		return err
	}

	s.write(func() { s.items = slices.Clone(items) })
	return nil
}

// Create submits d and appends the stored record. On success the draft is reset.
// The draft is not validated; the server decides.
func (s *Store) Create(ctx context.Context, d model.Draft) error {
	td, err := s.remote.Create(ctx, d)
	if err != nil {
		s.logger.Error().Err(err).Str("op", "create").Str("name", d.Name).Msg("failed to create todo")
		return err
	}

	s.write(func() {
		s.items = append(slices.Clone(s.items), td)
		s.draft = model.Draft{}
	})
	return nil
}

// SubmitDraft creates a todo from the current draft.
func (s *Store) SubmitDraft(ctx context.Context) error {
	return s.Create(ctx, s.Draft())
}

// ToggleStatus asks the server to set record id to !current. The local record
// is only flipped once the server confirms. An id missing locally is ignored.
func (s *Store) ToggleStatus(ctx context.Context, id string, current bool) error {
	next := !current
	if _, err := s.remote.SetStatus(ctx, id, next); err != nil {
		s.logger.Error().Err(err).Str("op", "update").Str("id", id).Msg("failed to update todo status")
		return err
	}

	s.write(func() {
		i := slices.IndexFunc(s.items, func(t model.Todo) bool { return t.ID == id })
		if i < 0 {
			return
		}
		items := slices.Clone(s.items)
		items[i].Status = next
		s.items = items
	})
	return nil
}

// Remove deletes record id and drops it from the local list.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.remote.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("op", "delete").Str("id", id).Msg("failed to delete todo")
		return err
	}

	s.write(func() {
		i := slices.IndexFunc(s.items, func(t model.Todo) bool { return t.ID == id })
		if i < 0 {
			return
		}
		s.items = slices.Delete(slices.Clone(s.items), i, i+1)
	})
	return nil
}

// Items returns a copy of the local list in server order.
func (s *Store) Items() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Draft returns the pending draft.
func (s *Store) Draft() model.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// SetDraft replaces the pending draft.
func (s *Store) SetDraft(d model.Draft) {
	s.write(func() { s.draft = d })
}

// IsLoading reports whether a LoadAll is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns a copy of the full store state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive the new state after every write.
// fn runs on the goroutine that performed the write and must not block.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) snapshotLocked() State {
	return State{
		Items:   slices.Clone(s.items),
		Draft:   s.draft,
		Loading: s.loading,
	}
}

// write applies fn under the lock and then notifies subscribers.
func (s *Store) write(fn func()) {
	s.mu.Lock()
	fn()
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()

	for _, sub := range subs {
		sub(st)
	}
}
