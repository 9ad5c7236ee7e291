package server

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("todo not found")

// Persister saves and restores the whole collection.
type Persister interface {
	Load() ([]model.Todo, error)
	Save(items []model.Todo) error
}

// Repository is an in-memory todo collection in insertion order.
// When a Persister is set, every mutation is written through.
type Repository struct {
	mu      sync.RWMutex
	items   []model.Todo
	persist Persister
	newID   func() string
}

// NewRepository returns a repository seeded from p. p may be nil.
func NewRepository(p Persister) (*Repository, error) {
	r := &Repository{
		items:   []model.Todo{},
		persist: p,
		newID:   func() string { return uuid.NewString() },
	}
	if p != nil {
		items, err := p.Load()
		if err != nil {
			return nil, fmt.Errorf("load todos: %w", err)
		}
		r.items = items
	}
	return r, nil
}

func (r *Repository) List() []model.Todo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}

func (r *Repository) Create(d model.Draft) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	td := model.Todo{
		ID:          r.newID(),
		Name:        d.Name,
		Description: d.Description,
		DueDate:     d.DueDate,
	}
	next := append(slices.Clone(r.items), td)
	if err := r.commit(next); err != nil {
		return model.Todo{}, err
	}
	return td, nil
}

func (r *Repository) SetStatus(id string, status bool) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return model.Todo{}, ErrNotFound
	}
	next := slices.Clone(r.items)
	next[i].Status = status
	if err := r.commit(next); err != nil {
		return model.Todo{}, err
	}
	return next[i], nil
}

func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	return r.commit(slices.Delete(slices.Clone(r.items), i, i+1))
}

func (r *Repository) indexLocked(id string) int {
	return slices.IndexFunc(r.items, func(t model.Todo) bool { return t.ID == id })
}

// commit persists next and only then makes it visible.
func (r *Repository) commit(next []model.Todo) error {
	if r.persist != nil {
		if err := r.persist.Save(next); err != nil {
			return fmt.Errorf("save todos: %w", err)
		}
	}
	r.items = next
	return nil
}
