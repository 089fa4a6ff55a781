package task

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// StoreOptions configures a Store.
type StoreOptions struct {
	Machine Machine
}

// Store owns the ordered task collection, newest first. Every mutation is
// followed by a save of the whole collection through the Persister.
//
// Mutations are serialized, each together with its save. Reads never wait
// on a save in progress.
type Store struct {
	persister Persister
	machine   Machine
	bus       *bus

	writeMu sync.Mutex // held for a mutation and its save

	mu    sync.RWMutex
	tasks []Task
}

// NewStore creates an empty Store. Call Load to read persisted tasks.
// A nil Persister keeps the collection in memory only.
func NewStore(p Persister, opts StoreOptions) *Store {
	if p == nil {
		p = PersisterFuncs{}
	}
	return &Store{
		persister: p,
		machine:   opts.Machine,
		bus:       newBus(),
	}
}

// Create prepends t, which should come from Validator.Validate. New tasks
// must have status New.
func (s *Store) Create(ctx context.Context, t Task) error {
	if err := check(t); err != nil {
		return err
	}
	if t.Status != StatusNew {
		return fmt.Errorf("create task %s with status %s: %w", t.ID, t.Status, ErrInvalidTransition)
	}
	return s.mutate(ctx, func(tasks []Task) ([]Task, error) {
		if indexOf(tasks, t.ID) >= 0 {
			return nil, fmt.Errorf("create task %s: %w", t.ID, ErrDuplicateID)
		}
		return append([]Task{t.Clone()}, tasks...), nil
	})
}

// Delete removes the task with id. Deleting an unknown id changes nothing but
// still saves.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(tasks []Task) ([]Task, error) {
		return slices.DeleteFunc(tasks, func(t Task) bool { return t.ID == id }), nil
	})
}

// SetStatus moves the task with id to status, keeping its position.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	return s.mutate(ctx, func(tasks []Task) ([]Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, fmt.Errorf("set status %s: %w", id, ErrNotFound)
		}
		next, err := s.machine.Transition(tasks[i], status)
		if err != nil {
			return nil, fmt.Errorf("set status %s: %w", id, err)
		}
		tasks[i] = next
		return tasks, nil
	})
}

// Load replaces the collection with the persisted one. On a read error or a
// malformed record it returns a *LoadError and keeps the current collection.
func (s *Store) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	loaded, err := s.persister.Load(ctx)
	if err != nil {
		return &LoadError{Err: err}
	}
	seen := make(map[string]struct{}, len(loaded))
	for i, t := range loaded {
		if err := check(t); err != nil {
			return &LoadError{Err: fmt.Errorf("record %d: %w", i, err)}
		}
		if _, dup := seen[t.ID]; dup {
			return &LoadError{Err: fmt.Errorf("record %d: %w: %s", i, ErrDuplicateID, t.ID)}
		}
		seen[t.ID] = struct{}{}
	}

	next := cloneAll(loaded)
	s.mu.Lock()
	s.tasks = next
	s.mu.Unlock()
	s.bus.publish(next)
	return nil
}

// Flush saves the current collection again, e.g. after a PersistError.
func (s *Store) Flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.save(ctx, s.Snapshot())
}

// Snapshot returns a copy of the tasks in store order.
func (s *Store) Snapshot() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks)
}

// Get returns a copy of the task with id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.tasks, id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return Task{}, false
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Subscribe returns a channel receiving the snapshot after every mutation
// and load.
func (s *Store) Subscribe() chan []Task {
	return s.bus.subscribe()
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *Store) Unsubscribe(ch chan []Task) {
	s.bus.unsubscribe(ch)
}

// mutate applies fn to a working copy, installs the result, publishes it and
// saves it. An error from fn leaves the store untouched.
func (s *Store) mutate(ctx context.Context, fn func([]Task) ([]Task, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := fn(s.Snapshot())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tasks = next
	s.mu.Unlock()

	snapshot := cloneAll(next)
	s.bus.publish(snapshot)
	return s.save(ctx, snapshot)
}

func (s *Store) save(ctx context.Context, tasks []Task) error {
	if err := s.persister.Save(ctx, tasks); err != nil {
		return &PersistError{Err: err}
	}
	return nil
}

func indexOf(tasks []Task, id string) int {
	return slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
}
