// Package session wires configuration, a storage backend and the task store
// into the object a UI collaborator works with.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"taskbook/internal/config"
	"taskbook/internal/db"
	"taskbook/pkg/storage"
	"taskbook/pkg/task"
)

// Session owns one task store and the backend behind it.
type Session struct {
	Store     *task.Store
	Validator task.Validator
	SortMode  task.SortMode

	file   *storage.FileStore
	closer io.Closer
	logger *zap.Logger
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// Open builds the backend named by cfg.Storage.Driver and loads the store.
// A load failure is logged and the session starts with an empty collection.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, _ := cfg.SortMode()
	s := &Session{
		Validator: task.Validator{RequireDates: cfg.Tasks.RequireDatesOnCreate},
		SortMode:  mode,
		logger:    logger,
	}

	persister, err := s.openBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	s.Store = task.NewStore(persister, task.StoreOptions{
		Machine: task.Machine{Strict: cfg.Tasks.StrictTransitions},
	})

	if err := s.Store.Load(ctx); err != nil {
		logger.Warn("could not load tasks, starting empty", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	} else {
		logger.Debug("tasks loaded", zap.String("driver", cfg.Storage.Driver), zap.Int("count", s.Store.Len()))
	}
	return s, nil
}

func (s *Session) openBackend(ctx context.Context, sc config.StorageConfig) (task.Persister, error) {
	switch sc.Driver {
	case config.DriverFile:
		fs, err := storage.NewFileStore(sc.Path)
		if err != nil {
			return nil, err
		}
		s.file = fs
		s.logger.Debug("using file storage", zap.String("path", sc.Path))
		return fs, nil
	case config.DriverSQLite:
		ss, err := storage.OpenSQLite(ctx, sc.Path)
		if err != nil {
			return nil, err
		}
		s.closer = ss
		s.logger.Debug("using sqlite storage", zap.String("path", sc.Path))
		return ss, nil
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, sc.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		ps := storage.NewPgStore(pool)
		if err := ps.EnsureTable(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure tasks table: %w", err)
		}
		s.closer = closeFunc(func() error { pool.Close(); return nil })
		s.logger.Debug("using postgres storage")
		return ps, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", sc.Driver)
}

// Create validates in and stores the new task.
func (s *Session) Create(ctx context.Context, in task.Input) (task.Task, error) {
	t, err := s.Validator.Validate(in)
	if err != nil {
		return task.Task{}, err
	}
	err = s.Store.Create(ctx, t)
	s.logPersist("create", t.ID, err)
	if err != nil && !IsPersistFailure(err) {
		return task.Task{}, err
	}
	return t, err
}

// SetStatus transitions the task with id.
func (s *Session) SetStatus(ctx context.Context, id string, status task.Status) error {
	err := s.Store.SetStatus(ctx, id, status)
	s.logPersist("set status", id, err)
	return err
}

// Delete removes the task with id.
func (s *Session) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	s.logPersist("delete", id, err)
	return err
}

// List returns the filtered collection in mode order.
func (s *Session) List(mode task.SortMode, f task.FilterOptions) []task.Task {
	return task.Order(task.Filter(s.Store.Snapshot(), f), mode)
}

// Watch reloads the store whenever the file backend changes on disk. Other
// backends have nothing to watch and return nil immediately.
func (s *Session) Watch(ctx context.Context) error {
	if s.file == nil {
		return nil
	}
	return s.file.Watch(ctx, 100*time.Millisecond, func() {
		if err := s.Store.Load(ctx); err != nil {
			s.logger.Warn("reload after change failed", zap.String("path", s.file.Path()), zap.Error(err))
		}
	})
}

// Watchable reports whether Watch has anything to observe.
func (s *Session) Watchable() bool { return s.file != nil }

// Close releases the backend.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *Session) logPersist(op, id string, err error) {
	if IsPersistFailure(err) {
		s.logger.Warn("task change kept in memory but not saved", zap.String("op", op), zap.String("id", id), zap.Error(err))
	}
}

// IsPersistFailure reports whether err only means the change was not saved.
func IsPersistFailure(err error) bool {
	var pe *task.PersistError
	return errors.As(err, &pe)
}
