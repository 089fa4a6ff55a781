// Package storage holds the durable backends for the task collection. Each
// backend implements task.Persister.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"taskbook/pkg/task"
)

// FileStore keeps the collection as a JSON array in a single file. Reads and
// writes hold an exclusive flock so two processes never interleave.
type FileStore struct {
	path string
}

// NewFileStore creates the parent directory of path if needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create task directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Load reads the collection. A missing or empty file is an empty collection.
func (s *FileStore) Load(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return []task.Task{}, nil
	}

	var tasks []task.Task
	err := s.withLock(func(f *os.File) error {
		data, err := readAll(f)
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			tasks = []task.Task{}
			return nil
		}
		if err := json.Unmarshal(data, &tasks); err != nil {
			return fmt.Errorf("decode %s: %w", s.path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// Save replaces the file contents with tasks.
func (s *FileStore) Save(ctx context.Context, tasks []task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return s.withLock(func(f *os.File) error {
		if err := f.Truncate(0); err != nil {
			return fmt.Errorf("truncate %s: %w", s.path, err)
		}
		if _, err := f.WriteAt(append(data, '\n'), 0); err != nil {
			return fmt.Errorf("write %s: %w", s.path, err)
		}
		return f.Sync()
	})
}

// Watch calls onChange whenever the file is written or replaced, until ctx
// is done. Bursts of events within debounce of each other produce one call.
// Writes made through this FileStore are reported too.
func (s *FileStore) Watch(ctx context.Context, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors and atomic writers replace the file.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	go func() {
		defer w.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				onChange()
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

func (s *FileStore) withLock(fn func(*os.File) error) error {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn(f)
}

func readAll(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", f.Name(), err)
	}
	data := make([]byte, info.Size())
	if _, err := f.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name(), err)
	}
	return data, nil
}
