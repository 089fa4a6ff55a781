package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"taskbook/internal/config"
	"taskbook/pkg/storage"
	"taskbook/pkg/task"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fileConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "tasks.json")
	return cfg
}

func TestOpenFileAndCreate(t *testing.T) {
	ctx := context.Background()
	cfg := fileConfig(t)
	s, err := Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()

	created, err := s.Create(ctx, task.Input{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, created.ID, task.StatusInProgress))

	reopened, err := Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	got, ok := reopened.Store.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, task.StatusInProgress, got.Status)
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.Storage.Driver = config.DriverSQLite
	cfg.Storage.Path = filepath.Join(t.TempDir(), "tasks.db")

	s, err := Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	_, err = s.Create(ctx, task.Input{Title: "t", Description: "d"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 1, s.Store.Len())
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Driver = "redis"
	_, err := Open(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenRequireDates(t *testing.T) {
	cfg := fileConfig(t)
	cfg.Tasks.RequireDatesOnCreate = true
	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = s.Create(context.Background(), task.Input{Title: "t", Description: "d"})
	var mf *task.MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "dueDate", mf.Field)
	assert.Equal(t, 0, s.Store.Len())
}

func TestOpenStrictTransitions(t *testing.T) {
	ctx := context.Background()
	cfg := fileConfig(t)
	cfg.Tasks.StrictTransitions = true
	s, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	created, err := s.Create(ctx, task.Input{Title: "t", Description: "d"})
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, created.ID, task.StatusCancelled))
	assert.ErrorIs(t, s.SetStatus(ctx, created.ID, task.StatusInProgress), task.ErrInvalidTransition)
}

func TestOpenMalformedFileLogsAndStartsEmpty(t *testing.T) {
	cfg := fileConfig(t)
	require.NoError(t, os.WriteFile(cfg.Storage.Path, []byte("{broken"), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	s, err := Open(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Store.Len())
	assert.Equal(t, 1, logs.FilterMessage("could not load tasks, starting empty").Len())
}

func TestCreatePersistFailureKeepsTask(t *testing.T) {
	ctx := context.Background()
	cfg := fileConfig(t)
	s, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	// Replace the file with a directory so the save cannot open it.
	require.NoError(t, os.Mkdir(cfg.Storage.Path, 0o755))

	created, err := s.Create(ctx, task.Input{Title: "t", Description: "d"})
	require.Error(t, err)
	assert.True(t, IsPersistFailure(err))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, s.Store.Len())
}

func TestListSortsAndFilters(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, fileConfig(t), zap.NewNop())
	require.NoError(t, err)

	due := task.NewDate(2024, 1, 1)
	a, err := s.Create(ctx, task.Input{Title: "alpha", Description: "d", DueDate: &due})
	require.NoError(t, err)
	b, err := s.Create(ctx, task.Input{Title: "beta", Description: "d"})
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, a.ID, task.StatusCompleted))

	got := s.List(task.SortNone, task.FilterOptions{})
	assert.Equal(t, []string{b.ID, a.ID}, []string{got[0].ID, got[1].ID})

	got = s.List(task.SortByStatus, task.FilterOptions{})
	assert.Equal(t, []string{a.ID, b.ID}, []string{got[0].ID, got[1].ID})

	got = s.List(task.SortNone, task.FilterOptions{Query: "alp"})
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestWatchReloadsOnExternalWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := fileConfig(t)
	s, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	require.True(t, s.Watchable())

	updates := s.Store.Subscribe()
	defer s.Store.Unsubscribe(updates)
	require.NoError(t, s.Watch(ctx))

	other, err := storage.NewFileStore(cfg.Storage.Path)
	require.NoError(t, err)
	require.NoError(t, other.Save(ctx, []task.Task{{ID: "x", Title: "t", Description: "d", Status: task.StatusNew}}))

	select {
	case snap := <-updates:
		require.Len(t, snap, 1)
		assert.Equal(t, "x", snap[0].ID)
	case <-time.After(5 * time.Second):
		t.Fatal("store was not reloaded")
	}

	cancel()
	time.Sleep(50 * time.Millisecond)
}
