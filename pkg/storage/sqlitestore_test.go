package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	roundTrip(t, openSQLite(t))
}

func TestSQLiteStoreWithTaskStore(t *testing.T) {
	storeOverPersister(t, openSQLite(t))
}

func TestSQLiteStoreInMemory(t *testing.T) {
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()
	roundTrip(t, s)
}

func TestSQLiteStoreEnsureTableIdempotent(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sampleTasks()))
	require.NoError(t, s.EnsureTable(ctx))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSQLiteStoreDuplicateIDRollsBack(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sampleTasks()))

	dup := sampleTasks()
	dup[1].ID = dup[0].ID
	require.Error(t, s.Save(ctx, dup))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3, "failed save must leave the previous rows")
}
