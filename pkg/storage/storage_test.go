package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"taskbook/pkg/task"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func date(y int, m time.Month, d int) *task.Date {
	dt := task.NewDate(y, m, d)
	return &dt
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "3", Title: "Buy milk", Description: "2%", DueDate: date(2024, 1, 10), CompletionDate: date(2024, 1, 10), Location: "Corner shop", Status: task.StatusCompleted},
		{ID: "2", Title: "Call mom", Description: "Sunday evening", DueDate: date(2024, 2, 4), Status: task.StatusInProgress},
		{ID: "1", Title: "Pay rent", Description: "Transfer", Status: task.StatusNew},
	}
}

// roundTrip saves x and checks that a load returns an equal collection, then
// that saving the loaded collection changes nothing.
func roundTrip(t *testing.T, p task.Persister) {
	t.Helper()
	ctx := context.Background()

	empty, err := p.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)

	want := sampleTasks()
	require.NoError(t, p.Save(ctx, want))
	got, err := p.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("load(save(x)) mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, p.Save(ctx, got))
	again, err := p.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, again); diff != "" {
		t.Fatalf("save(load()) mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, p.Save(ctx, want[1:]))
	got, err = p.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want[1:], got); diff != "" {
		t.Fatalf("shrunk collection mismatch (-want +got):\n%s", diff)
	}
}

// storeOverPersister drives a task.Store through a real backend and reopens it.
func storeOverPersister(t *testing.T, p task.Persister) {
	t.Helper()
	ctx := context.Background()

	s := task.NewStore(p, task.StoreOptions{})
	require.NoError(t, s.Load(ctx))
	created, err := task.Validator{}.Validate(task.Input{Title: "Water plants", Description: "Balcony", DueDate: date(2024, 6, 1)})
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, created))
	require.NoError(t, s.SetStatus(ctx, created.ID, task.StatusInProgress))

	reopened := task.NewStore(p, task.StoreOptions{})
	require.NoError(t, reopened.Load(ctx))
	if diff := cmp.Diff(s.Snapshot(), reopened.Snapshot()); diff != "" {
		t.Fatalf("reopened store mismatch (-want +got):\n%s", diff)
	}
}
