package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStatusIdempotent(t *testing.T) {
	base := Task{ID: "a", Title: "t", Description: "d", DueDate: datePtr(2024, 3, 1), Status: StatusNew}
	for _, s := range Statuses {
		once := ApplyStatus(base, s)
		twice := ApplyStatus(once, s)
		assert.True(t, once.Equal(twice), "status %s", s)
		assert.Equal(t, s, once.Status)
	}
}

func TestApplyStatusChangesOnlyStatus(t *testing.T) {
	base := Task{ID: "a", Title: "t", Description: "d", Location: "home", DueDate: datePtr(2024, 3, 1), Status: StatusNew}
	got := ApplyStatus(base, StatusCompleted)

	want := base.Clone()
	want.Status = StatusCompleted
	assert.True(t, want.Equal(got))
	assert.Equal(t, StatusNew, base.Status, "input must not change")
}

func TestMachineLoose(t *testing.T) {
	m := Machine{}
	for _, from := range Statuses {
		for _, to := range []Status{StatusInProgress, StatusCompleted, StatusCancelled} {
			assert.True(t, m.Allowed(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, m.Allowed(StatusCompleted, StatusNew))
	assert.False(t, m.Allowed(StatusInProgress, StatusNew))
	assert.True(t, m.Allowed(StatusNew, StatusNew))
}

func TestMachineStrict(t *testing.T) {
	m := Machine{Strict: true}
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusNew, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusNew, StatusCancelled, true},
		{StatusCompleted, StatusInProgress, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCompleted, StatusCompleted, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, m.Allowed(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestMachineTransitionErrors(t *testing.T) {
	m := Machine{Strict: true}
	done := Task{ID: "a", Title: "t", Description: "d", Status: StatusCompleted}

	_, err := m.Transition(done, StatusInProgress)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.Transition(done, Status("Someday"))
	assert.ErrorIs(t, err, ErrUnknownStatus)

	got, err := Machine{}.Transition(done, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"new":         StatusNew,
		"In Progress": StatusInProgress,
		"in-progress": StatusInProgress,
		"in_progress": StatusInProgress,
		"done":        StatusCompleted,
		"Completed":   StatusCompleted,
		"canceled":    StatusCancelled,
		" cancelled ": StatusCancelled,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStatus("blocked")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
