package task

import (
	"context"
	"strings"
)

// Status is the lifecycle state of a task. The value is the display label.
type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// Statuses lists every status in label order.
var Statuses = []Status{StatusCancelled, StatusCompleted, StatusInProgress, StatusNew}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s conventionally ends a task's life.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatus maps user-typed text onto a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new":
		return StatusNew, nil
	case "in progress", "in-progress", "in_progress", "progress":
		return StatusInProgress, nil
	case "completed", "complete", "done":
		return StatusCompleted, nil
	case "cancelled", "canceled", "cancel":
		return StatusCancelled, nil
	}
	return "", &statusError{value: s}
}

// Task is a single to-do item.
type Task struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	DueDate        *Date  `json:"dueDate"`
	CompletionDate *Date  `json:"completionDate"`
	Location       string `json:"location"`
	Status         Status `json:"status"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	if t.CompletionDate != nil {
		d := *t.CompletionDate
		t.CompletionDate = &d
	}
	return t
}

// Equal reports whether t and o carry the same ID and field values.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID &&
		t.Title == o.Title &&
		t.Description == o.Description &&
		datesEqual(t.DueDate, o.DueDate) &&
		datesEqual(t.CompletionDate, o.CompletionDate) &&
		t.Location == o.Location &&
		t.Status == o.Status
}

func datesEqual(a, b *Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Persister is the contract for durable storage of the task collection.
// Save receives the whole collection in store order; Load returns it in the
// same order.
type Persister interface {
	Load(ctx context.Context) ([]Task, error)
	Save(ctx context.Context, tasks []Task) error
}

// PersisterFuncs adapts a pair of functions to the Persister interface.
type PersisterFuncs struct {
	LoadFunc func(ctx context.Context) ([]Task, error)
	SaveFunc func(ctx context.Context, tasks []Task) error
}

func (p PersisterFuncs) Load(ctx context.Context) ([]Task, error) {
	if p.LoadFunc == nil {
		return nil, nil
	}
	return p.LoadFunc(ctx)
}

func (p PersisterFuncs) Save(ctx context.Context, tasks []Task) error {
	if p.SaveFunc == nil {
		return nil
	}
	return p.SaveFunc(ctx, tasks)
}

func cloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
