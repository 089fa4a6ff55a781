package task

import (
	"strings"

	"github.com/google/uuid"
)

// Input is the raw field input for a new task.
type Input struct {
	Title          string
	Description    string
	DueDate        *Date
	CompletionDate *Date
	Location       string
}

// Validator turns Input into a new Task.
type Validator struct {
	// RequireDates makes both dates mandatory on creation.
	RequireDates bool
	// NewID generates task IDs. Defaults to a UUID v7.
	NewID func() string
}

// Validate checks in against the creation rules and returns the new task
// with a fresh ID and status New. The first violated rule is reported.
func (v Validator) Validate(in Input) (Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, &MissingFieldError{Field: "title"}
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Task{}, &MissingFieldError{Field: "description"}
	}
	if v.RequireDates {
		if in.DueDate == nil {
			return Task{}, &MissingFieldError{Field: "dueDate"}
		}
		if in.CompletionDate == nil {
			return Task{}, &MissingFieldError{Field: "completionDate"}
		}
	}
	if in.DueDate != nil && in.CompletionDate != nil && in.CompletionDate.Before(*in.DueDate) {
		return Task{}, ErrInvalidDateOrder
	}

	newID := v.NewID
	if newID == nil {
		newID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	t := Task{
		ID:             newID(),
		Title:          title,
		Description:    desc,
		DueDate:        in.DueDate,
		CompletionDate: in.CompletionDate,
		Location:       strings.TrimSpace(in.Location),
		Status:         StatusNew,
	}
	return t.Clone(), nil
}

// check verifies the invariants every stored record must hold.
func check(t Task) error {
	switch {
	case t.ID == "":
		return &MissingFieldError{Field: "id"}
	case strings.TrimSpace(t.Title) == "":
		return &MissingFieldError{Field: "title"}
	case strings.TrimSpace(t.Description) == "":
		return &MissingFieldError{Field: "description"}
	case !t.Status.Valid():
		return &statusError{value: string(t.Status)}
	case t.DueDate != nil && t.CompletionDate != nil && t.CompletionDate.Before(*t.DueDate):
		return ErrInvalidDateOrder
	}
	return nil
}
