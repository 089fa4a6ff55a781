package main

import (
	"fmt"

	"taskbook/pkg/task"
)

// formValues is the raw text of the create form.
type formValues struct {
	Title          string
	Description    string
	DueDate        string
	CompletionDate string
	Location       string
}

// input parses the date fields. Blank dates are left unset.
func (f formValues) input() (task.Input, error) {
	due, err := task.ParseOptionalDate(f.DueDate)
	if err != nil {
		return task.Input{}, fmt.Errorf("due date: %w", err)
	}
	completion, err := task.ParseOptionalDate(f.CompletionDate)
	if err != nil {
		return task.Input{}, fmt.Errorf("completion date: %w", err)
	}
	return task.Input{
		Title:          f.Title,
		Description:    f.Description,
		DueDate:        due,
		CompletionDate: completion,
		Location:       f.Location,
	}, nil
}

// noticeFor renders an operation error as the one-line message shown above
// the list.
func noticeFor(err error) string {
	if err == nil {
		return ""
	}
	return "⚠ " + err.Error()
}

// rowText is the secondary line under each task title.
func rowText(t task.Task) string {
	s := string(t.Status)
	if t.DueDate != nil {
		s += " · due " + t.DueDate.String()
	}
	if t.CompletionDate != nil {
		s += " · done " + t.CompletionDate.String()
	}
	if t.Location != "" {
		s += " · " + t.Location
	}
	return s
}
