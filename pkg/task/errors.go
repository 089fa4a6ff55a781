package task

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateOrder  = errors.New("completion date is earlier than due date")
	ErrInvalidDate       = errors.New("invalid date")
	ErrNotFound          = errors.New("task not found")
	ErrDuplicateID       = errors.New("duplicate task id")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown status")
)

// MissingFieldError reports a required input that was absent or blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// LoadError reports that persisted tasks could not be read or were malformed.
// The store keeps its previous collection.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return "load tasks: " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// PersistError reports a failed save. The in-memory mutation that triggered
// it has already been applied.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return "save tasks: " + e.Err.Error() }
func (e *PersistError) Unwrap() error { return e.Err }

type statusError struct {
	value string
}

func (e *statusError) Error() string { return fmt.Sprintf("unknown status %q", e.value) }
func (e *statusError) Unwrap() error { return ErrUnknownStatus }
