package task

import "fmt"

// ApplyStatus returns a copy of t with its status replaced.
func ApplyStatus(t Task, s Status) Task {
	t = t.Clone()
	t.Status = s
	return t
}

// Machine decides which status transitions are legal.
//
// The default machine is loose: any state may move to In Progress, Completed
// or Cancelled, including out of Completed and Cancelled. Nothing moves back
// to New. Re-applying the current status is always allowed.
type Machine struct {
	// Strict refuses transitions out of Completed and Cancelled.
	Strict bool
}

// Allowed reports whether a task in from may move to to.
func (m Machine) Allowed(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if to == StatusNew {
		return false
	}
	if m.Strict && from.Terminal() {
		return false
	}
	return true
}

// Transition applies s to t if the move is allowed.
func (m Machine) Transition(t Task, s Status) (Task, error) {
	if !s.Valid() {
		return t, &statusError{value: string(s)}
	}
	if !m.Allowed(t.Status, s) {
		return t, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, s)
	}
	return ApplyStatus(t, s), nil
}
