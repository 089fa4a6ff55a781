package main

import "taskbook/pkg/task"

// rowSet pairs the per-row buttons with the task IDs drawn in the last
// frame, so a click resolves to the task that was on screen.
type rowSet struct {
	ids     []string
	buttons []rowButtons
}

// reset records the rows about to be drawn, growing the button slice as
// needed.
func (r *rowSet) reset(tasks []task.Task) {
	r.ids = r.ids[:0]
	for _, t := range tasks {
		r.ids = append(r.ids, t.ID)
	}
	for len(r.buttons) < len(tasks) {
		r.buttons = append(r.buttons, rowButtons{})
	}
}

// id returns the task drawn at row i.
func (r *rowSet) id(i int) (string, bool) {
	if i < 0 || i >= len(r.ids) {
		return "", false
	}
	return r.ids[i], true
}
