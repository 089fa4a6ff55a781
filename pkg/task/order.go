package task

import (
	"fmt"
	"slices"
	"strings"
)

// SortMode selects how a read of the collection is ordered.
type SortMode int

const (
	SortNone SortMode = iota
	SortByDueDate
	SortByStatus
)

func (m SortMode) String() string {
	switch m {
	case SortByDueDate:
		return "date"
	case SortByStatus:
		return "status"
	default:
		return "none"
	}
}

// ParseSortMode accepts none, date (or due, duedate) and status.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "date", "due", "duedate", "due-date":
		return SortByDueDate, nil
	case "status":
		return SortByStatus, nil
	}
	return SortNone, fmt.Errorf("unknown sort mode %q", s)
}

// Order returns a new slice holding tasks in the requested order. The sort is
// stable and tasks without a due date come first under SortByDueDate.
func Order(tasks []Task, mode SortMode) []Task {
	out := cloneAll(tasks)
	switch mode {
	case SortByDueDate:
		slices.SortStableFunc(out, compareDueDate)
	case SortByStatus:
		slices.SortStableFunc(out, func(a, b Task) int {
			return strings.Compare(string(a.Status), string(b.Status))
		})
	}
	return out
}

func compareDueDate(a, b Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return -1
	case b.DueDate == nil:
		return 1
	}
	return a.DueDate.Compare(*b.DueDate)
}

// FilterOptions narrows a task list. Zero values match everything.
type FilterOptions struct {
	Statuses []Status
	// Query is matched case-insensitively against title, description and location.
	Query string
}

// Filter returns the tasks matching f, in their original order.
func Filter(tasks []Task, f FilterOptions) []Task {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, t.Status) {
			continue
		}
		if q != "" && !matches(t, q) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

func matches(t Task, q string) bool {
	for _, field := range []string{t.Title, t.Description, t.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
