package domain

import "strings"

// FilterAll matches any status or priority.
const FilterAll = "all"

// TaskFilter specifies criteria for narrowing a task list.
// All criteria are combined with AND. Zero values match everything.
type TaskFilter struct {
	Query    string   // Case-insensitive substring of title or description
	Status   Status   // "" or "all" = any status
	Priority Priority // "" or "all" = any priority
	Category string   // Exact category name, "" = any
}

// IsZero returns true if the filter matches every task.
func (f TaskFilter) IsZero() bool {
	return f.Query == "" && isAll(string(f.Status)) && isAll(string(f.Priority)) && f.Category == ""
}

// Matches returns true if the task satisfies every criterion.
func (f TaskFilter) Matches(t *Task) bool {
	if t == nil {
		return false
	}
	if !isAll(string(f.Status)) && t.Status != f.Status {
		return false
	}
	if !isAll(string(f.Priority)) && t.Priority != f.Priority {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

// FilterTasks returns the tasks matching f, preserving their order.
// The input slice is not modified.
func FilterTasks(tasks []*Task, f TaskFilter) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func isAll(v string) bool {
	return v == "" || v == FilterAll
}
