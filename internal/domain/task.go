// Package domain contains core business entities and interfaces.
package domain

import (
	"time"
)

// Task represents one unit of work tracked by TaskFlow.
// Fields are ordered to minimize memory padding.
type Task struct {
	DueDate     *time.Time `json:"dueDate" yaml:"dueDate,omitempty"`         // Optional due date
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`               // Server creation time
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`               // Server update time
	ID          string     `json:"id" yaml:"id"`                             // Server-assigned, immutable
	Title       string     `json:"title" yaml:"title"`                       // Title (required)
	Description string     `json:"description" yaml:"description,omitempty"` // Description (optional)
	Status      Status     `json:"status" yaml:"status"`                     // Current status
	Priority    Priority   `json:"priority" yaml:"priority"`                 // Priority
	Category    string     `json:"category" yaml:"category,omitempty"`       // Category name, not a reference
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return &c
}

// HasDueDate returns true if the task has a due date.
func (t *Task) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// IsOverdue returns true if the task is past its due date and not done.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.HasDueDate() && t.Status != StatusDone && t.DueDate.Before(now)
}

// CloneTasks returns deep copies of the given tasks.
func CloneTasks(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}
