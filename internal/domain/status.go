package domain

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "todo"        // Not started
	StatusInProgress Status = "in_progress" // Being worked on
	StatusDone       Status = "done"        // Finished
)

// AllStatuses returns all valid status values in board column order.
func AllStatuses() []Status {
	return []Status{
		StatusTodo,
		StatusInProgress,
		StatusDone,
	}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Next returns the status that follows s in the one-click cycle
// todo → in_progress → done → todo.
// Unknown statuses restart the cycle at todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// Display returns a human-readable representation of the status.
// Unknown values render as an empty string.
func (s Status) Display() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return ""
	}
}

// Index returns the position of the status in AllStatuses, or -1.
func (s Status) Index() int {
	for i, st := range AllStatuses() {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStatus parses a status string. The empty string and "all" are not statuses.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
