package domain

// Priority represents how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// AllPriorities returns all valid priorities, lowest first.
func AllPriorities() []Priority {
	return []Priority{
		PriorityLow,
		PriorityMedium,
		PriorityHigh,
		PriorityUrgent,
	}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	return p.Rank() >= 0
}

// Rank returns the position of p in the fixed priority ranking, or -1 if unknown.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	default:
		return -1
	}
}

// Display returns a human-readable representation of the priority.
// Unknown values render as an empty string.
func (p Priority) Display() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	default:
		return ""
	}
}

// ParsePriority parses a priority string.
func ParsePriority(v string) (Priority, error) {
	p := Priority(v)
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}
