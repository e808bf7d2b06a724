package domain

import "math"

// BreakdownEntry is one labeled count in a status or priority breakdown.
type BreakdownEntry struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// CategoryCount is the number of tasks carrying a category name.
type CategoryCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// DashboardStats are aggregate counts computed by the server.
// They are read-only and never merged with local task edits.
type DashboardStats struct {
	// StatusBreakdown is positional: todo, in_progress, done.
	StatusBreakdown []BreakdownEntry `json:"statusBreakdown" yaml:"statusBreakdown"`
	// PriorityBreakdown is positional: low, medium, high, urgent.
	PriorityBreakdown []BreakdownEntry `json:"priorityBreakdown" yaml:"priorityBreakdown"`
	CategoryBreakdown []CategoryCount  `json:"categoryBreakdown" yaml:"categoryBreakdown"`
	RecentTasks       []*Task          `json:"recentTasks" yaml:"recentTasks"`
	Total             int              `json:"total" yaml:"total"`
	Todo              int              `json:"todo" yaml:"todo"`
	InProgress        int              `json:"inProgress" yaml:"inProgress"`
	Done              int              `json:"done" yaml:"done"`
	Overdue           int              `json:"overdue" yaml:"overdue"`
	Urgent            int              `json:"urgent" yaml:"urgent"`
	High              int              `json:"high" yaml:"high"`
}

// CompletionPercent returns done/total as a rounded percentage (0 when empty).
func (s *DashboardStats) CompletionPercent() int {
	if s.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(s.Done) / float64(s.Total) * 100))
}

// StatusCount returns the breakdown value for a status by position.
func (s *DashboardStats) StatusCount(st Status) int {
	i := st.Index()
	if i < 0 || i >= len(s.StatusBreakdown) {
		return 0
	}
	return s.StatusBreakdown[i].Value
}

// PriorityCount returns the breakdown value for a priority by rank.
func (s *DashboardStats) PriorityCount(p Priority) int {
	i := p.Rank()
	if i < 0 || i >= len(s.PriorityBreakdown) {
		return 0
	}
	return s.PriorityBreakdown[i].Value
}
