package devserver

import (
	"net/http"
	"sort"

	"github.com/runoshun/taskflow/internal/domain"
)

// statsResponse mirrors domain.DashboardStats with wire-format recent tasks.
type statsResponse struct {
	StatusBreakdown   []domain.BreakdownEntry `json:"statusBreakdown"`
	PriorityBreakdown []domain.BreakdownEntry `json:"priorityBreakdown"`
	CategoryBreakdown []domain.CategoryCount  `json:"categoryBreakdown"`
	RecentTasks       []taskJSON              `json:"recentTasks"`
	Total             int                     `json:"total"`
	Todo              int                     `json:"todo"`
	InProgress        int                     `json:"inProgress"`
	Done              int                     `json:"done"`
	Overdue           int                     `json:"overdue"`
	Urgent            int                     `json:"urgent"`
	High              int                     `json:"high"`
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	resp := s.computeStats()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// computeStats aggregates over every task. Caller must hold s.mu.
func (s *Server) computeStats() statsResponse {
	now := s.now()
	byStatus := make(map[domain.Status]int)
	byPriority := make(map[domain.Priority]int)
	byCategory := make(map[string]int)
	overdue := 0

	for _, t := range s.tasks {
		byStatus[t.Status]++
		byPriority[t.Priority]++
		if t.Category != "" {
			byCategory[t.Category]++
		}
		if t.IsOverdue(now) {
			overdue++
		}
	}

	resp := statsResponse{
		Total:      len(s.tasks),
		Todo:       byStatus[domain.StatusTodo],
		InProgress: byStatus[domain.StatusInProgress],
		Done:       byStatus[domain.StatusDone],
		Overdue:    overdue,
		Urgent:     byPriority[domain.PriorityUrgent],
		High:       byPriority[domain.PriorityHigh],
	}
	for _, st := range domain.AllStatuses() {
		resp.StatusBreakdown = append(resp.StatusBreakdown, domain.BreakdownEntry{Name: st.Display(), Value: byStatus[st]})
	}
	for _, p := range domain.AllPriorities() {
		resp.PriorityBreakdown = append(resp.PriorityBreakdown, domain.BreakdownEntry{Name: p.Display(), Value: byPriority[p]})
	}

	resp.CategoryBreakdown = make([]domain.CategoryCount, 0, len(byCategory))
	for name, count := range byCategory {
		resp.CategoryBreakdown = append(resp.CategoryBreakdown, domain.CategoryCount{Name: name, Count: count})
	}
	sort.Slice(resp.CategoryBreakdown, func(i, j int) bool {
		a, b := resp.CategoryBreakdown[i], resp.CategoryBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(resp.CategoryBreakdown) > maxCategoryAgg {
		resp.CategoryBreakdown = resp.CategoryBreakdown[:maxCategoryAgg]
	}

	recent := s.newestFirst()
	if len(recent) > maxRecentTasks {
		recent = recent[:maxRecentTasks]
	}
	resp.RecentTasks = make([]taskJSON, 0, len(recent))
	for _, t := range recent {
		resp.RecentTasks = append(resp.RecentTasks, toJSON(t))
	}
	return resp
}
