package devserver

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/runoshun/taskflow/internal/domain"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "demo123"

// SeedResult reports what Seed created.
type SeedResult struct {
	Message    string `json:"message"`
	Tasks      int    `json:"tasks,omitempty"`
	Categories int    `json:"categories,omitempty"`
	Users      int    `json:"users,omitempty"`
}

func (s *Server) handleSeed(w http.ResponseWriter, _ *http.Request) {
	res, err := s.Seed()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Seed loads the demo data set. It does nothing if any user exists.
func (s *Server) Seed() (SeedResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.hashCost)
	if err != nil {
		return SeedResult{}, fmt.Errorf("hash demo password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) > 0 {
		return SeedResult{Message: "data already exists"}, nil
	}

	users := []domain.User{
		{ID: "u1", Name: "Alex Popescu", Email: "alex@taskflow.io", Role: "admin", Avatar: "AP", CreatedAt: ts("2025-01-15T10:00:00Z")},
		{ID: "u2", Name: "Maria Ionescu", Email: "maria@taskflow.io", Role: "member", Avatar: "MI", CreatedAt: ts("2025-02-01T10:00:00Z")},
	}
	for _, u := range users {
		s.users[u.Email] = &user{User: u, hash: hash}
	}

	s.categories = append(s.categories,
		domain.Category{ID: "c1", Name: "Development", Color: "#818CF8", CreatedAt: ts("2025-01-15T10:00:00Z")},
		domain.Category{ID: "c2", Name: "Design", Color: "#F472B6", CreatedAt: ts("2025-01-15T10:00:00Z")},
		domain.Category{ID: "c3", Name: "Marketing", Color: "#34D399", CreatedAt: ts("2025-01-15T10:00:00Z")},
		domain.Category{ID: "c4", Name: "Bug Fix", Color: "#F87171", CreatedAt: ts("2025-01-15T10:00:00Z")},
		domain.Category{ID: "c5", Name: "Documentation", Color: "#FBBF24", CreatedAt: ts("2025-01-15T10:00:00Z")},
	)

	tasks := []*domain.Task{
		seedTask("t1", "Redesign the login page", "Update the sign-in screen to the new design system", domain.StatusDone, domain.PriorityHigh, "Design", "2025-12-20T23:59:00Z", "2025-12-01T10:00:00Z", "2025-12-18T15:30:00Z"),
		seedTask("t2", "Implement the task API", "Full CRUD for task management", domain.StatusDone, domain.PriorityUrgent, "Development", "2025-12-25T23:59:00Z", "2025-12-05T09:00:00Z", "2025-12-22T14:00:00Z"),
		seedTask("t3", "Q1 social media campaign", "Plan and run the LinkedIn and Twitter campaign for Q1", domain.StatusInProgress, domain.PriorityMedium, "Marketing", "2026-01-31T23:59:00Z", "2025-12-10T11:00:00Z", "2025-12-28T10:00:00Z"),
		seedTask("t4", "Fix email notification bug", "Emails are not sent when a task is marked urgent", domain.StatusTodo, domain.PriorityHigh, "Bug Fix", "2026-01-10T23:59:00Z", "2025-12-15T08:00:00Z", "2025-12-15T08:00:00Z"),
		seedTask("t5", "Document API endpoints", "Write reference docs with examples for every endpoint", domain.StatusTodo, domain.PriorityLow, "Documentation", "2026-02-01T23:59:00Z", "2025-12-18T14:00:00Z", "2025-12-18T14:00:00Z"),
		seedTask("t6", "Speed up the dashboard", "Bring dashboard load time under two seconds", domain.StatusInProgress, domain.PriorityMedium, "Development", "2026-01-15T23:59:00Z", "2025-12-20T09:30:00Z", "2026-01-02T11:00:00Z"),
		seedTask("t7", "Add dark mode", "Support the dark theme across the whole app", domain.StatusDone, domain.PriorityMedium, "Design", "2025-12-30T23:59:00Z", "2025-12-08T10:00:00Z", "2025-12-28T16:00:00Z"),
		seedTask("t8", "Set up CI/CD pipeline", "Automate build and deploy with GitHub Actions", domain.StatusTodo, domain.PriorityUrgent, "Development", "2026-01-05T23:59:00Z", "2025-12-22T13:00:00Z", "2025-12-22T13:00:00Z"),
		seedTask("t9", "Test responsive layouts", "Check every page on mobile and tablet", domain.StatusTodo, domain.PriorityMedium, "Design", "2026-01-20T23:59:00Z", "2025-12-25T10:00:00Z", "2025-12-25T10:00:00Z"),
		seedTask("t10", "Integrate analytics", "Add analytics and event tracking for the main actions", domain.StatusInProgress, domain.PriorityLow, "Marketing", "2026-01-25T23:59:00Z", "2025-12-28T09:00:00Z", "2026-01-03T10:00:00Z"),
	}
	s.tasks = append(s.tasks, tasks...)

	return SeedResult{
		Message:    "seed data created",
		Tasks:      len(tasks),
		Categories: 5,
		Users:      len(users),
	}, nil
}

func seedTask(id, title, desc string, st domain.Status, p domain.Priority, cat, due, created, updated string) *domain.Task {
	d := ts(due)
	return &domain.Task{
		ID:          id,
		Title:       title,
		Description: desc,
		Status:      st,
		Priority:    p,
		Category:    cat,
		DueDate:     &d,
		CreatedAt:   ts(created),
		UpdatedAt:   ts(updated),
	}
}

func ts(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(fmt.Sprintf("bad seed timestamp %q: %v", v, err))
	}
	return t
}
