package httpapi

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// wireTask is the JSON shape of a task on the API.
// dueDate may be null, "" or an ISO 8601 timestamp.
type wireTask struct {
	DueDate     *string `json:"dueDate"`
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func (w *wireTask) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Status:      domain.Status(w.Status),
		Priority:    domain.Priority(w.Priority),
		Category:    w.Category,
		CreatedAt:   parseTime(w.CreatedAt),
		UpdatedAt:   parseTime(w.UpdatedAt),
	}
	if w.DueDate != nil {
		if due := parseTime(*w.DueDate); !due.IsZero() {
			t.DueDate = &due
		}
	}
	return t
}

// wireTaskCreate is the POST /tasks body.
type wireTaskCreate struct {
	DueDate     *string `json:"dueDate"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
}

func newWireTaskCreate(d domain.TaskDraft) wireTaskCreate {
	w := wireTaskCreate{
		Title:       d.Title,
		Description: d.Description,
		Status:      string(d.Status),
		Priority:    string(d.Priority),
		Category:    d.Category,
	}
	if d.DueDate != nil {
		s := formatTime(*d.DueDate)
		w.DueDate = &s
	}
	return w
}

// wireTaskPatch is the PUT /tasks/{id} body. Only set fields are sent.
type wireTaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Category    *string `json:"category,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

func newWireTaskPatch(p domain.TaskPatch) wireTaskPatch {
	w := wireTaskPatch{
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
	}
	if p.Status != nil {
		s := string(*p.Status)
		w.Status = &s
	}
	if p.Priority != nil {
		s := string(*p.Priority)
		w.Priority = &s
	}
	switch {
	case p.ClearDueDate:
		empty := ""
		w.DueDate = &empty
	case p.DueDate != nil:
		s := formatTime(*p.DueDate)
		w.DueDate = &s
	}
	return w
}

// wireCategory is the JSON shape of a category.
type wireCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"createdAt"`
}

func (w *wireCategory) toDomain() domain.Category {
	return domain.Category{
		ID:        w.ID,
		Name:      w.Name,
		Color:     w.Color,
		CreatedAt: parseTime(w.CreatedAt),
	}
}

// wireUser is the JSON shape of a user.
type wireUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"createdAt"`
}

// wireAuthResponse is returned by /auth/login and /auth/register.
type wireAuthResponse struct {
	User  wireUser `json:"user"`
	Token string   `json:"token"`
}

func (w *wireAuthResponse) toDomain() *domain.Session {
	return &domain.Session{
		Token: w.Token,
		User: domain.User{
			ID:        w.User.ID,
			Name:      w.User.Name,
			Email:     w.User.Email,
			Role:      w.User.Role,
			Avatar:    w.User.Avatar,
			CreatedAt: parseTime(w.User.CreatedAt),
		},
	}
}

// wireStats is the GET /dashboard/stats body.
type wireStats struct {
	StatusBreakdown   []domain.BreakdownEntry `json:"statusBreakdown"`
	PriorityBreakdown []domain.BreakdownEntry `json:"priorityBreakdown"`
	CategoryBreakdown []domain.CategoryCount  `json:"categoryBreakdown"`
	RecentTasks       []wireTask              `json:"recentTasks"`
	Total             int                     `json:"total"`
	Todo              int                     `json:"todo"`
	InProgress        int                     `json:"inProgress"`
	Done              int                     `json:"done"`
	Overdue           int                     `json:"overdue"`
	Urgent            int                     `json:"urgent"`
	High              int                     `json:"high"`
}

func (w *wireStats) toDomain() *domain.DashboardStats {
	s := &domain.DashboardStats{
		StatusBreakdown:   w.StatusBreakdown,
		PriorityBreakdown: w.PriorityBreakdown,
		CategoryBreakdown: w.CategoryBreakdown,
		RecentTasks:       make([]*domain.Task, 0, len(w.RecentTasks)),
		Total:             w.Total,
		Todo:              w.Todo,
		InProgress:        w.InProgress,
		Done:              w.Done,
		Overdue:           w.Overdue,
		Urgent:            w.Urgent,
		High:              w.High,
	}
	for i := range w.RecentTasks {
		s.RecentTasks = append(s.RecentTasks, w.RecentTasks[i].toDomain())
	}
	return s
}

// errorBody is the error shape. detail is usually a string but validation
// failures may carry a list.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (b errorBody) message() string {
	var s string
	if err := json.Unmarshal(b.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(b.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// timeLayouts are tried in order when decoding timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999", // naive ISO, treated as UTC
	"2006-01-02",
}

// parseTime decodes an API timestamp. Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
