// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Calls counts gateway invocations per operation.
type Calls struct {
	ListTasks      int
	CreateTask     int
	UpdateTask     int
	DeleteTask     int
	ListCategories int
	CreateCategory int
	DeleteCategory int
	DashboardStats int
	Login          int
	Register       int
}

// Total returns the number of gateway calls of any kind.
func (c Calls) Total() int {
	return c.ListTasks + c.CreateTask + c.UpdateTask + c.DeleteTask +
		c.ListCategories + c.CreateCategory + c.DeleteCategory +
		c.DashboardStats + c.Login + c.Register
}

// MockGateway is an in-memory test double for domain.Gateway.
// Error fields make the matching operation fail without touching state.
// Fields are ordered to minimize memory padding.
type MockGateway struct {
	Stats      *domain.DashboardStats
	Session    *domain.Session
	Tasks      []*domain.Task
	Categories []domain.Category

	// BeforeUpdate runs before UpdateTask applies the patch (outside the lock).
	// Tests use it to hold a response back.
	BeforeUpdate func(id string, patch domain.TaskPatch)

	// AfterList runs after ListTasks has read the tasks and before it
	// returns them (outside the lock). Tests use it to hold a stale list back.
	AfterList func()

	// NextTaskID overrides the id assigned by CreateTask.
	NextTaskID string

	ListErr           error
	CreateErr         error
	UpdateErr         error
	DeleteErr         error
	CategoriesErr     error
	CreateCategoryErr error
	DeleteCategoryErr error
	StatsErr          error
	AuthErr           error

	Calls  Calls
	nextID int
	mu     sync.Mutex
}

// Ensure MockGateway implements domain.Gateway.
var _ domain.Gateway = (*MockGateway)(nil)

// NewMockGateway creates a MockGateway holding copies of tasks.
func NewMockGateway(tasks ...*domain.Task) *MockGateway {
	return &MockGateway{Tasks: domain.CloneTasks(tasks)}
}

// CallCounts returns a snapshot of the call counters.
func (m *MockGateway) CallCounts() Calls {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// Task returns a copy of the stored task, or nil.
func (m *MockGateway) Task(id string) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tasks {
		if t.ID == id {
			return t.Clone()
		}
	}
	return nil
}

// ListTasks returns copies of the stored tasks matching the filter.
func (m *MockGateway) ListTasks(_ context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	m.mu.Lock()
	m.Calls.ListTasks++
	if m.ListErr != nil {
		err := m.ListErr
		m.mu.Unlock()
		return nil, err
	}
	tasks := domain.CloneTasks(domain.FilterTasks(m.Tasks, filter))
	hook := m.AfterList
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return tasks, nil
}

// CreateTask stores a task built from the draft.
func (m *MockGateway) CreateTask(_ context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.CreateTask++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	id := m.NextTaskID
	if id == "" {
		m.nextID++
		id = fmt.Sprintf("new-%d", m.nextID)
	}
	t := &domain.Task{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		Category:    draft.Category,
		DueDate:     draft.DueDate,
	}
	m.Tasks = append(m.Tasks, t)
	return t.Clone(), nil
}

// UpdateTask applies the patch to the stored task.
func (m *MockGateway) UpdateTask(_ context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	m.mu.Lock()
	m.Calls.UpdateTask++
	hook := m.BeforeUpdate
	m.mu.Unlock()

	if hook != nil {
		hook(id, patch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	for i, t := range m.Tasks {
		if t.ID == id {
			m.Tasks[i] = patch.Apply(t)
			return m.Tasks[i].Clone(), nil
		}
	}
	return nil, &domain.APIError{Status: 404, Detail: "task not found", Cause: domain.ErrTaskNotFound}
}

// DeleteTask removes the stored task.
func (m *MockGateway) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.DeleteTask++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i, t := range m.Tasks {
		if t.ID == id {
			m.Tasks = append(m.Tasks[:i], m.Tasks[i+1:]...)
			return nil
		}
	}
	return &domain.APIError{Status: 404, Detail: "task not found", Cause: domain.ErrTaskNotFound}
}

// ListCategories returns the stored categories.
func (m *MockGateway) ListCategories(_ context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.ListCategories++
	if m.CategoriesErr != nil {
		return nil, m.CategoriesErr
	}
	return append([]domain.Category(nil), m.Categories...), nil
}

// CreateCategory stores a category.
func (m *MockGateway) CreateCategory(_ context.Context, draft domain.CategoryDraft) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.CreateCategory++
	if m.CreateCategoryErr != nil {
		return nil, m.CreateCategoryErr
	}
	m.nextID++
	cat := domain.Category{ID: fmt.Sprintf("cat-%d", m.nextID), Name: draft.Name, Color: draft.Color}
	m.Categories = append(m.Categories, cat)
	return &cat, nil
}

// DeleteCategory removes a stored category.
func (m *MockGateway) DeleteCategory(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.DeleteCategory++
	if m.DeleteCategoryErr != nil {
		return m.DeleteCategoryErr
	}
	for i, c := range m.Categories {
		if c.ID == id {
			m.Categories = append(m.Categories[:i], m.Categories[i+1:]...)
			return nil
		}
	}
	return &domain.APIError{Status: 404, Detail: "category not found", Cause: domain.ErrCategoryNotFound}
}

// DashboardStats returns Stats.
func (m *MockGateway) DashboardStats(_ context.Context) (*domain.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.DashboardStats++
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	if m.Stats == nil {
		return &domain.DashboardStats{}, nil
	}
	s := *m.Stats
	return &s, nil
}

// Login returns Session.
func (m *MockGateway) Login(_ context.Context, _ domain.Credentials) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Login++
	if m.AuthErr != nil {
		return nil, m.AuthErr
	}
	return m.Session, nil
}

// Register returns Session.
func (m *MockGateway) Register(_ context.Context, _ domain.Registration) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Register++
	if m.AuthErr != nil {
		return nil, m.AuthErr
	}
	return m.Session, nil
}

// MockSessionStore is an in-memory domain.SessionStore.
type MockSessionStore struct {
	Session   *domain.Session
	LoadErr   error
	SaveErr   error
	ThemeVal  domain.Theme
	SaveCalls int
}

// Ensure MockSessionStore implements domain.SessionStore.
var _ domain.SessionStore = (*MockSessionStore)(nil)

// Load returns the stored session.
func (m *MockSessionStore) Load() (*domain.Session, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Session, nil
}

// Save stores the session.
func (m *MockSessionStore) Save(session *domain.Session) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Session = session
	return nil
}

// Clear removes the session.
func (m *MockSessionStore) Clear() error {
	m.Session = nil
	return nil
}

// Theme returns the stored theme, defaulting to dark.
func (m *MockSessionStore) Theme() (domain.Theme, error) {
	if m.ThemeVal == "" {
		return domain.ThemeDark, nil
	}
	return m.ThemeVal, nil
}

// SetTheme stores the theme.
func (m *MockSessionStore) SetTheme(theme domain.Theme) error {
	m.ThemeVal = theme
	return nil
}

// MockConfirmer answers with Answer and records the questions asked.
type MockConfirmer struct {
	Err       error
	Questions []string
	Answer    bool
}

// Confirm records the question and returns Answer.
func (m *MockConfirmer) Confirm(question string) (bool, error) {
	m.Questions = append(m.Questions, question)
	return m.Answer, m.Err
}

// LogEntry is one line captured by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger captures log entries.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Info records an info entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.add("INFO", taskID, category, msg) }

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.add("DEBUG", taskID, category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.add("WARN", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.add("ERROR", taskID, category, msg) }

// Levels returns the level of every entry for a task.
func (m *MockLogger) Levels(taskID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.Entries {
		if e.TaskID == taskID {
			out = append(out, e.Level)
		}
	}
	return out
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitProjectErr    error
	InitGlobalErr     error
	InitConfig        *domain.Config // Config passed to the last Init call
	ProjectInfo       domain.ConfigInfo
	GlobalInfo        domain.ConfigInfo
	InitProjectCalled bool
	InitGlobalCalled  bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		ProjectInfo: domain.ConfigInfo{Path: "/work/.taskflow.toml"},
		GlobalInfo:  domain.ConfigInfo{Path: "/home/test/.config/taskflow/config.toml"},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// ProjectConfigInfo returns the configured project config info.
func (m *MockConfigManager) ProjectConfigInfo() domain.ConfigInfo {
	return m.ProjectInfo
}

// GlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalInfo
}

// InitProjectConfig records the call and returns the configured error.
func (m *MockConfigManager) InitProjectConfig(cfg *domain.Config) error {
	m.InitProjectCalled = true
	m.InitConfig = cfg
	return m.InitProjectErr
}

// InitGlobalConfig records the call and returns the configured error.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) error {
	m.InitGlobalCalled = true
	m.InitConfig = cfg
	return m.InitGlobalErr
}
