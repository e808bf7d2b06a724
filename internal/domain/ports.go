package domain

import (
	"context"
	"time"
)

// TaskGateway is the remote API for tasks.
type TaskGateway interface {
	// ListTasks returns tasks in server order. The filter is applied server-side.
	ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error)

	// CreateTask creates a task and returns it with its server-assigned ID.
	CreateTask(ctx context.Context, draft TaskDraft) (*Task, error)

	// UpdateTask applies a partial update and returns the updated task.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error
}

// CategoryGateway is the remote API for categories.
type CategoryGateway interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, draft CategoryDraft) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// StatsGateway is the remote API for dashboard statistics.
type StatsGateway interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// AuthGateway is the remote API for authentication.
type AuthGateway interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Register(ctx context.Context, reg Registration) (*Session, error)
}

// Gateway combines every remote API used by the client.
type Gateway interface {
	TaskGateway
	CategoryGateway
	StatsGateway
	AuthGateway
}

// HealthChecker reports whether the API is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// TokenSource supplies the bearer credential for API requests.
type TokenSource interface {
	// Token returns the current bearer token, or "" when logged out.
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token calls f.
func (f TokenFunc) Token() string {
	return f()
}

// SessionStore persists the session and theme across runs.
type SessionStore interface {
	// Load returns the stored session, or nil if none is stored.
	Load() (*Session, error)

	// Save stores the session, replacing any previous one.
	Save(session *Session) error

	// Clear removes the stored session. The theme is kept.
	Clear() error

	// Theme returns the stored theme, or the configured default.
	Theme() (Theme, error)

	// SetTheme stores the theme.
	SetTheme(theme Theme) error
}

// Confirmer is a yes/no decision gate shown before destructive actions.
type Confirmer interface {
	// Confirm asks the question and returns the answer.
	Confirm(question string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(question string) (bool, error) {
	return f(question)
}

// AlwaysConfirm is a Confirmer that answers yes (used by --yes).
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) (bool, error) { return true, nil })

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (default + global + project + env).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager inspects and initializes config files.
type ConfigManager interface {
	GlobalConfigInfo() ConfigInfo
	ProjectConfigInfo() ConfigInfo
	InitGlobalConfig(cfg *Config) error
	InitProjectConfig(cfg *Config) error
}

// Logger records diagnostics. taskID is "" for global entries.
type Logger interface {
	Info(taskID, category, msg string)
	Debug(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// NopLogger discards every entry.
type NopLogger struct{}

func (NopLogger) Info(_, _, _ string)  {}
func (NopLogger) Debug(_, _, _ string) {}
func (NopLogger) Warn(_, _, _ string)  {}
func (NopLogger) Error(_, _, _ string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
