// Package app provides the dependency injection container for the application.
package app

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/infra/config"
	"github.com/runoshun/taskflow/internal/infra/devserver"
	"github.com/runoshun/taskflow/internal/infra/httpapi"
	"github.com/runoshun/taskflow/internal/infra/logging"
	"github.com/runoshun/taskflow/internal/infra/sessionstore"
	"github.com/runoshun/taskflow/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	ProjectDir  string // Working directory (holds .taskflow.toml and .env)
	StateDir    string // Per-user state directory (session, logs)
	SessionPath string // Path to session.json
}

// newConfig resolves paths for a working directory.
func newConfig(projectDir string) Config {
	stateDir := domain.StateDir(stateHome())
	return Config{
		ProjectDir:  projectDir,
		StateDir:    stateDir,
		SessionPath: domain.SessionPath(stateDir),
	}
}

func stateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, ".local", "state")
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Gateway       domain.Gateway
	Health        domain.HealthChecker
	Sessions      domain.SessionStore
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	EventLog      domain.Logger // Per-task file log

	// Pointer fields
	AppConfig *domain.Config // Effective configuration
	Logger    *slog.Logger

	closeLog func() error

	// Configuration
	Config Config
}

// New creates a new Container for the given working directory.
func New(dir string) (*Container, error) {
	cfg := newConfig(dir)

	configLoader := config.NewLoader(cfg.ProjectDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	level := logging.ParseLevel(appConfig.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	eventLog := logging.New(cfg.StateDir, level)

	sessions := sessionstore.New(cfg.SessionPath).WithDefaultTheme(appConfig.UI.Theme)
	tokens := domain.TokenFunc(func() string {
		s, err := sessions.Load()
		if err != nil || !s.IsValid() {
			return ""
		}
		return s.Token
	})

	client := httpapi.New(httpapi.Options{
		BaseURL: appConfig.API.BaseURL,
		Timeout: appConfig.API.Timeout,
		Breaker: appConfig.API.Breaker,
		Tokens:  tokens,
	})

	return &Container{
		Gateway:       client,
		Health:        client,
		Sessions:      sessions,
		Clock:         domain.RealClock{},
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(cfg.ProjectDir),
		EventLog:      eventLog,
		AppConfig:     appConfig,
		Logger:        logger,
		closeLog:      eventLog.Close,
		Config:        cfg,
	}, nil
}

// Deps are the ports NewWithDeps wires. Nil fields get harmless defaults.
type Deps struct {
	Gateway       domain.Gateway
	Health        domain.HealthChecker
	Sessions      domain.SessionStore
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	EventLog      domain.Logger
	AppConfig     *domain.Config
	Logger        *slog.Logger
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, deps Deps) *Container {
	if deps.Clock == nil {
		deps.Clock = domain.RealClock{}
	}
	if deps.EventLog == nil {
		deps.EventLog = domain.NopLogger{}
	}
	if deps.AppConfig == nil {
		deps.AppConfig = domain.NewDefaultConfig()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	return &Container{
		Gateway:       deps.Gateway,
		Health:        deps.Health,
		Sessions:      deps.Sessions,
		Clock:         deps.Clock,
		ConfigLoader:  deps.ConfigLoader,
		ConfigManager: deps.ConfigManager,
		EventLog:      deps.EventLog,
		AppConfig:     deps.AppConfig,
		Logger:        deps.Logger,
		Config:        cfg,
	}
}

// Close releases open log files.
func (c *Container) Close() error {
	if c.closeLog == nil {
		return nil
	}
	return c.closeLog()
}

// Collection factory methods

// NewTaskCollection returns an empty collection bound to the gateway.
func (c *Container) NewTaskCollection() *usecase.TaskCollection {
	return usecase.NewTaskCollection(c.Gateway, c.Gateway, c.EventLog)
}

// NewBoard returns a board over a fresh collection.
func (c *Container) NewBoard() *usecase.Board {
	return usecase.NewBoard(c.NewTaskCollection())
}

// NewDevServer returns an in-memory API server logging through the container logger.
func (c *Container) NewDevServer() *devserver.Server {
	return devserver.New(devserver.WithLogger(c.Logger))
}

// UseCase factory methods

// LoginUseCase returns a new Login use case.
func (c *Container) LoginUseCase() *usecase.Login {
	return usecase.NewLogin(c.Gateway, c.Sessions, c.EventLog)
}

// RegisterUseCase returns a new Register use case.
func (c *Container) RegisterUseCase() *usecase.Register {
	return usecase.NewRegister(c.Gateway, c.Sessions, c.EventLog)
}

// LogoutUseCase returns a new Logout use case.
func (c *Container) LogoutUseCase() *usecase.Logout {
	return usecase.NewLogout(c.Sessions, c.EventLog)
}

// WhoAmIUseCase returns a new WhoAmI use case.
func (c *Container) WhoAmIUseCase() *usecase.WhoAmI {
	return usecase.NewWhoAmI(c.Sessions)
}

// SetThemeUseCase returns a new SetTheme use case.
func (c *Container) SetThemeUseCase() *usecase.SetTheme {
	return usecase.NewSetTheme(c.Sessions)
}

// ListCategoriesUseCase returns a new ListCategories use case.
func (c *Container) ListCategoriesUseCase() *usecase.ListCategories {
	return usecase.NewListCategories(c.Gateway)
}

// CreateCategoryUseCase returns a new CreateCategory use case.
func (c *Container) CreateCategoryUseCase() *usecase.CreateCategory {
	return usecase.NewCreateCategory(c.Gateway, c.EventLog)
}

// DeleteCategoryUseCase returns a new DeleteCategory use case.
func (c *Container) DeleteCategoryUseCase() *usecase.DeleteCategory {
	return usecase.NewDeleteCategory(c.Gateway, c.EventLog)
}

// ShowDashboardUseCase returns a new ShowDashboard use case.
func (c *Container) ShowDashboardUseCase() *usecase.ShowDashboard {
	return usecase.NewShowDashboard(c.Gateway)
}

// CheckHealthUseCase returns a new CheckHealth use case.
func (c *Container) CheckHealthUseCase() *usecase.CheckHealth {
	return usecase.NewCheckHealth(c.Health, c.Clock)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.AppConfig)
}
