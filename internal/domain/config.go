package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// File and directory names.
const (
	AppDirName            = "taskflow"       // Directory under XDG config/state homes
	ConfigFileName        = "config.toml"    // Global config file name
	ProjectConfigFileName = ".taskflow.toml" // Config file name in the working directory
	SessionFileName       = "session.json"   // Persisted session file name
	LogsDirName           = "logs"
)

// Default configuration values.
const (
	DefaultBaseURL            = "http://localhost:8001"
	DefaultTimeout            = 10 * time.Second
	DefaultLogLevel           = "info"
	DefaultBreakerMaxFailures = 5
	DefaultBreakerOpenTimeout = 30 * time.Second
)

// Config represents the application configuration.
type Config struct {
	UI       UIConfig    // [ui] settings
	Log      LogConfig   // [log] settings
	API      APIConfig   // [api] settings
	Warnings []string    // Unknown keys and other non-fatal problems
	Board    BoardConfig // [board] settings
}

// APIConfig holds [api] settings.
type APIConfig struct {
	BaseURL string        // Server origin; "/api" is appended
	Breaker BreakerConfig // [api.breaker]
	Timeout time.Duration // Per-request timeout
}

// BreakerConfig holds [api.breaker] settings.
type BreakerConfig struct {
	OpenTimeout time.Duration // How long the breaker stays open
	MaxFailures uint32        // Consecutive failures before opening (0 disables)
}

// LogConfig holds [log] settings.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// BoardConfig holds [board] settings.
type BoardConfig struct {
	RefreshInterval time.Duration // Auto-reload interval for the board (0 = off)
}

// UIConfig holds [ui] settings.
type UIConfig struct {
	Theme Theme // Default theme when none is stored
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
			Breaker: BreakerConfig{
				MaxFailures: DefaultBreakerMaxFailures,
				OpenTimeout: DefaultBreakerOpenTimeout,
			},
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		UI: UIConfig{
			Theme: ThemeDark,
		},
	}
}

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config file path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// ProjectConfigPath returns the project config file path for a directory.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFileName)
}

// StateDir returns the state directory.
// stateHome is typically XDG_STATE_HOME or ~/.local/state (resolved by caller).
func StateDir(stateHome string) string {
	return filepath.Join(stateHome, AppDirName)
}

// SessionPath returns the session file path in a state directory.
func SessionPath(stateDir string) string {
	return filepath.Join(stateDir, SessionFileName)
}

// GlobalLogPath returns the global log file path in a state directory.
func GlobalLogPath(stateDir string) string {
	return filepath.Join(stateDir, LogsDirName, "taskflow.log")
}

// TaskLogPath returns the task-specific log file path in a state directory.
func TaskLogPath(stateDir, taskID string) string {
	return filepath.Join(stateDir, LogsDirName, "task-"+taskID+".log")
}

// RenderConfigTemplate renders a commented config file from the given Config.
func RenderConfigTemplate(cfg *Config) string {
	data := struct {
		BaseURL            string
		Timeout            string
		OpenTimeout        string
		LogLevel           string
		Theme              string
		RefreshInterval    string
		BreakerMaxFailures uint32
	}{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.Timeout.String(),
		BreakerMaxFailures: cfg.API.Breaker.MaxFailures,
		OpenTimeout:        cfg.API.Breaker.OpenTimeout.String(),
		LogLevel:           cfg.Log.Level,
		Theme:              string(cfg.UI.Theme),
		RefreshInterval:    cfg.Board.RefreshInterval.String(),
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
