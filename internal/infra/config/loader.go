// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/taskflow/internal/domain"
)

// Environment variables that override file settings.
const (
	EnvAPIURL   = "TASKFLOW_API_URL"
	EnvLogLevel = "TASKFLOW_LOG_LEVEL"
)

// envFileName is the optional dotenv file read from the project directory.
const envFileName = ".env"

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files and the environment.
type Loader struct {
	lookupEnv     func(string) (string, bool)
	projectDir    string // Directory holding .taskflow.toml and .env
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskflow)
}

// NewLoader creates a new Loader.
func NewLoader(projectDir string) *Loader {
	return &Loader{
		projectDir:    projectDir,
		globalConfDir: defaultGlobalConfigDir(),
		lookupEnv:     os.LookupEnv,
	}
}

// NewLoaderWithDirs creates a new Loader with a custom global config directory
// and environment lookup. This is useful for testing.
func NewLoaderWithDirs(projectDir, globalConfDir string, lookupEnv func(string) (string, bool)) *Loader {
	if lookupEnv == nil {
		lookupEnv = func(string) (string, bool) { return "", false }
	}
	return &Loader{
		projectDir:    projectDir,
		globalConfDir: globalConfDir,
		lookupEnv:     lookupEnv,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Precedence: default <- global <- project <- .env <- process environment.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	if l.globalConfDir != "" {
		global, err := l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		global.applyTo(cfg)
	}

	if l.projectDir != "" {
		project, err := l.loadFile(domain.ProjectConfigPath(l.projectDir))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		project.applyTo(cfg)
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}

	sort.Strings(cfg.Warnings)
	return cfg, nil
}

// LoadGlobal returns only the global configuration over the defaults.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	global, err := l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
	if err != nil {
		return nil, err
	}
	cfg := domain.NewDefaultConfig()
	global.applyTo(cfg)
	return cfg, nil
}

// loadFile parses one TOML file into a layer.
func (l *Loader) loadFile(path string) (*layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToLayer(raw), nil
}

// applyEnv overlays TASKFLOW_* variables. The process environment wins over .env.
func (l *Loader) applyEnv(cfg *domain.Config) error {
	fileEnv := map[string]string{}
	if l.projectDir != "" {
		m, err := godotenv.Read(filepath.Join(l.projectDir, envFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", envFileName, err)
		}
		if m != nil {
			fileEnv = m
		}
	}

	get := func(key string) string {
		if v, ok := l.lookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(fileEnv[key])
	}

	if v := get(EnvAPIURL); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := get(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// layer is one parsed config file. Nil fields were not set in the file.
type layer struct {
	baseURL         *string
	timeout         *time.Duration
	maxFailures     *uint32
	openTimeout     *time.Duration
	logLevel        *string
	refreshInterval *time.Duration
	theme           *domain.Theme
	warnings        []string
}

// applyTo overrides cfg with every field set in the layer.
func (ly *layer) applyTo(cfg *domain.Config) {
	if ly == nil {
		return
	}
	if ly.baseURL != nil {
		cfg.API.BaseURL = *ly.baseURL
	}
	if ly.timeout != nil {
		cfg.API.Timeout = *ly.timeout
	}
	if ly.maxFailures != nil {
		cfg.API.Breaker.MaxFailures = *ly.maxFailures
	}
	if ly.openTimeout != nil {
		cfg.API.Breaker.OpenTimeout = *ly.openTimeout
	}
	if ly.logLevel != nil {
		cfg.Log.Level = *ly.logLevel
	}
	if ly.refreshInterval != nil {
		cfg.Board.RefreshInterval = *ly.refreshInterval
	}
	if ly.theme != nil {
		cfg.UI.Theme = *ly.theme
	}
	cfg.Warnings = append(cfg.Warnings, ly.warnings...)
}

// convertRawToLayer converts the raw map to a layer and collects warnings.
func convertRawToLayer(raw map[string]any) *layer {
	res := &layer{}
	warn := func(format string, args ...any) {
		res.warnings = append(res.warnings, fmt.Sprintf(format, args...))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warn("unknown section: %s", section)
			continue
		}
		switch section {
		case "api":
			for k, v := range m {
				switch k {
				case "base_url":
					if s, ok := v.(string); ok {
						s = strings.TrimRight(strings.TrimSpace(s), "/")
						res.baseURL = &s
					}
				case "timeout":
					res.timeout = parseDuration(v, "api.timeout", warn)
				case "breaker":
					bm, ok := v.(map[string]any)
					if !ok {
						warn("invalid value for api.breaker")
						continue
					}
					for bk, bv := range bm {
						switch bk {
						case "max_failures":
							if n, ok := bv.(int64); ok && n >= 0 {
								u := uint32(n)
								res.maxFailures = &u
							} else {
								warn("invalid value for api.breaker.max_failures: %v", bv)
							}
						case "open_timeout":
							res.openTimeout = parseDuration(bv, "api.breaker.open_timeout", warn)
						default:
							warn("unknown key in [api.breaker]: %s", bk)
						}
					}
				default:
					warn("unknown key in [api]: %s", k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.logLevel = &s
					}
				default:
					warn("unknown key in [log]: %s", k)
				}
			}
		case "board":
			for k, v := range m {
				switch k {
				case "refresh_interval":
					res.refreshInterval = parseDuration(v, "board.refresh_interval", warn)
				default:
					warn("unknown key in [board]: %s", k)
				}
			}
		case "ui":
			for k, v := range m {
				switch k {
				case "theme":
					if s, ok := v.(string); ok {
						if t := domain.Theme(s); t.IsValid() {
							res.theme = &t
						} else {
							warn("invalid value for ui.theme: %s", s)
						}
					}
				default:
					warn("unknown key in [ui]: %s", k)
				}
			}
		default:
			warn("unknown section: %s", section)
		}
	}

	sort.Strings(res.warnings)
	return res
}

// parseDuration reads a Go duration string such as "10s".
func parseDuration(v any, key string, warn func(string, ...any)) *time.Duration {
	s, ok := v.(string)
	if !ok {
		warn("invalid value for %s: %v", key, v)
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		warn("invalid value for %s: %s", key, s)
		return nil
	}
	return &d
}
