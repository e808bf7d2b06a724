package domain

import (
	"strings"
	"testing"
)

func TestGlobalConfigPath(t *testing.T) {
	got := GlobalConfigPath("/home/user/.config")
	want := "/home/user/.config/taskflow/config.toml"
	if got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestProjectConfigPath(t *testing.T) {
	got := ProjectConfigPath("/work")
	want := "/work/.taskflow.toml"
	if got != want {
		t.Errorf("ProjectConfigPath() = %q, want %q", got, want)
	}
}

func TestStatePaths(t *testing.T) {
	dir := StateDir("/home/user/.local/state")
	if dir != "/home/user/.local/state/taskflow" {
		t.Errorf("StateDir() = %q", dir)
	}
	if got := SessionPath(dir); got != dir+"/session.json" {
		t.Errorf("SessionPath() = %q", got)
	}
	if got := TaskLogPath(dir, "t1"); got != dir+"/logs/task-t1.log" {
		t.Errorf("TaskLogPath() = %q", got)
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.API.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.API.Timeout, DefaultTimeout)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.UI.Theme != ThemeDark {
		t.Errorf("UI.Theme = %q, want dark", cfg.UI.Theme)
	}
}

func TestRenderConfigTemplate(t *testing.T) {
	out := RenderConfigTemplate(NewDefaultConfig())
	for _, want := range []string{
		`base_url = "http://localhost:8001"`,
		`timeout = "10s"`,
		`max_failures = 5`,
		`level = "info"`,
		`theme = "dark"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("template missing %q", want)
		}
	}
}
