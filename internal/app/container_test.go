package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/testutil"
)

func TestNewWithDeps_Defaults(t *testing.T) {
	gw := testutil.NewMockGateway()

	c := NewWithDeps(Config{ProjectDir: "/work"}, Deps{Gateway: gw})

	assert.Equal(t, domain.NewDefaultConfig(), c.AppConfig)
	assert.NotNil(t, c.Clock)
	assert.NotNil(t, c.EventLog)
	assert.NotNil(t, c.Logger)
	assert.NoError(t, c.Close())
	assert.NotNil(t, c.NewBoard().Collection())
}

func TestNew_WiresConfigAndState(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("TASKFLOW_API_URL", "")
	t.Setenv("TASKFLOW_LOG_LEVEL", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".taskflow.toml"),
		[]byte("[api]\nbase_url = \"http://tasks.internal:9000\"\n"), 0o644))

	c, err := New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, "http://tasks.internal:9000", c.AppConfig.API.BaseURL)
	assert.Equal(t, filepath.Join(dir, "state", domain.AppDirName), c.Config.StateDir)
	assert.Equal(t, domain.SessionPath(c.Config.StateDir), c.Config.SessionPath)
	assert.True(t, c.ConfigManager.ProjectConfigInfo().Exists)
}

func TestNew_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".taskflow.toml"), []byte("[api\n"), 0o644))

	_, err := New(dir)

	assert.Error(t, err)
}
