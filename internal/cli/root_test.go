package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/testutil"
)

// newTestContainer creates an app.Container over an in-memory gateway.
func newTestContainer(gw *testutil.MockGateway) (*app.Container, *testutil.MockSessionStore) {
	sessions := &testutil.MockSessionStore{}
	c := app.NewWithDeps(app.Config{}, app.Deps{
		Gateway:       gw,
		Sessions:      sessions,
		ConfigManager: testutil.NewMockConfigManager(),
		Clock:         &testutil.MockClock{NowTime: testNow},
	})
	return c, sessions
}

// execute runs cmd with args and returns what it printed.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mockLaunchBoard(t *testing.T) *bool {
	t.Helper()
	original := launchBoardFunc
	t.Cleanup(func() { launchBoardFunc = original })

	called := false
	launchBoardFunc = func(_ *cobra.Command, _ *app.Container) error {
		called = true
		return nil
	}
	return &called
}

func TestNewRootCommand_NoArgs_LaunchesBoard(t *testing.T) {
	called := mockLaunchBoard(t)

	_, err := execute(t, NewRootCommand(nil, "test-version"), "")

	assert.NoError(t, err)
	assert.True(t, *called, "launchBoardFunc should be called when no arguments are provided")
}

func TestNewRootCommand_BoardSubcommand(t *testing.T) {
	called := mockLaunchBoard(t)
	c, _ := newTestContainer(testutil.NewMockGateway())

	_, err := execute(t, NewRootCommand(c, "test-version"), "", "board")

	assert.NoError(t, err)
	assert.True(t, *called)
}

func TestNewRootCommand_WithHelp_ShowsHelp(t *testing.T) {
	called := mockLaunchBoard(t)

	out, err := execute(t, NewRootCommand(nil, "test-version"), "", "--help")

	assert.NoError(t, err)
	assert.False(t, *called, "launchBoardFunc should NOT be called when --help is provided")
	assert.Contains(t, out, "Task Management:")
	assert.Contains(t, out, "Account:")
}

func TestNewRootCommand_Version(t *testing.T) {
	out, err := execute(t, NewRootCommand(nil, "1.2.3"), "", "--version")

	assert.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	mockLaunchBoard(t)
	c, _ := newTestContainer(testutil.NewMockGateway())
	c.AppConfig.Warnings = []string{"unknown key api.colour"}

	out, err := execute(t, NewRootCommand(c, "test"), "")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: unknown key api.colour")
}

func TestLaunchBoard_RequiresLogin(t *testing.T) {
	c, _ := newTestContainer(testutil.NewMockGateway())
	cmd := newBoardCommand(c)

	_, err := execute(t, cmd, "")

	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}
