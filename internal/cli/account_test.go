package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/testutil"
)

func testSession() *domain.Session {
	return &domain.Session{
		User:  domain.User{ID: "u1", Name: "Alex Popescu", Email: "alex@taskflow.io", Role: "admin", Avatar: "AP"},
		Token: "token_u1",
	}
}

func TestLoginCommand_PasswordFromStdin(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.Session = testSession()
	c, sessions := newTestContainer(gw)

	out, err := execute(t, newLoginCommand(c), "demo123\n", "--email", "alex@taskflow.io")

	require.NoError(t, err)
	assert.Equal(t, "Logged in as Alex Popescu <alex@taskflow.io>\n", out)
	assert.Equal(t, "token_u1", sessions.Session.Token)
}

func TestLoginCommand_ServerRejects(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.AuthErr = &domain.AuthError{Detail: "invalid email or password"}
	c, sessions := newTestContainer(gw)

	_, err := execute(t, newLoginCommand(c), "", "--email", "alex@taskflow.io", "--password", "nope")

	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error(), "already the server's wording")
	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.Nil(t, sessions.Session)
}

func TestRegisterCommand(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.Session = testSession()
	c, _ := newTestContainer(gw)

	out, err := execute(t, newRegisterCommand(c), "",
		"--name", "Alex Popescu", "--email", "alex@taskflow.io", "--password", "secret1")

	require.NoError(t, err)
	assert.Contains(t, out, "Registered and logged in as Alex Popescu")
}

func TestWhoAmICommand(t *testing.T) {
	c, sessions := newTestContainer(testutil.NewMockGateway())
	sessions.Session = testSession()

	out, err := execute(t, newWhoAmICommand(c), "")

	require.NoError(t, err)
	assert.Equal(t, "[AP] Alex Popescu <alex@taskflow.io>\nRole: admin\n", out)
}

func TestWhoAmICommand_NotLoggedIn(t *testing.T) {
	c, _ := newTestContainer(testutil.NewMockGateway())

	_, err := execute(t, newWhoAmICommand(c), "")

	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestLogoutCommand(t *testing.T) {
	c, sessions := newTestContainer(testutil.NewMockGateway())
	sessions.Session = testSession()

	out, err := execute(t, newLogoutCommand(c), "")
	require.NoError(t, err)
	assert.Equal(t, "Logged out\n", out)
	assert.Nil(t, sessions.Session)

	out, err = execute(t, newLogoutCommand(c), "")
	require.NoError(t, err)
	assert.Equal(t, "Not logged in\n", out)
}

func TestThemeCommand(t *testing.T) {
	c, sessions := newTestContainer(testutil.NewMockGateway())

	out, err := execute(t, newThemeCommand(c), "")
	require.NoError(t, err)
	assert.Equal(t, "Theme: light\n", out)

	out, err = execute(t, newThemeCommand(c), "", "DARK")
	require.NoError(t, err)
	assert.Equal(t, "Theme: dark\n", out)
	assert.Equal(t, domain.ThemeDark, sessions.ThemeVal)
}

func TestThemeCommand_Invalid(t *testing.T) {
	c, _ := newTestContainer(testutil.NewMockGateway())

	_, err := execute(t, newThemeCommand(c), "", "solarized")

	assert.ErrorIs(t, err, domain.ErrValidation)
}
