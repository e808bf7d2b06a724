// Package cli provides the command-line interface for taskflow.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
)

// Command group IDs.
const (
	groupAccount = "account"
	groupTask    = "task"
	groupSetup   = "setup"
)

// launchBoardFunc is a function variable for launching the board TUI, allowing it to be mocked in tests.
var launchBoardFunc = launchBoard

// NewRootCommand creates the root command for taskflow.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Task management client for the TaskFlow API",
		Long: `taskflow manages tasks, categories and your account on a TaskFlow server.

Run without arguments to open the kanban board.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchBoardFunc(cmd, c)
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupAccount, Title: "Account:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	// Account commands
	loginCmd := newLoginCommand(c)
	loginCmd.GroupID = groupAccount

	registerCmd := newRegisterCommand(c)
	registerCmd.GroupID = groupAccount

	logoutCmd := newLogoutCommand(c)
	logoutCmd.GroupID = groupAccount

	whoamiCmd := newWhoAmICommand(c)
	whoamiCmd.GroupID = groupAccount

	themeCmd := newThemeCommand(c)
	themeCmd.GroupID = groupAccount

	// Task management commands
	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTask

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupTask

	cycleCmd := newCycleCommand(c)
	cycleCmd.GroupID = groupTask

	moveCmd := newMoveCommand(c)
	moveCmd.GroupID = groupTask

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTask

	categoryCmd := newCategoryCommand(c)
	categoryCmd.GroupID = groupTask

	dashboardCmd := newDashboardCommand(c)
	dashboardCmd.GroupID = groupTask

	boardCmd := newBoardCommand(c)
	boardCmd.GroupID = groupTask

	// Setup commands
	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	healthCmd := newHealthCommand(c)
	healthCmd.GroupID = groupSetup

	devserverCmd := newDevServerCommand(c)
	devserverCmd.GroupID = groupSetup

	root.AddCommand(
		loginCmd,
		registerCmd,
		logoutCmd,
		whoamiCmd,
		themeCmd,
		listCmd,
		showCmd,
		newCmd,
		editCmd,
		cycleCmd,
		moveCmd,
		rmCmd,
		categoryCmd,
		dashboardCmd,
		boardCmd,
		configCmd,
		healthCmd,
		devserverCmd,
	)

	return root
}
