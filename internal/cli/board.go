package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/tui"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newBoardCommand creates the board command.
func newBoardCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "board",
		Aliases: []string{"tui"},
		Short:   "Open the kanban board",
		Long: `Open the interactive kanban board.

Tasks are shown in To Do, In Progress and Done columns. Pick a card up
with space, move it with h/l and drop it with enter. Press c to advance
a task's status, n to create, d to delete and ? for all keys.

This is also what 'taskflow' runs with no subcommand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchBoardFunc(cmd, c)
		},
	}
}

// launchBoard runs the board until the user quits.
func launchBoard(cmd *cobra.Command, c *app.Container) error {
	who, err := c.WhoAmIUseCase().Execute(cmd.Context(), usecase.WhoAmIInput{})
	if err != nil {
		return err
	}

	// A missing theme file is not worth failing over.
	theme, _ := c.Sessions.Theme()

	board := c.NewBoard()
	defer board.Collection().Close()

	model := tui.New(board, tui.Options{
		SetTheme:        c.SetThemeUseCase(),
		Theme:           theme,
		UserName:        who.Session.User.Name,
		RefreshInterval: c.AppConfig.Board.RefreshInterval,
	})
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err = p.Run()
	return err
}
