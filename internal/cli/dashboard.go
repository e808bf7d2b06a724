package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

const barWidth = 30

// newDashboardCommand creates the dashboard command.
func newDashboardCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"stats"},
		Short:   "Show task statistics",
		Long: `Show counts by status, priority and category as computed by the server,
plus the most recent tasks.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowDashboardUseCase().Execute(cmd.Context(), usecase.ShowDashboardInput{})
			if err != nil {
				return err
			}
			switch format {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), out.Stats)
			case formatYAML:
				return writeYAML(cmd.OutOrStdout(), out.Stats)
			}
			printDashboard(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table, json, yaml")

	return cmd
}

func printDashboard(w io.Writer, out *usecase.ShowDashboardOutput) {
	s := out.Stats
	_, _ = fmt.Fprintf(w, "Total %d · To Do %d · In Progress %d · Done %d · Overdue %d\n",
		s.Total, s.Todo, s.InProgress, s.Done, s.Overdue)
	_, _ = fmt.Fprintf(w, "Completion  %s %d%%\n\n", bar(out.Completion, 100), out.Completion)

	_, _ = fmt.Fprintln(w, "By status")
	for _, st := range domain.AllStatuses() {
		n := s.StatusCount(st)
		_, _ = fmt.Fprintf(w, "  %-12s %s %d\n", st.Display(), bar(n, s.Total), n)
	}

	_, _ = fmt.Fprintln(w, "By priority")
	for _, p := range domain.AllPriorities() {
		n := s.PriorityCount(p)
		_, _ = fmt.Fprintf(w, "  %-12s %s %d\n", p.Display(), bar(n, s.Total), n)
	}

	if len(s.CategoryBreakdown) > 0 {
		_, _ = fmt.Fprintln(w, "By category")
		for _, cc := range s.CategoryBreakdown {
			_, _ = fmt.Fprintf(w, "  %-12s %s %d\n", cc.Name, bar(cc.Count, s.Total), cc.Count)
		}
	}

	if len(s.RecentTasks) > 0 {
		_, _ = fmt.Fprintln(w, "\nRecent")
		for _, t := range s.RecentTasks {
			_, _ = fmt.Fprintf(w, "  %-11s %-8s %s\n", t.Status, t.Priority, t.Title)
		}
	}
}

// bar renders n/total as a fixed-width bar.
func bar(n, total int) string {
	filled := 0
	if total > 0 {
		filled = min(barWidth, n*barWidth/total)
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
