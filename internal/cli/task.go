package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

// Output formats for list and show.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// loadCollection fetches the task list into a fresh collection.
func loadCollection(cmd *cobra.Command, c *app.Container) (*usecase.TaskCollection, error) {
	col := c.NewTaskCollection()
	if err := col.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return col, nil
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status   string
		Priority string
		Category string
		Query    string
		Format   string
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display tasks, newest first.

Filters combine with AND. --status and --priority accept "all".
--query matches title or description, case-insensitively.

Examples:
  # Everything
  taskflow list

  # Open bugs
  taskflow list --status todo --category "Bug Fix"

  # Search
  taskflow list -q deploy

  # Machine-readable
  taskflow list --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := domain.TaskFilter{
				Status:   domain.Status(opts.Status),
				Priority: domain.Priority(opts.Priority),
				Category: opts.Category,
				Query:    opts.Query,
			}
			if s := string(filter.Status); s != "" && s != domain.FilterAll && !filter.Status.IsValid() {
				return fmt.Errorf("%w: %s", domain.ErrInvalidStatus, s)
			}
			if p := string(filter.Priority); p != "" && p != domain.FilterAll && !filter.Priority.IsValid() {
				return fmt.Errorf("%w: %s", domain.ErrInvalidPriority, p)
			}

			col, err := loadCollection(cmd, c)
			if err != nil {
				return err
			}
			defer col.Close()

			tasks := col.Filter(filter)
			switch opts.Format {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), tasks)
			case formatYAML:
				return writeYAML(cmd.OutOrStdout(), tasks)
			case formatTable:
				printTaskList(cmd.OutOrStdout(), tasks, c.Clock.Now())
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d tasks (%s)\n", len(tasks), statusSummary(tasks))
				return nil
			default:
				return fmt.Errorf("unknown format %q (expected table, json or yaml)", opts.Format)
			}
		},
	}

	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Filter by status (todo, in_progress, done, all)")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Filter by priority (low, medium, high, urgent, all)")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Filter by category name")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Search title and description")
	cmd.Flags().StringVar(&opts.Format, "format", formatTable, "Output format: table, json, yaml")

	return cmd
}

// printTaskList prints tasks as an aligned table.
func printTaskList(w io.Writer, tasks []*domain.Task, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tCATEGORY\tDUE\tTITLE")

	for _, task := range tasks {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			task.Status,
			task.Priority,
			orDash(task.Category),
			formatDue(task, now),
			task.Title,
		)
	}
}

// formatDue renders the due date, flagging overdue tasks.
func formatDue(t *domain.Task, now time.Time) string {
	if !t.HasDueDate() {
		return "-"
	}
	s := t.DueDate.Format("2006-01-02")
	if t.IsOverdue(now) {
		s += " (overdue)"
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := loadCollection(cmd, c)
			if err != nil {
				return err
			}
			defer col.Close()

			task := col.Get(args[0])
			if task == nil {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, args[0])
			}

			switch format {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), task)
			case formatYAML:
				return writeYAML(cmd.OutOrStdout(), task)
			case formatTable:
				printTaskDetails(cmd.OutOrStdout(), task, c.Clock.Now())
				return nil
			default:
				return fmt.Errorf("unknown format %q (expected table, json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table, json, yaml")

	return cmd
}

// printTaskDetails prints one task.
func printTaskDetails(w io.Writer, t *domain.Task, now time.Time) {
	_, _ = fmt.Fprintf(w, "%s  %s\n\n", t.ID, t.Title)
	_, _ = fmt.Fprintf(w, "Status:    %s\n", t.Status.Display())
	_, _ = fmt.Fprintf(w, "Priority:  %s\n", t.Priority.Display())
	_, _ = fmt.Fprintf(w, "Category:  %s\n", orDash(t.Category))
	_, _ = fmt.Fprintf(w, "Due:       %s\n", formatDue(t, now))
	_, _ = fmt.Fprintf(w, "Created:   %s\n", t.CreatedAt.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Updated:   %s\n", t.UpdatedAt.Format(time.RFC3339))
	if t.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.Description)
	}
}

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Status      string
		Priority    string
		Category    string
		Due         string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a task. Status defaults to todo and priority to medium.

Examples:
  taskflow new --title "Write release notes"
  taskflow new --title "Fix login" --priority urgent --category "Bug Fix" --due 2026-02-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			due, err := domain.ParseDueDate(opts.Due)
			if err != nil {
				return err
			}
			col := c.NewTaskCollection()
			defer col.Close()

			task, err := col.Create(cmd.Context(), domain.TaskDraft{
				Title:       opts.Title,
				Description: opts.Description,
				Status:      domain.Status(opts.Status),
				Priority:    domain.Priority(opts.Priority),
				Category:    opts.Category,
				DueDate:     due,
			})
			if err != nil {
				return userError(err, "create failed")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Initial status (default todo)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority (default medium)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Category name")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Status      string
		Priority    string
		Category    string
		Due         string
		ClearDue    bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Change one or more fields of a task. Only the flags you pass are sent.
The change is saved on the server before it is shown.

Examples:
  taskflow edit 3f2a --title "New title"
  taskflow edit 3f2a --priority high --due 2026-03-01
  taskflow edit 3f2a --clear-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch domain.TaskPatch
			if flags.Changed("title") {
				patch.Title = &opts.Title
			}
			if flags.Changed("body") {
				patch.Description = &opts.Description
			}
			if flags.Changed("status") {
				st := domain.Status(opts.Status)
				patch.Status = &st
			}
			if flags.Changed("priority") {
				p := domain.Priority(opts.Priority)
				patch.Priority = &p
			}
			if flags.Changed("category") {
				patch.Category = &opts.Category
			}
			if flags.Changed("due") {
				due, err := domain.ParseDueDate(opts.Due)
				if err != nil {
					return err
				}
				if due == nil {
					patch.ClearDueDate = true
				}
				patch.DueDate = due
			}
			if opts.ClearDue {
				patch.ClearDueDate = true
				patch.DueDate = nil
			}

			col, err := loadCollection(cmd, c)
			if err != nil {
				return err
			}
			defer col.Close()

			task, err := col.Update(cmd.Context(), args[0], patch, usecase.UpdateConfirmed)
			if err != nil {
				return userError(err, "update failed")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().StringVar(&opts.Status, "status", "", "New status")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&opts.Category, "category", "", "New category name (empty clears)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date (YYYY-MM-DD, empty clears)")
	cmd.Flags().BoolVar(&opts.ClearDue, "clear-due", false, "Remove the due date")

	return cmd
}

// newCycleCommand creates the cycle command.
func newCycleCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <id>",
		Short: "Advance a task's status (todo → in_progress → done → todo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board := c.NewBoard()
			if err := board.Collection().Load(cmd.Context()); err != nil {
				return err
			}
			defer board.Collection().Close()

			task, err := board.Cycle(cmd.Context(), args[0])
			if err != nil {
				return userError(err, "cycle failed")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", task.ID, task.Status.Display())
			return nil
		},
	}
}

// newMoveCommand creates the move command.
func newMoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to a board column",
		Long: `Move a task to the todo, in_progress or done column.
Moving a task to the column it is already in does nothing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			column, err := domain.ParseStatus(args[1])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[1])
			}

			board := c.NewBoard()
			if err := board.Collection().Load(cmd.Context()); err != nil {
				return err
			}
			defer board.Collection().Close()

			if err := board.BeginDrag(args[0]); err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			outcome, task, err := board.Drop(cmd.Context(), column)
			if err != nil {
				return userError(err, "move failed")
			}

			w := cmd.OutOrStdout()
			switch outcome {
			case usecase.DropMoved:
				_, _ = fmt.Fprintf(w, "Moved task %s to %s\n", task.ID, task.Status.Display())
			case usecase.DropUnchanged:
				_, _ = fmt.Fprintf(w, "Task %s is already in %s\n", args[0], column.Display())
			default:
				_, _ = fmt.Fprintf(w, "Move %s\n", outcome)
			}
			return nil
		},
	}
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task. You are asked to confirm unless --yes is given.

Examples:
  taskflow rm 3f2a
  taskflow rm 3f2a --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := loadCollection(cmd, c)
			if err != nil {
				return err
			}
			defer col.Close()

			err = col.Remove(cmd.Context(), args[0], confirmer(cmd, yes))
			if errors.Is(err, domain.ErrNotConfirmed) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			if err != nil {
				return userError(err, "delete failed")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

// statusSummary returns "todo 3 · in_progress 2 · done 5" for a task list.
func statusSummary(tasks []*domain.Task) string {
	parts := make([]string, 0, len(domain.AllStatuses()))
	for _, st := range domain.AllStatuses() {
		n := 0
		for _, t := range tasks {
			if t.Status == st {
				n++
			}
		}
		parts = append(parts, fmt.Sprintf("%s %d", st, n))
	}
	return strings.Join(parts, " · ")
}
