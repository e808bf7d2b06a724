package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newCategoryCommand creates the category command.
func newCategoryCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
		Long: `Manage task categories. Tasks refer to categories by name, so
deleting a category leaves existing tasks untouched.`,
	}

	cmd.AddCommand(newCategoryListCommand(c))
	cmd.AddCommand(newCategoryNewCommand(c))
	cmd.AddCommand(newCategoryRmCommand(c))

	return cmd
}

func newCategoryListCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListCategoriesUseCase().Execute(cmd.Context(), usecase.ListCategoriesInput{})
			if err != nil {
				return err
			}
			switch format {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), out.Categories)
			case formatYAML:
				return writeYAML(cmd.OutOrStdout(), out.Categories)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tCOLOR\tNAME")
			for _, cat := range out.Categories {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", cat.ID, cat.Color, cat.Name)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table, json, yaml")

	return cmd
}

func newCategoryNewCommand(c *app.Container) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a category",
		Long: fmt.Sprintf(`Create a category. --color takes #RRGGBB and defaults to %s.

Examples:
  taskflow category new Research
  taskflow category new Ops --color "#34D399"`, domain.DefaultCategoryColor),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.CreateCategoryUseCase().Execute(cmd.Context(), usecase.CreateCategoryInput{
				Name:  args[0],
				Color: color,
			})
			if err != nil {
				return userError(err, "create category failed")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created category %s (%s)\n", out.Category.Name, out.Category.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Color as #RRGGBB")

	return cmd
}

func newCategoryRmCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.DeleteCategoryUseCase().Execute(cmd.Context(), usecase.DeleteCategoryInput{
				ID:      args[0],
				Confirm: confirmer(cmd, yes),
			})
			if errors.Is(err, domain.ErrNotConfirmed) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			if err != nil {
				return userError(err, "delete category failed")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}
