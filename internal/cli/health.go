package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newHealthCommand creates the health command.
func newHealthCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.CheckHealthUseCase().Execute(cmd.Context(), usecase.CheckHealthInput{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is healthy (%s)\n", c.AppConfig.API.BaseURL, out.Latency.Round(time.Millisecond))
			return nil
		},
	}
}
