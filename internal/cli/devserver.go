package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
)

const shutdownTimeout = 5 * time.Second

// newDevServerCommand creates the devserver command.
func newDevServerCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Addr string
		Seed bool
	}

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory TaskFlow API",
		Long: `Run an in-memory TaskFlow API for local development.
Data is lost when the server stops.

With --seed, demo users, categories and tasks are loaded at startup.
Seeded accounts use the password "demo123".

Examples:
  taskflow devserver --seed
  TASKFLOW_API_URL=http://127.0.0.1:8001 taskflow list`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := c.NewDevServer()
			if opts.Seed {
				res, err := srv.Seed()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seed: %s (%d users, %d categories, %d tasks)\n",
					res.Message, res.Users, res.Categories, res.Tasks)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", opts.Addr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			httpSrv := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving TaskFlow API on http://%s/api\n", ln.Addr())

			errCh := make(chan error, 1)
			go func() { errCh <- httpSrv.Serve(ln) }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			c.Logger.Info("shutting down dev server")
			return httpSrv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:8001", "Listen address")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "Load demo data at startup")

	return cmd
}
