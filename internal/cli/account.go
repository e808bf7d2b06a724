package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newLoginCommand creates the login command.
func newLoginCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Email    string
		Password string
	}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the TaskFlow server",
		Long: `Sign in with email and password. The session is stored in the state
directory and reused by later commands until 'taskflow logout'.

If --password is omitted it is read from the first line of stdin.

Examples:
  taskflow login --email alex@taskflow.io --password demo123
  echo demo123 | taskflow login --email alex@taskflow.io`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := passwordOrStdin(cmd, opts.Password)
			if err != nil {
				return err
			}
			out, err := c.LoginUseCase().Execute(cmd.Context(), usecase.LoginInput{
				Email:    opts.Email,
				Password: password,
			})
			if err != nil {
				return userError(err, "login failed")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", out.Session.User.Name, out.Session.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// newRegisterCommand creates the register command.
func newRegisterCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name     string
		Email    string
		Password string
	}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Long: `Create an account on the TaskFlow server and sign in with it.
Passwords must be at least 6 characters.

Examples:
  taskflow register --name "Maria Ionescu" --email maria@example.com --password secret1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := passwordOrStdin(cmd, opts.Password)
			if err != nil {
				return err
			}
			out, err := c.RegisterUseCase().Execute(cmd.Context(), usecase.RegisterInput{
				Name:     opts.Name,
				Email:    opts.Email,
				Password: password,
			})
			if err != nil {
				return userError(err, "registration failed")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s <%s>\n", out.Session.User.Name, out.Session.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// newLogoutCommand creates the logout command.
func newLogoutCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.LogoutUseCase().Execute(cmd.Context(), usecase.LogoutInput{})
			if err != nil {
				return err
			}
			if out.WasLoggedIn {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			}
			return nil
		},
	}
}

// newWhoAmICommand creates the whoami command.
func newWhoAmICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.WhoAmIUseCase().Execute(cmd.Context(), usecase.WhoAmIInput{})
			if err != nil {
				return err
			}
			u := out.Session.User
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "[%s] %s <%s>\n", u.Avatar, u.Name, u.Email)
			_, _ = fmt.Fprintf(w, "Role: %s\n", u.Role)
			return nil
		},
	}
}

// newThemeCommand creates the theme command.
func newThemeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [dark|light]",
		Short: "Set or toggle the UI theme",
		Long: `Set the board theme. Without an argument the theme toggles
between dark and light. The theme survives logout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in usecase.SetThemeInput
			if len(args) == 1 {
				in.Theme = domain.Theme(strings.ToLower(args[0]))
			}
			out, err := c.SetThemeUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", out.Theme)
			return nil
		},
	}
}

// passwordOrStdin returns flag, or the first line of stdin when flag is empty.
func passwordOrStdin(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// userError replaces err with the server's detail message when there is one.
// The original error stays in the chain.
func userError(err error, fallback string) error {
	msg := domain.UserMessage(err, "")
	if msg == "" || msg == err.Error() {
		return err
	}
	return fmt.Errorf("%s: %w", fallback, &detailError{msg: msg, err: err})
}

type detailError struct {
	err error
	msg string
}

func (e *detailError) Error() string { return e.msg }
func (e *detailError) Unwrap() error { return e.err }
