package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/domain"
)

// confirmer returns the yes/no gate for a destructive command.
// --yes skips the prompt; otherwise a y/N question is read from stdin.
func confirmer(cmd *cobra.Command, yes bool) domain.Confirmer {
	if yes {
		return domain.AlwaysConfirm
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	return domain.ConfirmFunc(func(question string) (bool, error) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
		answer, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}
