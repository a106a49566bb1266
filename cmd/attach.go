package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/baseco/devstack/internal/config"
	"github.com/baseco/devstack/pkg/logging"
)

var attachCmd = &cobra.Command{
	Use:   "attach <role>",
	Short: "Print the tmux attach command for a dev server session",
	Long: `Print the tmux command that attaches to the given role's session
(backend or frontend). The command is also copied to the clipboard when one
is available, so it can be pasted straight into another terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runAttach,
}

func runAttach(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	role, ok := cfg.Role(args[0])
	if !ok {
		return fmt.Errorf("unknown role %q (expected %s or %s)", args[0], config.RoleBackend, config.RoleFrontend)
	}

	attach := fmt.Sprintf("tmux attach -t %s", role.SessionName(cfg.Settings.SessionPrefix))
	fmt.Fprintln(cmd.OutOrStdout(), attach)

	if err := clipboard.WriteAll(attach); err != nil {
		// Headless environments have no clipboard; the printed command
		// is still usable.
		logging.Debug("CLI", "Clipboard not available: %v", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
