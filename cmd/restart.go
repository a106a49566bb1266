package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baseco/devstack/internal/config"
)

// restartCmd stops the environment and starts it again.
var restartCmd = &cobra.Command{
	Use:   "restart [role]",
	Short: "Restart the dev servers (optionally a single role)",
	Long: `Restart the environment: a full stop followed by a full start, in
that order. With a role argument (backend or frontend) only that server is
restarted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestart,
}

func runRestart(cmd *cobra.Command, args []string) error {
	o, _, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 1 {
		role := args[0]
		if role != config.RoleBackend && role != config.RoleFrontend {
			return fmt.Errorf("unknown role %q (expected %s or %s)", role, config.RoleBackend, config.RoleFrontend)
		}
		return o.RestartRole(ctx, role)
	}
	return o.Restart(ctx)
}

func init() {
	rootCmd.AddCommand(restartCmd)
}
