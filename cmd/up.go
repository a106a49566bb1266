package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// upCmd starts (or restarts into a clean state) the dev environment.
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the backend and frontend dev servers",
	Long: `Start the backend and frontend dev servers in detached tmux sessions.

The command is idempotent: stale sessions from a previous run are reaped and
the configured ports are reclaimed before the servers are launched. Processes
on the ports that do not look like our own servers (browsers, unrelated
services) are never killed; they only produce a warning.`,
	Args: cobra.NoArgs,
	RunE: runUp,
}

func runUp(cmd *cobra.Command, args []string) error {
	o, _, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return o.Start(ctx)
}

func init() {
	rootCmd.AddCommand(upCmd)
}
