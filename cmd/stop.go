package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// stopCmd terminates both dev server sessions.
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the backend and frontend dev servers",
	Long: `Stop both dev server sessions and clean up any of our own server
processes that kept a port after their session died (a common leftover from
hot-reload child processes).

Safe to run when nothing is started; stopping an already-stopped environment
is a no-op.`,
	Args: cobra.NoArgs,
	RunE: runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	o, _, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return o.Stop(ctx)
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
