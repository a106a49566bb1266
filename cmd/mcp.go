package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/baseco/devstack/internal/mcpserver"
	"github.com/baseco/devstack/pkg/logging"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the dev environment over the Model Context Protocol",
	Long: `Run a Model Context Protocol server on stdin/stdout that exposes the
dev environment operations as tools (env_start, env_stop, env_restart,
env_status, logs_tail), so an AI assistant can manage the servers directly.

The process stays in the foreground until the client closes the stream.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	// Stdout carries the protocol stream; logs must stay on stderr only.
	logging.InitForCLI(logging.LevelWarn, os.Stderr)

	o, cfg, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	o.StartHealthMonitors(ctx)

	srv := mcpserver.New(o, cfg, rootCmd.Version)
	return srv.ServeStdio()
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
