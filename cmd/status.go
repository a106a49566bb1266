package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baseco/devstack/internal/tui"
)

// statusWatch switches status into the interactive TUI that refreshes
// continuously instead of printing a one-shot snapshot.
var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the dev servers",
	Long: `Show a snapshot of both dev servers: session presence, port, health,
and whatever process currently holds the port.

With --watch an interactive view is opened that refreshes the snapshot
periodically. Press q to quit, r to restart the selected role, s to stop the
environment.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	o, _, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if statusWatch {
		return tui.Run(ctx, o)
	}

	for _, st := range o.Status(ctx) {
		session := "not running"
		if st.SessionExists {
			session = st.Session
		}
		fmt.Printf("%-10s %-22s %-10s health=%s url=%s\n",
			st.Role, session, st.State, st.Health, st.URL)
		if st.ListenerPID != 0 {
			fmt.Printf("%-10s port %d held by pid %d: %s\n", "", st.Port, st.ListenerPID, st.ListenerCommand)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Continuously refresh in an interactive view")
}
