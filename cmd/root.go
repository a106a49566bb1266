package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/baseco/devstack/internal/config"
	"github.com/baseco/devstack/internal/orchestrator"
	"github.com/baseco/devstack/internal/ports"
	"github.com/baseco/devstack/internal/session"
	"github.com/baseco/devstack/pkg/logging"
)

// Exit codes. Preconditions and missing tooling share code 1; a port still
// held by one of our own servers after a kill attempt gets its own code so
// scripts can tell the two apart.
const (
	exitCodeFailure      = 1
	exitCodePortConflict = 2
)

// rootDebug enables debug logging across all commands.
var rootDebug bool

// rootCmd represents the base command when called without any subcommands.
// Running devstack with no arguments starts the environment, so `devstack`
// alone behaves like `devstack up`.
var rootCmd = &cobra.Command{
	Use:   "devstack",
	Short: "Start and manage the local backend and frontend dev servers",
	Long: `devstack manages the local development environment: a Python backend
server and a Node frontend dev server, each running in its own named tmux
session with output captured to a log file.

Running devstack with no subcommand is the same as 'devstack up'.`,
	// SilenceUsage prevents printing the usage block on runtime errors
	// (port conflicts, missing prerequisites); usage is only helpful for
	// actual CLI misuse.
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUp(cmd, args)
	},
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and maps the orchestrator's error taxonomy
// to exit codes. Called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "devstack version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the error; we just pick the code.
		if errors.Is(err, orchestrator.ErrPortConflictOwn) {
			os.Exit(exitCodePortConflict)
		}
		os.Exit(exitCodeFailure)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := logging.LevelInfo
		if rootDebug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, os.Stderr)
	}
}

// buildOrchestrator wires the real collaborators: layered YAML config,
// dotenv environment, the tmux session registry, and the lsof port
// inspector.
func buildOrchestrator() (*orchestrator.Orchestrator, config.DevstackConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, config.DevstackConfig{}, err
	}
	env, err := config.LoadEnvironment()
	if err != nil {
		return nil, config.DevstackConfig{}, err
	}
	o, err := orchestrator.New(cfg, env, session.NewTmuxRegistry(), ports.NewLsofInspector())
	return o, cfg, err
}
