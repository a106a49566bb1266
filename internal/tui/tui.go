package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/baseco/devstack/internal/orchestrator"
	"github.com/baseco/devstack/pkg/logging"
)

// Run opens the interactive status view and blocks until the user quits or
// the context is cancelled.
//
// While the view owns the terminal, log output is rerouted through the
// logging package's TUI channel and rendered inside the view; printing slog
// lines to stderr would corrupt the alt screen. CLI logging is restored on
// exit.
func Run(ctx context.Context, orch *orchestrator.Orchestrator) error {
	logCh := logging.InitForTUI(logging.LevelInfo)
	defer func() {
		logging.CloseTUIChannel()
		logging.InitForCLI(logging.LevelInfo, os.Stderr)
	}()

	orch.StartHealthMonitors(ctx)

	p := tea.NewProgram(newModel(ctx, orch, logCh), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("status view failed: %w", err)
	}
	return nil
}
