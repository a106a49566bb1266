package orchestrator

import (
	"context"
	"fmt"

	"github.com/baseco/devstack/internal/config"
	"github.com/baseco/devstack/internal/ports"
	"github.com/baseco/devstack/pkg/logging"
)

// reclaimPorts frees the configured ports for all roles before new sessions
// are launched. Only processes matching the role's known-server signature
// are terminated; everything else stays alive and yields an advisory.
//
// After the kill attempt each port is re-checked exactly once. A known
// server still bound at that point is fatal: launching a second instance
// behind it would only hide the problem.
func (o *Orchestrator) reclaimPorts(ctx context.Context) error {
	for _, role := range o.cfg.Roles {
		if err := o.reclaimPort(ctx, role); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) reclaimPort(ctx context.Context, role config.RoleDefinition) error {
	port := o.env.PortFor(role.Name)

	listener, err := o.inspector.ListenerOn(ctx, port)
	if err != nil {
		return fmt.Errorf("failed to inspect port %d: %w", port, err)
	}
	if listener == nil {
		return nil
	}

	if !ports.MatchesKnownServer(listener.Command, role.KnownProcesses) {
		if ports.LooksLikeBrowser(listener.Command) {
			o.advise("a browser (pid %d) is holding port %d; close the tab pointing at the %s server",
				listener.PID, port, role.Name)
		} else {
			o.advise("foreign process on port %d left untouched (pid %d: %s)",
				port, listener.PID, listener.Command)
		}
		return nil
	}

	logging.Info("Orchestrator", "Terminating previous %s server on port %d (pid %d: %s)",
		role.Name, port, listener.PID, listener.Command)
	if err := o.inspector.Terminate(listener.PID); err != nil {
		logging.Warn("Orchestrator", "Failed to terminate pid %d: %v", listener.PID, err)
	}

	// Single re-check; no retry loop. Signals are assumed to take effect.
	recheck, err := o.inspector.ListenerOn(ctx, port)
	if err != nil {
		return fmt.Errorf("failed to re-inspect port %d: %w", port, err)
	}
	if recheck == nil {
		return nil
	}

	if ports.MatchesKnownServer(recheck.Command, role.KnownProcesses) {
		return fmt.Errorf("%w: port %d still bound by pid %d: %s",
			ErrPortConflictOwn, port, recheck.PID, recheck.Command)
	}
	if ports.LooksLikeBrowser(recheck.Command) {
		o.advise("a browser (pid %d) is still holding port %d; close it before the %s server can bind",
			recheck.PID, port, role.Name)
	}
	return nil
}

// sweepPort applies the classify-and-kill logic once, without the fatal
// re-check; used by stop to clean up processes that outlived their session.
func (o *Orchestrator) sweepPort(ctx context.Context, role config.RoleDefinition) {
	port := o.env.PortFor(role.Name)

	listener, err := o.inspector.ListenerOn(ctx, port)
	if err != nil {
		logging.Warn("Orchestrator", "Failed to inspect port %d during stop: %v", port, err)
		return
	}
	if listener == nil {
		return
	}

	if !ports.MatchesKnownServer(listener.Command, role.KnownProcesses) {
		logging.Debug("Orchestrator", "Leaving foreign process on port %d alone (pid %d)", port, listener.PID)
		return
	}

	logging.Info("Orchestrator", "Cleaning up leftover %s server on port %d (pid %d)", role.Name, port, listener.PID)
	if err := o.inspector.Terminate(listener.PID); err != nil {
		logging.Warn("Orchestrator", "Failed to terminate pid %d: %v", listener.PID, err)
	}
}
