package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/baseco/devstack/pkg/logging"
)

// For mocking in tests
var osStat = os.Stat

// preflight verifies every fatal precondition before anything is mutated:
// the terminal multiplexer must be usable, each role's prerequisite
// directory must exist, and the log directory must be creatable.
func (o *Orchestrator) preflight() error {
	if err := o.sessions.Available(); err != nil {
		return fmt.Errorf("%w: %v", ErrToolingUnavailable, err)
	}

	for _, role := range o.cfg.Roles {
		if role.PrereqDir == "" {
			continue
		}
		if info, err := osStat(role.PrereqDir); err != nil || !info.IsDir() {
			hint := role.PrereqHint
			if hint == "" {
				hint = "install the " + role.Name + " dependencies"
			}
			return fmt.Errorf("%w: %s requires %s (%s)", ErrPreconditionMissing, role.Name, role.PrereqDir, hint)
		}
	}

	if err := os.MkdirAll(o.cfg.Settings.LogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", o.cfg.Settings.LogDir, err)
	}

	logging.Debug("Orchestrator", "Preflight passed (env source: %s)", envSourceLabel(o.env.Source))
	return nil
}

func envSourceLabel(source string) string {
	if source == "" {
		return "built-in defaults"
	}
	return source
}

// reapSessions terminates any session with a reserved role name left behind
// by a previous run. At most one session per role may exist under this
// tool's management.
func (o *Orchestrator) reapSessions(ctx context.Context) error {
	for _, role := range o.cfg.Roles {
		name := role.SessionName(o.cfg.Settings.SessionPrefix)
		if !o.sessions.Exists(ctx, name) {
			continue
		}
		logging.Info("Orchestrator", "Reaping stale session %s", name)
		if err := o.sessions.Terminate(ctx, name); err != nil {
			return fmt.Errorf("failed to reap stale session %s: %w", name, err)
		}
	}
	return nil
}
