package orchestrator

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/baseco/devstack/internal/config"
	"github.com/baseco/devstack/internal/ports"
	"github.com/baseco/devstack/internal/services"
	"github.com/baseco/devstack/internal/services/devserver"
	"github.com/baseco/devstack/internal/session"
	"github.com/baseco/devstack/pkg/logging"
)

// Orchestrator drives the lifecycle of the two dev server roles. It is a
// sequential, single-operator tool: operations run step by step, and the
// only shared resources (the two TCP ports and the log directory) are
// accessed by inspection rather than locking.
type Orchestrator struct {
	cfg config.DevstackConfig
	env config.Environment

	sessions  session.Registry
	inspector ports.Inspector
	registry  services.ServiceRegistry

	// httpClient is used for the inference runtime advisory probe.
	httpClient *http.Client

	mu         sync.Mutex
	advisories []string
}

// New wires an orchestrator from its collaborators and registers one dev
// server service per configured role.
func New(cfg config.DevstackConfig, env config.Environment, sessions session.Registry, inspector ports.Inspector) (*Orchestrator, error) {
	o := &Orchestrator{
		cfg:        cfg,
		env:        env,
		sessions:   sessions,
		inspector:  inspector,
		registry:   services.NewRegistry(),
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}

	for _, role := range cfg.Roles {
		svc := devserver.New(role, cfg.Settings, env, sessions)
		if err := o.registry.Register(svc); err != nil {
			return nil, fmt.Errorf("failed to register service %s: %w", role.Name, err)
		}
	}

	return o, nil
}

// Registry exposes the service registry for status consumers (TUI, MCP).
func (o *Orchestrator) Registry() services.ServiceRegistry {
	return o.registry
}

// Advisories returns the non-fatal warnings collected during the last
// operation (foreign processes on wanted ports, browsers to close, missing
// inference runtime).
func (o *Orchestrator) Advisories() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.advisories))
	copy(out, o.advisories)
	return out
}

func (o *Orchestrator) advise(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	o.mu.Lock()
	o.advisories = append(o.advisories, msg)
	o.mu.Unlock()
	logging.Warn("Orchestrator", "%s", msg)
}

func (o *Orchestrator) resetAdvisories() {
	o.mu.Lock()
	o.advisories = nil
	o.mu.Unlock()
}

// Start brings the environment up:
//
//  1. Preflight: tooling present, prerequisites installed, log directory
//     created. Fatal failures abort before anything is mutated.
//  2. Reap stale sessions left over from a previous run.
//  3. Reclaim the configured ports, terminating only processes that match
//     the role's known-server signature.
//  4. Advisory probe of the local inference runtime.
//  5. Start the backend, then the frontend.
//
// The method is idempotent: running it against an already-started
// environment reaps and relaunches the sessions.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.resetAdvisories()

	if err := o.preflight(); err != nil {
		return err
	}

	if err := o.reapSessions(ctx); err != nil {
		return err
	}

	if err := o.reclaimPorts(ctx); err != nil {
		return err
	}

	o.checkInferenceRuntime(ctx)

	// Backend first: the frontend's proxy layer targets its port.
	for _, role := range []string{config.RoleBackend, config.RoleFrontend} {
		svc, ok := o.registry.Get(role)
		if !ok {
			continue
		}
		if err := svc.Start(ctx); err != nil {
			return fmt.Errorf("failed to start %s: %w", role, err)
		}
	}

	o.reportStarted()
	return nil
}

// Stop terminates both sessions and re-applies the classify-and-kill logic
// to any known server process still bound to the ports. Safe to call when
// nothing is running.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.resetAdvisories()

	// Reverse start order.
	for _, role := range []string{config.RoleFrontend, config.RoleBackend} {
		svc, ok := o.registry.Get(role)
		if !ok {
			continue
		}
		if err := svc.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop %s: %w", role, err)
		}
	}

	// Sessions are gone; sweep leftovers that detached from them (e.g. a
	// reloader child that survived its parent).
	for _, role := range o.cfg.Roles {
		o.sweepPort(ctx, role)
	}

	logging.Info("Orchestrator", "Environment stopped")
	return nil
}

// Restart is stop-then-start, strictly sequential: start never begins while
// stop is still reaping processes.
func (o *Orchestrator) Restart(ctx context.Context) error {
	if err := o.Stop(ctx); err != nil {
		return err
	}
	return o.Start(ctx)
}

// RestartRole restarts a single role's service.
func (o *Orchestrator) RestartRole(ctx context.Context, role string) error {
	svc, ok := o.registry.Get(role)
	if !ok {
		return fmt.Errorf("unknown role %s", role)
	}
	return svc.Restart(ctx)
}

// checkInferenceRuntime probes the sibling inference service (Ollama) and
// emits an advisory when it does not answer. Never fatal: the backend runs
// fine without it, it just has no models to talk to.
func (o *Orchestrator) checkInferenceRuntime(ctx context.Context) {
	if !o.cfg.Settings.InferenceCheckEnabled() {
		return
	}

	url := o.env.OllamaBaseURL + "/api/version"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		o.advise("inference runtime not reachable at %s; start Ollama if the backend needs models", o.env.OllamaBaseURL)
		return
	}
	defer resp.Body.Close()

	logging.Debug("Orchestrator", "Inference runtime answered at %s (HTTP %d)", url, resp.StatusCode)
}

func (o *Orchestrator) reportStarted() {
	for _, role := range o.cfg.Roles {
		svc, ok := o.registry.Get(role.Name)
		if !ok {
			continue
		}
		ds, ok := svc.(*devserver.DevServerService)
		if !ok {
			continue
		}
		logging.Info("Orchestrator", "%s listening on %s (attach: tmux attach -t %s, logs: %s)",
			role.Name, ds.URL(), ds.SessionName(), ds.LogPath())
	}
}
