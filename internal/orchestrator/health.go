package orchestrator

import (
	"context"
	"time"

	"github.com/baseco/devstack/internal/services"
	"github.com/baseco/devstack/pkg/logging"
)

const healthCheckTimeout = 5 * time.Second

// StartHealthMonitors spawns one goroutine per registered service that
// implements HealthChecker, each checking at the service's own interval.
// Used by the long-lived surfaces (status watch, MCP serving) so state and
// health stay fresh between snapshots; one-shot commands never need it.
// The goroutines exit when ctx is cancelled.
func (o *Orchestrator) StartHealthMonitors(ctx context.Context) {
	for _, svc := range o.registry.GetAll() {
		checker, ok := svc.(services.HealthChecker)
		if !ok {
			logging.Debug("Orchestrator", "Service %s does not implement HealthChecker", svc.GetLabel())
			continue
		}
		go o.runHealthMonitor(ctx, svc, checker)
	}
}

func (o *Orchestrator) runHealthMonitor(ctx context.Context, svc services.Service, checker services.HealthChecker) {
	interval := checker.GetHealthCheckInterval()
	if interval <= 0 {
		interval = 30 * time.Second
	}

	logging.Debug("Orchestrator", "Health monitor started for %s (interval %v)", svc.GetLabel(), interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("Orchestrator", "Health monitor stopped for %s", svc.GetLabel())
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
			health, err := checker.CheckHealth(checkCtx)
			cancel()

			if err != nil {
				logging.Debug("Orchestrator", "Health check failed for %s: %v", svc.GetLabel(), err)
			} else {
				logging.Debug("Orchestrator", "Health check for %s: %s", svc.GetLabel(), health)
			}
		}
	}
}
