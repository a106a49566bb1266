package orchestrator

import (
	"context"

	"github.com/baseco/devstack/internal/services"
	"github.com/baseco/devstack/internal/services/devserver"
	"github.com/baseco/devstack/pkg/logging"
)

// RoleStatus is a point-in-time snapshot of one role.
type RoleStatus struct {
	Role          string
	Session       string
	SessionExists bool
	Port          int
	URL           string
	LogPath       string
	State         services.ServiceState
	Health        services.HealthStatus

	// Listener describes whatever currently holds the role's port,
	// which may or may not be the role's own server.
	ListenerPID     int
	ListenerCommand string
}

// Status inspects sessions, ports, and health for every role. It never
// mutates anything.
func (o *Orchestrator) Status(ctx context.Context) []RoleStatus {
	var statuses []RoleStatus

	for _, role := range o.cfg.Roles {
		svc, ok := o.registry.Get(role.Name)
		if !ok {
			continue
		}
		ds, ok := svc.(*devserver.DevServerService)
		if !ok {
			continue
		}

		st := RoleStatus{
			Role:          role.Name,
			Session:       ds.SessionName(),
			SessionExists: o.sessions.Exists(ctx, ds.SessionName()),
			Port:          ds.Port(),
			URL:           ds.URL(),
			LogPath:       ds.LogPath(),
			State:         ds.GetState(),
			Health:        ds.GetHealth(),
		}

		if st.SessionExists {
			if health, err := ds.CheckHealth(ctx); err == nil {
				st.Health = health
				st.State = ds.GetState()
			}
		}

		if listener, err := o.inspector.ListenerOn(ctx, st.Port); err != nil {
			logging.Debug("Orchestrator", "Port inspection failed for %d: %v", st.Port, err)
		} else if listener != nil {
			st.ListenerPID = listener.PID
			st.ListenerCommand = listener.Command
		}

		statuses = append(statuses, st)
	}

	return statuses
}
