package devserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/baseco/devstack/internal/config"
	"github.com/baseco/devstack/internal/services"
	"github.com/baseco/devstack/internal/session"
	"github.com/baseco/devstack/pkg/logging"
)

const defaultHealthCheckInterval = 15 * time.Second

// DevServerService implements the services.Service interface for one dev
// server role: the command runs inside a named session with its combined
// output teed to a per-role log file.
type DevServerService struct {
	*services.BaseService

	role        config.RoleDefinition
	sessionName string
	command     []string // argv after ${PORT} style expansion
	logPath     string
	host        string
	port        int

	registry   session.Registry
	httpClient *http.Client
}

// New creates a dev server service for the role. The command is expanded
// against the environment before the session ever runs it.
func New(role config.RoleDefinition, settings config.GlobalSettings, env config.Environment, registry session.Registry) *DevServerService {
	return &DevServerService{
		BaseService: services.NewBaseService(role.Name, services.TypeDevServer),
		role:        role,
		sessionName: role.SessionName(settings.SessionPrefix),
		command:     config.ExpandCommand(role.Command, env),
		logPath:     filepath.Join(settings.LogDir, role.LogFileName()),
		host:        env.Host,
		port:        env.PortFor(role.Name),
		registry:    registry,
		httpClient:  &http.Client{Timeout: 2 * time.Second},
	}
}

// SessionName returns the name of the session this service runs in.
func (s *DevServerService) SessionName() string {
	return s.sessionName
}

// LogPath returns the path of the role's log file.
func (s *DevServerService) LogPath() string {
	return s.logPath
}

// Port returns the TCP port the role listens on.
func (s *DevServerService) Port() int {
	return s.port
}

// URL returns the role's listen URL.
func (s *DevServerService) URL() string {
	host := s.host
	// A wildcard bind still answers on loopback; report something clickable.
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, s.port)
}

// Start truncates the role's log file and creates the session. The session
// tees with append, so truncating here is what gives each run a fresh log.
func (s *DevServerService) Start(ctx context.Context) error {
	s.UpdateState(services.StateStarting, services.HealthUnknown, nil)

	if err := os.MkdirAll(filepath.Dir(s.logPath), 0755); err != nil {
		err = fmt.Errorf("failed to create log directory for %s: %w", s.GetLabel(), err)
		s.UpdateState(services.StateFailed, services.HealthUnhealthy, err)
		return err
	}
	if err := os.WriteFile(s.logPath, nil, 0644); err != nil {
		err = fmt.Errorf("failed to reset log file %s: %w", s.logPath, err)
		s.UpdateState(services.StateFailed, services.HealthUnhealthy, err)
		return err
	}

	if err := s.registry.Create(ctx, s.sessionName, s.command, s.role.Dir, s.logPath); err != nil {
		err = fmt.Errorf("failed to start %s session: %w", s.GetLabel(), err)
		s.UpdateState(services.StateFailed, services.HealthUnhealthy, err)
		return err
	}

	logging.Info("DevServer", "Started %s in session %s (logs: %s)", s.GetLabel(), s.sessionName, s.logPath)
	s.UpdateState(services.StateRunning, services.HealthChecking, nil)
	return nil
}

// Stop terminates the session. Stopping an already-stopped service is fine.
func (s *DevServerService) Stop(ctx context.Context) error {
	s.UpdateState(services.StateStopping, s.GetHealth(), nil)

	if err := s.registry.Terminate(ctx, s.sessionName); err != nil {
		err = fmt.Errorf("failed to stop %s session: %w", s.GetLabel(), err)
		s.UpdateState(services.StateFailed, services.HealthUnhealthy, err)
		return err
	}

	logging.Info("DevServer", "Stopped %s (session %s)", s.GetLabel(), s.sessionName)
	s.UpdateState(services.StateStopped, services.HealthUnknown, nil)
	return nil
}

// Restart stops and starts the service.
func (s *DevServerService) Restart(ctx context.Context) error {
	if err := s.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop %s during restart: %w", s.GetLabel(), err)
	}
	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("failed to start %s during restart: %w", s.GetLabel(), err)
	}
	return nil
}

// CheckHealth implements the services.HealthChecker interface. A service is
// healthy when its session still exists and the HTTP listener answers.
func (s *DevServerService) CheckHealth(ctx context.Context) (services.HealthStatus, error) {
	if !s.registry.Exists(ctx, s.sessionName) {
		err := fmt.Errorf("session %s is gone", s.sessionName)
		s.UpdateState(services.StateFailed, services.HealthUnhealthy, err)
		return services.HealthUnhealthy, err
	}

	url := s.URL() + s.healthPath()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return services.HealthUnknown, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// The session exists but nothing answers yet; typical right after
		// start while the server is still booting.
		s.UpdateState(s.GetState(), services.HealthChecking, nil)
		return services.HealthChecking, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		err := fmt.Errorf("%s returned HTTP %d", url, resp.StatusCode)
		s.UpdateState(s.GetState(), services.HealthUnhealthy, err)
		return services.HealthUnhealthy, err
	}

	s.UpdateState(services.StateRunning, services.HealthHealthy, nil)
	return services.HealthHealthy, nil
}

// GetHealthCheckInterval implements the services.HealthChecker interface.
func (s *DevServerService) GetHealthCheckInterval() time.Duration {
	return defaultHealthCheckInterval
}

func (s *DevServerService) healthPath() string {
	path := s.role.HealthPath
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
