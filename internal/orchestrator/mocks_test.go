package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/baseco/devstack/internal/config"
	"github.com/baseco/devstack/internal/ports"
)

// fakeInspector is an in-memory ports.Inspector. Listeners are primed per
// port; Terminate removes the pid's listeners unless the pid is marked
// unkillable.
type fakeInspector struct {
	mu         sync.Mutex
	listeners  map[int]*ports.Listener
	terminated []int
	unkillable map[int]bool
	inspectErr error
}

func newFakeInspector() *fakeInspector {
	return &fakeInspector{
		listeners:  make(map[int]*ports.Listener),
		unkillable: make(map[int]bool),
	}
}

func (f *fakeInspector) bind(port, pid int, command string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners[port] = &ports.Listener{Port: port, PID: pid, Command: command}
}

func (f *fakeInspector) ListenerOn(ctx context.Context, port int) (*ports.Listener, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inspectErr != nil {
		return nil, f.inspectErr
	}
	return f.listeners[port], nil
}

func (f *fakeInspector) Terminate(pid int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated = append(f.terminated, pid)
	if f.unkillable[pid] {
		return fmt.Errorf("pid %d ignored the signal", pid)
	}
	for port, l := range f.listeners {
		if l.PID == pid {
			delete(f.listeners, port)
		}
	}
	return nil
}

func (f *fakeInspector) hasListener(port int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listeners[port] != nil
}

func (f *fakeInspector) terminatedPIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.terminated))
	copy(out, f.terminated)
	return out
}

func testConfig(t *testing.T) config.DevstackConfig {
	t.Helper()
	off := false
	return config.DevstackConfig{
		Settings: config.GlobalSettings{
			SessionPrefix:  "devstack",
			LogDir:         filepath.Join(t.TempDir(), "logs"),
			CheckInference: &off,
		},
		Roles: []config.RoleDefinition{
			{
				Name:           config.RoleBackend,
				Command:        []string{"uvicorn", "app:app", "--port", "${PORT}"},
				KnownProcesses: []string{"uvicorn", "open_webui"},
			},
			{
				Name:           config.RoleFrontend,
				Command:        []string{"npm", "run", "dev", "--", "--port", "${FRONTEND_PORT}"},
				KnownProcesses: []string{"vite", "npm run dev", "node"},
			},
		},
	}
}

func testEnv() config.Environment {
	return config.Environment{
		BackendPort:   8080,
		FrontendPort:  5173,
		Host:          "127.0.0.1",
		OllamaBaseURL: "http://127.0.0.1:1",
	}
}
