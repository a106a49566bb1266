package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseco/devstack/internal/config"
	"github.com/baseco/devstack/internal/orchestrator"
	"github.com/baseco/devstack/internal/ports"
	"github.com/baseco/devstack/internal/services"
	"github.com/baseco/devstack/internal/session"
	"github.com/baseco/devstack/pkg/logging"
)

type nullInspector struct{}

func (nullInspector) ListenerOn(ctx context.Context, port int) (*ports.Listener, error) {
	return nil, nil
}

func (nullInspector) Terminate(pid int) error { return nil }

func newTestModel(t *testing.T) model {
	t.Helper()
	off := false
	cfg := config.DevstackConfig{
		Settings: config.GlobalSettings{
			SessionPrefix:  "devstack",
			LogDir:         filepath.Join(t.TempDir(), "logs"),
			CheckInference: &off,
		},
		Roles: []config.RoleDefinition{
			{Name: config.RoleBackend, Command: []string{"uvicorn"}},
			{Name: config.RoleFrontend, Command: []string{"npm"}},
		},
	}
	env := config.Environment{BackendPort: 8080, FrontendPort: 5173, Host: "127.0.0.1"}

	orch, err := orchestrator.New(cfg, env, session.NewFakeRegistry(), nullInspector{})
	require.NoError(t, err)
	return newModel(context.Background(), orch, nil)
}

func keyMsg(s string) tea.KeyMsg {
	if s == "up" {
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	if s == "down" {
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStatusMsgClampsSelection(t *testing.T) {
	m := newTestModel(t)
	m.selected = 5

	updated, _ := m.Update(statusMsg{{Role: "backend"}, {Role: "frontend"}})
	m = updated.(model)

	assert.Equal(t, 1, m.selected)
	assert.False(t, m.refreshing)
	assert.Len(t, m.statuses, 2)
}

func TestNavigationStaysInBounds(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(statusMsg{{Role: "backend"}, {Role: "frontend"}})
	m = updated.(model)

	updated, _ = m.Update(keyMsg("up"))
	m = updated.(model)
	assert.Equal(t, 0, m.selected)

	updated, _ = m.Update(keyMsg("down"))
	m = updated.(model)
	assert.Equal(t, 1, m.selected)

	updated, _ = m.Update(keyMsg("down"))
	m = updated.(model)
	assert.Equal(t, 1, m.selected)
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(keyMsg("q"))
	m = updated.(model)

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestRestartKeyRequiresStatuses(t *testing.T) {
	m := newTestModel(t)

	// No snapshot yet: nothing to restart, no command issued.
	updated, cmd := m.Update(keyMsg("r"))
	m = updated.(model)
	assert.False(t, m.busy)
	assert.Nil(t, cmd)

	updated, _ = m.Update(statusMsg{{Role: "backend"}})
	m = updated.(model)
	updated, cmd = m.Update(keyMsg("r"))
	m = updated.(model)
	assert.True(t, m.busy)
	assert.NotNil(t, cmd)
}

func TestBusyBlocksFurtherActions(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(statusMsg{{Role: "backend"}})
	m = updated.(model)

	updated, _ = m.Update(keyMsg("s"))
	m = updated.(model)
	require.True(t, m.busy)

	updated, cmd := m.Update(keyMsg("u"))
	m = updated.(model)
	assert.Nil(t, cmd)

	// The action result clears busy and triggers a refresh.
	updated, cmd = m.Update(actionMsg{})
	m = updated.(model)
	assert.False(t, m.busy)
	assert.True(t, m.refreshing)
	assert.NotNil(t, cmd)
}

func TestLogEntriesAppendAndTrim(t *testing.T) {
	m := newTestModel(t)
	m.logCh = make(chan logging.LogEntry)

	for i := 0; i < maxLogLines+3; i++ {
		updated, cmd := m.Update(logEntryMsg{
			Timestamp: time.Date(2026, 8, 31, 12, 0, i, 0, time.UTC),
			Level:     logging.LevelInfo,
			Subsystem: "Orchestrator",
			Message:   fmt.Sprintf("entry %d", i),
		})
		m = updated.(model)
		// Every entry re-arms the channel listener.
		assert.NotNil(t, cmd)
	}

	require.Len(t, m.logLines, maxLogLines)
	assert.Contains(t, m.logLines[maxLogLines-1], "entry 8")
	assert.NotContains(t, strings.Join(m.logLines, "\n"), "entry 0")
	assert.Contains(t, m.View(), "entry 8")
}

func TestWaitForLogDeliversAndStopsOnClose(t *testing.T) {
	ch := make(chan logging.LogEntry, 1)
	ch <- logging.LogEntry{Subsystem: "DevServer", Message: "started"}

	msg := waitForLog(ch)()
	entry, ok := msg.(logEntryMsg)
	require.True(t, ok, "expected a log entry message, got %T", msg)
	assert.Equal(t, "started", entry.Message)

	close(ch)
	assert.Nil(t, waitForLog(ch)())
}

func TestViewRendersRoles(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(statusMsg{
		{Role: "backend", Session: "devstack-backend", SessionExists: true, Health: services.HealthHealthy, URL: "http://127.0.0.1:8080", LogPath: "x/backend.log"},
		{Role: "frontend", Port: 5173, ListenerPID: 42, ListenerCommand: "chrome"},
	})
	m = updated.(model)
	m.refreshing = false

	out := m.View()
	assert.Contains(t, out, "backend")
	assert.Contains(t, out, "devstack-backend")
	assert.Contains(t, out, "healthy")
	assert.True(t, strings.Contains(out, "pid 42"), "foreign listener line missing:\n%s", out)
}
