package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/baseco/devstack/internal/orchestrator"
	"github.com/baseco/devstack/pkg/logging"
)

const (
	refreshInterval = 3 * time.Second

	// maxLogLines bounds the log area at the bottom of the view.
	maxLogLines = 6
)

// statusMsg carries a fresh snapshot from the orchestrator.
type statusMsg []orchestrator.RoleStatus

// logEntryMsg carries one entry from the logging package's TUI channel.
type logEntryMsg logging.LogEntry

// actionMsg reports the outcome of a start/stop/restart triggered from the
// view. A nil error just schedules the next refresh.
type actionMsg struct {
	err error
}

type tickMsg time.Time

type model struct {
	ctx  context.Context
	orch *orchestrator.Orchestrator

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	logCh    <-chan logging.LogEntry
	logLines []string

	statuses []orchestrator.RoleStatus
	selected int
	lastErr  error

	width      int
	refreshing bool
	busy       bool // a start/stop/restart is in flight
	quitting   bool
}

func newModel(ctx context.Context, orch *orchestrator.Orchestrator, logCh <-chan logging.LogEntry) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return model{
		ctx:        ctx,
		orch:       orch,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		logCh:      logCh,
		refreshing: true,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.refreshCmd(), tickCmd()}
	if m.logCh != nil {
		cmds = append(cmds, waitForLog(m.logCh))
	}
	return tea.Batch(cmds...)
}

// waitForLog blocks on the TUI log channel and delivers the next entry to
// the update loop. Re-armed after every entry; stops when the channel is
// closed on shutdown.
func waitForLog(ch <-chan logging.LogEntry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return logEntryMsg(entry)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd snapshots the environment off the update loop; health checks
// can block on HTTP timeouts.
func (m model) refreshCmd() tea.Cmd {
	ctx, orch := m.ctx, m.orch
	return func() tea.Msg {
		return statusMsg(orch.Status(ctx))
	}
}

func (m model) actionCmd(action func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionMsg{err: action(ctx)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.refreshing || m.busy {
			// A snapshot or action is still in flight; just rearm.
			return m, tickCmd()
		}
		m.refreshing = true
		return m, tea.Batch(m.refreshCmd(), tickCmd())

	case statusMsg:
		m.refreshing = false
		m.statuses = msg
		if m.selected >= len(m.statuses) && len(m.statuses) > 0 {
			m.selected = len(m.statuses) - 1
		}
		return m, nil

	case actionMsg:
		m.busy = false
		m.lastErr = msg.err
		m.refreshing = true
		return m, m.refreshCmd()

	case logEntryMsg:
		m.logLines = append(m.logLines, formatLogEntry(logging.LogEntry(msg)))
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		return m, waitForLog(m.logCh)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.statuses)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Start):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.actionCmd(m.orch.Start)

	case key.Matches(msg, m.keys.Stop):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.actionCmd(m.orch.Stop)

	case key.Matches(msg, m.keys.Restart):
		if m.busy || len(m.statuses) == 0 {
			return m, nil
		}
		role := m.statuses[m.selected].Role
		m.busy = true
		return m, m.actionCmd(func(ctx context.Context) error {
			return m.orch.RestartRole(ctx, role)
		})
	}

	return m, nil
}
