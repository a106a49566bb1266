package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/baseco/devstack/internal/orchestrator"
	"github.com/baseco/devstack/internal/services"
	"github.com/baseco/devstack/pkg/logging"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	healthyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	downStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	header := "devstack"
	if m.refreshing || m.busy {
		header += " " + m.spinner.View()
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if len(m.statuses) == 0 {
		b.WriteString(dimStyle.Render("  gathering status..."))
		b.WriteString("\n")
	}

	for i, st := range m.statuses {
		b.WriteString(m.renderRole(i, st))
	}

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render("error: " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	if advisories := m.orch.Advisories(); len(advisories) > 0 {
		b.WriteString("\n")
		for _, a := range advisories {
			b.WriteString(dimStyle.Render("  ! " + a))
			b.WriteString("\n")
		}
	}

	if len(m.logLines) > 0 {
		b.WriteString("\n")
		for _, line := range m.logLines {
			b.WriteString(dimStyle.Render("  " + line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// formatLogEntry renders one channel entry for the log area.
func formatLogEntry(entry logging.LogEntry) string {
	line := fmt.Sprintf("%s %s [%s] %s",
		entry.Timestamp.Format("15:04:05"), entry.Level, entry.Subsystem, entry.Message)
	if entry.Err != nil {
		line += ": " + entry.Err.Error()
	}
	return line
}

func (m model) renderRole(i int, st orchestrator.RoleStatus) string {
	cursor := "  "
	nameStyle := lipgloss.NewStyle()
	if i == m.selected {
		cursor = "> "
		nameStyle = selectedStyle
	}

	line := fmt.Sprintf("%s%s %s %s",
		cursor,
		nameStyle.Render(runewidth.FillRight(st.Role, 10)),
		renderHealth(st),
		dimStyle.Render(st.URL),
	)

	detail := ""
	if st.SessionExists {
		detail = fmt.Sprintf("    session %s, log %s", st.Session, st.LogPath)
	} else if st.ListenerPID != 0 {
		cmd := runewidth.Truncate(st.ListenerCommand, maxCommandWidth(m.width), "…")
		detail = fmt.Sprintf("    port %d held by pid %d: %s", st.Port, st.ListenerPID, cmd)
	}

	out := line + "\n"
	if detail != "" {
		out += dimStyle.Render(detail) + "\n"
	}
	return out
}

func renderHealth(st orchestrator.RoleStatus) string {
	if !st.SessionExists {
		return downStyle.Render("stopped")
	}
	switch st.Health {
	case services.HealthHealthy:
		return healthyStyle.Render("healthy")
	case services.HealthUnhealthy:
		return downStyle.Render("unhealthy")
	default:
		return degradedStyle.Render("starting")
	}
}

func maxCommandWidth(total int) int {
	if total <= 0 {
		return 60
	}
	w := total - 30
	if w < 20 {
		w = 20
	}
	return w
}
