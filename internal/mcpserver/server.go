package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/baseco/devstack/internal/config"
	"github.com/baseco/devstack/internal/orchestrator"
	"github.com/baseco/devstack/pkg/logging"
)

// Server exposes the dev environment operations as MCP tools over stdio.
type Server struct {
	orch *orchestrator.Orchestrator
	cfg  config.DevstackConfig
	mcp  *server.MCPServer
}

// New builds the MCP server and registers the tool set.
func New(orch *orchestrator.Orchestrator, cfg config.DevstackConfig, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		orch: orch,
		cfg:  cfg,
		mcp: server.NewMCPServer(
			"devstack",
			version,
			server.WithToolCapabilities(true),
		),
	}
	s.registerTools()
	return s
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout until the
// client closes the stream.
func (s *Server) ServeStdio() error {
	logging.Info("MCP", "Serving dev environment tools on stdio")
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("env_start",
		mcp.WithDescription("Start the backend and frontend dev servers. Idempotent: stale sessions are reaped and ports reclaimed first."),
	), s.handleStart)

	s.mcp.AddTool(mcp.NewTool("env_stop",
		mcp.WithDescription("Stop both dev servers and clean up leftover server processes. Safe when nothing is running."),
	), s.handleStop)

	s.mcp.AddTool(mcp.NewTool("env_restart",
		mcp.WithDescription("Restart the dev environment (full stop, then full start). Pass a role to restart only that server."),
		mcp.WithString("role",
			mcp.Description("Optional role to restart: backend or frontend. Omit to restart everything."),
		),
	), s.handleRestart)

	s.mcp.AddTool(mcp.NewTool("env_status",
		mcp.WithDescription("Report session, port, health, and current port holder for each dev server, as JSON."),
	), s.handleStatus)

	s.mcp.AddTool(mcp.NewTool("logs_tail",
		mcp.WithDescription("Return the last lines of a dev server's log file."),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Which server's log to read: backend or frontend."),
		),
		mcp.WithNumber("lines",
			mcp.Description("Number of trailing lines to return (default 40)."),
		),
	), s.handleLogsTail)
}

func (s *Server) handleStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.orch.Start(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("start failed: %v", err)), nil
	}
	return mcp.NewToolResultText(s.outcomeText("environment started")), nil
}

func (s *Server) handleStop(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.orch.Stop(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stop failed: %v", err)), nil
	}
	return mcp.NewToolResultText(s.outcomeText("environment stopped")), nil
}

func (s *Server) handleRestart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	role := stringArg(req, "role")
	if role != "" {
		if _, ok := s.cfg.Role(role); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown role %q", role)), nil
		}
		if err := s.orch.RestartRole(ctx, role); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("restart of %s failed: %v", role, err)), nil
		}
		return mcp.NewToolResultText(s.outcomeText(role + " restarted")), nil
	}

	if err := s.orch.Restart(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("restart failed: %v", err)), nil
	}
	return mcp.NewToolResultText(s.outcomeText("environment restarted")), nil
}

func (s *Server) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type roleStatus struct {
		Role            string `json:"role"`
		Session         string `json:"session"`
		SessionExists   bool   `json:"session_exists"`
		Port            int    `json:"port"`
		URL             string `json:"url"`
		LogPath         string `json:"log_path"`
		State           string `json:"state"`
		Health          string `json:"health"`
		ListenerPID     int    `json:"listener_pid,omitempty"`
		ListenerCommand string `json:"listener_command,omitempty"`
	}

	var out []roleStatus
	for _, st := range s.orch.Status(ctx) {
		out = append(out, roleStatus{
			Role:            st.Role,
			Session:         st.Session,
			SessionExists:   st.SessionExists,
			Port:            st.Port,
			URL:             st.URL,
			LogPath:         st.LogPath,
			State:           string(st.State),
			Health:          string(st.Health),
			ListenerPID:     st.ListenerPID,
			ListenerCommand: st.ListenerCommand,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleLogsTail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roleName := stringArg(req, "role")
	role, ok := s.cfg.Role(roleName)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown role %q (expected %s or %s)",
			roleName, config.RoleBackend, config.RoleFrontend)), nil
	}

	lines := 40
	if n := numberArg(req, "lines"); n > 0 {
		lines = n
	}

	logPath := filepath.Join(s.cfg.Settings.LogDir, role.LogFileName())
	tail, err := readTail(logPath, lines)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no log for %s: %v", role.Name, err)), nil
	}
	if tail == "" {
		return mcp.NewToolResultText(fmt.Sprintf("(log for %s is empty)", role.Name)), nil
	}
	return mcp.NewToolResultText(tail), nil
}

// outcomeText appends collected advisories to a result message so the
// client sees warnings that a CLI user would have seen on stderr.
func (s *Server) outcomeText(msg string) string {
	advisories := s.orch.Advisories()
	if len(advisories) == 0 {
		return msg
	}
	return msg + "\n\nwarnings:\n- " + strings.Join(advisories, "\n- ")
}

func readTail(path string, n int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return "", nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n"), nil
}

func stringArg(req mcp.CallToolRequest, key string) string {
	args, ok := req.Params.Arguments.(map[string]interface{})
	if !ok {
		return ""
	}
	v, _ := args[key].(string)
	return v
}

func numberArg(req mcp.CallToolRequest, key string) int {
	args, ok := req.Params.Arguments.(map[string]interface{})
	if !ok {
		return 0
	}
	// JSON numbers arrive as float64.
	if f, ok := args[key].(float64); ok {
		return int(f)
	}
	return 0
}
