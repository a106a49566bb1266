package ports

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Listener describes the process that owns the TCP listener on a port.
// The binding is observed, never owned: devstack only ever inspects and,
// when the signature check allows it, terminates the owner.
type Listener struct {
	Port    int
	PID     int
	Command string // full command line of the owning process
}

// Inspector discovers and terminates processes bound to local TCP ports.
// The production implementation shells out to lsof and ps; tests substitute
// an in-memory fake.
type Inspector interface {
	// ListenerOn returns the process listening on the given TCP port, or nil
	// when the port is free.
	ListenerOn(ctx context.Context, port int) (*Listener, error)

	// Terminate asks the process to exit (SIGTERM, then SIGKILL if it is
	// still alive shortly after). It does not wait for the port to be
	// released; callers re-check the port themselves.
	Terminate(pid int) error
}

// LsofInspector implements Inspector using the lsof and ps utilities.
type LsofInspector struct {
	// KillGracePeriod is how long to wait after SIGTERM before escalating
	// to SIGKILL. Zero means the default of 500ms.
	KillGracePeriod time.Duration
}

// NewLsofInspector returns an Inspector backed by lsof and ps.
func NewLsofInspector() *LsofInspector {
	return &LsofInspector{}
}

// ListenerOn queries lsof for the listener on the port and resolves the
// owning process's command line via ps.
func (li *LsofInspector) ListenerOn(ctx context.Context, port int) (*Listener, error) {
	cmd := exec.CommandContext(ctx, "lsof", "-nP", fmt.Sprintf("-iTCP:%d", port), "-sTCP:LISTEN", "-t")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// lsof exits 1 when nothing matches; that simply means the port is free.
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 && stderr.Len() == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to run lsof for port %d: %w. Stderr: %s", port, err, stderr.String())
	}

	pids := parsePIDList(stdout.String())
	if len(pids) == 0 {
		return nil, nil
	}

	// Multiple PIDs on one listen port are forks of the same server (e.g.
	// uvicorn workers); the first one is representative.
	pid := pids[0]

	cmdline, err := li.commandLine(ctx, pid)
	if err != nil {
		return nil, err
	}

	return &Listener{Port: port, PID: pid, Command: cmdline}, nil
}

// Terminate sends SIGTERM, waits for the grace period, and escalates to
// SIGKILL if the process still exists.
func (li *LsofInspector) Terminate(pid int) error {
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		if err == syscall.ESRCH {
			return nil // already gone
		}
		return fmt.Errorf("failed to signal pid %d: %w", pid, err)
	}

	grace := li.KillGracePeriod
	if grace == 0 {
		grace = 500 * time.Millisecond
	}
	time.Sleep(grace)

	// Signal 0 probes for existence without delivering anything.
	if err := syscall.Kill(pid, 0); err == nil {
		if err := syscall.Kill(pid, syscall.SIGKILL); err != nil && err != syscall.ESRCH {
			return fmt.Errorf("failed to kill pid %d: %w", pid, err)
		}
	}

	return nil
}

func (li *LsofInspector) commandLine(ctx context.Context, pid int) (string, error) {
	cmd := exec.CommandContext(ctx, "ps", "-p", strconv.Itoa(pid), "-o", "args=")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to resolve command line for pid %d: %w. Stderr: %s", pid, err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// parsePIDList parses the newline-separated PID list printed by lsof -t.
func parsePIDList(output string) []int {
	var pids []int
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids
}
