package session

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// For mocking in tests
var execLookPath = exec.LookPath

// TmuxRegistry implements Registry on top of tmux. Each session is created
// detached (-d) so it outlives the devstack invocation; operators attach
// with `tmux attach -t <name>` when they want the live terminal.
type TmuxRegistry struct{}

// NewTmuxRegistry returns a Registry backed by tmux.
func NewTmuxRegistry() *TmuxRegistry {
	return &TmuxRegistry{}
}

// Available checks that the tmux binary is on PATH.
func (t *TmuxRegistry) Available() error {
	if _, err := execLookPath("tmux"); err != nil {
		return fmt.Errorf("tmux is not installed or not on PATH: %w", err)
	}
	return nil
}

// Create starts a detached tmux session running the command with output
// teed to the log file.
func (t *TmuxRegistry) Create(ctx context.Context, name string, command []string, dir string, logPath string) error {
	if len(command) == 0 {
		return fmt.Errorf("session %s: empty command", name)
	}

	shellLine := BuildShellLine(command, logPath)

	args := []string{"new-session", "-d", "-s", name}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	args = append(args, shellLine)

	if _, stderr, err := runTmux(ctx, args...); err != nil {
		return fmt.Errorf("failed to create session %s: %w. Stderr: %s", name, err, stderr)
	}
	return nil
}

// Exists reports whether tmux knows a session with the exact name.
func (t *TmuxRegistry) Exists(ctx context.Context, name string) bool {
	// The = prefix forces an exact match; otherwise tmux prefix-matches and
	// "backend" would shadow "backend-2".
	_, _, err := runTmux(ctx, "has-session", "-t", "="+name)
	return err == nil
}

// Terminate kills the named session. An absent session is not an error.
func (t *TmuxRegistry) Terminate(ctx context.Context, name string) error {
	_, stderr, err := runTmux(ctx, "kill-session", "-t", "="+name)
	if err != nil {
		if strings.Contains(stderr, "can't find session") || strings.Contains(stderr, "no server running") {
			return nil
		}
		return fmt.Errorf("failed to kill session %s: %w. Stderr: %s", name, err, stderr)
	}
	return nil
}

// runTmux executes a tmux command and captures its output. Package variable
// so tests can substitute a recorder.
var runTmux = func(ctx context.Context, args ...string) (stdout string, stderr string, err error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()
	return stdoutBuf.String(), stderrBuf.String(), runErr
}

// BuildShellLine renders the argv as a shell command with combined output
// appended to the log file, the way the session's shell will run it.
func BuildShellLine(command []string, logPath string) string {
	quoted := make([]string, len(command))
	for i, arg := range command {
		quoted[i] = shellQuote(arg)
	}
	line := strings.Join(quoted, " ")
	if logPath != "" {
		line = fmt.Sprintf("%s 2>&1 | tee -a %s", line, shellQuote(logPath))
	}
	return line
}

// shellQuote single-quotes an argument when it contains anything the shell
// would interpret.
func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n\"'`$&|;<>()*?[]#~!{}\\") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
