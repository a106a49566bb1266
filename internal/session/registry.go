package session

import "context"

// Registry manages named, detachable execution contexts, each running one
// long-lived command. Production uses tmux sessions; tests use an in-memory
// fake. The registry replaces ambient global state (whatever sessions happen
// to exist on the host) with an explicit, injectable collaborator.
type Registry interface {
	// Available verifies the backing facility is usable on this host.
	// A non-nil error is a fatal precondition failure: nothing should be
	// mutated after it.
	Available() error

	// Create starts a new detached session running command in dir, with
	// combined stdout/stderr appended to logPath.
	Create(ctx context.Context, name string, command []string, dir string, logPath string) error

	// Exists reports whether a session with the name is currently present.
	Exists(ctx context.Context, name string) bool

	// Terminate kills the named session. Terminating an absent session is
	// not an error; the call is idempotent.
	Terminate(ctx context.Context, name string) error
}
