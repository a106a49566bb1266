package orchestrator

import "errors"

// Fatal condition sentinels. Callers map these onto distinct process exit
// codes; everything port- or precondition-related wraps one of them with %w.
var (
	// ErrToolingUnavailable means the terminal multiplexer is not usable on
	// this host. Checked before any mutating action.
	ErrToolingUnavailable = errors.New("required tooling unavailable")

	// ErrPreconditionMissing means a role's prerequisite directory (the
	// backend virtualenv, the frontend node_modules) is absent.
	ErrPreconditionMissing = errors.New("prerequisite missing")

	// ErrPortConflictOwn means one of our own server processes is still
	// bound to a wanted port after the kill attempt. Ports must be free
	// before new sessions are launched.
	ErrPortConflictOwn = errors.New("port still held by known server process")
)
