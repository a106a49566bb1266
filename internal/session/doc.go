// Package session provides the named-session registry that the orchestrator
// drives. A session is a detachable execution context running one long-lived
// command; in production it is a tmux session, in tests an in-memory fake.
//
// The registry interface is deliberately small: Create, Exists, Terminate,
// plus an Available precondition probe. Terminate of an absent session is a
// no-op so stop paths are idempotent.
package session
