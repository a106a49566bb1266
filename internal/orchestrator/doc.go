// Package orchestrator drives the lifecycle of the local dev environment:
// one backend server and one frontend dev server, each in a named session.
//
// # Start sequence
//
//  1. Preflight: session tooling usable, prerequisite directories present,
//     log directory created. Fatal failures abort before any mutation.
//  2. Reap: stale sessions with the reserved role names are terminated, so
//     at most one session per role is ever under management.
//  3. Reclaim: each role's port is inspected. A listener matching the
//     role's known-server signature is terminated; browsers and foreign
//     processes are left alone with an advisory. One re-check follows: a
//     known server still bound is fatal.
//  4. Advisory probe of the sibling inference runtime (never fatal).
//  5. Services start in order: backend, then frontend.
//
// # Error taxonomy
//
// Fatal conditions wrap one of three sentinels (ErrToolingUnavailable,
// ErrPreconditionMissing, ErrPortConflictOwn) so the command layer can map
// them to distinct exit codes. Everything else a start encounters, such as
// a foreign listener, a browser on the port, or a missing inference
// runtime, is an advisory: logged, collected via Advisories, and never a
// reason to abort.
//
// # Concurrency
//
// Operations are strictly sequential; restart is stop-then-start with stop
// fully finished before start begins. The launched sessions are detached
// process groups that outlive the orchestrator invocation. There is no
// wait-and-verify loop around termination beyond the single port re-check,
// and no rollback of an already-started backend when a later step fails.
// These are accepted limitations for a single-operator tool.
package orchestrator
