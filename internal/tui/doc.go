// Package tui implements the interactive status view behind
// `devstack status --watch`.
//
// The view polls the orchestrator for a snapshot on a fixed interval and
// renders one block per role. Start, stop, and restart can be triggered
// from the keyboard; the triggering action runs in a command goroutine so
// the view stays responsive while sessions are reaped and relaunched.
package tui
