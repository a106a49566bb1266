// Package services defines the service abstraction the orchestrator manages:
// the Service lifecycle interface, state and health enums, a thread-safe
// BaseService with callback dispatch, and a registry keyed by label.
//
// devstack manages exactly one service type, the dev server (see the
// devserver subpackage), but the orchestrator only ever talks to the
// interfaces in this package.
package services
