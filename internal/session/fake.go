package session

import (
	"context"
	"sync"
)

// FakeSession records what a fake session was created with.
type FakeSession struct {
	Command []string
	Dir     string
	LogPath string
}

// FakeRegistry is an in-memory Registry for tests. It records created and
// terminated sessions and can be primed with errors.
type FakeRegistry struct {
	mu       sync.Mutex
	sessions map[string]FakeSession

	Terminated []string // session names passed to Terminate, in order

	AvailableErr error
	CreateErr    error
	TerminateErr error

	// KeepOnTerminate lists session names that survive Terminate calls,
	// simulating sessions that refuse to die.
	KeepOnTerminate []string
}

// NewFakeRegistry returns an empty fake registry.
func NewFakeRegistry() *FakeRegistry {
	return &FakeRegistry{sessions: make(map[string]FakeSession)}
}

// Available returns the primed error, if any.
func (f *FakeRegistry) Available() error {
	return f.AvailableErr
}

// Create records the session.
func (f *FakeRegistry) Create(ctx context.Context, name string, command []string, dir string, logPath string) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[name] = FakeSession{Command: command, Dir: dir, LogPath: logPath}
	return nil
}

// Exists reports whether the session was created and not terminated.
func (f *FakeRegistry) Exists(ctx context.Context, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sessions[name]
	return ok
}

// Terminate removes the session unless it is primed to survive.
func (f *FakeRegistry) Terminate(ctx context.Context, name string) error {
	if f.TerminateErr != nil {
		return f.TerminateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Terminated = append(f.Terminated, name)
	for _, keep := range f.KeepOnTerminate {
		if keep == name {
			return nil
		}
	}
	delete(f.sessions, name)
	return nil
}

// Session returns the recorded session by name.
func (f *FakeRegistry) Session(name string) (FakeSession, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[name]
	return s, ok
}

// Count returns the number of live fake sessions.
func (f *FakeRegistry) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}
