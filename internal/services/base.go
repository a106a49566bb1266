package services

import (
	"sync"

	"github.com/baseco/devstack/pkg/logging"
)

// BaseService carries the state machinery shared by all services: current
// state, health, last error, and callback dispatch. Concrete services embed
// it and drive it via UpdateState.
type BaseService struct {
	mu sync.RWMutex

	label       string
	serviceType ServiceType

	state     ServiceState
	health    HealthStatus
	lastError error

	stateCallback StateChangeCallback
}

// NewBaseService creates the shared state holder for a service.
func NewBaseService(label string, serviceType ServiceType) *BaseService {
	return &BaseService{
		label:       label,
		serviceType: serviceType,
		state:       StateUnknown,
		health:      HealthUnknown,
	}
}

// GetState implements the Service interface
func (b *BaseService) GetState() ServiceState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// GetHealth implements the Service interface
func (b *BaseService) GetHealth() HealthStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.health
}

// GetLastError implements the Service interface
func (b *BaseService) GetLastError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastError
}

// GetLabel implements the Service interface
func (b *BaseService) GetLabel() string {
	return b.label
}

// GetType implements the Service interface
func (b *BaseService) GetType() ServiceType {
	return b.serviceType
}

// SetStateChangeCallback implements the Service interface
func (b *BaseService) SetStateChangeCallback(callback StateChangeCallback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stateCallback = callback
}

// UpdateState transitions the service state and notifies the callback when
// state or health actually changed.
func (b *BaseService) UpdateState(newState ServiceState, newHealth HealthStatus, err error) {
	b.mu.Lock()
	oldState := b.state
	oldHealth := b.health
	b.state = newState
	b.health = newHealth
	b.lastError = err
	callback := b.stateCallback
	b.mu.Unlock()

	if callback != nil && (oldState != newState || oldHealth != newHealth) {
		// Dispatch without holding the lock to prevent deadlocks.
		go callback(b.label, oldState, newState, newHealth, err)
	}

	logging.Debug("Service", "Service %s state changed: %s -> %s (health: %s -> %s)",
		b.label, oldState, newState, oldHealth, newHealth)
}
