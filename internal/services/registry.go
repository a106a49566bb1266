package services

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the default thread-safe ServiceRegistry implementation.
type Registry struct {
	mu       sync.RWMutex
	services map[string]Service
}

// NewRegistry creates an empty service registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[string]Service)}
}

// Register adds a service to the registry. Labels must be unique.
func (r *Registry) Register(service Service) error {
	if service == nil {
		return fmt.Errorf("cannot register nil service")
	}
	label := service.GetLabel()
	if label == "" {
		return fmt.Errorf("cannot register service with empty label")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.services[label]; exists {
		return fmt.Errorf("service %s already registered", label)
	}
	r.services[label] = service
	return nil
}

// Unregister removes a service from the registry.
func (r *Registry) Unregister(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.services[label]; !exists {
		return fmt.Errorf("service %s not found", label)
	}
	delete(r.services, label)
	return nil
}

// Get returns a service by label.
func (r *Registry) Get(label string) (Service, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	service, ok := r.services[label]
	return service, ok
}

// GetAll returns all registered services sorted by label for stable iteration.
func (r *Registry) GetAll() []Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]string, 0, len(r.services))
	for label := range r.services {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	all := make([]Service, 0, len(labels))
	for _, label := range labels {
		all = append(all, r.services[label])
	}
	return all
}
