package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs an unattached component.
type Factory func() Component

// Registry maps component type names to constructors. The world loader uses it
// to recreate components by name and the editor lists it in the add menu.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry is filled by init functions of the component packages.
var DefaultRegistry = NewRegistry()

// Register adds a named factory. Registering the same name twice panics.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if factory == nil {
		panic(fmt.Sprintf("component %q registered with nil factory", name))
	}
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("component %q already registered", name))
	}
	r.factories[name] = factory
}

// Create builds a new component of the named type.
func (r *Registry) Create(name string) (Component, bool) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names sorted for stable UI ordering.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Reset drops every registration.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.factories = make(map[string]Factory)
	r.mu.Unlock()
}
