package command

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a fresh command definition.
type Factory func() Definition

// Registry maps command names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding every built-in command.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, f := range []Factory{
		func() Definition { return NewLine() },
		func() Definition { return NewBox() },
		func() Definition { return NewArray() },
		NewConvertToWire,
		NewConvertToFace,
	} {
		r.Register(f)
	}
	return r
}

// Register adds f under the name of the definition it creates, replacing
// any earlier factory with that name.
func (r *Registry) Register(f Factory) {
	name := f().Name()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Unregister removes the factory for name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, name)
}

// New creates the command registered under name.
func (r *Registry) New(name string) (Definition, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return f(), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}
