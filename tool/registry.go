package tool

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownTool is returned by Registry.Get when no tool is registered
// under the requested name.
var ErrUnknownTool = errors.New("unknown tool")

// Registry maps tool names to tools. Registration normally happens once at
// wiring time; lookups are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry pre-populated with the given tools.
// Duplicate names cause an error.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}

	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds a tool. Registering a second tool under an existing name
// is an error.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool %s already registered", t.Name())
	}

	r.tools[t.Name()] = t

	return nil
}

// Get returns the tool registered under name, or an error wrapping
// ErrUnknownTool.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	return t, nil
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tools[name]

	return ok
}

// List returns a name -> description mapping for introspection.
func (r *Registry) List() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.tools))
	for name, t := range r.tools {
		out[name] = t.Description()
	}

	return out
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
