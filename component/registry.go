package component

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownComponent is reported when no component is registered under a name.
	ErrUnknownComponent = errors.New("component: unknown component")
	// ErrDuplicateComponent is reported when two components share a name.
	ErrDuplicateComponent = errors.New("component: duplicate component")
	// ErrInvalidComponent is reported for nil components or empty names.
	ErrInvalidComponent = errors.New("component: invalid component")
)

// Registry holds components by name. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
}

// NewRegistry returns a registry holding components.
func NewRegistry(components ...Component) (*Registry, error) {
	reg := &Registry{components: make(map[string]Component)}
	if err := reg.Register(components...); err != nil {
		return nil, err
	}
	return reg, nil
}

// Register adds components to the registry. Either all of them are added or,
// on error, none are.
func (r *Registry) Register(components ...Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.components == nil {
		r.components = make(map[string]Component)
	}

	pending := make(map[string]Component, len(components))
	for _, c := range components {
		if c == nil {
			return fmt.Errorf("%w: nil component", ErrInvalidComponent)
		}
		name := strings.TrimSpace(c.Metadata().Name)
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidComponent)
		}
		if _, exists := r.components[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateComponent, name)
		}
		if _, exists := pending[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateComponent, name)
		}
		pending[name] = c
	}

	for name, c := range pending {
		r.components[name] = c
	}
	return nil
}

// Get returns the component registered under name.
func (r *Registry) Get(name string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.components[name]
	return c, ok
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metadata returns the metadata of every component, sorted by name.
func (r *Registry) Metadata() []Metadata {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	meta := make([]Metadata, 0, len(names))
	for _, name := range names {
		if c, ok := r.components[name]; ok {
			m := c.Metadata()
			m.Name = name
			meta = append(meta, m)
		}
	}
	return meta
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}
