package tools

import "fmt"

// Registry holds tools keyed by name, preserving registration order.
// It is not safe for concurrent registration; build it before handing it to an agent.
type Registry struct {
	order []*Tool
	byKey map[string]*Tool
}

// NewRegistry creates a registry holding the given tools
func NewRegistry(tools ...*Tool) (*Registry, error) {
	r := &Registry{byKey: make(map[string]*Tool, len(tools))}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(t *Tool) error {
	if t == nil {
		return fmt.Errorf("register: nil tool")
	}
	if _, exists := r.byKey[t.Name()]; exists {
		return fmt.Errorf("register %q: %w", t.Name(), ErrDuplicate)
	}
	r.order = append(r.order, t)
	r.byKey[t.Name()] = t
	return nil
}

// Get looks up a tool by name
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.byKey[name]
	return t, ok
}

// Specs returns every tool specification in registration order
func (r *Registry) Specs() []Spec {
	specs := make([]Spec, 0, len(r.order))
	for _, t := range r.order {
		specs = append(specs, t.Spec())
	}
	return specs
}

// Names returns the registered tool names in registration order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, t := range r.order {
		names = append(names, t.Name())
	}
	return names
}

func (r *Registry) Len() int { return len(r.order) }
