package ai

import "fmt"

// Registry indexes Policies by archetype.
//
// Invariant: each archetype is registered at most once.
type Registry struct {
	policies map[Archetype]*Policy
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[Archetype]*Policy)}
}

// DefaultRegistry returns a Registry holding DefaultPolicies.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range DefaultPolicies() {
		if err := r.Register(p); err != nil {
			panic("ai: invalid built-in policy: " + err.Error())
		}
	}
	return r
}

// LoadRegistry builds a Registry from the defaults with the policies in dir
// replacing the built-in ones of the same archetype.
//
// Precondition: dir must be a readable directory.
func LoadRegistry(dir string) (*Registry, error) {
	loaded, err := LoadPolicies(dir)
	if err != nil {
		return nil, err
	}
	r := DefaultRegistry()
	for _, p := range loaded {
		r.policies[p.Archetype] = p
	}
	return r, nil
}

// Register validates and stores p.
//
// Precondition: p must not be nil.
// Postcondition: returns error on archetype collision or invalid policy.
func (r *Registry) Register(p *Policy) error {
	if _, exists := r.policies[p.Archetype]; exists {
		return fmt.Errorf("ai.Registry: archetype %s already registered", p.Archetype)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	r.policies[p.Archetype] = p
	return nil
}

// Get returns the Policy for a, or (nil, false) if not registered.
func (r *Registry) Get(a Archetype) (*Policy, bool) {
	p, ok := r.policies[a]
	return p, ok
}

// Strategy returns the Strategy for a regular archetype.
//
// Postcondition: returns error for ArchetypeBoss or an unregistered archetype.
func (r *Registry) Strategy(a Archetype) (*Strategy, error) {
	p, ok := r.Get(a)
	if !ok {
		return nil, fmt.Errorf("ai.Registry: no policy for archetype %s", a)
	}
	return NewPolicyStrategy(p), nil
}
