// Package ai selects enemy actions. Regular enemies follow a data-driven
// archetype Policy; the boss follows a phase-gated BossController. Both are
// wrapped by Strategy, whose single ChooseAction dispatches on the archetype.
// All randomness is drawn from the caller's dice.Source.
package ai

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/centaur/internal/game/element"
)

// Archetype tags an enemy's behaviour family.
type Archetype int

const (
	ArchetypeShadow Archetype = iota
	ArchetypeConstruct
	ArchetypeSpirit
	ArchetypeBoss
)

var archetypeNames = [...]string{"shadow", "construct", "spirit", "boss"}

func (a Archetype) String() string {
	if a < 0 || int(a) >= len(archetypeNames) {
		return "unknown"
	}
	return archetypeNames[a]
}

// ParseArchetype converts a case-insensitive archetype name.
func ParseArchetype(s string) (Archetype, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range archetypeNames {
		if n == name {
			return Archetype(i), nil
		}
	}
	return ArchetypeShadow, fmt.Errorf("ai: unknown archetype %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Archetype) UnmarshalText(text []byte) error {
	parsed, err := ParseArchetype(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ActionWeights are relative weights of the four enemy action kinds.
type ActionWeights struct {
	Attack  int `yaml:"attack"`
	Defend  int `yaml:"defend"`
	Dodge   int `yaml:"dodge"`
	Special int `yaml:"special"`
}

func (w ActionWeights) total() int {
	return w.Attack + w.Defend + w.Dodge + w.Special
}

// ElementWeight is the relative preference for attacking with one element.
type ElementWeight struct {
	Element element.Kind `yaml:"element"`
	Weight  int          `yaml:"weight"`
}

// Policy is the fixed, health-gated decision table of one archetype.
//
// Invariant: HealthThreshold in (0, 1); Elements non-empty.
type Policy struct {
	Archetype   Archetype `yaml:"archetype"`
	Description string    `yaml:"description"`
	// HealthThreshold splits Above (health fraction > threshold) from Below.
	HealthThreshold float64         `yaml:"health_threshold"`
	Above           ActionWeights   `yaml:"above_threshold"`
	Below           ActionWeights   `yaml:"below_threshold"`
	Elements        []ElementWeight `yaml:"elements"`
	// StackEffects halves the weight of any element whose signature effect
	// the opponent already carries, steering towards a different effect.
	StackEffects bool `yaml:"stack_effects"`
}

// Validate checks the policy's fields.
//
// Postcondition: nil return guarantees a usable policy for a non-boss archetype.
func (p *Policy) Validate() error {
	if p.Archetype == ArchetypeBoss {
		return errors.New("ai.Policy: boss behaviour is defined by phases, not a policy")
	}
	if p.HealthThreshold <= 0 || p.HealthThreshold >= 1 {
		return fmt.Errorf("ai.Policy %s: health_threshold must be in (0, 1), got %v", p.Archetype, p.HealthThreshold)
	}
	for name, w := range map[string]ActionWeights{"above_threshold": p.Above, "below_threshold": p.Below} {
		if w.Attack < 0 || w.Defend < 0 || w.Dodge < 0 || w.Special < 0 {
			return fmt.Errorf("ai.Policy %s: %s weights must not be negative", p.Archetype, name)
		}
		if w.total() == 0 {
			return fmt.Errorf("ai.Policy %s: %s weights must not all be zero", p.Archetype, name)
		}
	}
	if len(p.Elements) == 0 {
		return fmt.Errorf("ai.Policy %s: must list at least one element", p.Archetype)
	}
	for _, ew := range p.Elements {
		if !ew.Element.Valid() || ew.Weight <= 0 {
			return fmt.Errorf("ai.Policy %s: element weights must name a valid element with weight > 0", p.Archetype)
		}
	}
	return nil
}

// WeightsFor returns the action weights for a combatant at healthFraction.
func (p *Policy) WeightsFor(healthFraction float64) ActionWeights {
	if healthFraction > p.HealthThreshold {
		return p.Above
	}
	return p.Below
}

// DefaultPolicies returns the built-in archetype policies.
func DefaultPolicies() []*Policy {
	return []*Policy{
		{
			Archetype:       ArchetypeShadow,
			Description:     "Evasive while healthy, reckless when hurt.",
			HealthThreshold: 0.5,
			Above:           ActionWeights{Attack: 50, Defend: 5, Dodge: 35, Special: 10},
			Below:           ActionWeights{Attack: 70, Defend: 5, Dodge: 10, Special: 15},
			Elements:        []ElementWeight{{element.Shadow, 70}, {element.Physical, 30}},
		},
		{
			Archetype:       ArchetypeConstruct,
			Description:     "Slow and heavy; turtles up when damaged.",
			HealthThreshold: 0.35,
			Above:           ActionWeights{Attack: 70, Defend: 20, Dodge: 0, Special: 10},
			Below:           ActionWeights{Attack: 45, Defend: 45, Dodge: 0, Special: 10},
			Elements:        []ElementWeight{{element.Physical, 50}, {element.Earth, 50}},
		},
		{
			Archetype:       ArchetypeSpirit,
			Description:     "Drifts out of reach and layers elemental afflictions.",
			HealthThreshold: 0.5,
			Above:           ActionWeights{Attack: 55, Defend: 5, Dodge: 30, Special: 10},
			Below:           ActionWeights{Attack: 60, Defend: 0, Dodge: 30, Special: 10},
			Elements: []ElementWeight{
				{element.Air, 25}, {element.Water, 25}, {element.Fire, 25}, {element.Light, 25},
			},
			StackEffects: true,
		},
	}
}

// yamlPolicyFile wraps the YAML top-level key.
type yamlPolicyFile struct {
	Policy *Policy `yaml:"policy"`
}

// LoadPolicies reads all *.yaml files from dir and returns parsed Policies.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns error if any YAML file fails to parse or validate.
func LoadPolicies(dir string) ([]*Policy, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadPolicies: reading %q: %w", dir, err)
	}
	var policies []*Policy
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadPolicies: reading %s: %w", e.Name(), err)
		}
		var f yamlPolicyFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("ai.LoadPolicies: parsing %s: %w", e.Name(), err)
		}
		if f.Policy == nil {
			return nil, fmt.Errorf("ai.LoadPolicies: %s missing top-level 'policy' key", e.Name())
		}
		if err := f.Policy.Validate(); err != nil {
			return nil, err
		}
		policies = append(policies, f.Policy)
	}
	return policies, nil
}
