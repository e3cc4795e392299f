// Package npc provides enemy definitions loaded from content and converts
// them into combatants and strategies for an encounter.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/centaur/internal/game/ai"
	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// Stats are an enemy's base combat numbers.
type Stats struct {
	MaxHealth   int `yaml:"max_health"`
	MaxStamina  int `yaml:"max_stamina"`
	AttackPower int `yaml:"attack_power"`
	Defense     int `yaml:"defense"`
	// Dodge and Crit are percentages.
	Dodge int `yaml:"dodge"`
	Crit  int `yaml:"crit"`
}

// Definition is a reusable enemy loaded from YAML.
type Definition struct {
	ID          string                   `yaml:"id"`
	Name        string                   `yaml:"name"`
	Description string                   `yaml:"description"`
	Archetype   ai.Archetype             `yaml:"archetype"`
	Element     element.Kind             `yaml:"element"`
	Stats       Stats                    `yaml:"stats"`
	Affinities  map[element.Kind]float64 `yaml:"affinities"`
	Special     *combat.Ability          `yaml:"special"`
	Drops       DropTable                `yaml:"drops"`
	// Phases is required for ArchetypeBoss and forbidden otherwise.
	Phases []ai.Phase `yaml:"phases"`
}

// Validate checks that the definition satisfies basic invariants.
//
// Precondition: d must not be nil.
// Postcondition: Returns nil iff the definition can produce a combatant and
// a strategy; returns an error on the first violation otherwise.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("npc definition: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("npc definition %q: name must not be empty", d.ID)
	}
	if d.Stats.MaxHealth < 1 {
		return fmt.Errorf("npc definition %q: max_health must be >= 1", d.ID)
	}
	if d.Stats.MaxStamina < 0 {
		return fmt.Errorf("npc definition %q: max_stamina must be >= 0", d.ID)
	}
	if d.Stats.AttackPower < 1 {
		return fmt.Errorf("npc definition %q: attack_power must be >= 1", d.ID)
	}
	if d.Stats.Defense < 0 {
		return fmt.Errorf("npc definition %q: defense must be >= 0", d.ID)
	}
	if d.Stats.Dodge < 0 || d.Stats.Dodge > 100 || d.Stats.Crit < 0 || d.Stats.Crit > 100 {
		return fmt.Errorf("npc definition %q: dodge and crit must be 0-100", d.ID)
	}
	for e, a := range d.Affinities {
		if a < 0 {
			return fmt.Errorf("npc definition %q: affinity for %s must be >= 0, got %v", d.ID, e, a)
		}
	}
	if d.Special != nil {
		if err := d.Special.Validate(); err != nil {
			return fmt.Errorf("npc definition %q: special: %w", d.ID, err)
		}
	}
	if err := d.Drops.Validate(); err != nil {
		return fmt.Errorf("npc definition %q: %w", d.ID, err)
	}
	isBoss := d.Archetype == ai.ArchetypeBoss
	if isBoss && len(d.Phases) == 0 {
		return fmt.Errorf("npc definition %q: boss must define phases", d.ID)
	}
	if !isBoss && len(d.Phases) > 0 {
		return fmt.Errorf("npc definition %q: only a boss may define phases", d.ID)
	}
	if isBoss {
		if _, err := ai.NewBossController(d.Phases); err != nil {
			return fmt.Errorf("npc definition %q: %w", d.ID, err)
		}
	}
	return nil
}

// NewCombatant creates a full-health, full-stamina combatant from d.
//
// Precondition: d passes Validate.
// Postcondition: the combatant owns fresh affinity and effect collections.
func (d *Definition) NewCombatant() *combat.Combatant {
	aff := make(map[element.Kind]float64, len(d.Affinities))
	for k, v := range d.Affinities {
		aff[k] = v
	}
	var special *combat.Ability
	if d.Special != nil {
		cp := *d.Special
		special = &cp
	}
	return &combat.Combatant{
		ID:          d.ID,
		Name:        d.Name,
		Kind:        combat.KindEnemy,
		Health:      d.Stats.MaxHealth,
		MaxHealth:   d.Stats.MaxHealth,
		Stamina:     d.Stats.MaxStamina,
		MaxStamina:  d.Stats.MaxStamina,
		AttackPower: d.Stats.AttackPower,
		BaseDefense: d.Stats.Defense,
		DodgeChance: d.Stats.Dodge,
		CritChance:  d.Stats.Crit,
		Element:     d.Element,
		Affinities:  aff,
		Archetype:   d.Archetype.String(),
		Special:     special,
		Effects:     status.NewSet(),
	}
}

// Strategy returns a fresh Strategy for d. Bosses get their own phase
// controller; other archetypes use policies from reg.
//
// Precondition: d passes Validate; reg non-nil.
func (d *Definition) Strategy(reg *ai.Registry) (*ai.Strategy, error) {
	if d.Archetype == ai.ArchetypeBoss {
		b, err := ai.NewBossController(d.Phases)
		if err != nil {
			return nil, fmt.Errorf("npc definition %q: %w", d.ID, err)
		}
		return ai.NewBossStrategy(b), nil
	}
	return reg.Strategy(d.Archetype)
}

// LoadDefinitionFromBytes parses a single enemy definition from raw YAML bytes.
//
// Postcondition: Returns a validated *Definition, or an error.
func LoadDefinitionFromBytes(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing enemy YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Catalog indexes enemy definitions by ID.
type Catalog struct {
	defs map[string]*Definition
}

// NewCatalog builds a Catalog from defs.
//
// Postcondition: returns error on duplicate IDs.
func NewCatalog(defs ...*Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if _, dup := c.defs[d.ID]; dup {
			return nil, fmt.Errorf("npc catalog: duplicate id %q", d.ID)
		}
		c.defs[d.ID] = d
	}
	return c, nil
}

// Get returns the definition with id.
func (c *Catalog) Get(id string) (*Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// IDs returns all definition IDs in lexical order.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.defs))
	for id := range c.defs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LoadCatalog reads all *.yaml files in dir into a Catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the catalog or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemy dir %q: %w", dir, err)
	}

	var defs []*Definition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		def, err := LoadDefinitionFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		defs = append(defs, def)
	}
	return NewCatalog(defs...)
}
