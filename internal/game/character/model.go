// Package character defines the player snapshot an encounter is started
// from and the pure conversion into a combatant.
package character

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/inventory"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// Path is the discipline a player follows. It shapes combat bonuses and the
// Special ability.
type Path int

const (
	PathNone Path = iota
	PathWarrior
	PathMystic
	PathStealth
)

var pathNames = [...]string{"none", "warrior", "mystic", "stealth"}

func (p Path) String() string {
	if p < 0 || int(p) >= len(pathNames) {
		return "unknown"
	}
	return pathNames[p]
}

// ParsePath converts a case-insensitive path name. The empty string is PathNone.
func ParsePath(s string) (Path, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return PathNone, nil
	}
	for i, n := range pathNames {
		if n == name {
			return Path(i), nil
		}
	}
	return PathNone, fmt.Errorf("character: unknown path %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := ParsePath(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Snapshot is the player's state handed to an encounter. The encounter copies
// it; changes made during combat are reported back through results, never
// written here.
type Snapshot struct {
	Name       string                   `yaml:"name"`
	Path       Path                     `yaml:"path"`
	Health     int                      `yaml:"health"`
	MaxHealth  int                      `yaml:"max_health"`
	Stamina    int                      `yaml:"stamina"`
	MaxStamina int                      `yaml:"max_stamina"`
	Attack     int                      `yaml:"attack"`
	Defense    int                      `yaml:"defense"`
	Dodge      int                      `yaml:"dodge"`
	Crit       int                      `yaml:"crit"`
	Element    element.Kind             `yaml:"element"`
	Affinities map[element.Kind]float64 `yaml:"affinities"`
	// Items maps item IDs to carried counts.
	Items map[string]int `yaml:"items"`
}

// Validate checks the snapshot's resource invariants.
//
// Postcondition: returns nil iff 0 < Health <= MaxHealth and
// 0 <= Stamina <= MaxStamina and all percentages lie in [0, 100].
func (s Snapshot) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.MaxHealth < 1 || s.Health < 1 || s.Health > s.MaxHealth {
		errs = append(errs, fmt.Errorf("health %d must be in [1, %d]", s.Health, s.MaxHealth))
	}
	if s.MaxStamina < 0 || s.Stamina < 0 || s.Stamina > s.MaxStamina {
		errs = append(errs, fmt.Errorf("stamina %d must be in [0, %d]", s.Stamina, s.MaxStamina))
	}
	if s.Attack < 1 {
		errs = append(errs, errors.New("attack must be >= 1"))
	}
	if s.Defense < 0 || s.Dodge < 0 || s.Dodge > 100 || s.Crit < 0 || s.Crit > 100 {
		errs = append(errs, errors.New("defense must be >= 0; dodge and crit must be 0-100"))
	}
	for e, a := range s.Affinities {
		if a < 0 {
			errs = append(errs, fmt.Errorf("affinity for %s must be >= 0", e))
		}
	}
	for id, n := range s.Items {
		if n < 0 {
			errs = append(errs, fmt.Errorf("item %q count must be >= 0", id))
		}
	}
	return errors.Join(errs...)
}

// Bag returns a fresh item bag holding the snapshot's items.
func (s Snapshot) Bag() *inventory.Bag {
	return inventory.NewBag(s.Items)
}

// ToCombatant builds the player combatant with path bonuses and the path's
// Special ability applied.
//
// Precondition: s passes Validate.
// Postcondition: the combatant shares no maps with s.
func (s Snapshot) ToCombatant(id string) *combat.Combatant {
	aff := make(map[element.Kind]float64, len(s.Affinities))
	for k, v := range s.Affinities {
		aff[k] = v
	}
	c := &combat.Combatant{
		ID:          id,
		Name:        s.Name,
		Kind:        combat.KindPlayer,
		Health:      s.Health,
		MaxHealth:   s.MaxHealth,
		Stamina:     s.Stamina,
		MaxStamina:  s.MaxStamina,
		AttackPower: s.Attack,
		BaseDefense: s.Defense,
		DodgeChance: s.Dodge,
		CritChance:  s.Crit,
		Element:     s.Element,
		Affinities:  aff,
		Effects:     status.NewSet(),
	}
	applyPath(c, s.Path)
	return c
}
