package combat

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// AbilityKind selects how an ability resolves.
type AbilityKind int

const (
	// AbilityStrike deals damage and may inflict effects.
	AbilityStrike AbilityKind = iota
	// AbilityShield raises a Defending stance with damage reflection.
	AbilityShield
	// AbilityDrain deals damage and heals the user by a fraction of it.
	AbilityDrain
)

var abilityKindNames = [...]string{"strike", "shield", "drain"}

func (k AbilityKind) String() string {
	if k < 0 || int(k) >= len(abilityKindNames) {
		return "unknown"
	}
	return abilityKindNames[k]
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *AbilityKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range abilityKindNames {
		if n == name {
			*k = AbilityKind(i)
			return nil
		}
	}
	return fmt.Errorf("combat: unknown ability kind %q", string(text))
}

// EffectGrant is a status effect an ability may inflict on its target.
type EffectGrant struct {
	Kind status.Kind `yaml:"kind"`
	// Chance is a percentage; 0 is treated as 100.
	Chance   int `yaml:"chance"`
	Potency  int `yaml:"potency"`
	Duration int `yaml:"duration"`
}

// Ability is a named move, loaded from enemy content or derived for the
// player's Special.
type Ability struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Kind        AbilityKind  `yaml:"kind"`
	Element     element.Kind `yaml:"element"`
	// Power scales the user's AttackPower into the attack's base power.
	Power         float64 `yaml:"power"`
	IgnoreDefense bool    `yaml:"ignore_defense"`
	StaminaCost   int     `yaml:"stamina_cost"`
	// Effects are rolled on a landed hit instead of the element's signature effect.
	Effects []EffectGrant `yaml:"effects"`
	// RandomEffect picks one entry of Effects to roll instead of rolling each.
	RandomEffect    bool    `yaml:"random_effect"`
	HealFraction    float64 `yaml:"heal_fraction"`
	ReflectFraction float64 `yaml:"reflect_fraction"`
	// Weight is the relative selection weight inside an ability pool.
	Weight int `yaml:"weight"`
}

// Validate checks the ability's internal consistency.
func (a *Ability) Validate() error {
	var errs []string
	if a.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if !a.Element.Valid() {
		errs = append(errs, "element is not valid")
	}
	if a.Kind != AbilityShield && a.Power <= 0 {
		errs = append(errs, fmt.Sprintf("power must be > 0, got %v", a.Power))
	}
	if a.StaminaCost < 0 {
		errs = append(errs, "stamina_cost must be >= 0")
	}
	if a.Weight < 0 {
		errs = append(errs, "weight must be >= 0")
	}
	if a.HealFraction < 0 || a.HealFraction > 1 {
		errs = append(errs, "heal_fraction must be in [0, 1]")
	}
	if a.ReflectFraction < 0 || a.ReflectFraction > 1 {
		errs = append(errs, "reflect_fraction must be in [0, 1]")
	}
	for i, g := range a.Effects {
		if g.Chance < 0 || g.Chance > 100 {
			errs = append(errs, fmt.Sprintf("effects[%d].chance must be 0-100", i))
		}
		if g.Potency < 0 || g.Duration < 0 {
			errs = append(errs, fmt.Sprintf("effects[%d] potency and duration must be >= 0", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("ability %q: %s", a.ID, strings.Join(errs, "; "))
	}
	return nil
}

// BasicAttack returns the plain weighted attack used in ability pools.
func BasicAttack(e element.Kind, weight int) *Ability {
	return &Ability{ID: "attack", Name: "Attack", Kind: AbilityStrike, Element: e, Power: 1, Weight: weight}
}
