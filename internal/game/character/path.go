package character

import (
	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// Base values for a new wanderer.
const (
	BaseHealth  = 100
	BaseStamina = 50
	BaseAttack  = 20
	BaseDefense = 5
	BaseDodge   = 5
	BaseCrit    = 5
)

// New returns a full-health snapshot with base stats on path p.
//
// Precondition: name must be non-empty.
func New(name string, p Path) Snapshot {
	return Snapshot{
		Name:       name,
		Path:       p,
		Health:     BaseHealth,
		MaxHealth:  BaseHealth,
		Stamina:    BaseStamina,
		MaxStamina: BaseStamina,
		Attack:     BaseAttack,
		Defense:    BaseDefense,
		Dodge:      BaseDodge,
		Crit:       BaseCrit,
		Element:    element.Physical,
	}
}

// SpecialFor returns the Special ability granted by path p.
//
// Postcondition: the returned ability passes Validate and is a fresh copy.
func SpecialFor(p Path) *combat.Ability {
	switch p {
	case PathWarrior:
		return &combat.Ability{ID: "crushing_blow", Name: "Crushing Blow", Kind: combat.AbilityStrike,
			Element: element.Physical, Power: 1.8, StaminaCost: 20,
			Effects: []combat.EffectGrant{{Kind: status.Bleed, Chance: 50}}}
	case PathMystic:
		return &combat.Ability{ID: "radiant_lance", Name: "Radiant Lance", Kind: combat.AbilityStrike,
			Element: element.Light, Power: 1.6, StaminaCost: 20,
			Effects: []combat.EffectGrant{{Kind: status.Weaken, Chance: 50}}}
	case PathStealth:
		return &combat.Ability{ID: "shadow_step", Name: "Shadow Step", Kind: combat.AbilityStrike,
			Element: element.Shadow, Power: 1.5, StaminaCost: 25, IgnoreDefense: true}
	default:
		return &combat.Ability{ID: "power_strike", Name: "Power Strike", Kind: combat.AbilityStrike,
			Element: element.Physical, Power: 1.5, StaminaCost: 20}
	}
}

// applyPath folds path bonuses into c and sets its Special.
func applyPath(c *combat.Combatant, p Path) {
	switch p {
	case PathWarrior:
		c.AttackPower += 10
		c.BaseDefense += 5
		scaleAffinity(c, 1.2, element.Physical)
	case PathMystic:
		scaleAffinity(c, 1.2, element.Fire, element.Water, element.Earth, element.Air)
	case PathStealth:
		c.CritChance = min(100, c.CritChance+10)
		c.DodgeChance = min(100, c.DodgeChance+10)
		scaleAffinity(c, 1.3, element.Shadow)
	}
	c.Special = SpecialFor(p)
}

func scaleAffinity(c *combat.Combatant, factor float64, kinds ...element.Kind) {
	for _, k := range kinds {
		c.Affinities[k] = c.Affinity(k) * factor
	}
}
