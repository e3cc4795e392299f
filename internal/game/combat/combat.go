// Package combat implements damage resolution for one-on-one elemental
// combat: combatant state, actions, the damage calculator and the error
// taxonomy shared by the encounter state machine.
package combat

import (
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// Kind distinguishes the player from the enemy.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
)

func (k Kind) String() string {
	if k == KindPlayer {
		return "player"
	}
	return "enemy"
}

// Stance is a one-turn defensive posture.
type Stance int

const (
	StanceNone Stance = iota
	StanceDefending
	StanceDodging
)

// String returns a human-readable stance label.
func (s Stance) String() string {
	switch s {
	case StanceDefending:
		return "defending"
	case StanceDodging:
		return "dodging"
	default:
		return "none"
	}
}

// Combatant is one side of an encounter. It is owned by exactly one
// encounter and is not safe for concurrent use.
//
// Invariant: 0 <= Health <= MaxHealth; 0 <= Stamina <= MaxStamina.
type Combatant struct {
	ID   string
	Name string
	Kind Kind

	Health     int
	MaxHealth  int
	Stamina    int
	MaxStamina int

	AttackPower int
	BaseDefense int
	// DodgeChance and CritChance are percentages.
	DodgeChance int
	CritChance  int

	// Element is the combatant's defensive typing.
	Element element.Kind
	// Affinities scale damage dealt per element. A missing entry is 1.0; an
	// explicit zero means the element cannot be channelled.
	Affinities map[element.Kind]float64
	// Archetype is the AI archetype name; empty for the player.
	Archetype string
	// Special is the ability spent by the Special action; nil if none.
	Special *Ability

	Stance Stance
	// Reflect is the fraction of the next hit's damage returned to the attacker.
	Reflect float64
	Effects *status.Set
	// Flags are the status flags computed by the combatant's latest tick.
	Flags status.Flags
}

// IsPlayer reports whether this combatant is the player.
func (c *Combatant) IsPlayer() bool { return c.Kind == KindPlayer }

// IsDefeated reports whether the combatant's health has reached zero.
func (c *Combatant) IsDefeated() bool { return c.Health <= 0 }

// HealthFraction returns Health/MaxHealth.
//
// Postcondition: Returns a value in [0, 1] when the invariant holds.
func (c *Combatant) HealthFraction() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return float64(c.Health) / float64(c.MaxHealth)
}

// Affinity returns the damage multiplier the combatant channels e with.
func (c *Combatant) Affinity(e element.Kind) float64 {
	if a, ok := c.Affinities[e]; ok {
		return a
	}
	return 1.0
}

// CanChannel reports whether the combatant may attack with element e.
func (c *Combatant) CanChannel(e element.Kind) bool {
	return c.Affinity(e) > 0
}

// ApplyDamage reduces Health by amount, flooring at zero, and returns the
// health actually lost.
//
// Precondition: amount >= 0.
// Postcondition: Health >= 0.
func (c *Combatant) ApplyDamage(amount int) int {
	before := c.Health
	c.Health -= amount
	if c.Health < 0 {
		c.Health = 0
	}
	return before - c.Health
}

// Heal raises Health by amount, capped at MaxHealth, and returns the health gained.
//
// Precondition: amount >= 0.
func (c *Combatant) Heal(amount int) int {
	before := c.Health
	c.Health = min(c.MaxHealth, c.Health+amount)
	return c.Health - before
}

// SpendStamina deducts cost if affordable.
//
// Postcondition: on error Stamina is unchanged.
func (c *Combatant) SpendStamina(cost int) error {
	if cost > c.Stamina {
		return InsufficientResourcef("%s needs %d stamina, has %d", c.Name, cost, c.Stamina).
			WithMeta("combatant", c.ID)
	}
	c.Stamina -= cost
	return nil
}

// RestoreStamina raises Stamina by amount, capped at MaxStamina, and returns the stamina gained.
func (c *Combatant) RestoreStamina(amount int) int {
	before := c.Stamina
	c.Stamina = max(0, min(c.MaxStamina, c.Stamina+amount))
	return c.Stamina - before
}

// ClearStance drops any stance and pending reflect.
func (c *Combatant) ClearStance() {
	c.Stance = StanceNone
	c.Reflect = 0
}

// CheckInvariants returns a CodeInvariantViolation error if any resource is out of range.
func (c *Combatant) CheckInvariants() error {
	switch {
	case c.MaxHealth <= 0:
		return InvariantViolationf("%s max health %d must be positive", c.ID, c.MaxHealth)
	case c.Health < 0 || c.Health > c.MaxHealth:
		return InvariantViolationf("%s health %d outside [0, %d]", c.ID, c.Health, c.MaxHealth)
	case c.Stamina < 0 || c.Stamina > c.MaxStamina:
		return InvariantViolationf("%s stamina %d outside [0, %d]", c.ID, c.Stamina, c.MaxStamina)
	}
	return nil
}

// EnsureEffects allocates the effect set if missing and binds it to the
// combatant's ID.
func (c *Combatant) EnsureEffects(hooks status.HookCaller) {
	if c.Effects == nil {
		c.Effects = status.NewSet()
	}
	c.Effects.Attach(c.ID, hooks)
}
