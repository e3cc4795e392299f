package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/game/dice"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// AttackRequest is the input to Calculator.ResolveAttack.
type AttackRequest struct {
	Attacker  *Combatant
	Defender  *Combatant
	Element   element.Kind
	BasePower int
	Terrain   element.TerrainContext
	// IgnoreDefense bypasses the Defending multiplier and base-defense
	// mitigation. Weaken and the dodge roll still apply.
	IgnoreDefense bool
	// SkipSignature suppresses the element's signature effect roll.
	SkipSignature bool
}

// AttackResult holds the outcome of a single attack.
//
// Invariant: Damage >= 0; WasDodged implies Damage == 0.
type AttackResult struct {
	AttackerID string
	TargetID   string
	Element    element.Kind
	Damage     int
	IsCritical bool
	WasDodged  bool
	// EffectApplied is the effect inflicted on the target, if any.
	EffectApplied *status.Instance
	// Multiplier is the product of elemental, terrain, affinity, stance and
	// status factors. Mitigation is the separate base-defense factor.
	Multiplier float64
	Mitigation float64
	// Reflected is damage returned to the attacker by the target's reflect.
	Reflected int
	// NoOp is set when the target was already defeated.
	NoOp bool
}

// Calculator resolves attacks. It holds no per-encounter state, so one
// Calculator may be shared by concurrent encounters.
type Calculator struct {
	tuning   Tuning
	statuses *status.Registry
	logger   *zap.Logger
}

// NewCalculator creates a Calculator.
//
// Precondition: tuning must pass Validate; statuses must be non-nil.
func NewCalculator(tuning Tuning, statuses *status.Registry, logger *zap.Logger) *Calculator {
	if err := tuning.Validate(); err != nil {
		panic("combat: NewCalculator: " + err.Error())
	}
	if statuses == nil {
		panic("combat: NewCalculator: statuses must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{tuning: tuning, statuses: statuses, logger: logger}
}

// Tuning returns the calculator's calibration.
func (c *Calculator) Tuning() Tuning { return c.tuning }

// Statuses returns the status registry.
func (c *Calculator) Statuses() *status.Registry { return c.statuses }

// ResolveAttack resolves one attack in a fixed roll order: dodge, critical
// hit, then status effect. The defender's health, effects and stance are
// mutated in place.
//
// Precondition: req.Attacker and req.Defender non-nil; rng non-nil.
// Postcondition: result.Damage >= 0; the defender's stance is cleared unless
// the result is a no-op. Returns CodeInternal for BasePower <= 0 and
// CodeInvariantViolation if arithmetic yields negative damage.
func (c *Calculator) ResolveAttack(rng *dice.Roller, req AttackRequest) (AttackResult, error) {
	atk, def := req.Attacker, req.Defender
	if req.BasePower <= 0 {
		return AttackResult{}, Newf(CodeInternal, "base power must be > 0, got %d", req.BasePower)
	}
	res := AttackResult{AttackerID: atk.ID, TargetID: def.ID, Element: req.Element, Mitigation: 1}
	if def.IsDefeated() {
		res.NoOp = true
		return res, nil
	}
	defer def.ClearStance()

	if rng.Check("dodge", c.DodgeChance(atk, def)) {
		res.WasDodged = true
		c.log(res)
		return res, nil
	}

	res.Multiplier = c.Multiplier(req)
	if !req.IgnoreDefense && def.BaseDefense > 0 {
		d := float64(def.BaseDefense)
		res.Mitigation = 1 - d/(d+c.tuning.DefenseScale)
	}
	dmg := int(math.Round(float64(req.BasePower) * res.Multiplier * res.Mitigation))
	if rng.Check("critical", c.critChance(atk)) {
		res.IsCritical = true
		dmg = int(math.Round(float64(dmg) * c.tuning.CritMultiplier))
	}
	if dmg < 0 {
		return res, InvariantViolationf("negative damage %d from %s on %s", dmg, atk.ID, def.ID).
			WithMeta("multiplier", res.Multiplier)
	}
	if dmg < 1 && res.Multiplier > 0 {
		dmg = 1
	}
	res.Damage = dmg

	if !req.SkipSignature {
		if d, ok := c.statuses.ForElement(req.Element); ok && rng.Check("status:"+d.Kind.String(), d.ApplyChance) {
			inst, err := c.inflict(rng, d, def, atk.ID, 0, 0)
			if err != nil {
				return res, err
			}
			res.EffectApplied = &inst
		}
	}

	def.ApplyDamage(dmg)
	if def.Reflect > 0 && dmg > 0 {
		res.Reflected = int(float64(dmg) * def.Reflect)
		atk.ApplyDamage(res.Reflected)
	}
	c.log(res)
	return res, nil
}

// DodgeChance returns the defender's effective dodge chance against atk:
// base dodge, plus the Dodging bonus, plus the attacker's accuracy penalty,
// minus the defender's dodge penalty, clamped to [0, MaxDodgeChance].
func (c *Calculator) DodgeChance(atk, def *Combatant) int {
	chance := def.DodgeChance + atk.Flags.AccuracyPenalty - def.Flags.DodgePenalty
	if def.Stance == StanceDodging {
		chance += c.tuning.DodgeStanceBonus
	}
	return max(0, min(c.tuning.MaxDodgeChance, chance))
}

// Multiplier computes the damage multiplier of req, excluding base-defense mitigation.
func (c *Calculator) Multiplier(req AttackRequest) float64 {
	atk, def := req.Attacker, req.Defender
	m := element.Advantage(req.Element, def.Element) *
		req.Terrain.Bonus(req.Element) *
		atk.Affinity(req.Element) *
		atk.Flags.Outgoing()
	if !req.IgnoreDefense && def.Stance == StanceDefending {
		m *= c.tuning.DefendMultiplier
	}
	return m * def.Flags.Incoming()
}

func (c *Calculator) critChance(atk *Combatant) int {
	if atk.CritChance > 0 {
		return atk.CritChance
	}
	return c.tuning.CritChance
}

// inflict applies def's effect to target. Zero potency or duration are rolled
// from the definition.
func (c *Calculator) inflict(rng *dice.Roller, d *status.Definition, target *Combatant, by string, potency, duration int) (status.Instance, error) {
	if potency <= 0 {
		potency = d.RollPotency(rng)
	}
	if duration <= 0 {
		duration = d.RollDuration(rng)
	}
	if target.Effects == nil {
		target.EnsureEffects(nil)
	}
	inst, err := target.Effects.Apply(d, potency, duration, by)
	if err != nil {
		return status.Instance{}, Wrap(err, CodeInternal, "applying status")
	}
	return inst, nil
}

func (c *Calculator) log(res AttackResult) {
	c.logger.Debug("attack resolved",
		zap.String("attacker", res.AttackerID),
		zap.String("target", res.TargetID),
		zap.String("element", res.Element.String()),
		zap.Int("damage", res.Damage),
		zap.Bool("critical", res.IsCritical),
		zap.Bool("dodged", res.WasDodged),
		zap.Float64("multiplier", res.Multiplier),
	)
}

// AbilityResult is the outcome of a named ability.
type AbilityResult struct {
	AbilityID string
	// Attack is nil for abilities that deal no damage.
	Attack *AttackResult
	// Granted lists effects inflicted by the ability's own effect table.
	Granted []status.Instance
	Healed  int
	// Shielded is set when the user raised a reflecting guard.
	Shielded bool
}

// ResolveAbility resolves ability a used by user against target. Strike and
// Drain abilities attack with base power AttackPower*Power; an ability with
// an effect table rolls those grants on a landed hit in place of the
// element's signature effect. Stamina is not spent here.
//
// Precondition: user, target and a non-nil; a passes Validate.
func (c *Calculator) ResolveAbility(rng *dice.Roller, user, target *Combatant, a *Ability, terrain element.TerrainContext) (AbilityResult, error) {
	res := AbilityResult{AbilityID: a.ID}
	if a.Kind == AbilityShield {
		user.Stance = StanceDefending
		user.Reflect = a.ReflectFraction
		res.Shielded = true
		return res, nil
	}

	power := int(math.Round(float64(user.AttackPower) * a.Power))
	atk, err := c.ResolveAttack(rng, AttackRequest{
		Attacker:      user,
		Defender:      target,
		Element:       a.Element,
		BasePower:     max(1, power),
		Terrain:       terrain,
		IgnoreDefense: a.IgnoreDefense,
		SkipSignature: len(a.Effects) > 0,
	})
	if err != nil {
		return res, err
	}
	res.Attack = &atk
	if atk.WasDodged || atk.NoOp {
		return res, nil
	}

	grants := a.Effects
	if a.RandomEffect && len(grants) > 0 {
		i := rng.Intn(len(grants))
		grants = grants[i : i+1]
	}
	for _, g := range grants {
		d, ok := c.statuses.Get(g.Kind)
		if !ok {
			return res, Newf(CodeInternal, "ability %s grants unregistered status %s", a.ID, g.Kind)
		}
		chance := g.Chance
		if chance == 0 {
			chance = 100
		}
		if !rng.Check("status:"+g.Kind.String(), chance) {
			continue
		}
		inst, err := c.inflict(rng, d, target, user.ID, g.Potency, g.Duration)
		if err != nil {
			return res, err
		}
		res.Granted = append(res.Granted, inst)
	}

	if a.Kind == AbilityDrain && a.HealFraction > 0 {
		res.Healed = user.Heal(int(float64(atk.Damage) * a.HealFraction))
	}
	return res, nil
}
