package encounter

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/inventory"
)

// Flee chance bounds, in percent.
const (
	MinFleeChance = 5
	MaxFleeChance = 95
)

// validatePlayerAction rejects actions that cannot be taken, without mutating anything.
func (e *Encounter) validatePlayerAction(a combat.Action) error {
	switch a.Type {
	case combat.ActionAttack:
		if err := e.checkTarget(a); err != nil {
			return err
		}
		if !a.Element.Valid() {
			return combat.InvalidActionf("unknown element %d", int(a.Element))
		}
		if !e.player.CanChannel(a.Element) {
			return combat.InvalidActionf("%s cannot channel %s", e.player.Name, a.Element).WithMeta("element", a.Element.String())
		}
	case combat.ActionSpecial:
		if err := e.checkTarget(a); err != nil {
			return err
		}
		sp := e.playerSpecial()
		if e.player.Stamina < sp.StaminaCost {
			return combat.InsufficientResourcef("%s needs %d stamina, has %d", sp.Name, sp.StaminaCost, e.player.Stamina).
				WithMeta("ability", sp.ID)
		}
	case combat.ActionUseItem:
		if e.items == nil || e.bag == nil {
			return combat.InvalidActionf("no items can be used in this encounter")
		}
		def, ok := e.items.Item(a.Item)
		if !ok {
			return combat.InvalidActionf("unknown item %q", a.Item)
		}
		if !def.IsConsumable() {
			return combat.InvalidActionf("%s cannot be used in combat", def.Name).WithMeta("item", a.Item)
		}
		if e.bag.Count(a.Item) < 1 {
			return combat.InsufficientResourcef("no %s left", def.Name).WithMeta("item", a.Item)
		}
	case combat.ActionDefend, combat.ActionDodge, combat.ActionFlee:
	default:
		return combat.InvalidActionf("player cannot take action %s", a.Type)
	}
	return nil
}

func (e *Encounter) checkTarget(a combat.Action) error {
	if a.Target != e.enemy.ID {
		return combat.InvalidActionf("no target %q in this encounter", a.Target).WithMeta("enemy", e.enemy.ID)
	}
	return nil
}

// playerSpecial returns the player's Special, or the default special attack
// from tuning when the player has none.
func (e *Encounter) playerSpecial() *combat.Ability {
	if e.player.Special != nil {
		return e.player.Special
	}
	t := e.calc.Tuning()
	return &combat.Ability{
		ID:          "special",
		Name:        "Special",
		Kind:        combat.AbilityStrike,
		Element:     e.player.Element,
		Power:       t.SpecialPower,
		StaminaCost: t.SpecialCost,
	}
}

func (e *Encounter) resolvePlayerAction(a combat.Action) (Event, error) {
	before := e.capture()
	ev := Event{Kind: EventAction, Actor: e.player.ID, Action: a}
	switch a.Type {
	case combat.ActionAttack:
		res, err := e.calc.ResolveAttack(e.rng, combat.AttackRequest{
			Attacker:  e.player,
			Defender:  e.enemy,
			Element:   a.Element,
			BasePower: e.player.AttackPower,
			Terrain:   e.terrain,
		})
		if err != nil {
			return ev, err
		}
		ev.Attack = &res
	case combat.ActionDefend:
		e.player.Stance = combat.StanceDefending
		ev.Stance = combat.StanceDefending
	case combat.ActionDodge:
		e.player.Stance = combat.StanceDodging
		ev.Stance = combat.StanceDodging
	case combat.ActionSpecial:
		sp := e.playerSpecial()
		if err := e.player.SpendStamina(sp.StaminaCost); err != nil {
			return ev, err
		}
		res, err := e.calc.ResolveAbility(e.rng, e.player, e.enemy, sp, e.terrain)
		if err != nil {
			return ev, err
		}
		ev.Ability = &res
		ev.Attack = res.Attack
	case combat.ActionUseItem:
		res, err := inventory.Use(e.items, e.bag, a.Item, e.player)
		if err != nil {
			return ev, err
		}
		ev.Item = &res
	case combat.ActionFlee:
		chance := max(MinFleeChance, min(MaxFleeChance, e.calc.Tuning().FleeBaseChance+e.player.DodgeChance))
		ev.Fled = e.rng.Check("flee", chance)
		if ev.Fled {
			e.outcome = OutcomeFled
		}
	}
	e.deltas(&ev, before)
	e.logger.Debug("player action",
		zap.String("action", a.String()),
		zap.Int("enemy_health", e.enemy.Health),
	)
	return ev, nil
}

func (e *Encounter) resolveEnemyAction(a combat.Action) (Event, error) {
	before := e.capture()
	ev := Event{Kind: EventAction, Actor: e.enemy.ID, Action: a}
	switch a.Type {
	case combat.ActionAttack:
		res, err := e.calc.ResolveAttack(e.rng, combat.AttackRequest{
			Attacker:  e.enemy,
			Defender:  e.player,
			Element:   a.Element,
			BasePower: e.enemy.AttackPower,
			Terrain:   e.terrain,
		})
		if err != nil {
			return ev, err
		}
		ev.Attack = &res
	case combat.ActionDefend:
		e.enemy.Stance = combat.StanceDefending
		ev.Stance = combat.StanceDefending
	case combat.ActionDodge:
		e.enemy.Stance = combat.StanceDodging
		ev.Stance = combat.StanceDodging
	case combat.ActionSpecial, combat.ActionAbility:
		ab := a.Ability
		if a.Type == combat.ActionSpecial {
			ab = e.enemy.Special
		}
		if ab == nil {
			return ev, combat.Newf(combat.CodeInternal, "%s chose %s without an ability", e.enemy.ID, a.Type)
		}
		if err := e.enemy.SpendStamina(ab.StaminaCost); err != nil {
			return ev, combat.Wrap(err, combat.CodeInternal, "enemy strategy chose an unaffordable ability")
		}
		res, err := e.calc.ResolveAbility(e.rng, e.enemy, e.player, ab, e.terrain)
		if err != nil {
			return ev, err
		}
		ev.Ability = &res
		ev.Attack = res.Attack
	default:
		return ev, combat.Newf(combat.CodeInternal, "enemy cannot take action %s", a.Type)
	}
	e.deltas(&ev, before)
	e.logger.Debug("enemy action",
		zap.String("action", a.String()),
		zap.Int("player_health", e.player.Health),
	)
	return ev, nil
}
