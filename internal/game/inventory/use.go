package inventory

import (
	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// UseResult reports what a consumable did.
type UseResult struct {
	ItemID   string
	Healed   int
	Restored int
	Cured    []status.Kind
}

// Use spends one id from bag and applies it to target.
//
// Precondition: target non-nil.
// Postcondition: on error neither bag nor target is modified. Returns
// CodeInvalidAction for an unknown or non-consumable item and
// CodeInsufficientResource when the bag holds none.
func Use(cat *Catalog, bag *Bag, id string, target *combat.Combatant) (UseResult, error) {
	def, ok := cat.Item(id)
	if !ok {
		return UseResult{}, combat.InvalidActionf("unknown item %q", id)
	}
	if !def.IsConsumable() {
		return UseResult{}, combat.InvalidActionf("%s cannot be used in combat", def.Name).WithMeta("item", id)
	}
	if err := bag.Remove(id, 1); err != nil {
		return UseResult{}, combat.Wrap(err, combat.CodeInsufficientResource, "no "+def.Name+" left").WithMeta("item", id)
	}

	res := UseResult{ItemID: id}
	heal := def.Heal + int(float64(target.MaxHealth)*def.HealFraction)
	if heal > 0 {
		res.Healed = target.Heal(heal)
	}
	if def.Stamina > 0 {
		res.Restored = target.RestoreStamina(def.Stamina)
	}
	if target.Effects != nil {
		if def.CuresAll {
			res.Cured = target.Effects.Clear()
		} else {
			for _, k := range def.Cures {
				if target.Effects.Remove(k) {
					res.Cured = append(res.Cured, k)
				}
			}
		}
		if len(res.Cured) > 0 {
			target.Flags = target.Effects.Flags()
		}
	}
	return res, nil
}
