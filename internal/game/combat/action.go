package combat

import (
	"fmt"

	"github.com/cory-johannsen/centaur/internal/game/element"
)

// ActionType identifies what a combatant does on its turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota
	ActionAttack
	ActionDefend
	ActionDodge
	ActionSpecial
	ActionUseItem
	ActionFlee
	// ActionAbility uses a named ability from the enemy's ability pool.
	ActionAbility
)

// String returns the lower-case action name.
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	case ActionDodge:
		return "dodge"
	case ActionSpecial:
		return "special"
	case ActionUseItem:
		return "use_item"
	case ActionFlee:
		return "flee"
	case ActionAbility:
		return "ability"
	default:
		return "unknown"
	}
}

// IsOffensive reports whether the action deals damage to the opponent.
func (a ActionType) IsOffensive() bool {
	return a == ActionAttack || a == ActionSpecial || a == ActionAbility
}

// Action is a parsed action for one turn.
type Action struct {
	Type ActionType
	// Target is the target combatant ID for Attack and Special.
	Target  string
	Element element.Kind
	// Item is the item reference for UseItem.
	Item string
	// Ability is set for ActionAbility.
	Ability *Ability
}

// Attack returns an Attack action on target with element e.
func Attack(target string, e element.Kind) Action {
	return Action{Type: ActionAttack, Target: target, Element: e}
}

// Defend returns a Defend action.
func Defend() Action { return Action{Type: ActionDefend} }

// Dodge returns a Dodge action.
func Dodge() Action { return Action{Type: ActionDodge} }

// Special returns a Special action on target.
func Special(target string) Action { return Action{Type: ActionSpecial, Target: target} }

// UseItem returns a UseItem action for item.
func UseItem(item string) Action { return Action{Type: ActionUseItem, Item: item} }

// Flee returns a Flee action.
func Flee() Action { return Action{Type: ActionFlee} }

// UseAbility returns an Ability action for a on target.
//
// Precondition: a must not be nil.
func UseAbility(target string, a *Ability) Action {
	return Action{Type: ActionAbility, Target: target, Element: a.Element, Ability: a}
}

// String renders the action for logs.
func (a Action) String() string {
	switch a.Type {
	case ActionAttack:
		return fmt.Sprintf("attack %s with %s", a.Target, a.Element)
	case ActionSpecial:
		return fmt.Sprintf("special on %s", a.Target)
	case ActionUseItem:
		return "use " + a.Item
	case ActionAbility:
		if a.Ability != nil {
			return "ability " + a.Ability.ID
		}
		return "ability"
	default:
		return a.Type.String()
	}
}
