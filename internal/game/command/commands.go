// Package command turns the structured text form of a combat action into a
// combat.Action. It is the CLI's input surface; it does not interpret free
// natural language.
package command

// Handler identifiers mapping commands to combat action kinds.
const (
	HandlerAttack  = "attack"
	HandlerDefend  = "defend"
	HandlerDodge   = "dodge"
	HandlerSpecial = "special"
	HandlerUse     = "use"
	HandlerFlee    = "flee"
	HandlerStatus  = "status"
	HandlerHelp    = "help"
)

// Command defines a player-invocable combat command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "attack [element]".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Handler maps the command to an action kind or local handler.
	Handler string
}

// BuiltinCommands returns all built-in combat commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "attack", Aliases: []string{"a", "hit"}, Usage: "attack [element]", Help: "Strike the enemy, optionally channelling an element", Handler: HandlerAttack},
		{Name: "defend", Aliases: []string{"block", "guard"}, Usage: "defend", Help: "Brace to take reduced damage from the next hit", Handler: HandlerDefend},
		{Name: "dodge", Aliases: []string{"evade"}, Usage: "dodge", Help: "Ready yourself to avoid the next hit", Handler: HandlerDodge},
		{Name: "special", Aliases: []string{"sp"}, Usage: "special", Help: "Spend stamina on your path's special ability", Handler: HandlerSpecial},
		{Name: "use", Aliases: []string{"item", "drink"}, Usage: "use <item>", Help: "Use a consumable item", Handler: HandlerUse},
		{Name: "flee", Aliases: []string{"run", "escape"}, Usage: "flee", Help: "Attempt to escape the fight", Handler: HandlerFlee},
		{Name: "status", Aliases: []string{"st"}, Usage: "status", Help: "Show both combatants and their effects", Handler: HandlerStatus},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Handler: HandlerHelp},
	}
}

// IsAction reports whether the handler consumes a turn.
func IsAction(handler string) bool {
	switch handler {
	case HandlerAttack, HandlerDefend, HandlerDodge, HandlerSpecial, HandlerUse, HandlerFlee:
		return true
	default:
		return false
	}
}
