package command

import (
	"strings"

	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/element"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: If line is blank, Command is empty.
func Parse(line string) ParseResult {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ParseResult{}
	}
	return ParseResult{Command: strings.ToLower(fields[0]), Args: fields[1:]}
}

// ParseAction resolves line against r and builds the action it names,
// targeting enemyID where the action needs a target.
//
// Postcondition: returns CodeInvalidAction for blank input, unknown or
// non-action commands, missing item names and unknown elements.
func (r *Registry) ParseAction(line, enemyID string) (combat.Action, error) {
	pr := Parse(line)
	if pr.Command == "" {
		return combat.Action{}, combat.InvalidActionf("no command given")
	}
	cmd, ok := r.Resolve(pr.Command)
	if !ok {
		return combat.Action{}, combat.InvalidActionf("unknown command %q", pr.Command)
	}
	if !IsAction(cmd.Handler) {
		return combat.Action{}, combat.InvalidActionf("%s does not take a turn", cmd.Name).WithMeta("command", cmd.Name)
	}

	switch cmd.Handler {
	case HandlerAttack:
		e := element.Physical
		if len(pr.Args) > 0 {
			parsed, err := element.ParseKind(pr.Args[0])
			if err != nil {
				return combat.Action{}, combat.Wrap(err, combat.CodeInvalidAction, "usage: "+cmd.Usage)
			}
			e = parsed
		}
		return combat.Attack(enemyID, e), nil
	case HandlerDefend:
		return combat.Defend(), nil
	case HandlerDodge:
		return combat.Dodge(), nil
	case HandlerSpecial:
		return combat.Special(enemyID), nil
	case HandlerUse:
		if len(pr.Args) == 0 {
			return combat.Action{}, combat.InvalidActionf("usage: %s", cmd.Usage)
		}
		return combat.UseItem(strings.ToLower(strings.Join(pr.Args, "_"))), nil
	default:
		return combat.Flee(), nil
	}
}
