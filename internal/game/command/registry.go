package command

import (
	"fmt"
	"slices"
	"strings"
)

var knownHandlers = []string{
	HandlerAttack, HandlerDefend, HandlerDodge, HandlerSpecial,
	HandlerUse, HandlerFlee, HandlerStatus, HandlerHelp,
}

// Registry resolves command words, canonical or alias, to Commands.
//
// Invariant: every key of byWord is lower case and maps to exactly one command.
type Registry struct {
	ordered []*Command
	byWord  map[string]*Command
}

// NewRegistry indexes cmds.
//
// Postcondition: returns an error if a name or alias is empty, repeated, or
// if a command names an unknown handler.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{byWord: make(map[string]*Command, len(cmds)*3)}
	for i := range cmds {
		cmd := &cmds[i]
		if !slices.Contains(knownHandlers, cmd.Handler) {
			return nil, fmt.Errorf("command %q: unknown handler %q", cmd.Name, cmd.Handler)
		}
		for _, word := range append([]string{cmd.Name}, cmd.Aliases...) {
			key := strings.ToLower(word)
			if key == "" {
				return nil, fmt.Errorf("command %q: empty name or alias", cmd.Name)
			}
			if prev, exists := r.byWord[key]; exists {
				return nil, fmt.Errorf("command word %q used by both %q and %q", key, prev.Name, cmd.Name)
			}
			r.byWord[key] = cmd
		}
		r.ordered = append(r.ordered, cmd)
	}
	slices.SortFunc(r.ordered, func(a, b *Command) int { return strings.Compare(a.Name, b.Name) })
	return r, nil
}

// DefaultRegistry returns a Registry of BuiltinCommands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic("command: invalid built-in commands: " + err.Error())
	}
	return r
}

// Resolve looks up a command by case-insensitive name or alias.
func (r *Registry) Resolve(word string) (*Command, bool) {
	cmd, ok := r.byWord[strings.ToLower(word)]
	return cmd, ok
}

// Commands returns every command sorted by name.
func (r *Registry) Commands() []*Command {
	return slices.Clone(r.ordered)
}

// Help renders one line per command: usage, aliases and help text.
func (r *Registry) Help() string {
	var b strings.Builder
	for _, cmd := range r.ordered {
		fmt.Fprintf(&b, "%-18s %s", cmd.Usage, cmd.Help)
		if len(cmd.Aliases) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(cmd.Aliases, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
