package status

import "fmt"

// Instance is one active status effect on a combatant.
type Instance struct {
	Kind      Kind
	Remaining int
	Potency   int
	// AppliedBy is the ID of the combatant that inflicted the effect, for logging only.
	AppliedBy string

	def *Definition
}

// Definition returns the definition the instance was created from.
func (i Instance) Definition() *Definition {
	return i.def
}

// HookEvent describes a status lifecycle event passed to a HookCaller.
type HookEvent struct {
	BearerID  string
	Kind      Kind
	Potency   int
	Remaining int
	// Damage is the computed per-tick damage; zero for apply and expire events.
	Damage int
}

// HookCaller dispatches status lifecycle hooks to scripts.
type HookCaller interface {
	// CallStatusHook invokes hook with ev. For tick hooks a script may return
	// a replacement damage value, reported with ok == true.
	CallStatusHook(hook string, ev HookEvent) (damage int, ok bool)
}

// Set tracks the status effects currently applied to one combatant in the
// order they were first applied. It is not safe for concurrent use; the
// owning encounter serialises access.
type Set struct {
	effects []*Instance
	bearer  string
	hooks   HookCaller
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Attach binds the set to its bearer and an optional hook dispatcher.
func (s *Set) Attach(bearerID string, hooks HookCaller) {
	s.bearer = bearerID
	s.hooks = hooks
}

// Apply adds def's effect, or refreshes it if already active. A refresh keeps
// the existing instance and raises Remaining and Potency to the larger of the
// current and new values; a kind is never present twice.
//
// Precondition: def must not be nil; duration >= 1; potency >= 1.
// Postcondition: Has(def.Kind) is true; returns a copy of the stored instance.
func (s *Set) Apply(def *Definition, potency, duration int, appliedBy string) (Instance, error) {
	if def == nil {
		return Instance{}, fmt.Errorf("status: Apply: def must not be nil")
	}
	if duration < 1 || potency < 1 {
		return Instance{}, fmt.Errorf("status: Apply %s: duration %d and potency %d must be >= 1", def.Kind, duration, potency)
	}
	inst := s.find(def.Kind)
	if inst != nil {
		inst.Remaining = max(inst.Remaining, duration)
		inst.Potency = max(inst.Potency, potency)
		inst.AppliedBy = appliedBy
		inst.def = def
	} else {
		inst = &Instance{Kind: def.Kind, Remaining: duration, Potency: potency, AppliedBy: appliedBy, def: def}
		s.effects = append(s.effects, inst)
	}
	s.call(def.LuaOnApply, *inst, 0)
	return *inst, nil
}

// Remove deletes the effect of kind k. Removing an absent kind is a no-op.
//
// Postcondition: Has(k) is false.
func (s *Set) Remove(k Kind) bool {
	for i, inst := range s.effects {
		if inst.Kind == k {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every effect and returns the kinds removed.
func (s *Set) Clear() []Kind {
	out := make([]Kind, 0, len(s.effects))
	for _, inst := range s.effects {
		out = append(out, inst.Kind)
	}
	s.effects = nil
	return out
}

// Has reports whether an effect of kind k is active.
func (s *Set) Has(k Kind) bool {
	return s.find(k) != nil
}

// Get returns a copy of the active effect of kind k.
func (s *Set) Get(k Kind) (Instance, bool) {
	if inst := s.find(k); inst != nil {
		return *inst, true
	}
	return Instance{}, false
}

// Len returns the number of active effects.
func (s *Set) Len() int {
	return len(s.effects)
}

// All returns copies of the active effects in application order.
func (s *Set) All() []Instance {
	out := make([]Instance, 0, len(s.effects))
	for _, inst := range s.effects {
		out = append(out, *inst)
	}
	return out
}

// Flags returns the flags implied by the currently active effects without
// ticking them.
func (s *Set) Flags() Flags {
	return flagsOf(s.effects)
}

// TickResult is the outcome of one turn-start tick.
type TickResult struct {
	// Damage is the total damage-over-time the bearer takes this tick.
	Damage int
	// Expired lists kinds removed by this tick.
	Expired []Kind
	// Flags are computed from the effects active when the tick began.
	Flags Flags
}

// Tick advances every effect by one turn. Damage-over-time effects deal
// floor(maxHealth * DotFraction), minimum 1. Every Remaining is decremented
// and effects reaching zero are removed in the same pass.
//
// Precondition: maxHealth >= 1.
// Postcondition: an effect applied with duration N is removed by exactly the
// Nth Tick after its last Apply.
func (s *Set) Tick(maxHealth int) TickResult {
	res := TickResult{Flags: flagsOf(s.effects)}
	kept := s.effects[:0]
	for _, inst := range s.effects {
		dmg := 0
		if inst.def != nil && inst.def.DotFraction > 0 {
			dmg = max(1, int(float64(maxHealth)*inst.def.DotFraction))
		}
		inst.Remaining--
		if inst.def != nil && inst.def.LuaOnTick != "" {
			if override, ok := s.hookDamage(inst.def.LuaOnTick, *inst, dmg); ok {
				dmg = max(0, override)
			}
		}
		res.Damage += dmg
		if inst.Remaining <= 0 {
			res.Expired = append(res.Expired, inst.Kind)
			if inst.def != nil {
				s.call(inst.def.LuaOnExpire, *inst, 0)
			}
			continue
		}
		kept = append(kept, inst)
	}
	for i := len(kept); i < len(s.effects); i++ {
		s.effects[i] = nil
	}
	s.effects = kept
	return res
}

func (s *Set) find(k Kind) *Instance {
	for _, inst := range s.effects {
		if inst.Kind == k {
			return inst
		}
	}
	return nil
}

func (s *Set) call(hook string, inst Instance, dmg int) {
	if hook == "" || s.hooks == nil {
		return
	}
	s.hooks.CallStatusHook(hook, s.event(inst, dmg))
}

func (s *Set) hookDamage(hook string, inst Instance, dmg int) (int, bool) {
	if s.hooks == nil {
		return 0, false
	}
	return s.hooks.CallStatusHook(hook, s.event(inst, dmg))
}

func (s *Set) event(inst Instance, dmg int) HookEvent {
	return HookEvent{
		BearerID:  s.bearer,
		Kind:      inst.Kind,
		Potency:   inst.Potency,
		Remaining: inst.Remaining,
		Damage:    dmg,
	}
}
