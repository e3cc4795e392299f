package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/centaur/internal/game/dice"
	"github.com/cory-johannsen/centaur/internal/game/element"
)

// Definition is the static description of one status effect, loaded from YAML.
type Definition struct {
	Kind        Kind         `yaml:"kind"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Element     element.Kind `yaml:"element"`
	// ApplyChance is the percent chance a hit of Element inflicts this effect.
	ApplyChance int `yaml:"apply_chance"`
	// Duration and Potency are dice expressions rolled on application.
	Duration string `yaml:"duration"`
	Potency  string `yaml:"potency"`
	// SkipTurn forces the bearer to skip its action while active.
	SkipTurn bool `yaml:"skip_turn"`
	// MissPerPotency is added to the bearer's own miss chance per potency point.
	MissPerPotency int `yaml:"miss_per_potency"`
	// DodgePenaltyPerPotency is subtracted from the bearer's dodge chance per potency point.
	DodgePenaltyPerPotency int `yaml:"dodge_penalty_per_potency"`
	// OutgoingMultiplier scales damage the bearer deals; 0 means unchanged.
	OutgoingMultiplier float64 `yaml:"outgoing_multiplier"`
	// IncomingMultiplier scales damage the bearer receives; 0 means unchanged.
	IncomingMultiplier float64 `yaml:"incoming_multiplier"`
	// DotFraction is the fraction of max health lost per tick.
	DotFraction float64 `yaml:"dot_fraction"`

	LuaOnApply  string `yaml:"lua_on_apply"`
	LuaOnTick   string `yaml:"lua_on_tick"`
	LuaOnExpire string `yaml:"lua_on_expire"`

	duration dice.Expression
	potency  dice.Expression
}

// Validate checks that the definition is self-consistent and compiles its
// dice expressions.
//
// Postcondition: Returns nil iff the definition may be registered.
func (d *Definition) Validate() error {
	var errs []string
	if d.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if !d.Element.Valid() {
		errs = append(errs, fmt.Sprintf("element %d is not valid", int(d.Element)))
	}
	if d.ApplyChance < 0 || d.ApplyChance > 100 {
		errs = append(errs, fmt.Sprintf("apply_chance must be 0-100, got %d", d.ApplyChance))
	}
	if d.DotFraction < 0 || d.DotFraction >= 1 {
		errs = append(errs, fmt.Sprintf("dot_fraction must be in [0, 1), got %v", d.DotFraction))
	}
	if d.OutgoingMultiplier < 0 || d.IncomingMultiplier < 0 {
		errs = append(errs, "multipliers must not be negative")
	}
	if d.Duration == "" {
		d.Duration = "1d3+1"
	}
	if d.Potency == "" {
		d.Potency = "1d3"
	}
	var err error
	if d.duration, err = dice.Parse(d.Duration); err != nil {
		errs = append(errs, err.Error())
	}
	if d.potency, err = dice.Parse(d.Potency); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("status %s: %s", d.Kind, strings.Join(errs, "; "))
	}
	return nil
}

// Clamp bounds for rolled durations and potencies.
const (
	MinDuration = 1
	MaxDuration = 6
	MinPotency  = 1
	MaxPotency  = 5
)

// RollDuration rolls the definition's duration expression, clamped to
// [MinDuration, MaxDuration].
//
// Precondition: Validate has succeeded.
func (d *Definition) RollDuration(r *dice.Roller) int {
	return clamp(r.Roll(d.duration).Total(), MinDuration, MaxDuration)
}

// RollPotency rolls the definition's potency expression, clamped to
// [MinPotency, MaxPotency].
//
// Precondition: Validate has succeeded.
func (d *Definition) RollPotency(r *dice.Roller) int {
	return clamp(r.Roll(d.potency).Total(), MinPotency, MaxPotency)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Registry holds all known Definitions keyed by Kind.
type Registry struct {
	defs map[Kind]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Kind]*Definition)}
}

// Register validates def and adds it, overwriting any existing entry of the same Kind.
//
// Precondition: def must not be nil.
func (r *Registry) Register(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	r.defs[def.Kind] = def
	return nil
}

// Get returns the Definition for k, or (nil, false) if not registered.
func (r *Registry) Get(k Kind) (*Definition, bool) {
	d, ok := r.defs[k]
	return d, ok
}

// ForElement returns the definition of e's signature effect.
func (r *Registry) ForElement(e element.Kind) (*Definition, bool) {
	k, ok := SignatureOf(e)
	if !ok {
		return nil, false
	}
	return r.Get(k)
}

// All returns every registered Definition ordered by Kind.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// LoadDirectory reads every *.yaml file in dir on top of the default
// definitions, so content may override any subset of effects.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Registry holding all seven kinds, or an error if
// any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading status dir %q: %w", dir, err)
	}
	reg := DefaultRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := reg.Register(&def); err != nil {
			return nil, fmt.Errorf("registering %q: %w", path, err)
		}
	}
	return reg, nil
}

// DefaultRegistry returns a Registry holding the built-in calibration for
// every status effect.
//
// Postcondition: Get(k) succeeds for every k in AllKinds.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, d := range defaultDefinitions() {
		if err := reg.Register(d); err != nil {
			panic("status: invalid built-in definition: " + err.Error())
		}
	}
	return reg
}

func defaultDefinitions() []*Definition {
	return []*Definition{
		{Kind: Burn, Name: "Burn", Element: element.Fire, ApplyChance: 35, DotFraction: 0.06,
			Description: "Flames sear the bearer at the start of each turn."},
		{Kind: Chill, Name: "Chill", Element: element.Water, ApplyChance: 30, OutgoingMultiplier: 0.8,
			DodgePenaltyPerPotency: 5, Description: "Numbed limbs blunt attacks and slow evasion."},
		{Kind: Stun, Name: "Stun", Element: element.Earth, ApplyChance: 25, SkipTurn: true,
			Duration: "1d2", Description: "The bearer loses its action."},
		{Kind: Confusion, Name: "Confusion", Element: element.Air, ApplyChance: 30, MissPerPotency: 5,
			OutgoingMultiplier: 0.9, Description: "The bearer may strike at nothing."},
		{Kind: Bleed, Name: "Bleed", Element: element.Physical, ApplyChance: 25, DotFraction: 0.05,
			Description: "An open wound drains health every turn."},
		{Kind: Blind, Name: "Blind", Element: element.Shadow, ApplyChance: 30, MissPerPotency: 10,
			Description: "The bearer's own attacks miss more often."},
		{Kind: Weaken, Name: "Weaken", Element: element.Light, ApplyChance: 30, IncomingMultiplier: 1.25,
			Description: "The bearer takes more damage from every hit."},
	}
}
