// Package inventory defines the consumable item catalog and the per-player
// item counts an encounter spends from.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/centaur/internal/game/status"
)

// Kind constants for ItemDef.Kind.
const (
	KindConsumable = "consumable"
	KindMaterial   = "material"
)

// validKinds is the set of valid ItemDef kinds.
var validKinds = map[string]bool{
	KindConsumable: true,
	KindMaterial:   true,
}

// ItemDef defines the static properties of an item loaded from YAML.
// Materials are drop-only and cannot be used in combat.
type ItemDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
	// Heal is flat health restored; HealFraction is added as a fraction of max health.
	Heal         int     `yaml:"heal"`
	HealFraction float64 `yaml:"heal_fraction"`
	Stamina      int     `yaml:"stamina"`
	// Cures lists the status kinds removed on use. CuresAll removes every effect.
	Cures    []status.Kind `yaml:"cures"`
	CuresAll bool          `yaml:"cures_all"`
	MaxStack int           `yaml:"max_stack"`
	Value    int           `yaml:"value"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("Kind must be one of consumable, material; got %q", d.Kind))
	}
	if d.MaxStack < 1 {
		errs = append(errs, errors.New("MaxStack must be >= 1"))
	}
	if d.Heal < 0 || d.Stamina < 0 {
		errs = append(errs, errors.New("Heal and Stamina must be >= 0"))
	}
	if d.HealFraction < 0 || d.HealFraction > 1 {
		errs = append(errs, errors.New("HealFraction must be in [0, 1]"))
	}
	if d.Kind == KindConsumable && !d.hasEffect() {
		errs = append(errs, errors.New("consumable must heal, restore stamina or cure"))
	}
	if d.Kind == KindMaterial && d.hasEffect() {
		errs = append(errs, errors.New("material must not have a use effect"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// IsConsumable reports whether the item may be used in combat.
func (d *ItemDef) IsConsumable() bool { return d.Kind == KindConsumable }

func (d *ItemDef) hasEffect() bool {
	return d.Heal > 0 || d.HealFraction > 0 || d.Stamina > 0 || len(d.Cures) > 0 || d.CuresAll
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as an
// ItemDef, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*ItemDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var d ItemDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, &d)
	}
	return items, nil
}
