package inventory

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/centaur/internal/game/status"
)

// Catalog holds item definitions indexed by ID.
type Catalog struct {
	items map[string]*ItemDef
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{items: make(map[string]*ItemDef)}
}

// Register adds d to the catalog.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already
// registered or d is invalid.
func (c *Catalog) Register(d *ItemDef) error {
	if _, exists := c.items[d.ID]; exists {
		return fmt.Errorf("inventory: Catalog.Register: item ID %q already registered", d.ID)
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("inventory: Catalog.Register: %w", err)
	}
	c.items[d.ID] = d
	return nil
}

// Item returns the ItemDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (c *Catalog) Item(id string) (*ItemDef, bool) {
	d, ok := c.items[id]
	return d, ok
}

// All returns all registered ItemDefs sorted by ID.
func (c *Catalog) All() []*ItemDef {
	out := make([]*ItemDef, 0, len(c.items))
	for _, d := range c.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DefaultCatalog returns a Catalog holding the built-in items.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, d := range defaultItems() {
		if err := c.Register(d); err != nil {
			panic("inventory: invalid built-in item: " + err.Error())
		}
	}
	return c
}

// LoadCatalog builds a Catalog from the built-in items, with items in dir
// replacing built-ins of the same ID.
//
// Precondition: dir must be a readable directory.
func LoadCatalog(dir string) (*Catalog, error) {
	loaded, err := LoadItems(dir)
	if err != nil {
		return nil, err
	}
	c := DefaultCatalog()
	seen := make(map[string]bool, len(loaded))
	for _, d := range loaded {
		if seen[d.ID] {
			return nil, fmt.Errorf("inventory: LoadCatalog: item ID %q defined twice in %q", d.ID, dir)
		}
		seen[d.ID] = true
		c.items[d.ID] = d
	}
	return c, nil
}

func defaultItems() []*ItemDef {
	return []*ItemDef{
		{ID: "health_potion", Name: "Health Potion", Kind: KindConsumable, Heal: 30, MaxStack: 10, Value: 25,
			Description: "A red draught that closes wounds."},
		{ID: "stamina_tonic", Name: "Stamina Tonic", Kind: KindConsumable, Stamina: 25, MaxStack: 10, Value: 20,
			Description: "A bitter tonic that restores vigour."},
		{ID: "bandage", Name: "Bandage", Kind: KindConsumable, Heal: 5, Cures: []status.Kind{status.Bleed}, MaxStack: 20, Value: 5,
			Description: "Linen wrap that stops bleeding."},
		{ID: "smelling_salts", Name: "Smelling Salts", Kind: KindConsumable,
			Cures: []status.Kind{status.Stun, status.Confusion, status.Blind}, MaxStack: 10, Value: 15,
			Description: "A sharp scent that clears the head."},
		{ID: "purifying_elixir", Name: "Purifying Elixir", Kind: KindConsumable, HealFraction: 0.25, CuresAll: true,
			MaxStack: 5, Value: 80, Description: "Light distilled into a vial. Cleanses every affliction."},
		{ID: "shadow_essence", Name: "Shadow Essence", Kind: KindMaterial, MaxStack: 99, Value: 10,
			Description: "A wisp of solid dusk."},
		{ID: "golem_core", Name: "Golem Core", Kind: KindMaterial, MaxStack: 99, Value: 30,
			Description: "A humming crystal heart."},
		{ID: "wisp_dust", Name: "Wisp Dust", Kind: KindMaterial, MaxStack: 99, Value: 15,
			Description: "Glittering motes that drift upward."},
		{ID: "mana_shard", Name: "Mana Shard", Kind: KindMaterial, MaxStack: 99, Value: 20,
			Description: "A splinter of condensed magic."},
		{ID: "centaur_horn", Name: "Shadow Centaur Horn", Kind: KindMaterial, MaxStack: 1, Value: 500,
			Description: "Proof of a victory over the Shadow Centaur."},
	}
}
