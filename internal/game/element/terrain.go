package element

import (
	"fmt"
	"strings"
)

// TerrainKind identifies the ground a fight takes place on.
type TerrainKind int

const (
	// Plain is terrain with no elemental affinity.
	Plain TerrainKind = iota
	Forest
	Mountain
	Ruins
	Clearing
	Valley
	Cave
)

var terrainNames = [...]string{"plain", "forest", "mountain", "ruins", "clearing", "valley", "cave"}

// String returns the lower-case terrain name.
func (t TerrainKind) String() string {
	if t < 0 || int(t) >= len(terrainNames) {
		return "unknown"
	}
	return terrainNames[t]
}

// ParseTerrain converts a case-insensitive terrain name to a TerrainKind.
func ParseTerrain(s string) (TerrainKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range terrainNames {
		if n == name {
			return TerrainKind(i), nil
		}
	}
	return Plain, fmt.Errorf("element: unknown terrain %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TerrainKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTerrain(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DefaultTerrainBonus is the multiplier applied to an amplified element.
const DefaultTerrainBonus = 1.2

var amplified = map[TerrainKind]Kind{
	Forest:   Earth,
	Mountain: Air,
	Ruins:    Light,
	Clearing: Physical,
	Valley:   Water,
	Cave:     Shadow,
}

// Amplifies returns the element terrain t amplifies, and false for terrain
// without an affinity.
func Amplifies(t TerrainKind) (Kind, bool) {
	k, ok := amplified[t]
	return k, ok
}

// TerrainBonus returns DefaultTerrainBonus when terrain amplifies e, else 1.0.
//
// Postcondition: Return value is 1.0 or DefaultTerrainBonus.
func TerrainBonus(terrain TerrainKind, e Kind) float64 {
	if k, ok := amplified[terrain]; ok && k == e {
		return DefaultTerrainBonus
	}
	return Neutral
}

// TerrainContext is the read-only terrain description handed to an encounter.
type TerrainContext struct {
	Kind TerrainKind
	// Amplified is meaningful only when HasAmplified is true.
	Amplified    Kind
	HasAmplified bool
	// BonusMultiplier is applied to attacks of the Amplified element.
	BonusMultiplier float64
}

// NewTerrain builds a TerrainContext from the default terrain table.
//
// Postcondition: BonusMultiplier == DefaultTerrainBonus.
func NewTerrain(t TerrainKind) TerrainContext {
	k, ok := amplified[t]
	return TerrainContext{
		Kind:            t,
		Amplified:       k,
		HasAmplified:    ok,
		BonusMultiplier: DefaultTerrainBonus,
	}
}

// WithBonus returns a copy of c using multiplier as its bonus.
func (c TerrainContext) WithBonus(multiplier float64) TerrainContext {
	c.BonusMultiplier = multiplier
	return c
}

// Bonus returns the terrain multiplier for an attack of element e.
//
// Postcondition: Returns 1.0 when the context amplifies nothing, or amplifies
// a different element, or carries a non-positive multiplier.
func (c TerrainContext) Bonus(e Kind) float64 {
	if !c.HasAmplified || c.Amplified != e || c.BonusMultiplier <= 0 {
		return Neutral
	}
	return c.BonusMultiplier
}
