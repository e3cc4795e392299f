package npc

import "fmt"

// Drop is one entry of an enemy's static drop table.
type Drop struct {
	ItemID   string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
}

// DropTable lists what an enemy yields when defeated. It is static content;
// nothing is rolled.
type DropTable struct {
	Currency int    `yaml:"currency"`
	Items    []Drop `yaml:"items"`
}

// Validate checks that the drop table satisfies its invariants.
//
// Postcondition: an empty drop table is valid.
func (t DropTable) Validate() error {
	if t.Currency < 0 {
		return fmt.Errorf("drop table: currency must be >= 0, got %d", t.Currency)
	}
	for i, d := range t.Items {
		if d.ItemID == "" {
			return fmt.Errorf("drop table: item[%d] must have a non-empty item id", i)
		}
		if d.Quantity < 1 {
			return fmt.Errorf("drop table: item[%d] quantity must be >= 1, got %d", i, d.Quantity)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate catalog content.
func (t DropTable) Clone() DropTable {
	return DropTable{Currency: t.Currency, Items: append([]Drop(nil), t.Items...)}
}

// IsEmpty reports whether the table yields nothing.
func (t DropTable) IsEmpty() bool {
	return t.Currency == 0 && len(t.Items) == 0
}
