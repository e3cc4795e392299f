package combat

import (
	"fmt"
	"strings"
)

// Tuning holds the calibration constants of combat resolution.
type Tuning struct {
	// CritChance is the default critical-hit percent for combatants without their own.
	CritChance     int
	CritMultiplier float64
	// DodgeStanceBonus is added to a Dodging defender's dodge chance, in percentage points.
	DodgeStanceBonus int
	// MaxDodgeChance caps the effective dodge chance of any single roll.
	MaxDodgeChance   int
	DefendMultiplier float64
	// DefenseScale is the k in mitigation def/(def+k).
	DefenseScale float64
	// FleeBaseChance is added to the player's dodge chance for a flee attempt.
	FleeBaseChance int
	// StaminaRegen is restored to both sides after each completed exchange.
	StaminaRegen int
	// SpecialCost and SpecialPower describe the default player special attack.
	SpecialCost  int
	SpecialPower float64
}

// DefaultTuning returns the standard calibration.
func DefaultTuning() Tuning {
	return Tuning{
		CritChance:       10,
		CritMultiplier:   2,
		DodgeStanceBonus: 25,
		MaxDodgeChance:   95,
		DefendMultiplier: 0.7,
		DefenseScale:     50,
		FleeBaseChance:   40,
		StaminaRegen:     5,
		SpecialCost:      20,
		SpecialPower:     1.5,
	}
}

// Validate reports every out-of-range constant.
//
// Postcondition: Returns nil iff t is usable by NewCalculator.
func (t Tuning) Validate() error {
	var errs []string
	if t.CritChance < 0 || t.CritChance > 100 {
		errs = append(errs, fmt.Sprintf("crit_chance must be 0-100, got %d", t.CritChance))
	}
	if t.CritMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("crit_multiplier must be >= 1, got %v", t.CritMultiplier))
	}
	if t.DodgeStanceBonus < 0 {
		errs = append(errs, fmt.Sprintf("dodge_stance_bonus must be >= 0, got %d", t.DodgeStanceBonus))
	}
	if t.MaxDodgeChance < 0 || t.MaxDodgeChance > 100 {
		errs = append(errs, fmt.Sprintf("max_dodge_chance must be 0-100, got %d", t.MaxDodgeChance))
	}
	if t.DefendMultiplier <= 0 || t.DefendMultiplier > 1 {
		errs = append(errs, fmt.Sprintf("defend_multiplier must be in (0, 1], got %v", t.DefendMultiplier))
	}
	if t.DefenseScale <= 0 {
		errs = append(errs, fmt.Sprintf("defense_scale must be > 0, got %v", t.DefenseScale))
	}
	if t.FleeBaseChance < 0 || t.FleeBaseChance > 100 {
		errs = append(errs, fmt.Sprintf("flee_base_chance must be 0-100, got %d", t.FleeBaseChance))
	}
	if t.StaminaRegen < 0 {
		errs = append(errs, fmt.Sprintf("stamina_regen must be >= 0, got %d", t.StaminaRegen))
	}
	if t.SpecialCost < 0 {
		errs = append(errs, fmt.Sprintf("special_cost must be >= 0, got %d", t.SpecialCost))
	}
	if t.SpecialPower <= 0 {
		errs = append(errs, fmt.Sprintf("special_power must be > 0, got %v", t.SpecialPower))
	}
	if len(errs) > 0 {
		return fmt.Errorf("combat tuning: %s", strings.Join(errs, "; "))
	}
	return nil
}
