package status

// Flags summarise how active effects alter their bearer's turn. The zero value
// means no effects.
type Flags struct {
	Stunned  bool
	Confused bool
	// AccuracyPenalty is added to the bearer's own miss chance, in percentage points.
	AccuracyPenalty int
	// DodgePenalty is subtracted from the bearer's dodge chance, in percentage points.
	DodgePenalty int
	// DefensePenalty scales damage the bearer receives; 0 means unchanged.
	DefensePenalty float64
	// OutgoingMultiplier scales damage the bearer deals; 0 means unchanged.
	OutgoingMultiplier float64
}

// Incoming returns the multiplier applied to damage the bearer receives.
//
// Postcondition: Return value > 0.
func (f Flags) Incoming() float64 {
	if f.DefensePenalty <= 0 {
		return 1
	}
	return f.DefensePenalty
}

// Outgoing returns the multiplier applied to damage the bearer deals.
//
// Postcondition: Return value > 0.
func (f Flags) Outgoing() float64 {
	if f.OutgoingMultiplier <= 0 {
		return 1
	}
	return f.OutgoingMultiplier
}

func flagsOf(effects []*Instance) Flags {
	var f Flags
	for _, inst := range effects {
		def := inst.def
		if def == nil {
			continue
		}
		if def.SkipTurn {
			f.Stunned = true
		}
		if inst.Kind == Confusion {
			f.Confused = true
		}
		f.AccuracyPenalty += def.MissPerPotency * inst.Potency
		f.DodgePenalty += def.DodgePenaltyPerPotency * inst.Potency
		if def.OutgoingMultiplier > 0 {
			f.OutgoingMultiplier = f.Outgoing() * def.OutgoingMultiplier
		}
		if def.IncomingMultiplier > 0 {
			f.DefensePenalty = f.Incoming() * def.IncomingMultiplier
		}
	}
	return f
}
