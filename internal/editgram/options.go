package editgram

// Options configures a single BuildEditRules run (spec section 6).
type Options struct {
	// IncludeTrees retains derivation-tree witnesses on output rules and
	// insertion records instead of stripping them once synthesis
	// completes.
	IncludeTrees bool

	// StopAmbiguity selects strict ambiguity handling: true aborts with a
	// fatal ambiguity error on the first conflicting pair; false (lenient)
	// keeps the cheaper of the two and silently drops the other.
	StopAmbiguity bool

	// MaxCost overrides the global cost ceiling. Zero means "use the
	// package default", MaxCost (spec section 4.6).
	MaxCost float64
}

// maxCost returns the effective cost ceiling for this run.
func (o Options) maxCost() float64 {
	if o.MaxCost <= 0 {
		return MaxCost
	}
	return o.MaxCost
}

// Diagnostics accumulates non-fatal events from a BuildEditRules run:
// dropped candidates (spec section 7, kind 4). It is never an error.
type Diagnostics struct {
	Drops []string
}

func (d *Diagnostics) drop(lhs, reason string) {
	d.Drops = append(d.Drops, "dropped candidate rule for "+lhs+": "+reason)
}
