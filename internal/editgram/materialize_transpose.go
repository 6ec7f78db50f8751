package editgram

// MaterializeTranspositionRules is pass 4 (spec section 4.4). For every
// binary rule with a defined TranspositionCost, it emits a derived rule
// with the RHS reversed, carrying over the fields named in the spec and
// marking IsTransposition. Admission uses the same rule-admission
// predicate as insertion rules. Transposable rules never themselves
// participate in insertion synthesis (the closure engine's insertable
// check vetoes any rule with a TranspositionCost).
func MaterializeTranspositionRules(rm *RuleMap, pa *PotentialAnalysis, opts Options, diag *Diagnostics) error {
	originals := snapshotTransposableRules(rm)

	for _, orig := range originals {
		derived := NewRule(orig.LHS, orig.RHS[SlotRight], orig.RHS[SlotLeft])
		derived.Cost = orig.Cost + *orig.TranspositionCost
		derived.IsTransposition = true

		if orig.Semantic != nil {
			s := orig.Semantic.Copy()
			derived.Semantic = &s
		}
		derived.SemanticIsReduced = orig.SemanticIsReduced
		derived.RHSCanProduceSemantic = orig.RHSCanProduceSemantic
		derived.SecondRHSCanProduceSemantic = orig.SecondRHSCanProduceSemantic

		if _, err := AdmitRule(rm, derived, pa, opts, diag); err != nil {
			return err
		}
	}

	return nil
}

func snapshotTransposableRules(rm *RuleMap) []*Rule {
	var out []*Rule
	for _, sym := range rm.Symbols() {
		for _, r := range rm.Rules(sym) {
			if r.IsBinary() && !r.IsTerminal && r.TranspositionCost != nil {
				out = append(out, r)
			}
		}
	}
	return out
}
