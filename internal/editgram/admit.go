package editgram

import "github.com/dekarrin/editgram/internal/compileerr"

// ambiguousTexts reports whether two display texts compare equal under the
// ambiguity relation: strings equal, objects deep-equal, lists element-wise
// equal under the same relation (spec section 4.6.1).
func ambiguousTexts(a, b TextList) bool {
	return a.Equal(b)
}

// ambiguousSemantics reports whether two (semantic, inserted_semantic)
// tuples compare equal under the semantic-equality relation.
func ambiguousSemantics(aSem, aIns, bSem, bIns *Semantic) bool {
	return ptrSemanticEqual(aSem, bSem) && ptrSemanticEqual(aIns, bIns)
}

// rulesAmbiguous implements spec section 4.6.1 for two rules sharing an
// LHS: ambiguous iff their semantic tuples compare equal or their display
// texts compare equal.
func rulesAmbiguous(a, b *Rule) bool {
	aSem, aIns := a.semanticTuple()
	bSem, bIns := b.semanticTuple()
	return ambiguousSemantics(aSem, aIns, bSem, bIns) || ambiguousTexts(a.Text, b.Text)
}

// insertionsAmbiguous implements the same relation for two insertion
// records sharing an LHS.
func insertionsAmbiguous(a, b InsertionRecord) bool {
	return ambiguousSemantics(a.Semantic, nil, b.Semantic, nil) || ambiguousTexts(a.Text, b.Text)
}

// ValidateAmbiguity applies the ambiguity relation (spec section 4.6.1) to
// every pair of originally-authored rules sharing an LHS and RHS, before any
// generative pass runs. AdmitRule and AdmitInsertion only ever compare a
// freshly-derived candidate against rules already sitting in rm, so two
// hand-authored rules that are ambiguous with each other from the start
// would otherwise never be caught; this pass closes that gap. Strict mode
// (or a mismatch between the two rules' insertion-origin) is fatal; lenient
// mode keeps the cheaper rule of each ambiguous pair and drops the other.
func ValidateAmbiguity(rm *RuleMap, opts Options, diag *Diagnostics) error {
	for _, sym := range rm.Symbols() {
		kept := rm.Rules(sym)
		for i := 0; i < len(kept); i++ {
			for j := i + 1; j < len(kept); j++ {
				a, b := kept[i], kept[j]
				if !a.rhsEqual(b) || !rulesAmbiguous(a, b) {
					continue
				}

				mixedOrigin := a.HasInsertedSymIdx() != b.HasInsertedSymIdx()
				if mixedOrigin || opts.StopAmbiguity {
					return compileerr.Ambiguity(sym, a.String(), b.String())
				}

				loser := j
				if b.Cost < a.Cost {
					loser = i
				}
				diag.drop(sym, "ambiguous with a cheaper originally-authored rule")
				kept = append(kept[:loser], kept[loser+1:]...)
				rm.SetRules(sym, kept)
				j = i // restart the inner scan against the surviving set
			}
		}
	}
	return nil
}

// AdmitRule runs the rule-admission predicate (spec section 4.6) for a
// candidate derived rule about to be added to rm under candidate.LHS. It
// mutates rm in place:
//
//   - if an existing rule shares candidate's RHS and the pair is
//     ambiguous, strict mode (or a mix of insertion-origin and
//     non-insertion-origin rules, which is always fatal) returns a fatal
//     ambiguity error; lenient mode keeps whichever is cheaper, removing
//     the other from rm, and returns (false, nil) if candidate lost;
//   - otherwise candidate is admitted iff its cost is below the ceiling
//     and it is not missing a reduced semantic it or an ancestor demands.
//
// The return value reports whether candidate was appended to rm.
func AdmitRule(rm *RuleMap, candidate *Rule, pa *PotentialAnalysis, opts Options, diag *Diagnostics) (bool, error) {
	existing := rm.Rules(candidate.LHS)
	for i, e := range existing {
		if !e.rhsEqual(candidate) {
			continue
		}
		if !rulesAmbiguous(e, candidate) {
			continue
		}

		mixedOrigin := e.HasInsertedSymIdx() != candidate.HasInsertedSymIdx()
		if mixedOrigin || opts.StopAmbiguity {
			return false, compileerr.Ambiguity(candidate.LHS, e.String(), candidate.String())
		}

		// Lenient mode: keep the cheaper of the two.
		if candidate.Cost < e.Cost {
			existing[i] = candidate
			rm.SetRules(candidate.LHS, existing)
			return true, nil
		}
		diag.drop(candidate.LHS, "ambiguous with a cheaper existing rule")
		return false, nil
	}

	if candidate.Cost >= opts.maxCost() {
		diag.drop(candidate.LHS, "cost at or above the ceiling")
		return false, nil
	}

	if !semanticallyViable(candidate, pa) {
		diag.drop(candidate.LHS, "cannot produce a reduced semantic demanded by itself or an ancestor")
		return false, nil
	}

	rm.AddRule(candidate)
	return true, nil
}

// semanticallyViable reports whether r's own semantic shape is consistent
// with eventually being reducible, per the simplified per-rule viability
// check described in potential.go's ValidateNonEditRules: a rule with no
// semantic, or an already-reduced one, is always viable; a rule holding an
// unreduced function is viable only if some RHS side can still supply the
// missing arguments.
func semanticallyViable(r *Rule, pa *PotentialAnalysis) bool {
	if r.Semantic == nil || r.SemanticIsReduced {
		return true
	}
	if r.RHSCanProduceSemantic || r.SecondRHSCanProduceSemantic {
		return true
	}
	if r.IsUnary() && pa != nil {
		return pa.CanProduceSemantic(r.RHS[SlotLeft])
	}
	return false
}

// AdmitInsertion runs the insertion-admission predicate (spec section 4.6)
// for a candidate insertion record about to be added to store under lhs.
// Before the ambiguity check, records with identical derivation trees are
// silently deduplicated (the closure loop revisits rules on every pass, so
// this is expected rather than exceptional).
func (store *InsertionStore) AdmitInsertion(lhs string, candidate InsertionRecord, opts Options, diag *Diagnostics) (bool, error) {
	existing := store.Get(lhs)

	for _, e := range existing {
		if e.Tree.Equal(candidate.Tree) {
			return false, nil
		}
	}

	for i, e := range existing {
		if !insertionsAmbiguous(e, candidate) {
			continue
		}

		if opts.StopAmbiguity {
			return false, compileerr.Ambiguity(lhs, "insertion "+joinLiteralsForDisplay(e.Text), "insertion "+joinLiteralsForDisplay(candidate.Text))
		}

		if candidate.Cost < e.Cost {
			store.rawReplace(lhs, i, candidate)
			return true, nil
		}
		diag.drop(lhs, "ambiguous insertion record, cheaper alternative already present")
		return false, nil
	}

	if candidate.Cost >= opts.maxCost() {
		diag.drop(lhs, "insertion cost at or above the ceiling")
		return false, nil
	}

	store.rawAppend(lhs, candidate)
	return true, nil
}
