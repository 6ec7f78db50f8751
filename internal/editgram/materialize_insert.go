package editgram

import "github.com/dekarrin/editgram/internal/compileerr"

// MaterializeInsertionRules is pass 3 (spec section 4.3). For every
// original binary nonterminal rule A -> X Y and each RHS position, it turns
// an insertable side into a derived unary (or end-anchored binary, if
// restricted) rule, offering each candidate to the rule-admission
// predicate.
//
// "Original" here means present in rm at the start of this pass: passes 1
// and 2 only remove empty-producing terminals and populate the insertion
// store, never add binary rules to rm, so every binary rule found here is
// one the author wrote.
func MaterializeInsertionRules(rm *RuleMap, store *InsertionStore, pa *PotentialAnalysis, opts Options, diag *Diagnostics) error {
	originals := snapshotBinaryRules(rm)

	for _, orig := range originals {
		for _, i := range []int{SlotLeft, SlotRight} {
			if orig.vetoesIndex(i) {
				continue
			}

			nonInsertedIdx := 1 - i
			nonInsertedSym := orig.RHS[nonInsertedIdx]
			insertedSym := orig.RHS[i]

			if nonInsertedSym == orig.LHS {
				continue // would introduce left/right recursion through an insertion
			}

			for _, ins := range store.Get(insertedSym) {
				if isVacuousInsertion(orig, ins) {
					return compileerr.Semanticf(
						"insertion onto %q at position %d: argumentless unreduced semantic %q completed with no supplied argument",
						orig.LHS, i, orig.Semantic.Name,
					)
				}

				candidates, err := buildInsertionRule(rm, orig, i, nonInsertedSym, ins, pa)
				if err != nil {
					return err
				}

				for _, cand := range candidates {
					if _, err := AdmitRule(rm, cand, pa, opts, diag); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

func snapshotBinaryRules(rm *RuleMap) []*Rule {
	var out []*Rule
	for _, sym := range rm.Symbols() {
		for _, r := range rm.Rules(sym) {
			if r.IsBinary() && !r.IsTerminal {
				out = append(out, r)
			}
		}
	}
	return out
}

// isVacuousInsertion is the semantic-less-clause predicate (spec section
// 4.3.1) applied at materialization time: the same vacuous shape as the
// closure engine's check, but evaluated against the original rule's own
// semantic and the insertion record's semantic directly, since at this
// point there is no separate "merged" value yet. Per spec section 9 this
// shape is fatal, not a silent skip; the caller wraps a true result in a
// compileerr.Semantic error.
func isVacuousInsertion(orig *Rule, ins InsertionRecord) bool {
	return isVacuousCompletion(orig.Semantic, orig.SemanticIsReduced, ins.Semantic)
}

// buildInsertionRule assembles the derived rule(s) for one (orig, i, ins)
// combination. It returns more than one rule only when multi-token
// flattening (section 4.3.3) applies.
func buildInsertionRule(rm *RuleMap, orig *Rule, i int, nonInsertedSym string, ins InsertionRecord, pa *PotentialAnalysis) ([]*Rule, error) {
	restrict := i == SlotRight && (orig.RestrictInsertion || ins.RestrictInsertion)

	rhs := []string{nonInsertedSym}
	if restrict {
		rhs = []string{nonInsertedSym, BlankInserted}
	}

	cand := NewRule(orig.LHS, rhs...)
	cand.Cost = orig.Cost + ins.Cost
	cand.InsertedSymIdx = i
	cand.RestrictInsertion = restrict || orig.RestrictInsertion

	if i == SlotRight {
		cand.PersonNumber = orig.PersonNumber
	} else {
		cand.PersonNumber = orig.PersonNumber.or(ins.PersonNumber)
	}

	cand.GramProps = relevantGramProps(orig, 1-i)
	cand.RHSCanProduceSemantic = pa.symbolCanProduceSemantic(rm, nonInsertedSym)

	sem, reduced, insertedSem, err := semanticAppend(orig, ins, cand.RHSCanProduceSemantic)
	if err != nil {
		return nil, err
	}
	cand.Semantic = sem
	cand.SemanticIsReduced = reduced
	cand.InsertedSemantic = insertedSem

	cand.RHSDoesNotProduceText = orig.RHSDoesNotProduceText
	cand.IsTermSequence = orig.IsTermSequence
	cand.Tense = orig.Tense
	cand.IsSubstitution = orig.IsSubstitution
	cand.IsStopWord = orig.IsStopWord
	cand.IsPlaceholder = orig.IsPlaceholder

	switch {
	case orig.RHSDoesNotProduceText:
		cand.Text = orig.Text.Copy()
		if cand.IsUnary() {
			return flattenMultiToken(rm, cand), nil
		}
		return []*Rule{cand}, nil

	case orig.IsTermSequence && len(orig.Text) > 0:
		cand.Text = orig.Text.Copy()
		return []*Rule{cand}, nil

	default:
		cand.Text = conjugate(ins.Text.Copy(), gramPropsForSlot(orig, i), cand.PersonNumber)
		return []*Rule{cand}, nil
	}
}

// relevantGramProps retains only the original rule's grammatical property
// entry governing the surviving (non-inserted) RHS slot, remapped to slot 0
// on the derived rule - the inserted slot's entry, if any, governs a symbol
// the derived rule no longer has, so it would become futile (spec section
// 4.3).
func relevantGramProps(orig *Rule, nonInsertedIdx int) map[int]*GramProps {
	gp := orig.GramProps[nonInsertedIdx]
	if gp.Empty() {
		return nil
	}
	return map[int]*GramProps{0: gp.Copy()}
}

// semanticAppend is the semantic-append rule (spec section 4.3.2).
// nonInsertedCanProduceSemantic tells it whether the surviving RHS symbol
// can still independently produce a semantic, which decides whether an
// unreduced original function gets fully reduced now or must carry its
// insertion's semantic alongside as InsertedSemantic for later.
func semanticAppend(orig *Rule, ins InsertionRecord, nonInsertedCanProduceSemantic bool) (sem *Semantic, isReduced bool, insertedSem *Semantic, err error) {
	if ins.Semantic == nil {
		// Inherit original's semantic and reduced flag verbatim.
		var s *Semantic
		if orig.Semantic != nil {
			cp := orig.Semantic.Copy()
			s = &cp
		}
		var is *Semantic
		if orig.InsertedSemantic != nil {
			cp := orig.InsertedSemantic.Copy()
			is = &cp
		}
		return s, orig.SemanticIsReduced, is, nil
	}

	switch {
	case orig.Semantic != nil && orig.SemanticIsReduced:
		merged, ok := mergeSemantics(orig.Semantic, ins.Semantic)
		if !ok {
			return nil, false, nil, compileerr.Semanticf("illegal semantic merge appending insertion onto %q", orig.LHS)
		}
		return merged, true, nil, nil

	case orig.Semantic != nil && !nonInsertedCanProduceSemantic:
		reduced, rerr := Reduce(*orig.Semantic, asReducedSlice(ins.Semantic))
		if rerr != nil {
			return nil, false, nil, rerr
		}
		return &reduced, true, nil, nil

	case orig.Semantic != nil:
		s := orig.Semantic.Copy()
		is := ins.Semantic.Copy()
		return &s, false, &is, nil

	default:
		s := ins.Semantic.Copy()
		return &s, true, nil, nil
	}
}

// flattenMultiToken implements the debt acknowledged in spec section
// 4.3.3: when a derived unary rule was synthesized from a nonterminal
// substitution rule built out of a regex-style terminal symbol, ambiguity
// can arise between "X -> x" and "X -> Y -> x". The materializer eagerly
// flattens by cloning the derived rule once per rule the child
// non-inserted symbol itself has, folding in each child's cost and RHS,
// and promoting to terminal if the child was terminal. Flattening is only
// ever invoked on a unary, non-end-anchored candidate (the caller already
// enforces this), matching the restriction that it is "forbidden when the
// derived rule has a <blank-inserted> tail or when it still has a
// two-symbol RHS".
func flattenMultiToken(rm *RuleMap, cand *Rule) []*Rule {
	childSym := cand.RHS[0]
	childRules := rm.Rules(childSym)
	if len(childRules) == 0 {
		return []*Rule{cand}
	}

	out := make([]*Rule, 0, len(childRules))
	for _, child := range childRules {
		clone := cand.Copy()
		clone.RHS = append([]string(nil), child.RHS...)
		clone.Cost = cand.Cost + child.Cost
		clone.IsTerminal = child.IsTerminal
		out = append(out, clone)
	}
	return out
}
