package editgram

import "github.com/dekarrin/editgram/internal/compileerr"

// mergedChildren is the intermediate result of the Cartesian-merge step
// (spec section 4.2): the combined cost/text/person-number/restriction/
// semantic of one or two child insertion records, before the rule-level
// step folds in the rule's own cost, gram_props, and semantic.
type mergedChildren struct {
	cost              float64
	text              TextList
	personNumber      PersonNumber
	restrictInsertion bool
	semantic          *Semantic
	tree              *Tree
}

// mergeUnary treats a single child insertion as its own "merge": the
// Cartesian product over one RHS symbol is just that symbol's insertion
// list.
func mergeUnary(lhs string, child InsertionRecord) mergedChildren {
	return mergedChildren{
		cost:              child.Cost,
		text:              child.Text,
		personNumber:      child.PersonNumber,
		restrictInsertion: child.RestrictInsertion,
		semantic:          child.Semantic,
		tree:              &Tree{Symbol: lhs, Children: []*Tree{child.Tree}},
	}
}

// mergeBinary implements spec section 4.2's four-step Cartesian-merge body
// for one (a, b) pair drawn from the two RHS symbols' insertion lists.
// ok is false only when the semantic merge is illegal, in which case the
// pair must be skipped rather than offered for admission.
func mergeBinary(lhs string, a, b InsertionRecord) (mergedChildren, bool) {
	sem, ok := mergeSemantics(a.Semantic, b.Semantic)
	if !ok {
		return mergedChildren{}, false
	}

	return mergedChildren{
		cost:              a.Cost + b.Cost,
		text:              a.Text.Concat(b.Text),
		personNumber:      a.PersonNumber, // left branch drives English nominative agreement
		restrictInsertion: a.RestrictInsertion || b.RestrictInsertion,
		semantic:          sem,
		tree:              &Tree{Symbol: lhs, Children: []*Tree{a.Tree, b.Tree}},
	}, true
}

// insertable reports whether r is eligible to participate in the
// insertion-closure engine at all (spec section 4.2): nonterminal, no
// no_insert veto, no transposition_cost, no no_insertion_indexes veto at
// any position, and every RHS symbol already has at least one insertion
// record.
func insertable(r *Rule, store *InsertionStore) bool {
	if r.IsTerminal || r.NoInsert || r.TranspositionCost != nil {
		return false
	}
	if len(r.NoInsertionIndexes) > 0 {
		return false
	}
	for _, sym := range r.RHS {
		if !store.Has(sym) {
			return false
		}
	}
	return true
}

// closureCandidate folds a merged child result into the rule-level step
// common to the unary and binary cases (spec section 4.2's per-rule step):
// new cost, new person-number, new restriction, conjugated text, and the
// rule/merge semantic-append logic. The returned error is non-nil when the
// combination is semantically vacuous (the rule carries an argumentless
// unreduced function and the merge supplied no arguments) - spec section 9
// treats that shape as fatal by default.
func closureCandidate(r *Rule, m mergedChildren) (InsertionRecord, error) {
	cost := r.Cost + m.cost
	pn := r.PersonNumber.or(m.personNumber)
	restrict := r.RestrictInsertion || m.restrictInsertion

	var text TextList
	if len(r.Text) > 0 {
		text = r.Text.Copy()
	} else {
		text = m.text
	}
	text = conjugate(text, gramPropsForSlot(r, SlotLeft), pn)

	sem, err := closureSemantic(r, m.semantic)
	if err != nil {
		return InsertionRecord{}, err
	}

	rec := InsertionRecord{
		Cost:              cost,
		Text:              text,
		PersonNumber:      pn,
		RestrictInsertion: restrict,
		Semantic:          sem,
		Tree:              m.tree,
	}
	return rec, nil
}

// gramPropsForSlot returns the GramProps governing conjugation at RHS slot
// slot of r, or nil if r has none for that slot. The closure engine always
// asks for slot 0; the insertion-rule materializer asks for the inserted
// slot.
func gramPropsForSlot(r *Rule, slot int) *GramProps {
	if r.GramProps == nil {
		return nil
	}
	return r.GramProps[slot]
}

// closureSemantic implements the semantic sub-step of the per-rule step
// (spec section 4.2): reduce, vacuous-fatal, or carry-through.
func closureSemantic(r *Rule, merged *Semantic) (sem *Semantic, err error) {
	switch {
	case r.Semantic != nil && merged != nil:
		reduced, rerr := Reduce(*r.Semantic, asReducedSlice(merged))
		if rerr != nil {
			return nil, rerr
		}
		return &reduced, nil
	case isVacuousCompletion(r.Semantic, r.SemanticIsReduced, merged):
		return nil, compileerr.Semanticf("insertion closure on %q: argumentless unreduced semantic %q completed with no supplied argument", r.LHS, r.Semantic.Name)
	case r.Semantic != nil:
		s := r.Semantic.Copy()
		return &s, nil
	case merged != nil:
		s := merged.Copy()
		return &s, nil
	default:
		return nil, nil
	}
}

// RunClosure is pass 2 (spec section 4.2). It repeatedly propagates
// insertions from child LHSs up through their parent rules until an entire
// pass admits no new record, then returns. Mutation of store during
// traversal is tolerated - additions are appended and the dirty-flag loop
// rescans from scratch on the next iteration (spec section 5).
func RunClosure(rm *RuleMap, store *InsertionStore, pa *PotentialAnalysis, opts Options, diag *Diagnostics) error {
	for {
		dirty := false

		for _, sym := range rm.Symbols() {
			for _, r := range rm.Rules(sym) {
				if !insertable(r, store) {
					continue
				}

				admittedAny, err := closeOneRule(r, store, pa, opts, diag)
				if err != nil {
					return err
				}
				if admittedAny {
					dirty = true
				}
			}
		}

		if !dirty {
			return nil
		}
	}
}

func closeOneRule(r *Rule, store *InsertionStore, pa *PotentialAnalysis, opts Options, diag *Diagnostics) (bool, error) {
	admittedAny := false

	if r.IsUnary() {
		for _, child := range store.Get(r.RHS[SlotLeft]) {
			m := mergeUnary(r.LHS, child)
			rec, err := closureCandidate(r, m)
			if err != nil {
				return false, err
			}
			admitted, err := store.AdmitInsertion(r.LHS, rec, opts, diag)
			if err != nil {
				return false, err
			}
			admittedAny = admittedAny || admitted
		}
		return admittedAny, nil
	}

	for _, a := range store.Get(r.RHS[SlotLeft]) {
		for _, b := range store.Get(r.RHS[SlotRight]) {
			m, ok := mergeBinary(r.LHS, a, b)
			if !ok {
				continue // illegal semantic merge: skip the pair
			}
			rec, err := closureCandidate(r, m)
			if err != nil {
				return false, err
			}
			admitted, err := store.AdmitInsertion(r.LHS, rec, opts, diag)
			if err != nil {
				return false, err
			}
			admittedAny = admittedAny || admitted
		}
	}

	return admittedAny, nil
}
