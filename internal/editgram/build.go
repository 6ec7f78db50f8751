package editgram

// BuildEditRules is the core's single external operation (spec section 6).
// Given a rule map authored externally (rule-authoring DSL helpers, regex-
// style terminal splitting, and everything downstream of synthesis are out
// of scope per spec section 1) and a set of Options, it mutates rm in
// place to add every insertion and transposition rule the five generative
// passes can derive, subject to the cost ceiling and the ambiguity and
// semantic-viability gates.
//
// Pass order follows the dependency chain in spec section 2: the
// semantic-potential analyzer (pass 5) must run first since insertion
// decisions consult its output; the blank-symbol collector (pass 1) seeds
// the insertion store the closure engine (pass 2) needs; the insertion-rule
// materializer (pass 3) and transposition-rule materializer (pass 4) both
// use the admission predicate (pass 6) that passes 2 and 3 also share.
// Rule-removal of unused nonterminals is a precondition the caller is
// responsible for before calling this function; it runs externally, ahead
// of pass 5. Before any of that, the originally-authored rule set itself is
// checked for ambiguity (spec section 4.6.1), since the admission predicate
// the generative passes share only ever compares a new candidate against
// what is already in rm.
func BuildEditRules(rm *RuleMap, opts Options) (*Diagnostics, error) {
	diag := &Diagnostics{}

	if err := ValidateAmbiguity(rm, opts, diag); err != nil {
		return diag, err
	}

	pa := Analyze(rm)
	pa.AnnotateBinaryRules(rm)
	if err := ValidateNonEditRules(rm, pa); err != nil {
		return diag, err
	}

	store, err := CollectBlankSymbols(rm, opts, diag)
	if err != nil {
		return diag, err
	}

	if err := RunClosure(rm, store, pa, opts, diag); err != nil {
		return diag, err
	}

	if err := MaterializeInsertionRules(rm, store, pa, opts, diag); err != nil {
		return diag, err
	}

	if err := MaterializeTranspositionRules(rm, pa, opts, diag); err != nil {
		return diag, err
	}

	stripTemporaries(rm, opts)

	return diag, nil
}

// stripTemporaries removes bookkeeping the core needed internally but the
// downstream consumer never should see: derivation trees (unless the
// caller asked to keep them for debugging) and any grammatical-property
// bag left with zero defined keys (spec section 3, "Global invariants").
func stripTemporaries(rm *RuleMap, opts Options) {
	for _, sym := range rm.Symbols() {
		for _, r := range rm.Rules(sym) {
			if !opts.IncludeTrees {
				r.Tree = nil
			}
			for slot, gp := range r.GramProps {
				if gp.Empty() {
					delete(r.GramProps, slot)
				}
			}
			if len(r.GramProps) == 0 {
				r.GramProps = nil
			}
		}
	}
}
