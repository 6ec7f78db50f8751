package editgram

// CollectBlankSymbols is pass 1 (spec section 4.1). It scans every terminal
// rule in rm and registers a primitive insertion record for each one that
// is either an empty-producing terminal or carries an insertion cost. Either
// source carries the terminal's own semantic (if any) through to the
// insertion record unchanged, since a downstream binary merge needs it
// whether the terminal vanished outright or just paid an insertion cost.
// Empty-producing terminal rules are removed from rm afterward, since later
// passes treat <empty> as a no-op placeholder; their insertion records
// remain in the returned store.
func CollectBlankSymbols(rm *RuleMap, opts Options, diag *Diagnostics) (*InsertionStore, error) {
	store := NewInsertionStore()

	var emptyProducers []struct {
		sym string
		idx int
	}

	for _, sym := range rm.Symbols() {
		rules := rm.Rules(sym)
		for i, r := range rules {
			if !r.IsTerminal {
				continue
			}

			switch {
			case len(r.RHS) == 1 && r.RHS[0] == EmptySymbol:
				rec := InsertionRecord{
					Cost: r.Cost,
					Tree: &Tree{Symbol: sym},
				}
				if r.Semantic != nil {
					s := r.Semantic.Copy()
					rec.Semantic = &s
				}
				if _, err := store.AdmitInsertion(sym, rec, opts, diag); err != nil {
					return nil, err
				}
				emptyProducers = append(emptyProducers, struct {
					sym string
					idx int
				}{sym, i})

			case r.InsertionCost != nil:
				rec := InsertionRecord{
					Cost:              r.Cost + *r.InsertionCost,
					Text:              r.Text.Copy(),
					RestrictInsertion: r.RestrictInsertion,
					Tree:              &Tree{Symbol: sym, InsertionCost: *r.InsertionCost},
				}
				if r.Semantic != nil {
					s := r.Semantic.Copy()
					rec.Semantic = &s
				}
				if _, err := store.AdmitInsertion(sym, rec, opts, diag); err != nil {
					return nil, err
				}
			}
		}
	}

	removeEmptyProducingTerminals(rm, emptyProducers)

	return store, nil
}

func removeEmptyProducingTerminals(rm *RuleMap, producers []struct {
	sym string
	idx int
}) {
	bySym := make(map[string]map[int]bool)
	for _, p := range producers {
		if bySym[p.sym] == nil {
			bySym[p.sym] = make(map[int]bool)
		}
		bySym[p.sym][p.idx] = true
	}
	for sym, idxs := range bySym {
		rules := rm.Rules(sym)
		kept := make([]*Rule, 0, len(rules))
		for i, r := range rules {
			if idxs[i] {
				continue
			}
			kept = append(kept, r)
		}
		rm.SetRules(sym, kept)
	}
}
