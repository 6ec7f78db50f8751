package editgram

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// orderedRules is a LHS-symbol -> ordered-rule-list map that preserves
// first-insertion order of its keys, backed by gods' linked hash map. Spec
// section 5 requires that "iteration over symbols and their rule lists
// proceeds in insertion order" for determinism of the final rule map; a
// plain Go map cannot provide that, so every pass walks this type's Symbols
// slice rather than ranging over a map directly.
type orderedRules struct {
	m *linkedhashmap.Map
}

func newOrderedRules() *orderedRules {
	return &orderedRules{m: linkedhashmap.New()}
}

// Symbols returns the LHS symbols in first-insertion order.
func (o *orderedRules) Symbols() []string {
	keys := o.m.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// Get returns the rule list for sym, or nil if sym has no rules.
func (o *orderedRules) Get(sym string) []*Rule {
	v, found := o.m.Get(sym)
	if !found {
		return nil
	}
	return v.([]*Rule)
}

// Has reports whether sym has any rules registered.
func (o *orderedRules) Has(sym string) bool {
	_, found := o.m.Get(sym)
	return found
}

// Set replaces the rule list for sym, registering sym in insertion order if
// it is new.
func (o *orderedRules) Set(sym string, rules []*Rule) {
	o.m.Put(sym, rules)
}

// Append adds a single rule to sym's list, registering sym if new.
func (o *orderedRules) Append(sym string, r *Rule) {
	o.Set(sym, append(o.Get(sym), r))
}

// Delete removes sym and its rules entirely.
func (o *orderedRules) Delete(sym string) {
	o.m.Remove(sym)
}

// Len returns the number of distinct LHS symbols registered.
func (o *orderedRules) Len() int {
	return o.m.Size()
}
