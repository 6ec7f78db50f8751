package editgram

import "fmt"

// Tree is a derivation witness: a forest node of {symbol, children}, used
// for error messages and ambiguity reporting. Stripped from the final rule
// map unless Options.IncludeTrees is set (spec section 3, "tree").
type Tree struct {
	Symbol   string
	Children []*Tree

	// InsertionCost is non-zero only on single-node trees built by the
	// blank-symbol collector for an insertion-cost-bearing terminal (spec
	// section 4.1); it exists purely so diagnostics can say *why* a leaf
	// is in the tree.
	InsertionCost float64
}

// Copy returns a deep copy of t, or nil if t is nil.
func (t *Tree) Copy() *Tree {
	if t == nil {
		return nil
	}
	cp := &Tree{Symbol: t.Symbol, InsertionCost: t.InsertionCost}
	if t.Children != nil {
		cp.Children = make([]*Tree, len(t.Children))
		for i := range t.Children {
			cp.Children[i] = t.Children[i].Copy()
		}
	}
	return cp
}

// Equal reports whether two derivation trees are structurally identical.
// Used by the insertion store to deduplicate records that the closure loop
// re-derives on a later iteration (spec section 3, "Tree distinctness").
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Symbol != o.Symbol || len(t.Children) != len(o.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

func (t *Tree) String() string {
	if t == nil {
		return "<nil>"
	}
	if len(t.Children) == 0 {
		return t.Symbol
	}
	s := t.Symbol + "("
	for i, c := range t.Children {
		if i > 0 {
			s += " "
		}
		s += c.String()
	}
	return s + ")"
}

// RHS slot indexes used throughout insertion/transposition synthesis. A
// unary or terminal rule only ever uses index 0.
const (
	SlotLeft  = 0
	SlotRight = 1
)

// Rule is one production of the shared rule map (spec section 3). Rules
// come in many variants - plain, terminal, transposed, substitution,
// stop-word, term-sequence, placeholder - represented here as one tagged
// struct rather than an inheritance hierarchy; passes branch on the bool/
// flag fields at the three touch points (admission, materialization,
// semantic-append) named in the design notes.
type Rule struct {
	LHS        string
	IsTerminal bool

	// RHS is length 1 (unary or terminal) or length 2 (binary).
	RHS []string

	Cost float64

	// InsertionCost/TranspositionCost mark the rule as a candidate for
	// insertion/transposition synthesis when set. A nil pointer means
	// "not defined", distinct from a defined cost of zero.
	InsertionCost     *float64
	TranspositionCost *float64

	// NoInsert and NoInsertionIndexes are authoring vetoes that forbid the
	// rule (or one RHS position) from participating in insertion
	// synthesis.
	NoInsert           bool
	NoInsertionIndexes map[int]bool

	// RestrictInsertion marks that this rule's insertion, when placed at
	// the right of a binary rule, must be anchored at end-of-input.
	RestrictInsertion bool

	Text TextList

	// GramProps gives, per RHS slot index, the conjugation policy that
	// governs that slot. A slot with no entry has no governing policy.
	GramProps map[int]*GramProps

	PersonNumber PersonNumber

	Semantic          *Semantic
	SemanticIsReduced bool

	// InsertedSemantic is an already-reduced semantic attached by the
	// insertion process, distinct from Semantic; the two travel together
	// when Semantic is still unreduced but the non-inserted side can still
	// itself produce a semantic (spec section 4.3.2).
	InsertedSemantic *Semantic

	// InsertedSymIdx is SlotLeft/SlotRight if this rule was synthesized by
	// inserting the RHS child at that index, or -1 if it was not.
	InsertedSymIdx int

	// RHSCanProduceSemantic/SecondRHSCanProduceSemantic are analyzer
	// outputs (pass 5), consulted by the semantic-append rule and the
	// insertion-rule materializer.
	RHSCanProduceSemantic       bool
	SecondRHSCanProduceSemantic bool

	// Authoring flags preserved verbatim onto derived rules.
	RHSDoesNotProduceText bool
	IsTermSequence        bool
	Tense                 string
	IsTransposition       bool
	IsSubstitution        bool
	IsStopWord            bool
	IsPlaceholder         bool

	Tree *Tree
}

// NewRule returns a Rule with InsertedSymIdx defaulted to "unset" (-1),
// since 0 is itself a valid slot index.
func NewRule(lhs string, rhs ...string) *Rule {
	return &Rule{LHS: lhs, RHS: rhs, InsertedSymIdx: -1}
}

// IsBinary reports whether the rule has two RHS symbols.
func (r *Rule) IsBinary() bool {
	return len(r.RHS) == 2
}

// IsUnary reports whether the rule has exactly one RHS symbol.
func (r *Rule) IsUnary() bool {
	return len(r.RHS) == 1
}

// HasInsertedSymIdx reports whether the rule records which slot it was
// synthesized by inserting.
func (r *Rule) HasInsertedSymIdx() bool {
	return r.InsertedSymIdx == SlotLeft || r.InsertedSymIdx == SlotRight
}

// vetoesIndex reports whether authoring forbids insertion synthesis at RHS
// position i.
func (r *Rule) vetoesIndex(i int) bool {
	return r.NoInsertionIndexes != nil && r.NoInsertionIndexes[i]
}

// Copy returns a deep copy of r. The copy shares no mutable state with the
// original, including its Tree.
func (r *Rule) Copy() *Rule {
	if r == nil {
		return nil
	}
	cp := *r
	cp.RHS = append([]string(nil), r.RHS...)
	cp.Text = r.Text.Copy()
	cp.Tree = r.Tree.Copy()

	if r.InsertionCost != nil {
		v := *r.InsertionCost
		cp.InsertionCost = &v
	}
	if r.TranspositionCost != nil {
		v := *r.TranspositionCost
		cp.TranspositionCost = &v
	}
	if r.NoInsertionIndexes != nil {
		cp.NoInsertionIndexes = make(map[int]bool, len(r.NoInsertionIndexes))
		for k, v := range r.NoInsertionIndexes {
			cp.NoInsertionIndexes[k] = v
		}
	}
	if r.GramProps != nil {
		cp.GramProps = make(map[int]*GramProps, len(r.GramProps))
		for k, v := range r.GramProps {
			cp.GramProps[k] = v.Copy()
		}
	}
	if r.Semantic != nil {
		s := r.Semantic.Copy()
		cp.Semantic = &s
	}
	if r.InsertedSemantic != nil {
		s := r.InsertedSemantic.Copy()
		cp.InsertedSemantic = &s
	}
	return &cp
}

// semanticTuple returns the (semantic, inserted_semantic) pair the
// ambiguity relation compares (spec section 4.6.1). A nil pointer compares
// equal only to another nil pointer.
func (r *Rule) semanticTuple() (sem, ins *Semantic) {
	return r.Semantic, r.InsertedSemantic
}

func ptrSemanticEqual(a, b *Semantic) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// semanticsEqual reports whether r and o have equal (semantic,
// inserted_semantic) tuples under the semantic-equality relation.
func (r *Rule) semanticsEqual(o *Rule) bool {
	rs, ri := r.semanticTuple()
	os, oi := o.semanticTuple()
	return ptrSemanticEqual(rs, os) && ptrSemanticEqual(ri, oi)
}

// rhsEqual reports whether r and o have the same RHS symbol sequence.
func (r *Rule) rhsEqual(o *Rule) bool {
	if len(r.RHS) != len(o.RHS) {
		return false
	}
	for i := range r.RHS {
		if r.RHS[i] != o.RHS[i] {
			return false
		}
	}
	return true
}

// String renders a rule for diagnostics.
func (r *Rule) String() string {
	return fmt.Sprintf("%s -> %v [cost=%.2f text=%q sem=%v]", r.LHS, r.RHS, r.Cost, joinLiteralsForDisplay(r.Text), r.Semantic)
}

// RuleMap is the shared, mutable structure every pass reads and writes: a
// mapping from LHS nonterminal name to its ordered list of rules (spec
// section 3, "Rule"). The zero value is not usable; construct with
// NewRuleMap.
type RuleMap struct {
	rules *orderedRules
}

// NewRuleMap returns an empty RuleMap.
func NewRuleMap() *RuleMap {
	return &RuleMap{rules: newOrderedRules()}
}

// Symbols returns every registered LHS symbol, in the order they were first
// added. A symbol whose rule list was emptied through SetRules stays
// registered and is still returned.
func (rm *RuleMap) Symbols() []string {
	return rm.rules.Symbols()
}

// Rules returns the rule list for sym (nil if none).
func (rm *RuleMap) Rules(sym string) []*Rule {
	return rm.rules.Get(sym)
}

// SetRules replaces the rule list for sym wholesale.
func (rm *RuleMap) SetRules(sym string, rules []*Rule) {
	rm.rules.Set(sym, rules)
}

// AddRule appends r to its LHS's rule list, registering the LHS symbol if
// this is the first rule seen for it. Used both by authoring and by every
// synthesis pass admitting a new derived rule.
func (rm *RuleMap) AddRule(r *Rule) {
	rm.rules.Append(r.LHS, r)
}

// DeleteSymbol removes sym and all of its rules.
func (rm *RuleMap) DeleteSymbol(sym string) {
	rm.rules.Delete(sym)
}

// Len returns the number of distinct LHS symbols.
func (rm *RuleMap) Len() int {
	return rm.rules.Len()
}

// AllRules returns every rule in the map, LHS symbols in insertion order
// and each LHS's own rules in their list order.
func (rm *RuleMap) AllRules() []*Rule {
	var out []*Rule
	for _, sym := range rm.Symbols() {
		out = append(out, rm.Rules(sym)...)
	}
	return out
}

// IsNonTerminal reports whether sym is registered as an LHS, even with an
// emptied rule list; the core treats any symbol with a rule list as a
// nonterminal and anything
// else as an opaque terminal/symbol name (entity categories, integer
// symbols, deletables, and stop words are consumed this way, per spec
// section 1's out-of-scope list).
func (rm *RuleMap) IsNonTerminal(sym string) bool {
	return rm.rules.Has(sym)
}
