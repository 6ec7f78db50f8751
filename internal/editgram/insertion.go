package editgram

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// InsertionRecord is a unit of derivable material that a symbol's subtree
// can contribute "out of thin air" to a parent rule (spec section 3,
// "Insertion record").
type InsertionRecord struct {
	Cost              float64
	Text              TextList
	PersonNumber      PersonNumber
	Semantic          *Semantic
	RestrictInsertion bool
	Tree              *Tree
}

// Copy returns a deep copy of the record.
func (ins InsertionRecord) Copy() InsertionRecord {
	cp := ins
	cp.Text = ins.Text.Copy()
	cp.Tree = ins.Tree.Copy()
	if ins.Semantic != nil {
		s := ins.Semantic.Copy()
		cp.Semantic = &s
	}
	return cp
}

// semanticTuple mirrors Rule.semanticTuple so the ambiguity relation (spec
// section 4.6.1) can treat rules and insertion records uniformly: an
// insertion record has no separate "inserted semantic" slot of its own, so
// the second element of the tuple is always nil.
func (ins InsertionRecord) semanticTuple() (sem, insSem *Semantic) {
	return ins.Semantic, nil
}

func (ins InsertionRecord) semanticsEqual(o InsertionRecord) bool {
	return ptrSemanticEqual(ins.Semantic, o.Semantic)
}

func (ins InsertionRecord) textEqual(o InsertionRecord) bool {
	return ins.Text.Equal(o.Text)
}

// InsertionStore is the mapping from LHS symbol to its ordered list of
// insertion records (spec section 3, "Insertion store"), shared by passes
// 1-3. It is backed by a linked hash map purely to keep symbol iteration in
// first-insertion order, per spec section 5's determinism requirement.
type InsertionStore struct {
	m *linkedhashmap.Map
}

// NewInsertionStore returns an empty store.
func NewInsertionStore() *InsertionStore {
	return &InsertionStore{m: linkedhashmap.New()}
}

// Symbols returns every LHS with at least one insertion record, in
// first-insertion order.
func (s *InsertionStore) Symbols() []string {
	keys := s.m.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// Get returns the insertion records for sym, or nil.
func (s *InsertionStore) Get(sym string) []InsertionRecord {
	v, found := s.m.Get(sym)
	if !found {
		return nil
	}
	return v.([]InsertionRecord)
}

// Has reports whether sym has at least one insertion record, which is what
// makes a symbol "insertable" as an RHS member (spec section 4.2).
func (s *InsertionStore) Has(sym string) bool {
	recs := s.Get(sym)
	return len(recs) > 0
}

// set replaces the record list for sym wholesale.
func (s *InsertionStore) set(sym string, recs []InsertionRecord) {
	s.m.Put(sym, recs)
}

// rawAppend appends rec to sym's list unconditionally, registering sym if
// new. Exported admission logic lives in admit.go; this is the mechanical
// primitive it calls once a record has cleared every check.
func (s *InsertionStore) rawAppend(sym string, rec InsertionRecord) {
	s.set(sym, append(s.Get(sym), rec))
}

// rawReplace swaps the record at index i in sym's list for rec.
func (s *InsertionStore) rawReplace(sym string, i int, rec InsertionRecord) {
	recs := s.Get(sym)
	recs[i] = rec
	s.set(sym, recs)
}

// rawRemove deletes the record at index i from sym's list.
func (s *InsertionStore) rawRemove(sym string, i int) {
	recs := s.Get(sym)
	recs = append(recs[:i], recs[i+1:]...)
	s.set(sym, recs)
}

// Count returns the total number of insertion records across every symbol.
func (s *InsertionStore) Count() int {
	n := 0
	for _, sym := range s.Symbols() {
		n += len(s.Get(sym))
	}
	return n
}
