package editgram

import (
	"fmt"
	"sort"

	"github.com/cnf/structhash"
	"github.com/dekarrin/editgram/internal/compileerr"
)

// SemanticKind distinguishes the two shapes a Semantic term can take.
type SemanticKind int

const (
	// SemanticArgument is an opaque id - always reduced, never has
	// children.
	SemanticArgument SemanticKind = iota

	// SemanticFunction is a named operation of bounded arity holding an
	// ordered list of child terms. It is unreduced while any argument slot
	// is still empty.
	SemanticFunction

	// SemanticList represents a "reduced-RHS semantic" in flight: a flat,
	// sorted bag of already-reduced sibling terms that have been merged
	// together (spec section 4.2 step 1, section 4.3.2) but not yet
	// attached as the arguments of some ancestor's function. It is always
	// reduced. asReducedSlice/semanticListOf below are the only places
	// that construct or unwrap it.
	SemanticList
)

// Semantic is either a semantic function (name, cost, arity bounds, and an
// ordered list of child terms, possibly still unreduced) or a semantic
// argument (an opaque id). A slice of Semantic terms sorted by Compare is a
// "reduced-RHS semantic" per spec section 3.
type Semantic struct {
	Kind SemanticKind

	// Name is the function name (SemanticFunction) or the argument id
	// (SemanticArgument).
	Name string

	Cost float64

	// MinArity/MaxArity bound how many children a SemanticFunction may
	// hold before/after reduction. Unused for SemanticArgument.
	MinArity, MaxArity int

	// Children holds the already-attached arguments of a SemanticFunction.
	// A SemanticFunction term is unreduced while len(Children) < MinArity.
	Children []Semantic
}

// Arg builds a semantic argument term.
func Arg(id string) Semantic {
	return Semantic{Kind: SemanticArgument, Name: id}
}

// Fn builds an unreduced (or partially-applied) semantic function term.
func Fn(name string, cost float64, minArity, maxArity int, children ...Semantic) Semantic {
	return Semantic{
		Kind:     SemanticFunction,
		Name:     name,
		Cost:     cost,
		MinArity: minArity,
		MaxArity: maxArity,
		Children: children,
	}
}

// IsReduced reports whether the term is fully saturated: an argument is
// always reduced; a function is reduced once it holds at least MinArity
// children.
func (s Semantic) IsReduced() bool {
	switch s.Kind {
	case SemanticArgument, SemanticList:
		return true
	default:
		return len(s.Children) >= s.MinArity
	}
}

// asReducedSlice returns s unwrapped to its flat member-term slice: nil
// becomes an empty slice, a SemanticList becomes its Children, and any
// other term becomes a singleton slice containing itself.
func asReducedSlice(s *Semantic) []Semantic {
	if s == nil {
		return nil
	}
	if s.Kind == SemanticList {
		return s.Children
	}
	return []Semantic{*s}
}

// semanticListOf wraps a (sorted) slice of reduced terms back into a single
// *Semantic: nil/empty becomes nil, a singleton is returned unwrapped, and
// two or more terms become a SemanticList.
func semanticListOf(terms []Semantic) *Semantic {
	if len(terms) == 0 {
		return nil
	}
	if len(terms) == 1 {
		t := terms[0]
		return &t
	}
	return &Semantic{Kind: SemanticList, Children: terms}
}

// IsArgumentless reports whether s is an unreduced function with no
// children and a MinArity greater than zero - the shape the spec's open
// question (section 9) calls out as "currently can only be intersect()".
func (s Semantic) IsArgumentless() bool {
	return s.Kind == SemanticFunction && len(s.Children) == 0 && s.MinArity > 0
}

// Copy returns a deep copy of s.
func (s Semantic) Copy() Semantic {
	cp := s
	if s.Children != nil {
		cp.Children = make([]Semantic, len(s.Children))
		for i := range s.Children {
			cp.Children[i] = s.Children[i].Copy()
		}
	}
	return cp
}

// hash returns a short structural digest of s, used only as a cheap
// pre-check before the deep Equal comparison in the ambiguity relation
// (spec section 4.6.1); a hash collision never substitutes for Equal, it
// only lets non-colliding pairs skip the expensive deep walk.
func (s Semantic) hash() string {
	h, err := structhash.Hash(s, 1)
	if err != nil {
		// structhash only fails on unhashable types (channels, funcs), none
		// of which ever appear in a Semantic; fall back to a name-only
		// digest rather than panicking mid-compile.
		return s.Name
	}
	return h
}

// Compare implements the total order used to sort reduced-RHS semantic
// lists: by name, then cost, then recursively by children. It returns a
// negative number, zero, or a positive number as s is less than, equal to,
// or greater than o.
func (s Semantic) Compare(o Semantic) int {
	if s.Kind != o.Kind {
		return int(s.Kind) - int(o.Kind)
	}
	if s.Name != o.Name {
		if s.Name < o.Name {
			return -1
		}
		return 1
	}
	if s.Cost != o.Cost {
		if s.Cost < o.Cost {
			return -1
		}
		return 1
	}
	if len(s.Children) != len(o.Children) {
		return len(s.Children) - len(o.Children)
	}
	for i := range s.Children {
		if c := s.Children[i].Compare(o.Children[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Equal returns deep, order-insensitive-at-the-top-level equality: two
// function terms are equal only if their already-ordered children compare
// equal pairwise (child order is itself semantically meaningful - a
// function's argument positions are not interchangeable - only top-level
// reduced-RHS lists are order-insensitive, via EqualReducedList below).
func (s Semantic) Equal(o Semantic) bool {
	if s.hash() != o.hash() {
		return false
	}
	return s.Compare(o) == 0
}

// SortReducedList sorts a reduced-RHS semantic list by Compare, in place,
// so later equality tests on it are position-independent.
func SortReducedList(list []Semantic) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Compare(list[j]) < 0
	})
}

// EqualReducedList returns whether two reduced-RHS semantic lists are equal
// once both are sorted: same length, and pairwise Equal after sorting.
func EqualReducedList(a, b []Semantic) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]Semantic(nil), a...)
	sb := append([]Semantic(nil), b...)
	SortReducedList(sa)
	SortReducedList(sb)
	for i := range sa {
		if !sa[i].Equal(sb[i]) {
			return false
		}
	}
	return true
}

// MergeReducedLists merges two reduced-RHS semantic lists (spec section
// 4.2, step 1 "Semantic merge"). The merge is illegal - signaled by ok =
// false, the semantic algebra's "-1" sentinel in spec prose - only when
// the combined list would exceed what the algebra can represent; in this
// core that can only happen if the same argument id appears in both lists
// (an argument cannot be supplied twice to the same eventual reduction).
// On success the merged list is returned sorted by Compare.
func MergeReducedLists(a, b []Semantic) (merged []Semantic, ok bool) {
	seen := make(map[string]bool, len(a))
	out := make([]Semantic, 0, len(a)+len(b))
	for _, t := range a {
		if t.Kind == SemanticArgument {
			if seen[t.Name] {
				return nil, false
			}
			seen[t.Name] = true
		}
		out = append(out, t)
	}
	for _, t := range b {
		if t.Kind == SemanticArgument {
			if seen[t.Name] {
				return nil, false
			}
			seen[t.Name] = true
		}
		out = append(out, t)
	}
	SortReducedList(out)
	return out, true
}

// mergeSemantics merges two optional semantic attachments as reduced-RHS
// semantics (unwrapping any SemanticList, combining, then re-wrapping),
// returning ok = false on an illegal merge (spec section 4.2 step 1,
// section 4.3.2 first case).
func mergeSemantics(a, b *Semantic) (*Semantic, bool) {
	merged, ok := MergeReducedLists(asReducedSlice(a), asReducedSlice(b))
	if !ok {
		return nil, false
	}
	return semanticListOf(merged), true
}

// isVacuousCompletion implements the semantic-less-clause predicate's core
// test (spec section 4.3.1): a completion is semantically vacuous when sem
// is an unreduced, argumentless function (the shape only intersect() has,
// per the design notes) and the candidate supplies no semantic argument of
// its own to complete it. Per spec section 9's design note, this shape is
// treated as fatal rather than silently dropped: callers wrap a true result
// in a compileerr.Semantic error rather than skipping the candidate.
func isVacuousCompletion(sem *Semantic, isReduced bool, supplied *Semantic) bool {
	if sem == nil || isReduced {
		return false
	}
	if !sem.IsArgumentless() {
		return false
	}
	return supplied == nil
}

// Reduce fills fn's remaining argument slots with args, in order, producing
// a new, fully-applied (or still partially-applied) term. It is a fatal
// semantic error (spec section 7, kind 1) to reduce anything but a
// SemanticFunction, or to supply more arguments than MaxArity allows.
func Reduce(fn Semantic, args []Semantic) (Semantic, error) {
	if fn.Kind != SemanticFunction {
		return Semantic{}, compileerr.Semanticf("cannot reduce non-function semantic term %q", fn.Name)
	}
	out := fn.Copy()
	out.Children = append(out.Children, args...)
	if out.MaxArity > 0 && len(out.Children) > out.MaxArity {
		return Semantic{}, compileerr.Semanticf(
			"illegal reduction of %q: %d arguments exceeds max arity %d",
			fn.Name, len(out.Children), out.MaxArity,
		)
	}
	return out, nil
}

// String renders a semantic term for diagnostics only.
func (s Semantic) String() string {
	if s.Kind == SemanticArgument {
		return s.Name
	}
	if s.Kind == SemanticList {
		childStrs := make([]string, len(s.Children))
		for i := range s.Children {
			childStrs[i] = s.Children[i].String()
		}
		return fmt.Sprintf("%v", childStrs)
	}
	childStrs := make([]string, len(s.Children))
	for i := range s.Children {
		childStrs[i] = s.Children[i].String()
	}
	return fmt.Sprintf("%s(%v)", s.Name, childStrs)
}
