// Package editgram implements the edit-rule synthesis core of a
// natural-language-interface grammar compiler: given a finite set of
// hand-authored production rules annotated with insertion/transposition
// costs, empty-symbol markers, conjugative text objects, and compositional
// semantic terms, it derives additional rules that let a downstream chart
// parser tolerate missing or reordered tokens while preserving the user's
// intended meaning.
//
// The package is a pipeline of six passes over one shared RuleMap. See
// BuildEditRules for the entry point and pass ordering.
package editgram

// Sentinel symbol names. Neither may collide with an authored symbol name;
// the caller is responsible for that invariant (spec section 6).
const (
	// EmptySymbol matches the empty span. It is consumed only by the
	// blank-symbol collector (pass 1); empty-producing terminal rules are
	// removed from the rule map once collected.
	EmptySymbol = "<empty>"

	// BlankInserted is the reserved RHS tail used to anchor an end-of-input
	// restricted insertion rule. It is present in the rule map on entry,
	// authored externally as a terminal-producing placeholder; this
	// package uses only its name.
	BlankInserted = "<blank-inserted>"
)

// MaxCost is the global cost ceiling. No rule or insertion record with a
// cost at or above this value is ever admitted (spec section 4.6).
const MaxCost = 6.0

// PersonNumber is the subject-verb agreement tag propagated from the
// nominative branch of a verb phrase to drive verb inflection.
type PersonNumber string

// Recognized person-number tags. The zero value means "unset".
const (
	PersonNumberNone     PersonNumber = ""
	PersonNumberOneSg    PersonNumber = "one-sg"
	PersonNumberThreeSg  PersonNumber = "three-sg"
	PersonNumberPlural   PersonNumber = "pl"
)

// or combines two person-number tags, with the left (parent/original rule)
// winning when both are set. This implements the "parent wins" rule used
// throughout passes 2 and 3.
func (pn PersonNumber) or(other PersonNumber) PersonNumber {
	if pn != PersonNumberNone {
		return pn
	}
	return other
}
