// Package compileerr contains the error types raised while synthesizing
// edit rules. The four kinds mirror spec section 7, ordered by severity:
// a fatal semantic error, a fatal missing-semantic error, a fatal ambiguity,
// and a non-error silent-drop diagnostic that callers may choose to log.
package compileerr

import "fmt"

// Kind classifies a compilation failure so callers can branch on severity
// without type-asserting on the concrete error type.
type Kind int

const (
	// KindSemantic is an illegal semantic reduction or merge, or an
	// insertion whose parent rule is an argumentless unreduced function.
	KindSemantic Kind = iota

	// KindMissingSemantic is a non-edit rule that demands a reduced
	// semantic no descendant can produce.
	KindMissingSemantic

	// KindAmbiguity is two ambiguous rules or insertion records with equal
	// text or equal semantics, encountered in strict mode (or mixing an
	// insertion with a non-insertion, which is always fatal).
	KindAmbiguity
)

func (k Kind) String() string {
	switch k {
	case KindSemantic:
		return "semantic"
	case KindMissingSemantic:
		return "missing-semantic"
	case KindAmbiguity:
		return "ambiguity"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// compileError is the concrete type backing every error returned from this
// package. It carries the offending rule description (already formatted by
// the caller, since rule/insertion record shapes live in package editgram
// and this package cannot import it without a cycle) alongside a Kind.
type compileError struct {
	kind   Kind
	msg    string
	detail string
	wrap   error
}

func (e *compileError) Error() string {
	if e.detail == "" {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.detail)
}

func (e *compileError) Unwrap() error {
	return e.wrap
}

// KindOf returns the classification of err and true, or (0, false) if err is
// not one raised by this package.
func KindOf(err error) (Kind, bool) {
	ce, ok := err.(*compileError)
	if !ok {
		return 0, false
	}
	return ce.kind, true
}

// Semantic returns a fatal semantic error (illegal reduction/merge, or an
// insertion into an argumentless unreduced function).
func Semantic(detail string) error {
	return &compileError{kind: KindSemantic, msg: "illegal semantic operation", detail: detail}
}

// Semanticf is Semantic with fmt.Sprintf-style formatting of detail.
func Semanticf(format string, a ...interface{}) error {
	return Semantic(fmt.Sprintf(format, a...))
}

// MissingSemantic returns a fatal missing-semantic error naming the
// derivation path that could not produce a required reduced semantic.
func MissingSemantic(symbol string, path string) error {
	return &compileError{
		kind:   KindMissingSemantic,
		msg:    fmt.Sprintf("symbol %q cannot derive a reduced semantic demanded by an ancestor", symbol),
		detail: path,
	}
}

// Ambiguity returns a fatal ambiguity error describing the two conflicting
// rules or insertion records.
func Ambiguity(lhs string, first, second string) error {
	return &compileError{
		kind: KindAmbiguity,
		msg:  fmt.Sprintf("ambiguous rules for %q", lhs),
		detail: fmt.Sprintf("%s  vs.  %s", first, second),
	}
}

// Wrap attaches a lower-level cause to any error from this package's
// constructors so callers can still reach it with errors.Unwrap/errors.Is.
func Wrap(err error, cause error) error {
	ce, ok := err.(*compileError)
	if !ok {
		return err
	}
	ce.wrap = cause
	return ce
}

// Drop is not an error. It records a candidate edit rule or insertion that
// was silently rejected per spec section 7.4: over the cost ceiling,
// missing a required reduced semantic, or the losing side of a lenient-mode
// ambiguity. Callers log it at their discretion; build_edit_rules never
// surfaces it as a failure.
type Drop struct {
	LHS    string
	Reason string
}

func (d Drop) String() string {
	return fmt.Sprintf("dropped candidate rule for %q: %s", d.LHS, d.Reason)
}

// NewDrop constructs a Drop diagnostic.
func NewDrop(lhs, reason string) Drop {
	return Drop{LHS: lhs, Reason: reason}
}
