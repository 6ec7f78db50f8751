package editgram

import (
	"strings"
)

// ConjObject is a conjugative text object: a mapping from conjugation key
// (one-sg, three-sg, pl, past, nom, obj, ...) to a literal string.
// Conjugation reduces it to one literal at rule-build time when the
// governing grammatical property is known; otherwise it is left in place
// for the downstream parser to reduce.
type ConjObject map[string]string

// Copy returns a deep copy of the conjugative object.
func (c ConjObject) Copy() ConjObject {
	if c == nil {
		return nil
	}
	c2 := make(ConjObject, len(c))
	for k, v := range c {
		c2[k] = v
	}
	return c2
}

// Equal returns whether two conjugative objects are deep-equal.
func (c ConjObject) Equal(o ConjObject) bool {
	if len(c) != len(o) {
		return false
	}
	for k, v := range c {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// TextElem is one element of a TextList: either a literal string or a
// conjugative object awaiting reduction. Exactly one of the two fields is
// set; IsLiteral reports which.
type TextElem struct {
	literal string
	obj     ConjObject
	isObj   bool
}

// Literal constructs a literal TextElem.
func Literal(s string) TextElem {
	return TextElem{literal: s}
}

// Conjugative constructs a TextElem wrapping a conjugative object.
func Conjugative(o ConjObject) TextElem {
	return TextElem{obj: o, isObj: true}
}

// IsLiteral reports whether the element is a plain literal string.
func (t TextElem) IsLiteral() bool {
	return !t.isObj
}

// String returns the literal string, or "" if the element is still a
// conjugative object. Callers should check IsLiteral first.
func (t TextElem) String() string {
	if t.isObj {
		return ""
	}
	return t.literal
}

// Object returns the conjugative object, or the zero value if the element
// is a literal.
func (t TextElem) Object() ConjObject {
	return t.obj
}

// Equal returns whether two TextElems are deep-equal under the ambiguity
// relation's display-text comparison (spec section 4.6.1, "strings equal" —
// case-sensitive).
func (t TextElem) Equal(o TextElem) bool {
	if t.isObj != o.isObj {
		return false
	}
	if t.isObj {
		return t.obj.Equal(o.obj)
	}
	return t.literal == o.literal
}

// Copy returns a deep copy of the element.
func (t TextElem) Copy() TextElem {
	if t.isObj {
		return TextElem{obj: t.obj.Copy(), isObj: true}
	}
	return TextElem{literal: t.literal}
}

// TextList is a rule's or insertion record's display text: an ordered list
// of literals and/or conjugative objects (spec section 3, "text").
type TextList []TextElem

// TextOf constructs a TextList from a single literal string, the common
// case for terminal and plain nonterminal rules.
func TextOf(s string) TextList {
	return TextList{Literal(s)}
}

// Copy returns a deep copy of the list.
func (tl TextList) Copy() TextList {
	if tl == nil {
		return nil
	}
	out := make(TextList, len(tl))
	for i := range tl {
		out[i] = tl[i].Copy()
	}
	return out
}

// Equal returns whether two text lists are element-wise equal.
func (tl TextList) Equal(o TextList) bool {
	if len(tl) != len(o) {
		return false
	}
	for i := range tl {
		if !tl[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Concat returns a new TextList that is tl followed by o. Neither argument
// is mutated.
func (tl TextList) Concat(o TextList) TextList {
	out := make(TextList, 0, len(tl)+len(o))
	out = append(out, tl...)
	out = append(out, o...)
	return out
}

// GramProps is a rule's per-RHS-slot conjugation policy: at most one form
// key (e.g. past, infinitive) and at most one accepted-tense key. A
// GramProps with neither key set is considered empty and must not survive
// onto an output rule (spec section 3, "Global invariants").
type GramProps struct {
	Form          string
	AcceptedTense string
}

// Empty reports whether neither Form nor AcceptedTense is set.
func (g *GramProps) Empty() bool {
	return g == nil || (g.Form == "" && g.AcceptedTense == "")
}

// Normalize returns nil if g is empty, else g itself. Call this before
// storing a GramProps on a derived rule so no rule ever carries a
// zero-key property bag (spec section 3).
func (g *GramProps) Normalize() *GramProps {
	if g.Empty() {
		return nil
	}
	return g
}

// Copy returns a deep copy of g, or nil if g is nil.
func (g *GramProps) Copy() *GramProps {
	if g == nil {
		return nil
	}
	cp := *g
	return &cp
}

// conjugate runs the conjugation pass of spec section 4.2.1 over a text
// list, given the governing grammatical properties and a known
// person-number (which may be PersonNumberNone). Each element is visited in
// order:
//
//   - a literal following another emitted literal is concatenated with a
//     single separating space; otherwise it is appended as-is.
//   - a conjugative object whose keys include gram.Form is resolved to that
//     inflection (form-driven inflection is tried before person-number so
//     that "have" + "like" yields "have liked", not "have like").
//   - else, if the object has a key equal to pn, it is resolved to that
//     inflection.
//   - else the object is left in place for later conjugation by the
//     downstream parser.
func conjugate(list TextList, gram *GramProps, pn PersonNumber) TextList {
	out := make(TextList, 0, len(list))

	appendLiteral := func(s string) {
		if n := len(out); n > 0 && out[n-1].IsLiteral() {
			out[n-1] = Literal(out[n-1].String() + " " + s)
			return
		}
		out = append(out, Literal(s))
	}

	for _, elem := range list {
		if elem.IsLiteral() {
			appendLiteral(elem.String())
			continue
		}

		obj := elem.Object()
		if gram != nil && gram.Form != "" {
			if infl, ok := obj[gram.Form]; ok {
				appendLiteral(infl)
				continue
			}
		}
		if pn != PersonNumberNone {
			if infl, ok := obj[string(pn)]; ok {
				appendLiteral(infl)
				continue
			}
		}
		out = append(out, elem)
	}

	return out
}

// joinLiteralsForDisplay renders a text list's literal elements for
// diagnostic messages only; any remaining conjugative object is rendered as
// its keys. Not used for equality checks.
func joinLiteralsForDisplay(list TextList) string {
	var sb strings.Builder
	for i, elem := range list {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if elem.IsLiteral() {
			sb.WriteString(elem.String())
		} else {
			keys := make([]string, 0, len(elem.Object()))
			for k := range elem.Object() {
				keys = append(keys, k)
			}
			sb.WriteString("{" + strings.Join(keys, "/") + "}")
		}
	}
	return sb.String()
}
