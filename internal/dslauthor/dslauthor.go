// Package dslauthor is a thin, intentionally minimal stand-in for the
// rule-authoring DSL spec.md section 1 calls an external collaborator and
// places out of scope. It exists only to build internal/editgram.RuleMap
// fixtures for tests (cmd/editgen builds its RuleMap directly), grounded on
// internal/tunascript's Grammar.AddRule builder style: a handful of
// chainable helpers that panic on authoring mistakes (a malformed
// nonterminal name, a zero-length production) rather than returning an
// error, since these are call-site bugs in test/fixture code, never
// user input.
package dslauthor

import (
	"fmt"

	"github.com/dekarrin/editgram/internal/editgram"
)

// Builder accumulates authored rules into a RuleMap. The zero value is not
// usable; construct with New.
type Builder struct {
	rm *editgram.RuleMap
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{rm: editgram.NewRuleMap()}
}

// Build returns the accumulated RuleMap. The Builder remains usable
// afterward; further calls continue mutating the same map.
func (b *Builder) Build() *editgram.RuleMap {
	return b.rm
}

func requireSymbol(name string) {
	if name == "" {
		panic("dslauthor: empty symbol name not allowed")
	}
}

// Rule adds a plain nonterminal rule lhs -> rhs... and returns it so the
// caller can chain further configuration (WithCost, WithSemantic, and so
// on) before the next AddRule-equivalent call.
func (b *Builder) Rule(lhs string, rhs ...string) *editgram.Rule {
	requireSymbol(lhs)
	if len(rhs) == 0 {
		panic(fmt.Sprintf("dslauthor: rule for %q has no RHS symbols", lhs))
	}
	r := editgram.NewRule(lhs, rhs...)
	b.rm.AddRule(r)
	return r
}

// Terminal adds a terminal rule lhs -> "text" with the given cost.
func (b *Builder) Terminal(lhs, text string, cost float64) *editgram.Rule {
	requireSymbol(lhs)
	r := editgram.NewRule(lhs, text)
	r.IsTerminal = true
	r.Cost = cost
	r.Text = editgram.TextOf(text)
	b.rm.AddRule(r)
	return r
}

// EmptyProducer adds the terminal rule lhs -> <empty> with the given cost,
// the shape the blank-symbol collector (spec section 4.1) recognizes as a
// primitive omittable.
func (b *Builder) EmptyProducer(lhs string, cost float64) *editgram.Rule {
	requireSymbol(lhs)
	r := editgram.NewRule(lhs, editgram.EmptySymbol)
	r.IsTerminal = true
	r.Cost = cost
	b.rm.AddRule(r)
	return r
}

// InsertionCostTerminal adds a terminal rule carrying an insertion_cost (spec
// section 4.1's second primitive insertion source).
func (b *Builder) InsertionCostTerminal(lhs, text string, cost, insertionCost float64) *editgram.Rule {
	r := b.Terminal(lhs, text, cost)
	r.InsertionCost = &insertionCost
	return r
}

// Verb adds a conjugative verb rule: lhs -> a ConjObject, reduced to a single
// inflection at build time when the governing GramProps/PersonNumber is
// known, otherwise passed through for downstream reduction.
func (b *Builder) Verb(lhs string, forms editgram.ConjObject, cost float64) *editgram.Rule {
	requireSymbol(lhs)
	r := editgram.NewRule(lhs, lhs+"$word")
	r.IsTerminal = true
	r.Cost = cost
	r.Text = editgram.TextList{editgram.Conjugative(forms)}
	b.rm.AddRule(r)
	return r
}

// Pronoun is a convenience alias of Terminal for the common case of a
// closed-class single-word terminal with no inflection.
func (b *Builder) Pronoun(lhs, word string, cost float64) *editgram.Rule {
	return b.Terminal(lhs, word, cost)
}

// TermSequence adds a rule flagged as a term sequence (spec section 3): its
// Text is authored directly rather than derived from its children's.
func (b *Builder) TermSequence(lhs string, text editgram.TextList, rhs ...string) *editgram.Rule {
	r := b.Rule(lhs, rhs...)
	r.IsTermSequence = true
	r.Text = text
	return r
}

// Transposable marks r as eligible for the transposition-rule materializer
// (spec section 4.4) by giving it a transposition cost; r must already be
// binary.
func Transposable(r *editgram.Rule, transpositionCost float64) *editgram.Rule {
	if !r.IsBinary() {
		panic(fmt.Sprintf("dslauthor: %q is not a binary rule, cannot transpose", r.LHS))
	}
	r.TranspositionCost = &transpositionCost
	return r
}

// WithCost sets r's own cost and returns r for chaining.
func WithCost(r *editgram.Rule, cost float64) *editgram.Rule {
	r.Cost = cost
	return r
}

// WithSemantic attaches an unreduced-or-reduced semantic term to r.
func WithSemantic(r *editgram.Rule, sem editgram.Semantic, isReduced bool) *editgram.Rule {
	s := sem
	r.Semantic = &s
	r.SemanticIsReduced = isReduced
	return r
}

// NoInsert vetoes r entirely from insertion synthesis.
func NoInsert(r *editgram.Rule) *editgram.Rule {
	r.NoInsert = true
	return r
}

// NoInsertionAt vetoes insertion synthesis at one RHS position of r.
func NoInsertionAt(r *editgram.Rule, index int) *editgram.Rule {
	if r.NoInsertionIndexes == nil {
		r.NoInsertionIndexes = make(map[int]bool)
	}
	r.NoInsertionIndexes[index] = true
	return r
}
