package editgram

import "github.com/dekarrin/editgram/internal/compileerr"

// PotentialAnalysis memoizes, per nonterminal symbol, whether some
// derivation of it can yield a semantic at all and whether some derivation
// can yield a reduced one (spec section 4.5). It also caches, per binary
// rule, whether either RHS side can produce a semantic.
type PotentialAnalysis struct {
	canProduce        map[string]bool
	canProduceReduced map[string]bool
}

// hasSemanticShape reports whether a rule's own semantic attachment counts
// toward "can produce a semantic": a defined Semantic, a placeholder flag,
// or (per spec section 4.5) an anaphoric reference. This core treats
// IsPlaceholder as the anaphoric-reference marker too, since both are
// opaque carry-through flags from the authoring DSL with identical
// consequences for potential analysis.
func hasSemanticShape(r *Rule) bool {
	return r.Semantic != nil || r.IsPlaceholder
}

// hasReducedSemanticShape reports whether a rule's own semantic attachment
// counts toward "can produce a reduced semantic": already reduced, an
// inserted semantic, a placeholder, or an anaphoric reference.
func hasReducedSemanticShape(r *Rule) bool {
	if r.IsPlaceholder {
		return true
	}
	if r.InsertedSemantic != nil {
		return true
	}
	return r.Semantic != nil && r.SemanticIsReduced
}

// Analyze walks rm computing, for every nonterminal symbol, whether some
// derivation can produce a semantic and whether some derivation can
// produce a reduced one. Recursion through cyclic rule graphs (relative-
// clause recursion and the like) is guarded by an explicit visited set per
// symbol; a cycle's back-edge resolves to false, giving the least fixed
// point (spec section 9).
func Analyze(rm *RuleMap) *PotentialAnalysis {
	pa := &PotentialAnalysis{
		canProduce:        make(map[string]bool),
		canProduceReduced: make(map[string]bool),
	}
	for _, sym := range rm.Symbols() {
		pa.canProduceSemantic(rm, sym, make(map[string]bool))
		pa.canProduceReducedSemantic(rm, sym, make(map[string]bool))
	}
	return pa
}

func (pa *PotentialAnalysis) canProduceSemantic(rm *RuleMap, sym string, visiting map[string]bool) bool {
	if v, ok := pa.canProduce[sym]; ok {
		return v
	}
	if visiting[sym] {
		return false
	}
	visiting[sym] = true

	found := false
	for _, r := range rm.Rules(sym) {
		if hasSemanticShape(r) {
			found = true
			break
		}
		for _, child := range r.RHS {
			if rm.IsNonTerminal(child) && pa.canProduceSemantic(rm, child, visiting) {
				found = true
				break
			}
		}
		if found {
			break
		}
	}

	delete(visiting, sym)
	pa.canProduce[sym] = found
	return found
}

func (pa *PotentialAnalysis) canProduceReducedSemantic(rm *RuleMap, sym string, visiting map[string]bool) bool {
	if v, ok := pa.canProduceReduced[sym]; ok {
		return v
	}
	if visiting[sym] {
		return false
	}
	visiting[sym] = true

	found := false
	for _, r := range rm.Rules(sym) {
		if hasReducedSemanticShape(r) {
			found = true
			break
		}
		for _, child := range r.RHS {
			if rm.IsNonTerminal(child) && pa.canProduceReducedSemantic(rm, child, visiting) {
				found = true
				break
			}
		}
		if found {
			break
		}
	}

	delete(visiting, sym)
	pa.canProduceReduced[sym] = found
	return found
}

// CanProduceSemantic returns the memoized result for sym. Symbols with no
// rules (opaque terminals) never produce a semantic on their own.
func (pa *PotentialAnalysis) CanProduceSemantic(sym string) bool {
	return pa.canProduce[sym]
}

// CanProduceReducedSemantic returns the memoized result for sym.
func (pa *PotentialAnalysis) CanProduceReducedSemantic(sym string) bool {
	return pa.canProduceReduced[sym]
}

// AnnotateBinaryRules fills RHSCanProduceSemantic and
// SecondRHSCanProduceSemantic on every binary rule in rm, per spec section
// 4.5's "cache second_rhs_can_produce_semantic and rhs_can_produce_semantic
// (either side)".
func (pa *PotentialAnalysis) AnnotateBinaryRules(rm *RuleMap) {
	for _, sym := range rm.Symbols() {
		for _, r := range rm.Rules(sym) {
			if !r.IsBinary() {
				continue
			}
			left := pa.symbolCanProduceSemantic(rm, r.RHS[SlotLeft])
			right := pa.symbolCanProduceSemantic(rm, r.RHS[SlotRight])
			r.RHSCanProduceSemantic = left || right
			r.SecondRHSCanProduceSemantic = right
		}
	}
}

func (pa *PotentialAnalysis) symbolCanProduceSemantic(rm *RuleMap, sym string) bool {
	if rm.IsNonTerminal(sym) {
		return pa.CanProduceSemantic(sym)
	}
	return false
}

// ValidateNonEditRules checks the global invariant that every non-edit
// (i.e. authored) rule whose ancestor requires a reduced semantic can in
// fact produce one. A nonterminal rule is flagged here if it holds an
// argumentless unreduced semantic function (see Semantic.IsArgumentless)
// and no RHS side can produce a semantic, since in that shape no downstream
// edit or parse step could complete it. An unreduced function that already
// holds some children is not flagged. On failure this returns a fatal missing-semantic
// error naming the offending derivation path (spec section 4.5, section
// 7 kind 2).
func ValidateNonEditRules(rm *RuleMap, pa *PotentialAnalysis) error {
	for _, sym := range rm.Symbols() {
		for _, r := range rm.Rules(sym) {
			if r.Semantic == nil || r.SemanticIsReduced || r.IsTerminal {
				continue
			}
			if r.IsBinary() {
				if r.RHSCanProduceSemantic {
					continue
				}
			}
			if r.Semantic.IsArgumentless() {
				// A function with MinArity > 0 and no children, on a unary
				// rule or a binary rule with no semantic-producing side, can
				// never self-complete; flag unless a unary child can still
				// supply it.
				if r.IsUnary() && pa.symbolCanProduceSemantic(rm, r.RHS[SlotLeft]) {
					continue
				}
				return compileerr.MissingSemantic(sym, pathString(sym, r))
			}
		}
	}
	return nil
}

func pathString(sym string, r *Rule) string {
	return sym + " -> " + joinRHS(r.RHS)
}

func joinRHS(rhs []string) string {
	out := ""
	for i, s := range rhs {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
