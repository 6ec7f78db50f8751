package editgram

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// The types in this file are a flat, fully-exported mirror of RuleMap
// suitable for github.com/dekarrin/rezi's reflection-based binary codec
// (rezi.EncBinary/DecBinary), which cannot see the unexported fields that
// back TextElem, the ordered-map-backed RuleMap/InsertionStore, or PersonNumber
// being a named string type it has never seen used as a map key. Encode/Decode
// below are the only two exported entry points; everything else is plumbing,
// mirroring how the teacher's sqlite DAO layer rezi-encodes a *game.State by
// first shaping it into something the codec can walk.

type textElemSnapshot struct {
	IsObj   bool
	Literal string
	Obj     map[string]string
}

func snapshotTextElem(t TextElem) textElemSnapshot {
	if t.IsLiteral() {
		return textElemSnapshot{Literal: t.String()}
	}
	return textElemSnapshot{IsObj: true, Obj: map[string]string(t.Object())}
}

func (s textElemSnapshot) toTextElem() TextElem {
	if s.IsObj {
		return Conjugative(ConjObject(s.Obj))
	}
	return Literal(s.Literal)
}

func snapshotTextList(tl TextList) []textElemSnapshot {
	out := make([]textElemSnapshot, len(tl))
	for i, e := range tl {
		out[i] = snapshotTextElem(e)
	}
	return out
}

func textListFromSnapshot(ss []textElemSnapshot) TextList {
	if ss == nil {
		return nil
	}
	out := make(TextList, len(ss))
	for i, s := range ss {
		out[i] = s.toTextElem()
	}
	return out
}

type semanticSnapshot struct {
	Kind     int
	Name     string
	Cost     float64
	MinArity int
	MaxArity int
	Children []semanticSnapshot
}

func snapshotSemantic(s *Semantic) *semanticSnapshot {
	if s == nil {
		return nil
	}
	out := &semanticSnapshot{
		Kind:     int(s.Kind),
		Name:     s.Name,
		Cost:     s.Cost,
		MinArity: s.MinArity,
		MaxArity: s.MaxArity,
	}
	for _, c := range s.Children {
		out.Children = append(out.Children, *snapshotSemantic(&c))
	}
	return out
}

func (s *semanticSnapshot) toSemantic() *Semantic {
	if s == nil {
		return nil
	}
	out := &Semantic{
		Kind:     SemanticKind(s.Kind),
		Name:     s.Name,
		Cost:     s.Cost,
		MinArity: s.MinArity,
		MaxArity: s.MaxArity,
	}
	for _, c := range s.Children {
		cc := c
		out.Children = append(out.Children, *cc.toSemantic())
	}
	return out
}

type gramPropsSnapshot struct {
	Slot          int
	Form          string
	AcceptedTense string
}

type ruleSnapshot struct {
	LHS                         string
	IsTerminal                  bool
	RHS                         []string
	Cost                        float64
	HasInsertionCost            bool
	InsertionCost               float64
	HasTranspositionCost        bool
	TranspositionCost           float64
	NoInsert                    bool
	NoInsertionIndexes          []int
	RestrictInsertion           bool
	Text                        []textElemSnapshot
	GramProps                   []gramPropsSnapshot
	PersonNumber                string
	Semantic                    *semanticSnapshot
	SemanticIsReduced           bool
	InsertedSemantic            *semanticSnapshot
	InsertedSymIdx              int
	RHSCanProduceSemantic       bool
	SecondRHSCanProduceSemantic bool
	RHSDoesNotProduceText       bool
	IsTermSequence              bool
	Tense                       string
	IsTransposition             bool
	IsSubstitution              bool
	IsStopWord                  bool
	IsPlaceholder               bool
}

func snapshotRule(r *Rule) ruleSnapshot {
	out := ruleSnapshot{
		LHS:                         r.LHS,
		IsTerminal:                  r.IsTerminal,
		RHS:                         append([]string(nil), r.RHS...),
		Cost:                        r.Cost,
		NoInsert:                    r.NoInsert,
		RestrictInsertion:           r.RestrictInsertion,
		Text:                        snapshotTextList(r.Text),
		PersonNumber:                string(r.PersonNumber),
		Semantic:                    snapshotSemantic(r.Semantic),
		SemanticIsReduced:           r.SemanticIsReduced,
		InsertedSemantic:            snapshotSemantic(r.InsertedSemantic),
		InsertedSymIdx:              r.InsertedSymIdx,
		RHSCanProduceSemantic:       r.RHSCanProduceSemantic,
		SecondRHSCanProduceSemantic: r.SecondRHSCanProduceSemantic,
		RHSDoesNotProduceText:       r.RHSDoesNotProduceText,
		IsTermSequence:              r.IsTermSequence,
		Tense:                       r.Tense,
		IsTransposition:             r.IsTransposition,
		IsSubstitution:              r.IsSubstitution,
		IsStopWord:                  r.IsStopWord,
		IsPlaceholder:               r.IsPlaceholder,
	}
	if r.InsertionCost != nil {
		out.HasInsertionCost = true
		out.InsertionCost = *r.InsertionCost
	}
	if r.TranspositionCost != nil {
		out.HasTranspositionCost = true
		out.TranspositionCost = *r.TranspositionCost
	}
	for i := range r.NoInsertionIndexes {
		out.NoInsertionIndexes = append(out.NoInsertionIndexes, i)
	}
	for slot, gp := range r.GramProps {
		if gp.Empty() {
			continue
		}
		out.GramProps = append(out.GramProps, gramPropsSnapshot{Slot: slot, Form: gp.Form, AcceptedTense: gp.AcceptedTense})
	}
	return out
}

func (s ruleSnapshot) toRule() *Rule {
	r := NewRule(s.LHS, s.RHS...)
	r.IsTerminal = s.IsTerminal
	r.Cost = s.Cost
	r.NoInsert = s.NoInsert
	r.RestrictInsertion = s.RestrictInsertion
	r.Text = textListFromSnapshot(s.Text)
	r.PersonNumber = PersonNumber(s.PersonNumber)
	r.Semantic = s.Semantic.toSemantic()
	r.SemanticIsReduced = s.SemanticIsReduced
	r.InsertedSemantic = s.InsertedSemantic.toSemantic()
	r.InsertedSymIdx = s.InsertedSymIdx
	r.RHSCanProduceSemantic = s.RHSCanProduceSemantic
	r.SecondRHSCanProduceSemantic = s.SecondRHSCanProduceSemantic
	r.RHSDoesNotProduceText = s.RHSDoesNotProduceText
	r.IsTermSequence = s.IsTermSequence
	r.Tense = s.Tense
	r.IsTransposition = s.IsTransposition
	r.IsSubstitution = s.IsSubstitution
	r.IsStopWord = s.IsStopWord
	r.IsPlaceholder = s.IsPlaceholder

	if s.HasInsertionCost {
		v := s.InsertionCost
		r.InsertionCost = &v
	}
	if s.HasTranspositionCost {
		v := s.TranspositionCost
		r.TranspositionCost = &v
	}
	for _, idx := range s.NoInsertionIndexes {
		if r.NoInsertionIndexes == nil {
			r.NoInsertionIndexes = make(map[int]bool)
		}
		r.NoInsertionIndexes[idx] = true
	}
	for _, gp := range s.GramProps {
		if r.GramProps == nil {
			r.GramProps = make(map[int]*GramProps)
		}
		r.GramProps[gp.Slot] = &GramProps{Form: gp.Form, AcceptedTense: gp.AcceptedTense}
	}
	return r
}

// symbolRules pairs an LHS symbol with its rule list, preserving RuleMap's
// insertion order across the symbol slice itself (spec section 5).
type symbolRules struct {
	Symbol string
	Rules  []ruleSnapshot
}

// ruleMapSnapshot is the root rezi-encodable mirror of a RuleMap.
type ruleMapSnapshot struct {
	Symbols []symbolRules
}

func snapshotRuleMap(rm *RuleMap) ruleMapSnapshot {
	var out ruleMapSnapshot
	for _, sym := range rm.Symbols() {
		var rules []ruleSnapshot
		for _, r := range rm.Rules(sym) {
			rules = append(rules, snapshotRule(r))
		}
		out.Symbols = append(out.Symbols, symbolRules{Symbol: sym, Rules: rules})
	}
	return out
}

func (s ruleMapSnapshot) toRuleMap() *RuleMap {
	rm := NewRuleMap()
	for _, sr := range s.Symbols {
		rules := make([]*Rule, len(sr.Rules))
		for i, rs := range sr.Rules {
			rules[i] = rs.toRule()
		}
		rm.SetRules(sr.Symbol, rules)
	}
	return rm
}

// Encode renders rm as a compact binary blob via rezi (spec section 6's
// "--format rezi" CLI convenience, alongside the TOML/JSON document
// formats).
func Encode(rm *RuleMap) []byte {
	return rezi.EncBinary(snapshotRuleMap(rm))
}

// Decode parses a blob previously produced by Encode back into a RuleMap.
func Decode(data []byte) (*RuleMap, error) {
	var snap ruleMapSnapshot
	n, err := rezi.DecBinary(data, &snap)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("rezi decode: only consumed %d/%d bytes", n, len(data))
	}
	return snap.toRuleMap(), nil
}
