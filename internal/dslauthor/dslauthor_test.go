package dslauthor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/editgram/internal/editgram"
)

func TestBuilder_EndToEnd_EmptyOptionalPropagation(t *testing.T) {
	b := New()
	b.Rule("A", "B", "C")
	b.EmptyProducer("B", 0.5)
	b.Terminal("C", "x", 0)

	rm := b.Build()
	_, err := editgram.BuildEditRules(rm, editgram.Options{})
	require.NoError(t, err)

	var found *editgram.Rule
	for _, r := range rm.Rules("A") {
		if len(r.RHS) == 1 && r.RHS[0] == "C" {
			found = r
		}
	}
	require.NotNil(t, found)
	assert.InDelta(t, 0.5, found.Cost, 1e-9)
}

func TestBuilder_InsertionCostTerminal(t *testing.T) {
	b := New()
	b.Rule("P", "Q", "T")
	b.Terminal("Q", "well", 0)
	b.InsertionCostTerminal("T", "and", 0, 2)

	rm := b.Build()
	_, err := editgram.BuildEditRules(rm, editgram.Options{})
	require.NoError(t, err)

	var found *editgram.Rule
	for _, r := range rm.Rules("P") {
		if len(r.RHS) == 1 && r.RHS[0] == "Q" {
			found = r
		}
	}
	require.NotNil(t, found)
	assert.InDelta(t, 2.0, found.Cost, 1e-9)
}

func TestTransposable_PanicsOnNonBinaryRule(t *testing.T) {
	b := New()
	r := b.Rule("A", "x")
	assert.Panics(t, func() {
		Transposable(r, 1.0)
	})
}

func TestTransposable_MarksTranspositionCost(t *testing.T) {
	b := New()
	r := b.Rule("A", "X", "Y")
	Transposable(r, 1.5)
	require.NotNil(t, r.TranspositionCost)
	assert.InDelta(t, 1.5, *r.TranspositionCost, 1e-9)
}

func TestRule_PanicsOnEmptyLHSOrRHS(t *testing.T) {
	b := New()
	assert.Panics(t, func() { b.Rule("", "x") })
	assert.Panics(t, func() { b.Rule("A") })
}

func TestNoInsertionAt_SetsOnlyNamedIndex(t *testing.T) {
	b := New()
	r := b.Rule("P", "Q", "T")
	NoInsertionAt(r, 0)
	assert.True(t, r.NoInsertionIndexes[0])
	assert.False(t, r.NoInsertionIndexes[1])
}

func TestWithSemantic_AttachesAndFlagsReduced(t *testing.T) {
	b := New()
	r := b.Rule("A", "x")
	WithSemantic(r, editgram.Arg("alpha"), true)
	require.NotNil(t, r.Semantic)
	assert.Equal(t, "alpha", r.Semantic.Name)
	assert.True(t, r.SemanticIsReduced)
}
