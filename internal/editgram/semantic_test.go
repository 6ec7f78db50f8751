package editgram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/editgram/internal/compileerr"
)

func TestSemantic_IsReduced(t *testing.T) {
	assert.True(t, Arg("x").IsReduced())
	assert.False(t, Fn("intersect", 0, 2, 2).IsReduced())
	assert.True(t, Fn("intersect", 0, 2, 2, Arg("a"), Arg("b")).IsReduced())
}

func TestSemantic_IsArgumentless(t *testing.T) {
	assert.True(t, Fn("intersect", 0, 1, 2).IsArgumentless())
	assert.False(t, Fn("intersect", 0, 0, 2).IsArgumentless())
	assert.False(t, Fn("intersect", 0, 1, 2, Arg("a")).IsArgumentless())
	assert.False(t, Arg("a").IsArgumentless())
}

func TestSemantic_Equal(t *testing.T) {
	a := Fn("f", 1, 1, 1, Arg("x"))
	b := Fn("f", 1, 1, 1, Arg("x"))
	c := Fn("f", 1, 1, 1, Arg("y"))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestSemantic_Compare_OrdersByNameThenCostThenChildren(t *testing.T) {
	a := Arg("a")
	b := Arg("b")
	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, a.Compare(a))

	// same name: cost decides, then children
	assert.Negative(t, Fn("f", 1, 0, 0).Compare(Fn("f", 2, 0, 0)))
	assert.Negative(t, Fn("f", 1, 1, 1, Arg("a")).Compare(Fn("f", 1, 1, 1, Arg("b"))))
}

func TestMergeReducedLists_DisjointArgsMerge(t *testing.T) {
	a := []Semantic{Arg("x")}
	b := []Semantic{Arg("y")}
	merged, ok := MergeReducedLists(a, b)
	require.True(t, ok)
	require.Len(t, merged, 2)
}

func TestMergeReducedLists_DuplicateArgRejected(t *testing.T) {
	a := []Semantic{Arg("x")}
	b := []Semantic{Arg("x")}
	_, ok := MergeReducedLists(a, b)
	assert.False(t, ok)
}

func TestEqualReducedList_OrderInsensitive(t *testing.T) {
	a := []Semantic{Arg("x"), Arg("y")}
	b := []Semantic{Arg("y"), Arg("x")}
	assert.True(t, EqualReducedList(a, b))
}

func TestAsReducedSlice_UnwrapsSemanticList(t *testing.T) {
	list := semanticListOf([]Semantic{Arg("x"), Arg("y")})
	require.NotNil(t, list)
	assert.Equal(t, SemanticList, list.Kind)
	flat := asReducedSlice(list)
	assert.Len(t, flat, 2)
}

func TestSemanticListOf_SingletonUnwraps(t *testing.T) {
	single := semanticListOf([]Semantic{Arg("x")})
	require.NotNil(t, single)
	assert.Equal(t, SemanticArgument, single.Kind)
}

func TestSemanticListOf_EmptyYieldsNil(t *testing.T) {
	assert.Nil(t, semanticListOf(nil))
}

func TestReduce_FillsArgsInOrder(t *testing.T) {
	fn := Fn("f", 0, 2, 2)
	out, err := Reduce(fn, []Semantic{Arg("a"), Arg("b")})
	require.NoError(t, err)
	assert.True(t, out.IsReduced())
	assert.Equal(t, "a", out.Children[0].Name)
	assert.Equal(t, "b", out.Children[1].Name)
}

func TestReduce_ExceedingMaxArityIsFatal(t *testing.T) {
	fn := Fn("f", 0, 1, 1)
	_, err := Reduce(fn, []Semantic{Arg("a"), Arg("b")})
	require.Error(t, err)
	kind, ok := compileerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, compileerr.KindSemantic, kind)
}

func TestReduce_NonFunctionIsFatal(t *testing.T) {
	_, err := Reduce(Arg("x"), []Semantic{Arg("a")})
	assert.Error(t, err)
}

func TestIsVacuousCompletion(t *testing.T) {
	argumentless := Fn("intersect", 0, 1, 2)
	assert.True(t, isVacuousCompletion(&argumentless, false, nil))
	assert.False(t, isVacuousCompletion(&argumentless, false, &Semantic{Kind: SemanticArgument, Name: "a"}))
	assert.False(t, isVacuousCompletion(&argumentless, true, nil)) // already reduced, not a completion anymore
	assert.False(t, isVacuousCompletion(nil, false, nil))

	withArg := Fn("intersect", 0, 1, 2, Arg("a"))
	assert.False(t, isVacuousCompletion(&withArg, false, nil))
}
