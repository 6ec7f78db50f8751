package editgram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextList_Equal(t *testing.T) {
	a := TextOf("hello")
	b := TextOf("hello")
	c := TextOf("goodbye")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestTextElem_Equal_CaseSensitive(t *testing.T) {
	a := Literal("Foo")
	b := Literal("foo")
	c := Literal("Foo")
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(c))
}

func TestTextElem_Equal_ConjugativeObjectsCompareDeep(t *testing.T) {
	a := Conjugative(ConjObject{"one-sg": "am", "pl": "are"})
	b := Conjugative(ConjObject{"one-sg": "am", "pl": "are"})
	c := Conjugative(ConjObject{"one-sg": "am", "pl": "were"})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Literal("am")))
}

func TestTextList_Concat(t *testing.T) {
	a := TextOf("see")
	b := TextOf("spot")
	out := a.Concat(b)
	assert.Equal(t, TextList{Literal("see"), Literal("spot")}, out)
	// neither input mutated
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

func TestConjugate_FormBeforePersonNumber(t *testing.T) {
	obj := ConjObject{"infinitive": "like", "three-sg": "likes"}
	list := TextList{Literal("have"), Conjugative(obj)}
	out := conjugate(list, &GramProps{Form: "infinitive"}, PersonNumberThreeSg)
	// form wins over person-number, and adjacent literals merge with a space
	assert.Equal(t, "have like", out[0].String())
}

func TestConjugate_FallsBackToPersonNumber(t *testing.T) {
	obj := ConjObject{"three-sg": "likes", "pl": "like"}
	list := TextList{Conjugative(obj)}
	out := conjugate(list, nil, PersonNumberThreeSg)
	assert.Equal(t, "likes", out[0].String())
}

func TestConjugate_LeavesUnresolvedObjectInPlace(t *testing.T) {
	obj := ConjObject{"past": "liked"}
	list := TextList{Conjugative(obj)}
	out := conjugate(list, nil, PersonNumberThreeSg)
	assert.False(t, out[0].IsLiteral())
}

func TestConjugate_AdjacentLiteralsJoinWithSingleSpace(t *testing.T) {
	list := TextList{Literal("a"), Literal("b"), Literal("c")}
	out := conjugate(list, nil, PersonNumberNone)
	assert.Len(t, out, 1)
	assert.Equal(t, "a b c", out[0].String())
}

func TestGramProps_Empty(t *testing.T) {
	var nilProps *GramProps
	assert.True(t, nilProps.Empty())
	assert.True(t, (&GramProps{}).Empty())
	assert.False(t, (&GramProps{Form: "past"}).Empty())
}

func TestGramProps_Normalize(t *testing.T) {
	assert.Nil(t, (&GramProps{}).Normalize())
	gp := &GramProps{Form: "past"}
	assert.Same(t, gp, gp.Normalize())
}
