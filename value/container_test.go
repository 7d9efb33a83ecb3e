package value_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/glyphdb/glyph/value"
)

func TestObjectPreservesInsertionOrder(t *testing.T) {
	obj := value.NewObject()
	obj.Set("b", value.Strand("2"))
	obj.Set("a", value.Strand("1"))
	obj.Set("b", value.Strand("2-updated"))

	assert.Equal(t, []string{"b", "a"}, obj.Keys())
	v, ok := obj.Get("b")
	assert.True(t, ok)
	assert.Equal(t, value.Strand("2-updated"), v)
}

func TestObjectDeletePreservesOrderOfRest(t *testing.T) {
	obj := value.NewObject()
	obj.Set("a", value.Strand("1"))
	obj.Set("b", value.Strand("2"))
	obj.Set("c", value.Strand("3"))

	obj.Delete("b")
	assert.Equal(t, []string{"a", "c"}, obj.Keys())
	_, ok := obj.Get("b")
	assert.False(t, ok)
}

func TestObjectGetFoldMatchesCaseInsensitively(t *testing.T) {
	obj := value.NewObject()
	obj.Set("User", value.Strand("ary"))

	v, ok := obj.GetFold("USER")
	assert.True(t, ok)
	assert.Equal(t, value.Strand("ary"), v)

	v, ok = obj.GetFold("User")
	assert.True(t, ok)
	assert.Equal(t, value.Strand("ary"), v)

	_, ok = obj.GetFold("missing")
	assert.False(t, ok)
}

func TestObjectGetFoldOnNilIsSafe(t *testing.T) {
	var obj *value.Object
	_, ok := obj.GetFold("x")
	assert.False(t, ok)
}

func TestObjectGetOnNilIsSafe(t *testing.T) {
	var obj *value.Object
	_, ok := obj.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, obj.Len())
	assert.Equal(t, "{}", obj.String())
}

func TestRangeStringInclusiveVsExclusive(t *testing.T) {
	r := value.Range{From: value.NewInt(1), To: value.NewInt(10)}
	assert.Equal(t, "1..10", r.String())

	r.Inclusive = true
	assert.Equal(t, "1..=10", r.String())
}

func TestArrayStringJoinsElements(t *testing.T) {
	arr := value.Array{value.NewInt(1), value.Strand("x")}
	assert.Equal(t, "[1, 'x']", arr.String())
}

func TestEdgesStringIncludesDirection(t *testing.T) {
	e := value.Edges{Dir: value.DirOut, Target: value.Table{Name: "likes"}}
	assert.Equal(t, "->likes", e.String())
}
