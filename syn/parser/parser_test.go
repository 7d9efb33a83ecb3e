package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/glyphdb/glyph/errs"
	"github.com/glyphdb/glyph/value"
)

func mustParse(t *testing.T, src string, opts Options) value.Value {
	t.Helper()
	v, err := Parse(src, opts)
	assert.NoError(t, err)
	return v
}

func TestParseAdditiveExpressionSubqueryRoundTrip(t *testing.T) {
	v := mustParse(t, "(1 + 2 + 3)", DefaultOptions())
	sub, ok := v.(value.Subquery)
	assert.True(t, ok)
	assert.Equal(t, value.SubqueryValue, sub.SubKind)
	assert.Equal(t, "(1 + 2 + 3)", v.String())
}

func TestParseMockCount(t *testing.T) {
	v := mustParse(t, "|test:1000|", DefaultOptions())
	mock, ok := v.(value.Mock)
	assert.True(t, ok)
	assert.Equal(t, value.Mock{MKind: value.MockCount, Table: "test", Count: 1000}, mock)
}

func TestParseMockRange(t *testing.T) {
	v := mustParse(t, "|test:1..1000|", DefaultOptions())
	mock, ok := v.(value.Mock)
	assert.True(t, ok)
	assert.Equal(t, value.Mock{MKind: value.MockRange, Table: "test", From: 1, To: 1000}, mock)
}

func TestParseRegexUnescapesSlash(t *testing.T) {
	v := mustParse(t, `/(?i)test\/[a-z]+/`, DefaultOptions())
	re, ok := v.(value.Regex)
	assert.True(t, ok)
	assert.Equal(t, "(?i)test/[a-z]+", re.Source)
}

func TestLegacyStrandReparseToDatetime(t *testing.T) {
	opts := DefaultOptions()
	opts.LegacyStrands = true
	v := mustParse(t, "'2020-01-01T00:00:00Z'", opts)
	_, ok := v.(value.Datetime)
	assert.True(t, ok, "expected Datetime, got %T", v)
}

func TestLegacyStrandReparseDisabledStaysStrand(t *testing.T) {
	v := mustParse(t, "'2020-01-01T00:00:00Z'", DefaultOptions())
	_, ok := v.(value.Strand)
	assert.True(t, ok, "expected Strand, got %T", v)
}

func TestQueryDepthExceeded(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxQueryDepth = 3
	src := "((((1))))"
	_, err := Parse(src, opts)
	assert.Error(t, err)
	parseErr, ok := err.(*errs.Error)
	assert.True(t, ok)
	assert.True(t, parseErr.Is(errs.ComputationDepthExceeded()))
}

func TestObjectDepthExceeded(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxObjectDepth = 2
	src := "[[[1]]]"
	_, err := Parse(src, opts)
	assert.Error(t, err)
	parseErr, ok := err.(*errs.Error)
	assert.True(t, ok)
	assert.True(t, parseErr.Is(errs.ComputationDepthExceeded()))
}

func TestDisallowedStatementAfterIdiom(t *testing.T) {
	_, err := Parse("(foo BEGIN)", DefaultOptions())
	assert.Error(t, err)
	parseErr, ok := err.(*errs.Error)
	assert.True(t, ok)
	assert.Equal(t, errs.KindDisallowedStatement, parseErr.Kind)
	assert.Equal(t, "BEGIN", parseErr.Name)
}

func TestCoordinateRejectsNaN(t *testing.T) {
	_, err := Parse("(NaN, 1.0)", DefaultOptions())
	assert.Error(t, err)
	parseErr, ok := err.(*errs.Error)
	assert.True(t, ok)
	assert.Equal(t, errs.KindInvalidQuery, parseErr.Kind)
	assert.Contains(t, parseErr.Msg, "can't be NaN")
}

func TestCoordinateValue(t *testing.T) {
	v := mustParse(t, "(1.5, 2.5)", DefaultOptions())
	geo, ok := v.(value.Geometry)
	assert.True(t, ok)
	assert.Equal(t, "(1.5, 2.5)", geo.String())
}

func TestQueryRemainingOnTrailingGarbage(t *testing.T) {
	_, err := Parse("1 2", DefaultOptions())
	assert.Error(t, err)
	parseErr, ok := err.(*errs.Error)
	assert.True(t, ok)
	assert.Equal(t, errs.KindQueryRemaining, parseErr.Kind)
}

func TestThingRecordID(t *testing.T) {
	v := mustParse(t, "person:1", DefaultOptions())
	thing, ok := v.(value.Thing)
	assert.True(t, ok)
	assert.Equal(t, "person", thing.Table)
	assert.Equal(t, "person:1", thing.String())
}

func TestThingRange(t *testing.T) {
	v := mustParse(t, "person:1..10", DefaultOptions())
	thing, ok := v.(value.Thing)
	assert.True(t, ok)
	rng, ok := thing.ID.(value.Range)
	assert.True(t, ok)
	assert.Equal(t, "person:1..10", thing.Table+":"+rng.String())
}

func TestBareTableReference(t *testing.T) {
	v := mustParse(t, "person", DefaultOptions())
	tbl, ok := v.(value.Table)
	assert.True(t, ok)
	assert.Equal(t, "person", tbl.Name)
}

func TestIdiomContinuation(t *testing.T) {
	v := mustParse(t, "person.name", DefaultOptions())
	idiom, ok := v.(value.Idiom)
	assert.True(t, ok)
	assert.Equal(t, "person.name", idiom.String())
}

func TestGraphTraversal(t *testing.T) {
	v := mustParse(t, "person->likes->thing", DefaultOptions())
	idiom, ok := v.(value.Idiom)
	assert.True(t, ok)
	assert.Len(t, idiom.Parts, 3)
	assert.Equal(t, value.PartGraph, idiom.Parts[1].Kind)
	assert.Equal(t, value.DirOut, idiom.Parts[1].GraphDir)
}

func TestBuiltinFunctionCall(t *testing.T) {
	v := mustParse(t, "string::len($name)", DefaultOptions())
	fn, ok := v.(value.Function)
	assert.True(t, ok)
	assert.Equal(t, value.FunctionNormal, fn.FnKind)
	assert.Equal(t, "string::len", fn.Name)
	assert.Len(t, fn.Args, 1)
}

func TestCustomFunctionCall(t *testing.T) {
	v := mustParse(t, "fn::greet($name)", DefaultOptions())
	fn, ok := v.(value.Function)
	assert.True(t, ok)
	assert.Equal(t, value.FunctionCustom, fn.FnKind)
	assert.Equal(t, "greet", fn.Name)
}

func TestClosureLiteral(t *testing.T) {
	v := mustParse(t, "|$a, $b| $a", DefaultOptions())
	closure, ok := v.(value.Closure)
	assert.True(t, ok)
	assert.Len(t, closure.Params, 2)
	assert.Equal(t, "a", closure.Params[0].Name)
}

func TestAnonymousInlineApplication(t *testing.T) {
	v := mustParse(t, "(|$a| $a)(5)", DefaultOptions())
	fn, ok := v.(value.Function)
	assert.True(t, ok)
	assert.Equal(t, value.FunctionAnonymous, fn.FnKind)
	assert.Len(t, fn.Args, 1)
}

func TestSelectStatementSubquery(t *testing.T) {
	v := mustParse(t, "(SELECT * FROM person WHERE age)", DefaultOptions())
	sub, ok := v.(value.Subquery)
	assert.True(t, ok)
	assert.NotNil(t, sub.Statement)
	assert.Equal(t, "SELECT", sub.Statement.Keyword)
	assert.Len(t, sub.Statement.What, 1)
	assert.Equal(t, "person", sub.Statement.What[0].(value.Table).Name)
	assert.NotNil(t, sub.Statement.Cond)
}

func TestArrayAndObjectLiterals(t *testing.T) {
	v := mustParse(t, "{ name: 'a', tags: [1, 2, 3] }", DefaultOptions())
	obj, ok := v.(*value.Object)
	assert.True(t, ok)
	tags, ok := obj.Get("tags")
	assert.True(t, ok)
	assert.Equal(t, value.Array{value.NewInt(1), value.NewInt(2), value.NewInt(3)}, tags)
}

func TestStackDepthGuardNeverPanics(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxStackDepth = 20
	src := ""
	for i := 0; i < 50; i++ {
		src += "("
	}
	src += "1"
	for i := 0; i < 50; i++ {
		src += ")"
	}
	_, err := Parse(src, opts)
	assert.Error(t, err)
}
