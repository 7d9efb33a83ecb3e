package lex_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/glyphdb/glyph/syn/lex"
	"github.com/glyphdb/glyph/syn/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lex.New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		assert.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestScanKeywordIsCaseNormalized(t *testing.T) {
	toks := scanAll(t, "select")
	assert.Len(t, toks, 2)
	assert.Equal(t, token.KEYWORD, toks[0].Kind)
	assert.Equal(t, "SELECT", toks[0].Value)
}

func TestScanIdentVsKeyword(t *testing.T) {
	toks := scanAll(t, "person")
	assert.Equal(t, token.IDENT, toks[0].Kind)
	assert.Equal(t, "person", toks[0].Value)
}

func TestScanParam(t *testing.T) {
	toks := scanAll(t, "$name")
	assert.Equal(t, token.PARAM, toks[0].Kind)
	assert.Equal(t, "name", toks[0].Value)
}

func TestScanStrandHandlesEscapes(t *testing.T) {
	toks := scanAll(t, `'it\'s here'`)
	assert.Equal(t, token.STRAND, toks[0].Kind)
	assert.Equal(t, "it's here", toks[0].Value)
}

func TestScanNumberVsDuration(t *testing.T) {
	toks := scanAll(t, "100 5s")
	assert.Len(t, toks, 3)
	assert.Equal(t, token.NUMBER, toks[0].Kind)
	assert.Equal(t, token.DURATION, toks[1].Kind)
	assert.Equal(t, "5s", toks[1].Value)
}

func TestScanGraphArrows(t *testing.T) {
	toks := scanAll(t, "-> <- <->")
	assert.Len(t, toks, 4)
	assert.Equal(t, token.ARROW, toks[0].Kind)
	assert.Equal(t, token.LARROW, toks[1].Kind)
	assert.Equal(t, token.BIARROW, toks[2].Kind)
}

func TestScanDoubleColonAndDotDot(t *testing.T) {
	toks := scanAll(t, "fn::greet 1..10")
	assert.Equal(t, token.IDENT, toks[0].Kind)
	assert.Equal(t, token.DCOLON, toks[1].Kind)
	assert.Equal(t, token.IDENT, toks[2].Kind)
	assert.Equal(t, token.NUMBER, toks[3].Kind)
	assert.Equal(t, token.DOTDOT, toks[4].Kind)
}

func TestScanSkipsLineAndBlockComments(t *testing.T) {
	toks := scanAll(t, "1 -- comment\n/* block */ 2")
	assert.Len(t, toks, 3)
	assert.Equal(t, "1", toks[0].Value)
	assert.Equal(t, "2", toks[1].Value)
}

func TestScanUnterminatedStringErrors(t *testing.T) {
	l := lex.New(`'unterminated`)
	_, err := l.Next()
	assert.ErrorIs(t, err, lex.ErrUnterminatedString)
}

func TestScanUnexpectedCharacterErrors(t *testing.T) {
	l := lex.New("`")
	_, err := l.Next()
	assert.ErrorIs(t, err, lex.ErrUnexpectedCharacter)
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := lex.New("person")
	first, err := l.Peek()
	assert.NoError(t, err)
	second, err := l.Next()
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPeekAtLooksAhead(t *testing.T) {
	l := lex.New("a b c")
	tok, err := l.PeekAt(2)
	assert.NoError(t, err)
	assert.Equal(t, "c", tok.Value)
}
