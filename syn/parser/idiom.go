package parser

import (
	"strconv"
	"strings"

	"github.com/glyphdb/glyph/syn/token"
	"github.com/glyphdb/glyph/value"
)

// tryParseInline greedily folds a following `(...)` onto v as an anonymous
// function application, chaining so that `f(x)(y)(z)` parses as nested
// Function::Anonymous values.
func (p *Parser) tryParseInline(v value.Value) (value.Value, error) {
	for {
		t, err := p.peek()
		if err != nil {
			return nil, wrapLexError(err)
		}
		if t.Kind != token.LPAREN {
			return v, nil
		}
		p.next()
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		v = value.Function{FnKind: value.FunctionAnonymous, Subject: v, Args: args}
	}
}

func continuesIdiom(k token.Kind) bool {
	switch k {
	case token.DOT, token.LBRACK, token.ARROW, token.LARROW, token.BIARROW:
		return true
	default:
		return false
	}
}

// continueIdiom implements disambiguation #8: while the next token
// continues an idiom, splice v into an Idiom's parts (as the Field part of
// a Table, or a Start part otherwise) and keep appending parts.
func (p *Parser) continueIdiom(v value.Value) (value.Value, error) {
	for {
		t, err := p.peek()
		if err != nil {
			return nil, wrapLexError(err)
		}
		if !continuesIdiom(t.Kind) {
			return v, nil
		}

		idiom, ok := v.(value.Idiom)
		if !ok {
			var start value.Part
			if tbl, ok2 := v.(value.Table); ok2 {
				start = value.Part{Kind: value.PartField, Field: tbl.Name}
			} else {
				start = value.Part{Kind: value.PartStart, Value: v}
			}
			idiom = value.Idiom{Parts: []value.Part{start}}
		}

		part, err := p.parseIdiomPart()
		if err != nil {
			return nil, err
		}
		idiom.Parts = append(idiom.Parts, part)
		v = idiom
	}
}

// parseIdiomPart consumes one continuation token (., [, ->, <-, <->) and
// the production that follows it.
func (p *Parser) parseIdiomPart() (value.Part, error) {
	t, err := p.next()
	if err != nil {
		return value.Part{}, wrapLexError(err)
	}

	switch t.Kind {
	case token.DOT:
		return p.parseDotPart()
	case token.LBRACK:
		return p.parseBracketPart()
	case token.ARROW, token.LARROW, token.BIARROW:
		return p.parseGraphPart(t.Kind)
	default:
		return value.Part{}, p.parseErrorAt(t, "unexpected idiom continuation token %q", t.Value)
	}
}

func (p *Parser) parseDotPart() (value.Part, error) {
	nt, err := p.peek()
	if err != nil {
		return value.Part{}, wrapLexError(err)
	}
	switch nt.Kind {
	case token.STAR:
		p.next()
		return value.Part{Kind: value.PartAll}, nil
	case token.IDENT:
		p.next()
		nt2, err := p.peek()
		if err != nil {
			return value.Part{}, wrapLexError(err)
		}
		if nt2.Kind == token.LPAREN {
			p.next()
			args, err := p.parseArgList()
			if err != nil {
				return value.Part{}, err
			}
			if nt.Value == "last" && len(args) == 0 {
				return value.Part{Kind: value.PartLast}, nil
			}
			if nt.Value == "flatten" && len(args) == 0 {
				return value.Part{Kind: value.PartFlatten}, nil
			}
			return value.Part{Kind: value.PartMethod, Method: nt.Value, Args: args}, nil
		}
		return value.Part{Kind: value.PartField, Field: nt.Value}, nil
	default:
		return value.Part{}, p.parseErrorAt(nt, "expected a field name after '.'")
	}
}

func (p *Parser) parseBracketPart() (value.Part, error) {
	nt, err := p.peek()
	if err != nil {
		return value.Part{}, wrapLexError(err)
	}
	switch {
	case nt.Kind == token.STAR:
		p.next()
		if _, err := p.expect(token.RBRACK, "]"); err != nil {
			return value.Part{}, err
		}
		return value.Part{Kind: value.PartAll}, nil
	case nt.Kind == token.KEYWORD && nt.Value == "WHERE":
		p.next()
		prevFP := p.SetFieldPosition(true)
		cond, err := p.parseExpr()
		p.SetFieldPosition(prevFP)
		if err != nil {
			return value.Part{}, err
		}
		if _, err := p.expect(token.RBRACK, "]"); err != nil {
			return value.Part{}, err
		}
		return value.Part{Kind: value.PartWhere, Where: cond}, nil
	case nt.Kind == token.NUMBER && !strings.ContainsAny(nt.Value, ".eE"):
		p.next()
		n, err := strconv.Atoi(nt.Value)
		if err != nil {
			return value.Part{}, p.parseErrorAt(nt, "invalid index: %s", err)
		}
		if _, err := p.expect(token.RBRACK, "]"); err != nil {
			return value.Part{}, err
		}
		return value.Part{Kind: value.PartIndex, Index: n}, nil
	default:
		v, err := p.parseExpr()
		if err != nil {
			return value.Part{}, err
		}
		if _, err := p.expect(token.RBRACK, "]"); err != nil {
			return value.Part{}, err
		}
		return value.Part{Kind: value.PartValue, Value: v}, nil
	}
}

func (p *Parser) parseGraphPart(opener token.Kind) (value.Part, error) {
	dir := value.DirOut
	switch opener {
	case token.LARROW:
		dir = value.DirIn
	case token.BIARROW:
		dir = value.DirBoth
	}
	nt, err := p.peek()
	if err != nil {
		return value.Part{}, wrapLexError(err)
	}
	var target value.Value
	switch nt.Kind {
	case token.LPAREN:
		p.next()
		target, err = p.parseParenOpener(nt)
		if err != nil {
			return value.Part{}, err
		}
	case token.IDENT:
		p.next()
		target = value.Table{Name: nt.Value}
	default:
		return value.Part{}, p.parseErrorAt(nt, "expected a table name after graph arrow")
	}
	return value.Part{Kind: value.PartGraph, GraphDir: dir, GraphTarget: target}, nil
}
