package parser

import (
	"math"
	"strings"

	"github.com/glyphdb/glyph/errs"
	"github.com/glyphdb/glyph/syn/token"
	"github.com/glyphdb/glyph/value"
)

// parsePrimaryWithTrailers parses one primary value and then folds in
// inline function application (try_parse_inline) and idiom continuation
// (disambiguation #8), in that order, matching the source's production
// order: a call result can itself continue as an idiom (f()[0].name).
func (p *Parser) parsePrimaryWithTrailers() (value.Value, error) {
	v, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	v, err = p.tryParseInline(v)
	if err != nil {
		return nil, err
	}
	return p.continueIdiom(v)
}

// parsePrimary dispatches on the next token to produce one primary value,
// with no trailing function application or idiom continuation folded in
// yet — that is parsePrimaryWithTrailers's job.
func (p *Parser) parsePrimary() (value.Value, error) {
	done, err := p.enterStack()
	defer done()
	if err != nil {
		return nil, err
	}

	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}

	switch t.Kind {
	case token.EOF:
		return nil, p.parseErrorAt(t, "unexpected end of input")
	case token.NUMBER:
		p.next()
		n, err := parseNumberLiteral(t.Value)
		if err != nil {
			return nil, p.parseErrorAt(t, "invalid number literal: %s", err)
		}
		return n, nil
	case token.DURATION:
		p.next()
		d, err := parseDurationLiteral(t.Value)
		if err != nil {
			return nil, p.parseErrorAt(t, "invalid duration literal: %s", err)
		}
		return value.Duration(d), nil
	case token.STRAND:
		p.next()
		return p.maybeLegacyReparse(t.Value), nil
	case token.PARAM:
		p.next()
		return value.Param{Name: t.Value}, nil
	case token.REGEX:
		p.next()
		return value.Regex{Source: t.Value}, nil
	case token.LPAREN:
		p.next()
		return p.parseParenOpener(t)
	case token.PIPE:
		p.next()
		return p.parsePipeOpener(t)
	case token.LBRACK:
		p.next()
		return p.parseArray(t)
	case token.LBRACE:
		p.next()
		return p.parseObjectLike(t)
	case token.IDENT:
		p.next()
		return p.parseIdentLike(t)
	case token.KEYWORD:
		switch t.Value {
		case "NULL":
			p.next()
			return value.Null{}, nil
		case "NONE":
			p.next()
			return value.None{}, nil
		case "TRUE":
			p.next()
			return value.Bool(true), nil
		case "FALSE":
			p.next()
			return value.Bool(false), nil
		}
		return nil, p.parseErrorAt(t, "unexpected keyword %q in value position", t.Value)
	default:
		return nil, p.parseErrorAt(t, "unexpected token %q", t.Value)
	}
}

// isSingleIdiomLike reports whether val is the shape disambiguation #6
// watches for: a bare identifier parsed either as a single-field Idiom
// (field position) or as a Table reference (the default, non-field
// reading) — both are "a single idiom" in the source grammar's sense.
func isSingleIdiomLike(val value.Value) bool {
	switch v := val.(type) {
	case value.Idiom:
		return v.IsSingleField()
	case value.Table:
		return true
	default:
		return false
	}
}

// subqueryStatementKeywords is the set of keywords that, as the first token
// inside a `(`, resolve the opener as a statement subquery (disambiguation
// #2's first branch).
var subqueryStatementKeywords = map[string]bool{
	"SELECT": true, "CREATE": true, "UPSERT": true, "UPDATE": true,
	"DELETE": true, "RELATE": true, "DEFINE": true, "REMOVE": true,
	"REBUILD": true, "RETURN": true, "IF": true,
}

// parseParenOpener implements disambiguation #2 (statement subquery vs.
// coordinate vs. parenthesised value) together with the state machine for
// parse_inner_subquery_or_coordinate, and disambiguation #6
// (disallowed-statement-after-idiom) on the plain-value branch.
func (p *Parser) parseParenOpener(open token.Token) (value.Value, error) {
	guard, err := p.enterQuery()
	defer guard()
	if err != nil {
		return nil, err
	}

	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}

	if t.Kind == token.KEYWORD && subqueryStatementKeywords[t.Value] {
		p.next()
		stmt, err := p.parseStatementBody(t.Value)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, ")"); err != nil {
			return nil, err
		}
		return value.Subquery{SubKind: value.SubqueryStatement, Statement: stmt}, nil
	}

	if t.Kind == token.NUMBER || (t.Kind == token.IDENT && strings.EqualFold(t.Value, "nan")) {
		t2, err := p.peekAt(1)
		if err != nil {
			return nil, wrapLexError(err)
		}
		if t2.Kind == token.COMMA {
			return p.parseCoordinate()
		}
	}

	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if isSingleIdiomLike(val) {
		nt, err := p.peek()
		if err != nil {
			return nil, wrapLexError(err)
		}
		if nt.Kind == token.KEYWORD && value.DisallowedStatementKeywords[nt.Value] {
			return nil, errs.DisallowedStatement(nt.Value)
		}
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return value.Subquery{SubKind: value.SubqueryValue, Value: val}, nil
}

func (p *Parser) parseCoordinate() (value.Value, error) {
	xNum, err := p.parseCoordinateComponent("coordinate x")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA, ","); err != nil {
		return nil, err
	}
	yNum, err := p.parseCoordinateComponent("coordinate y")
	if err != nil {
		return nil, err
	}
	coord, err := value.ValidateCoordinate(xNum, yNum)
	if err != nil {
		return nil, errs.InvalidQuery(err.Error())
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return value.NewGeometryPoint(coord), nil
}

// parseCoordinateComponent accepts either a NUMBER literal or the
// identifier "NaN", so that a coordinate like (NaN, 1.0) reaches
// ValidateCoordinate's dedicated rejection instead of misparsing as a
// bare table reference.
func (p *Parser) parseCoordinateComponent(what string) (value.Number, error) {
	t, err := p.next()
	if err != nil {
		return value.Number{}, wrapLexError(err)
	}
	if t.Kind == token.NUMBER {
		n, err := parseNumberLiteral(t.Value)
		if err != nil {
			return value.Number{}, p.parseErrorAt(t, "invalid number literal: %s", err)
		}
		return n, nil
	}
	if t.Kind == token.IDENT && strings.EqualFold(t.Value, "nan") {
		return value.NewFloat(math.NaN()), nil
	}
	return value.Number{}, p.parseErrorAt(t, "expected %s", what)
}

// parsePipeOpener implements disambiguation #1: the token following `|`
// decides between a closure (a $param starts the parameter list) and a
// mock (any other ident starts `table:count` or `table:from..to`).
func (p *Parser) parsePipeOpener(open token.Token) (value.Value, error) {
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.PARAM {
		return p.parseClosure(open)
	}
	return p.parseMock(open)
}

// parseIdentLike implements disambiguations #3 (built-in/custom function
// call), #4 (record id or range), and #5 (field vs. table reference) for
// an identifier already consumed as tok.
func (p *Parser) parseIdentLike(tok token.Token) (value.Value, error) {
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}

	if tok.Value == "function" && t.Kind == token.LPAREN {
		return p.parseScript()
	}

	if t.Kind == token.DCOLON || t.Kind == token.LPAREN {
		name := tok.Value
		for {
			nt, err := p.peek()
			if err != nil {
				return nil, wrapLexError(err)
			}
			if nt.Kind != token.DCOLON {
				break
			}
			p.next()
			part, err := p.next()
			if err != nil {
				return nil, wrapLexError(err)
			}
			if part.Kind != token.IDENT && part.Kind != token.KEYWORD {
				return nil, p.parseErrorAt(part, "expected identifier after '::'")
			}
			name += "::" + part.Value
		}
		if _, err := p.expect(token.LPAREN, "("); err != nil {
			return nil, err
		}
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		fnKind := value.FunctionNormal
		if strings.HasPrefix(name, "fn::") {
			fnKind = value.FunctionCustom
			name = strings.TrimPrefix(name, "fn::")
		}
		return value.Function{FnKind: fnKind, Name: name, Args: args}, nil
	}

	if t.Kind == token.COLON {
		p.next()
		return p.parseThingOrRange(tok.Value)
	}

	if p.fieldPosition {
		return value.Idiom{Parts: []value.Part{{Kind: value.PartField, Field: tok.Value}}}, nil
	}
	return value.Table{Name: tok.Value}, nil
}

// parseArgList parses a comma-separated argument list up to and including
// a closing ')'; the opening '(' must already be consumed.
func (p *Parser) parseArgList() ([]value.Value, error) {
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.RPAREN {
		p.next()
		return nil, nil
	}
	var args []value.Value
	for {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		t2, err := p.peek()
		if err != nil {
			return nil, wrapLexError(err)
		}
		if t2.Kind == token.COMMA {
			p.next()
			continue
		}
		if t2.Kind == token.RPAREN {
			p.next()
			break
		}
		return nil, p.parseErrorAt(t2, "expected ',' or ')'")
	}
	return args, nil
}

// parseThingOrRange implements the thing_or_range production: after
// `ident:`, parse either a single id (producing a Thing) or a `from..to`
// span (producing a Thing whose id is itself a Range).
func (p *Parser) parseThingOrRange(table string) (value.Value, error) {
	first, err := p.parseIDBoundOptional()
	if err != nil {
		return nil, err
	}
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.DOTDOT || t.Kind == token.DOTDOTEQ {
		inclusive := t.Kind == token.DOTDOTEQ
		p.next()
		second, err := p.parseIDBoundOptional()
		if err != nil {
			return nil, err
		}
		return value.Thing{Table: table, ID: value.Range{From: first, To: second, Inclusive: inclusive}}, nil
	}
	if first == nil {
		return nil, p.parseErrorAt(t, "expected a record id after ':'")
	}
	thing, err := value.NewThing(table, first)
	if err != nil {
		return nil, errs.InvalidQuery(err.Error())
	}
	return thing, nil
}

// parseIDBoundOptional parses one id-range bound, returning (nil, nil) for
// an open bound (the next token cannot start a value).
func (p *Parser) parseIDBoundOptional() (value.Value, error) {
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	switch t.Kind {
	case token.NUMBER:
		p.next()
		return parseNumberLiteral(t.Value)
	case token.STRAND:
		p.next()
		return value.Strand(t.Value), nil
	case token.IDENT:
		p.next()
		return value.Strand(t.Value), nil
	case token.LBRACK:
		p.next()
		return p.parseArray(t)
	case token.LBRACE:
		p.next()
		return p.parseObjectLike(t)
	default:
		return nil, nil
	}
}
