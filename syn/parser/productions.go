package parser

import (
	"strconv"
	"strings"

	"github.com/glyphdb/glyph/syn/token"
	"github.com/glyphdb/glyph/value"
)

// parseArray parses a comma-separated `[...]` list; the opening '[' must
// already be consumed (open is that token, kept for span reporting).
func (p *Parser) parseArray(open token.Token) (value.Array, error) {
	guard, err := p.enterObject()
	defer guard()
	if err != nil {
		return nil, err
	}

	var items value.Array
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.RBRACK {
		p.next()
		return items, nil
	}
	for {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		t2, err := p.peek()
		if err != nil {
			return nil, wrapLexError(err)
		}
		if t2.Kind == token.COMMA {
			p.next()
			t3, err := p.peek()
			if err != nil {
				return nil, wrapLexError(err)
			}
			if t3.Kind == token.RBRACK {
				p.next()
				break
			}
			continue
		}
		if t2.Kind == token.RBRACK {
			p.next()
			break
		}
		return nil, p.parseErrorAt(t2, "expected ',' or ']'")
	}
	return items, nil
}

// parseObjectLike parses a `{ key: value, ... }` object literal; the
// opening '{' must already be consumed.
func (p *Parser) parseObjectLike(open token.Token) (value.Value, error) {
	guard, err := p.enterObject()
	defer guard()
	if err != nil {
		return nil, err
	}

	obj := value.NewObject()
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.RBRACE {
		p.next()
		return obj, nil
	}
	for {
		keyTok, err := p.next()
		if err != nil {
			return nil, wrapLexError(err)
		}
		var key string
		switch keyTok.Kind {
		case token.IDENT, token.KEYWORD, token.STRAND:
			key = keyTok.Value
		default:
			return nil, p.parseErrorAt(keyTok, "expected an object key")
		}
		if _, err := p.expect(token.COLON, ":"); err != nil {
			return nil, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)

		t2, err := p.peek()
		if err != nil {
			return nil, wrapLexError(err)
		}
		if t2.Kind == token.COMMA {
			p.next()
			t3, err := p.peek()
			if err != nil {
				return nil, wrapLexError(err)
			}
			if t3.Kind == token.RBRACE {
				p.next()
				break
			}
			continue
		}
		if t2.Kind == token.RBRACE {
			p.next()
			break
		}
		return nil, p.parseErrorAt(t2, "expected ',' or '}'")
	}
	return obj, nil
}

// parseBlock parses a `{ ... }` body used by closures, returning the
// block's single result expression; an optional leading RETURN keyword and
// a single trailing ';' are both tolerated. The opening '{' must already
// be consumed.
func (p *Parser) parseBlock(open token.Token) (value.Value, error) {
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.RBRACE {
		p.next()
		return value.None{}, nil
	}
	if t.Kind == token.KEYWORD && t.Value == "RETURN" {
		p.next()
	}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	t2, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t2.Kind == token.SEMICOLON {
		p.next()
	}
	if _, err := p.expect(token.RBRACE, "}"); err != nil {
		return nil, err
	}
	return v, nil
}

// parseClosure parses a closure's parameter list, optional return-type
// annotation, and body. The opening '|' must already be consumed (open is
// that token).
func (p *Parser) parseClosure(open token.Token) (value.Value, error) {
	guard, err := p.enterStack()
	defer guard()
	if err != nil {
		return nil, err
	}

	var params []value.ClosureParam
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind != token.PIPE {
		for {
			nameTok, err := p.expect(token.PARAM, "closure parameter")
			if err != nil {
				return nil, err
			}
			typ := ""
			tt, err := p.peek()
			if err != nil {
				return nil, wrapLexError(err)
			}
			if tt.Kind == token.COLON {
				p.next()
				typTok, err := p.next()
				if err != nil {
					return nil, wrapLexError(err)
				}
				typ = typTok.Value
			}
			params = append(params, value.ClosureParam{Name: nameTok.Value, Type: typ})

			t2, err := p.peek()
			if err != nil {
				return nil, wrapLexError(err)
			}
			if t2.Kind == token.COMMA {
				p.next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.PIPE, "|"); err != nil {
		return nil, err
	}

	returnType := ""
	rt, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if rt.Kind == token.ARROW {
		p.next()
		rtTok, err := p.next()
		if err != nil {
			return nil, wrapLexError(err)
		}
		returnType = rtTok.Value
	}

	bt, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	var body value.Value
	if bt.Kind == token.LBRACE {
		p.next()
		body, err = p.parseBlock(bt)
	} else {
		body, err = p.parseExpr()
	}
	if err != nil {
		return nil, err
	}
	return value.Closure{Params: params, ReturnType: returnType, Body: body}, nil
}

// parseMock parses `table:count` or `table:from..to` followed by the
// closing '|'. The opening '|' must already be consumed.
func (p *Parser) parseMock(open token.Token) (value.Value, error) {
	tableTok, err := p.expect(token.IDENT, "mock table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON, ":"); err != nil {
		return nil, err
	}
	fromTok, err := p.expect(token.NUMBER, "mock count")
	if err != nil {
		return nil, err
	}
	from, err := strconv.ParseInt(fromTok.Value, 10, 64)
	if err != nil {
		return nil, p.parseErrorAt(fromTok, "invalid mock count: %s", err)
	}

	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.DOTDOT || t.Kind == token.DOTDOTEQ {
		p.next()
		toTok, err := p.expect(token.NUMBER, "mock range end")
		if err != nil {
			return nil, err
		}
		to, err := strconv.ParseInt(toTok.Value, 10, 64)
		if err != nil {
			return nil, p.parseErrorAt(toTok, "invalid mock count: %s", err)
		}
		if _, err := p.expect(token.PIPE, "|"); err != nil {
			return nil, err
		}
		return value.Mock{MKind: value.MockRange, Table: tableTok.Value, From: from, To: to}, nil
	}
	if _, err := p.expect(token.PIPE, "|"); err != nil {
		return nil, err
	}
	return value.Mock{MKind: value.MockCount, Table: tableTok.Value, Count: from}, nil
}

// parseScript parses an embedded script function literal,
// `function(args) { body }`; the leading "function" identifier has already
// been consumed by the caller.
func (p *Parser) parseScript() (value.Value, error) {
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	var args []value.Value
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind != token.RPAREN {
		for {
			paramTok, err := p.expect(token.PARAM, "script parameter")
			if err != nil {
				return nil, err
			}
			args = append(args, value.Param{Name: paramTok.Value})
			t2, err := p.peek()
			if err != nil {
				return nil, wrapLexError(err)
			}
			if t2.Kind == token.COMMA {
				p.next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE, "{"); err != nil {
		return nil, err
	}
	body, err := p.parseScriptBody()
	if err != nil {
		return nil, err
	}
	return value.Function{FnKind: value.FunctionScript, Body: body, Args: args}, nil
}

// parseScriptBody consumes tokens up to the matching closing '}' (whose
// opening has depth 1, already consumed by the caller), concatenating
// token text as an approximation of the original script source. A real
// embedded-script body would slice the original source text; this lexer
// does not retain it.
func (p *Parser) parseScriptBody() (string, error) {
	depth := 1
	var b strings.Builder
	first := true
	for depth > 0 {
		t, err := p.next()
		if err != nil {
			return "", wrapLexError(err)
		}
		if t.Kind == token.EOF {
			return "", p.parseErrorAt(t, "unterminated script body")
		}
		if t.Kind == token.LBRACE {
			depth++
		}
		if t.Kind == token.RBRACE {
			depth--
			if depth == 0 {
				break
			}
		}
		if !first {
			b.WriteString(" ")
		}
		b.WriteString(t.Value)
		first = false
	}
	return b.String(), nil
}
