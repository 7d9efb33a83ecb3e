package parser

import (
	"github.com/glyphdb/glyph/syn/token"
	"github.com/glyphdb/glyph/value"
)

// parseExpr parses a left-associative chain of additive operations. The
// full language supports a much richer operator set (multiplicative,
// comparison, logical); this fragment implements only + and -, enough to
// satisfy the round-trip testable property on "(1 + 2 + 3)" (see
// DESIGN.md for the scope decision).
func (p *Parser) parseExpr() (value.Value, error) {
	done, err := p.enterStack()
	defer done()
	if err != nil {
		return nil, err
	}

	left, err := p.parsePrimaryWithTrailers()
	if err != nil {
		return nil, err
	}

	for {
		t, err := p.peek()
		if err != nil {
			return nil, wrapLexError(err)
		}
		var op string
		switch t.Kind {
		case token.PLUS:
			op = "+"
		case token.MINUS:
			op = "-"
		default:
			return left, nil
		}
		if _, err := p.next(); err != nil {
			return nil, wrapLexError(err)
		}
		right, err := p.parsePrimaryWithTrailers()
		if err != nil {
			return nil, err
		}
		left = value.Expression{Op: op, Left: left, Right: right}
	}
}
