package parser

import (
	"github.com/glyphdb/glyph/errs"
	"github.com/glyphdb/glyph/syn/lex"
	"github.com/glyphdb/glyph/syn/token"
	"github.com/glyphdb/glyph/value"
)

// Parse is the package-level convenience entry point: lex src, parse one
// full value, and reject trailing input with QueryRemaining. This is the
// shape the testable properties exercise directly (Value::parse in the
// source).
func Parse(src string, opts Options) (value.Value, error) {
	p := New(lex.New(src), opts)
	v, err := p.ParseValue()
	if err != nil {
		return nil, err
	}
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind != token.EOF {
		return nil, errs.QueryRemaining()
	}
	return v, nil
}

// ParseValue parses one full expression: a primary value, optionally
// extended by trailing function application and idiom continuation, and
// optionally combined with following values via the additive operators
// (+, -). This is the entry point for values appearing as statement
// operands (CONTENT, WHERE conditions written as bare values, etc).
func (p *Parser) ParseValue() (value.Value, error) {
	return p.parseExpr()
}

// ParseValueField parses a value that may be followed by idiom
// continuation. In the source grammar this differs from ParseValue by
// excluding a handful of statement-only productions from the primary set;
// this fragment does not implement those productions (see DESIGN.md), so
// the two entry points share an implementation.
func (p *Parser) ParseValueField() (value.Value, error) {
	return p.parseExpr()
}

// ParseIdiomExpression parses the full expression grammar, identical to
// ParseValue. It exists as a distinct entry point because callers that
// specifically want idiom-continuation semantics (e.g. the projection list
// of a SELECT) should call this name rather than ParseValue, even though
// the implementation is currently shared.
func (p *Parser) ParseIdiomExpression() (value.Value, error) {
	return p.parseExpr()
}

// ParseQuery parses a full program: a semicolon-separated sequence of
// top-level statements. A statement beginning with one of the eleven
// subquery-statement keywords or one of the plain control keywords is
// parsed as a *value.Statement the same way a parenthesised subquery
// would be; anything else is a bare value wrapped in a synthetic "VALUE"
// statement (the source's Statement::Value variant).
func ParseQuery(src string, opts Options) (value.Query, error) {
	p := New(lex.New(src), opts)
	var q value.Query
	for {
		t, err := p.peek()
		if err != nil {
			return value.Query{}, wrapLexError(err)
		}
		if t.Kind == token.EOF {
			break
		}
		if t.Kind == token.SEMICOLON {
			p.next()
			continue
		}
		stmt, err := p.parseTopLevelStatement()
		if err != nil {
			return value.Query{}, err
		}
		q.Statements = append(q.Statements, stmt)

		t2, err := p.peek()
		if err != nil {
			return value.Query{}, wrapLexError(err)
		}
		if t2.Kind == token.SEMICOLON {
			p.next()
			continue
		}
		if t2.Kind == token.EOF {
			break
		}
		return value.Query{}, p.parseErrorAt(t2, "expected ';' or end of input between statements")
	}
	return q, nil
}

func (p *Parser) parseTopLevelStatement() (*value.Statement, error) {
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.KEYWORD {
		if subqueryStatementKeywords[t.Value] {
			p.next()
			return p.parseStatementBody(t.Value)
		}
		if value.DisallowedStatementKeywords[t.Value] {
			p.next()
			return p.parsePlainStatementBody(t.Value)
		}
	}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &value.Statement{Keyword: "VALUE", Content: v}, nil
}

// ParseWhatPrimary parses the restricted subset of values that may appear
// as the target of a DML statement: tables, things, params, idioms,
// subqueries, function calls, and graph edge traversals. Anything else is
// rejected with a
// dedicated diagnostic rather than the generic "unexpected token" message.
func (p *Parser) ParseWhatPrimary() (value.Value, error) {
	v, err := p.parsePrimaryWithTrailers()
	if err != nil {
		return nil, err
	}
	switch v.(type) {
	case value.Table, value.Thing, value.Param, value.Idiom, value.Subquery, value.Edges:
		return v, nil
	case value.Function:
		return v, nil
	default:
		return nil, errs.InvalidQuery("expected a table, record id, parameter, or idiom in statement-target position, found " + v.Kind().String())
	}
}
