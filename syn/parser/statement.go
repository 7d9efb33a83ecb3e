package parser

import (
	"github.com/glyphdb/glyph/errs"
	"github.com/glyphdb/glyph/syn/token"
	"github.com/glyphdb/glyph/value"
)

func (p *Parser) expectKeyword(kw string) (token.Token, error) {
	t, err := p.next()
	if err != nil {
		return t, wrapLexError(err)
	}
	if t.Kind != token.KEYWORD || t.Value != kw {
		return t, p.parseErrorAt(t, "expected %s", kw)
	}
	return t, nil
}

func (p *Parser) maybeWhere(stmt *value.Statement) error {
	t, err := p.peek()
	if err != nil {
		return wrapLexError(err)
	}
	if t.Kind != token.KEYWORD || t.Value != "WHERE" {
		return nil
	}
	p.next()
	prevFP := p.SetFieldPosition(true)
	cond, err := p.parseExpr()
	p.SetFieldPosition(prevFP)
	if err != nil {
		return err
	}
	stmt.Cond = cond
	return nil
}

// parseStatementBody parses the body of one of the statement-subquery
// keywords (SELECT, CREATE, UPSERT, UPDATE, DELETE, RELATE, DEFINE,
// REMOVE, REBUILD, RETURN, IF); keyword has already been consumed.
func (p *Parser) parseStatementBody(keyword string) (*value.Statement, error) {
	switch keyword {
	case "SELECT":
		return p.parseSelectBody()
	case "CREATE", "UPSERT", "UPDATE":
		return p.parseWriteBody(keyword)
	case "DELETE":
		return p.parseDeleteBody()
	case "RELATE":
		return p.parseRelateBody()
	case "DEFINE", "REMOVE", "REBUILD":
		return p.parseResourceBody(keyword)
	case "RETURN":
		return p.parseReturnBody()
	case "IF":
		return p.parseIfBody()
	default:
		return nil, errs.Internalf("statement keyword %q not implemented", keyword)
	}
}

func (p *Parser) parseSelectBody() (*value.Statement, error) {
	stmt := &value.Statement{Keyword: "SELECT"}

	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.STAR {
		p.next()
	} else {
		prevFP := p.SetFieldPosition(true)
		for {
			f, ferr := p.parseExpr()
			if ferr != nil {
				p.SetFieldPosition(prevFP)
				return nil, ferr
			}
			stmt.Fields = append(stmt.Fields, f)
			t2, perr := p.peek()
			if perr != nil {
				p.SetFieldPosition(prevFP)
				return nil, wrapLexError(perr)
			}
			if t2.Kind == token.COMMA {
				p.next()
				continue
			}
			break
		}
		p.SetFieldPosition(prevFP)
	}

	if _, err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	for {
		w, err := p.ParseWhatPrimary()
		if err != nil {
			return nil, err
		}
		stmt.What = append(stmt.What, w)
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
	if err := p.maybeWhere(stmt); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWriteBody(keyword string) (*value.Statement, error) {
	stmt := &value.Statement{Keyword: keyword}
	w, err := p.ParseWhatPrimary()
	if err != nil {
		return nil, err
	}
	stmt.What = []value.Value{w}

	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.KEYWORD && (t.Value == "CONTENT" || t.Value == "SET" || t.Value == "MERGE") {
		p.next()
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Content = c
	}
	if err := p.maybeWhere(stmt); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseDeleteBody() (*value.Statement, error) {
	stmt := &value.Statement{Keyword: "DELETE"}
	w, err := p.ParseWhatPrimary()
	if err != nil {
		return nil, err
	}
	stmt.What = []value.Value{w}
	if err := p.maybeWhere(stmt); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseRelateBody() (*value.Statement, error) {
	stmt := &value.Statement{Keyword: "RELATE"}
	from, err := p.ParseWhatPrimary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW, "->"); err != nil {
		return nil, err
	}
	kind, err := p.ParseWhatPrimary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW, "->"); err != nil {
		return nil, err
	}
	to, err := p.ParseWhatPrimary()
	if err != nil {
		return nil, err
	}
	stmt.What = []value.Value{from, kind, to}

	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.KEYWORD && t.Value == "CONTENT" {
		p.next()
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Content = c
	}
	return stmt, nil
}

func (p *Parser) parseResourceBody(keyword string) (*value.Statement, error) {
	stmt := &value.Statement{Keyword: keyword}
	resTok, err := p.next()
	if err != nil {
		return nil, wrapLexError(err)
	}
	nameTok, err := p.next()
	if err != nil {
		return nil, wrapLexError(err)
	}
	stmt.Args = []value.Value{value.Strand(resTok.Value), value.Table{Name: nameTok.Value}}
	return stmt, nil
}

func (p *Parser) parseReturnBody() (*value.Statement, error) {
	stmt := &value.Statement{Keyword: "RETURN"}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt.Content = v
	return stmt, nil
}

func (p *Parser) parseIfBody() (*value.Statement, error) {
	stmt := &value.Statement{Keyword: "IF"}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt.Cond = cond
	if _, err := p.expectKeyword("THEN"); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt.Then = then

	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.KEYWORD && t.Value == "ELSE" {
		p.next()
		els, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	t2, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t2.Kind == token.KEYWORD && t2.Value == "END" {
		p.next()
	}
	return stmt, nil
}

// ParseFullSubquery is the top-level subquery entry point: it dispatches
// by the first significant token, recognising both the statement-subquery
// keywords and the plain control-flow statements that
// value.DisallowedStatementKeywords names; anything else falls through to a
// plain value parse.
func (p *Parser) ParseFullSubquery() (value.Value, error) {
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if t.Kind == token.KEYWORD {
		if subqueryStatementKeywords[t.Value] {
			p.next()
			stmt, err := p.parseStatementBody(t.Value)
			if err != nil {
				return nil, err
			}
			return value.Subquery{SubKind: value.SubqueryStatement, Statement: stmt}, nil
		}
		if value.DisallowedStatementKeywords[t.Value] {
			p.next()
			stmt, err := p.parsePlainStatementBody(t.Value)
			if err != nil {
				return nil, err
			}
			return value.Subquery{SubKind: value.SubqueryStatement, Statement: stmt}, nil
		}
	}
	return p.parseExpr()
}

func canStartValue(t token.Token) bool {
	switch t.Kind {
	case token.IDENT, token.PARAM, token.STRAND, token.NUMBER, token.DURATION,
		token.LPAREN, token.LBRACK, token.LBRACE, token.PIPE, token.REGEX:
		return true
	case token.KEYWORD:
		switch t.Value {
		case "TRUE", "FALSE", "NULL", "NONE":
			return true
		}
	}
	return false
}

// parsePlainStatementBody parses the operand-free or single-operand
// control statements (BEGIN, CANCEL, COMMIT, CONTINUE, FOR, INFO, KILL,
// LIVE, OPTION, LET, SHOW, SLEEP, THROW, USE, ANALYZE, BREAK) opaquely:
// the storage engine's query planner gives these statements their real
// semantics (out of scope here, see spec.md §1); this parser records
// enough structure to re-display them.
func (p *Parser) parsePlainStatementBody(keyword string) (*value.Statement, error) {
	stmt := &value.Statement{Keyword: keyword}
	t, err := p.peek()
	if err != nil {
		return nil, wrapLexError(err)
	}
	if canStartValue(t) {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Args = []value.Value{v}
	}
	return stmt, nil
}
