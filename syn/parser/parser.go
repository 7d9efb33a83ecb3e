// Package parser is the recursive-descent core described in the system's
// parser specification: it turns a syn/token.Stream into value.Value and
// value.Statement ASTs, handling the context-sensitive constructs that make
// this grammar hard to parse with a single token of lookahead.
//
// The source this package is modelled on drives recursion through a
// heap-allocated continuation that yields back to the caller's driver loop
// at every descent point, so arbitrarily deep input never consumes host
// call-stack frames. Go has no equivalent cooperative-yield primitive
// without rebuilding the parser as an explicit state machine, so this
// package takes option (b) from the design notes instead: every recursive
// entry point is guarded by an explicit depth counter with a hard cap well
// below the platform's real stack limit, enforced the same way the
// teacher's tokenizer enforces its own nesting limits.
package parser

import (
	"fmt"

	"github.com/glyphdb/glyph/errs"
	"github.com/glyphdb/glyph/syn/token"
)

// Options configures one parse invocation.
type Options struct {
	// LegacyStrands enables disambiguation #7: after parsing a string
	// literal, attempt to reinterpret its contents as a record id,
	// datetime, or uuid before falling back to a plain Strand.
	LegacyStrands bool

	// MaxQueryDepth bounds nested-subquery depth.
	MaxQueryDepth int
	// MaxObjectDepth bounds nested object/array depth.
	MaxObjectDepth int
	// MaxStackDepth bounds total recursive descent, standing in for the
	// heap-stack collaborator's yield points (see package doc).
	MaxStackDepth int
}

// DefaultOptions returns the caps the reference dispatcher runs with.
func DefaultOptions() Options {
	return Options{
		MaxQueryDepth:  16,
		MaxObjectDepth: 100,
		MaxStackDepth:  256,
	}
}

// Parser drives one parse over a token.Stream. It is not safe for concurrent
// use and is not reusable across streams.
type Parser struct {
	toks token.Stream
	opts Options

	// fieldPosition toggles disambiguation #5: whether a bare identifier
	// in primary position produces an Idiom Field part (true, used inside
	// WHERE-like predicate contexts) or a Table reference (false, the
	// default DML-target reading).
	fieldPosition bool

	queryDepth  int
	objectDepth int
	stackDepth  int
}

// New constructs a Parser over toks with opts.
func New(toks token.Stream, opts Options) *Parser {
	return &Parser{toks: toks, opts: opts}
}

// SetFieldPosition toggles disambiguation #5 for subsequent primary-value
// parses. Callers restore the previous value themselves; there is no
// implicit scoping because the grammar productions that need it (WHERE
// clauses, SELECT projection lists) call it directly around their
// sub-parses.
func (p *Parser) SetFieldPosition(v bool) bool {
	prev := p.fieldPosition
	p.fieldPosition = v
	return prev
}

// --- token plumbing -------------------------------------------------------

func (p *Parser) peek() (token.Token, error)          { return p.toks.Peek() }
func (p *Parser) peekAt(n int) (token.Token, error)   { return p.toks.PeekAt(n) }
func (p *Parser) next() (token.Token, error)          { return p.toks.Next() }

func (p *Parser) parseErrorAt(t token.Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return errs.InvalidQuery(fmt.Sprintf("%s at line %d, column %d", msg, t.Span.Start.Line, t.Span.Start.Column))
}

func (p *Parser) expect(kind token.Kind, what string) (token.Token, error) {
	t, err := p.next()
	if err != nil {
		return t, wrapLexError(err)
	}
	if t.Kind != kind {
		return t, p.parseErrorAt(t, "expected %s, found %q", what, t.Value)
	}
	return t, nil
}

func wrapLexError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errs.Error); ok {
		return err
	}
	return errs.InvalidQuery(err.Error())
}

// --- recursion discipline -------------------------------------------------

// enterStack guards one recursive descent. Callers must invoke the returned
// func (typically via defer) exactly once to release the slot, mirroring
// the heap-stack collaborator's yield-and-resume pairing.
func (p *Parser) enterStack() (func(), error) {
	p.stackDepth++
	if p.stackDepth > p.opts.MaxStackDepth {
		p.stackDepth--
		return func() {}, errs.ComputationDepthExceeded()
	}
	return func() { p.stackDepth-- }, nil
}

func (p *Parser) enterQuery() (func(), error) {
	p.queryDepth++
	if p.queryDepth > p.opts.MaxQueryDepth {
		p.queryDepth--
		return func() {}, errs.ComputationDepthExceeded()
	}
	return func() { p.queryDepth-- }, nil
}

func (p *Parser) enterObject() (func(), error) {
	p.objectDepth++
	if p.objectDepth > p.opts.MaxObjectDepth {
		p.objectDepth--
		return func() {}, errs.ComputationDepthExceeded()
	}
	return func() { p.objectDepth-- }, nil
}
