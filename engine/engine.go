// Package engine declares the storage-engine and IAM contracts the RPC
// dispatcher runs against (spec.md §6). The physical storage engine that
// implements Datastore is out of scope for this module (spec.md §1);
// package enginekv ships an in-memory reference implementation sufficient
// to exercise the dispatcher and parser in tests.
package engine

import (
	"context"
	"time"

	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/value"
)

// QueryType classifies one statement's response so the dispatcher's
// post-processing step knows whether to invoke the live-query hook.
type QueryType uint8

const (
	QueryOther QueryType = iota
	QueryLive
	QueryKill
)

func (q QueryType) String() string {
	switch q {
	case QueryLive:
		return "live"
	case QueryKill:
		return "kill"
	default:
		return "other"
	}
}

// Response is the result of executing one statement within a query
// program.
type Response struct {
	Result    value.Value
	Err       error
	Time      time.Duration
	QueryType QueryType
}

// Datastore is the storage engine's contract: execute raw query text,
// execute an already-parsed program, or compute a single value, all in
// the context of a session and an optional variable set.
type Datastore interface {
	Execute(ctx context.Context, queryText string, sess *session.Session, vars session.Vars) ([]Response, error)
	Process(ctx context.Context, query value.Query, sess *session.Session, vars session.Vars) ([]Response, error)
	Compute(ctx context.Context, v value.Value, sess *session.Session, vars session.Vars) (value.Value, error)
}

// IAM is the authentication/authorization collaborator. Implementations
// must collapse base64/JWT decode failures uniformly into errs.InvalidAuth
// so malformed credentials cannot be distinguished by clients (spec.md
// §4.3).
type IAM interface {
	Signup(ctx context.Context, ds Datastore, sess *session.Session, params *value.Object) (*string, error)
	Signin(ctx context.Context, ds Datastore, sess *session.Session, params *value.Object) (*string, error)
	Token(ctx context.Context, ds Datastore, sess *session.Session, token string) error
	Clear(sess *session.Session) error
}
