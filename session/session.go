// Package session carries the per-connection state the RPC dispatcher and
// storage engine collaborate over: namespace/database selection,
// authentication, the realtime flag, and user-defined variables. It is a
// standalone package so that both engine (which takes a *Session in its
// Datastore/IAM contracts) and rpc (which owns the Session lifecycle) can
// depend on it without an import cycle.
package session

import "github.com/glyphdb/glyph/value"

// Vars is a named set of values bound into a query's evaluation
// environment.
type Vars map[string]value.Value

// Clone returns a shallow copy: the Value entries are never mutated in
// place once bound, so copying the map header is sufficient.
func (v Vars) Clone() Vars {
	if v == nil {
		return nil
	}
	out := make(Vars, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Merge returns a new Vars containing base overlaid by override, with
// override winning on key conflict — the "caller vars over session vars"
// rule the query RPC method follows.
func Merge(base, override Vars) Vars {
	out := base.Clone()
	if out == nil {
		out = make(Vars, len(override))
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// ProtectedVariables is the closed set of session variable names `set`
// refuses to overwrite, since the dispatcher and storage engine read them
// to resolve $auth, $token, $session, and $access inside query evaluation.
var ProtectedVariables = map[string]bool{
	"auth": true, "token": true, "session": true, "access": true,
}

// Session is per-connection state shared across RPC method invocations.
// Mutating methods (use, signup, signin, set, ...) acquire a Session
// exclusively; read-only methods only read it.
type Session struct {
	Namespace string
	Database  string

	Authenticated bool
	Token         string

	// AccessMethod is the name of the access method (record/scope-style
	// credential-issuance config, or system user) the current
	// authentication was granted under, empty for root/unauthenticated
	// sessions. Set by signup/signin/authenticate, cleared by invalidate.
	AccessMethod string

	// Realtime is set by `live` and gates the LQ_SUPPORT capability check
	// in the dispatcher's query method.
	Realtime bool

	Variables Vars
}

// New returns an empty Session ready for a fresh connection.
func New() *Session {
	return &Session{Variables: make(Vars)}
}

// Clone returns a snapshot suitable for the move-out/move-in atomicity
// discipline signup/signin/authenticate need: if the IAM collaborator
// fails partway through mutating the session, the dispatcher restores
// this snapshot in place of the partially-mutated session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Variables = s.Variables.Clone()
	return &clone
}

// Restore copies src's fields into s, undoing a failed mutation.
func (s *Session) Restore(src *Session) {
	*s = *src
}
