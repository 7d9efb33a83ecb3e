package enginekv

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/glyphdb/glyph/engine"
	"github.com/glyphdb/glyph/errs"
	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/value"
)

// IAM is an in-memory reference implementation of engine.IAM: a flat user
// table keyed by namespace+database+username, and a map from issued token
// to the session state it authenticates. Credential storage and signing
// are both out of scope for a reference backend (spec.md §1 places
// authentication's cryptographic core with an external collaborator); a
// real deployment replaces this package entirely rather than hardening it.
type IAM struct {
	mu    sync.RWMutex
	users map[string]string // "ns\x00db\x00user" -> password

	sessMu   sync.RWMutex
	sessions map[string]session.Session // token -> issued session snapshot
}

var _ engine.IAM = (*IAM)(nil)

// NewIAM returns an empty IAM.
func NewIAM() *IAM {
	return &IAM{
		users:    make(map[string]string),
		sessions: make(map[string]session.Session),
	}
}

func userKey(sess *session.Session, user string) string {
	ns, db := "", ""
	if sess != nil {
		ns, db = sess.Namespace, sess.Database
	}
	return ns + "\x00" + db + "\x00" + user
}

// stringField looks up key case-insensitively: signin/signup payloads
// commonly arrive as "user"/"User" or "ns"/"NS" depending on the client
// library, and the source treats auth object keys as case-insensitive.
func stringField(obj *value.Object, key string) (string, bool) {
	v, ok := obj.GetFold(key)
	if !ok {
		return "", false
	}
	s, ok := v.(value.Strand)
	return string(s), ok
}

// Signup registers a new user scoped to the session's current
// namespace/database and returns an issued token.
func (a *IAM) Signup(ctx context.Context, ds engine.Datastore, sess *session.Session, params *value.Object) (*string, error) {
	user, ok := stringField(params, "user")
	if !ok || user == "" {
		return nil, errs.InvalidParam("user")
	}
	pass, ok := stringField(params, "pass")
	if !ok || pass == "" {
		return nil, errs.InvalidParam("pass")
	}
	ac, _ := stringField(params, "ac")

	key := userKey(sess, user)
	a.mu.Lock()
	if _, exists := a.users[key]; exists {
		a.mu.Unlock()
		return nil, errs.UserAlreadyExists(user)
	}
	a.users[key] = pass
	a.mu.Unlock()

	return a.issueToken(sess, user, ac)
}

// Signin authenticates an existing user and returns an issued token.
func (a *IAM) Signin(ctx context.Context, ds engine.Datastore, sess *session.Session, params *value.Object) (*string, error) {
	user, ok := stringField(params, "user")
	if !ok || user == "" {
		return nil, errs.InvalidParam("user")
	}
	pass, ok := stringField(params, "pass")
	if !ok {
		return nil, errs.InvalidParam("pass")
	}
	ac, _ := stringField(params, "ac")

	key := userKey(sess, user)
	a.mu.RLock()
	stored, exists := a.users[key]
	a.mu.RUnlock()
	if !exists || stored != pass {
		return nil, errs.SigninFailed("invalid credentials")
	}

	return a.issueToken(sess, user, ac)
}

func (a *IAM) issueToken(sess *session.Session, user, ac string) (*string, error) {
	token := uuid.NewString()

	issued := session.Session{
		Namespace:     "",
		Database:      "",
		Authenticated: true,
		Token:         token,
		AccessMethod:  ac,
		Variables:     session.Vars{"user": value.Strand(user)},
	}
	if sess != nil {
		issued.Namespace = sess.Namespace
		issued.Database = sess.Database
	}

	a.sessMu.Lock()
	a.sessions[token] = issued
	a.sessMu.Unlock()

	if sess != nil {
		sess.Authenticated = true
		sess.Token = token
		sess.AccessMethod = ac
	}

	return &token, nil
}

// Token validates a bearer token and, if valid, mutates sess to the
// authenticated state it was issued under. Any decode/lookup failure
// collapses uniformly to errs.InvalidAuth so malformed and merely-unknown
// tokens cannot be distinguished by a client (spec.md §4.3).
func (a *IAM) Token(ctx context.Context, ds engine.Datastore, sess *session.Session, token string) error {
	a.sessMu.RLock()
	issued, ok := a.sessions[token]
	a.sessMu.RUnlock()
	if !ok {
		return errs.InvalidAuth()
	}
	sess.Namespace = issued.Namespace
	sess.Database = issued.Database
	sess.Authenticated = true
	sess.Token = token
	sess.AccessMethod = issued.AccessMethod
	sess.Variables = issued.Variables.Clone()
	return nil
}

// Clear resets a session's authentication state, the `invalidate` method's
// collaborator hook.
func (a *IAM) Clear(sess *session.Session) error {
	sess.Authenticated = false
	sess.Token = ""
	sess.AccessMethod = ""
	delete(sess.Variables, "auth")
	return nil
}
