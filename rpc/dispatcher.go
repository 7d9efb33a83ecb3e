package rpc

import (
	"context"

	"github.com/glyphdb/glyph/engine"
	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/value"
)

// Version identifies this build for the version RPC method and any
// server banner the transport prints at startup.
const Version = "glyph-0.1.0"

// LiveQueryHook is the optional capability invoked after a query program
// runs, for QueryType::Live and QueryType::Kill responses (spec.md
// §4.2's post-processing step). A Dispatcher with a nil hook simply
// skips post-processing, the behaviour the source describes as a no-op
// when LQ_SUPPORT is false.
type LiveQueryHook interface {
	HandleLive(ctx context.Context, sess *session.Session, id value.Value)
	HandleKill(ctx context.Context, sess *session.Session, id value.Value)
}

// GraphQLBridge is the optional adapter behind the graphql method.
// Package gql provides the reference implementation.
type GraphQLBridge interface {
	Execute(ctx context.Context, sess *session.Session, request *value.Object) (value.Value, error)
}

// Dispatcher is the mutating RPC surface: it accepts every Method and
// mutates the caller-supplied Session in place for state-changing calls.
type Dispatcher struct {
	DS  engine.Datastore
	IAM engine.IAM

	// LQSupport/GQLSupport are the dispatcher's capability flags
	// (spec.md §4.2's LQ_SUPPORT/GQL_SUPPORT). Both default false; a
	// caller that wants either capability sets it explicitly.
	LQSupport  bool
	GQLSupport bool

	LiveHook LiveQueryHook
	GraphQL  GraphQLBridge
}

// New returns a Dispatcher with no optional capability enabled.
func New(ds engine.Datastore, iam engine.IAM) *Dispatcher {
	return &Dispatcher{DS: ds, IAM: iam}
}

// Dispatch routes one (method, params) call against sess, the mutating
// surface's full method set.
func (d *Dispatcher) Dispatch(ctx context.Context, sess *session.Session, methodName string, params value.Array) (value.Value, error) {
	method := ParseMethod(methodName)
	p := Params(params)

	switch method {
	case MethodPing:
		return d.ping(p)
	case MethodInfo:
		return d.info(ctx, sess, p)
	case MethodUse:
		return d.use(sess, p)
	case MethodSignup:
		return d.signup(ctx, sess, p)
	case MethodSignin:
		return d.signin(ctx, sess, p)
	case MethodInvalidate:
		return d.invalidate(sess, p)
	case MethodAuthenticate:
		return d.authenticate(ctx, sess, p)
	case MethodKill:
		return d.kill(ctx, sess, p)
	case MethodLive:
		return d.live(ctx, sess, p)
	case MethodSet:
		return d.set(ctx, sess, p)
	case MethodUnset:
		return d.unset(sess, p)
	case MethodSelect:
		return d.dml(ctx, sess, "SELECT", p)
	case MethodInsert:
		return d.dml(ctx, sess, "CREATE", p)
	case MethodCreate:
		return d.dml(ctx, sess, "CREATE", p)
	case MethodUpsert:
		return d.dml(ctx, sess, "UPSERT", p)
	case MethodUpdate:
		return d.dml(ctx, sess, "UPDATE", p)
	case MethodMerge:
		return d.dml(ctx, sess, "MERGE", p)
	case MethodPatch:
		return d.dml(ctx, sess, "PATCH", p)
	case MethodDelete:
		return d.dml(ctx, sess, "DELETE", p)
	case MethodRelate:
		return d.relate(ctx, sess, p)
	case MethodVersion:
		return d.version(p)
	case MethodQuery:
		return d.query(ctx, sess, p)
	case MethodRun:
		return d.run(ctx, sess, p)
	case MethodGraphQL:
		return d.graphql(ctx, sess, p)
	default:
		return nil, newMethodNotFound()
	}
}

func (d *Dispatcher) ping(p Params) (value.Value, error) {
	if err := p.needsZero(); err != nil {
		return nil, err
	}
	return value.None{}, nil
}

func (d *Dispatcher) version(p Params) (value.Value, error) {
	if err := p.needsZero(); err != nil {
		return nil, err
	}
	out := value.NewObject()
	out.Set("version", value.Strand(Version))
	out.Set("build", value.Strand("reference"))
	return out, nil
}

// info executes SELECT * FROM $auth and returns its first row, empty if
// none (spec.md §9's open question: "first row; empty if none").
func (d *Dispatcher) info(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	if err := p.needsZero(); err != nil {
		return nil, err
	}
	stmt := &value.Statement{Keyword: "SELECT", What: []value.Value{value.Param{Name: "auth"}}}
	responses, err := d.DS.Process(ctx, value.Query{Statements: []*value.Statement{stmt}}, sess, sess.Variables)
	if err != nil {
		return nil, FromEngineError(err)
	}
	resp := responses[0]
	if resp.Err != nil {
		return nil, FromEngineError(resp.Err)
	}
	arr, ok := resp.Result.(value.Array)
	if !ok || len(arr) == 0 {
		return value.None{}, nil
	}
	return arr[0], nil
}

// use implements namespace/database selection: each argument is a
// Strand (set), Null (clear), or None (leave unchanged). Clearing the
// namespace while the database stays set is forbidden.
func (d *Dispatcher) use(sess *session.Session, p Params) (value.Value, error) {
	nsv, dbv, err := p.needsOneOrTwo()
	if err != nil {
		return nil, err
	}

	clearNS := isNullLike(nsv)
	clearDB := isNullLike(dbv)

	// dbEndsUpSet is true if, after applying dbv, the database is (or
	// remains) set — an explicit new name, or "unchanged" over an
	// already-set database.
	dbEndsUpSet := false
	switch {
	case clearDB:
		dbEndsUpSet = false
	case isNoneLike(dbv):
		dbEndsUpSet = sess.Database != ""
	default:
		_, dbEndsUpSet = asStrand(dbv)
	}

	if clearNS && dbEndsUpSet {
		return nil, newInvalidParams("cannot clear namespace while database is set")
	}

	if clearNS {
		sess.Namespace = ""
		sess.Database = ""
	} else if s, ok := asStrand(nsv); ok {
		sess.Namespace = s
	}

	if clearDB {
		sess.Database = ""
	} else if s, ok := asStrand(dbv); ok {
		sess.Database = s
	}
	return value.None{}, nil
}

func (d *Dispatcher) signup(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	v, err := p.needsOne()
	if err != nil {
		return nil, err
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, newInvalidParams("signup requires an object")
	}

	snapshot := sess.Clone()
	token, authErr := d.IAM.Signup(ctx, d.DS, sess, obj)
	if authErr != nil {
		sess.Restore(snapshot)
		return nil, FromEngineError(authErr)
	}
	if token == nil {
		return value.None{}, nil
	}
	return value.Strand(*token), nil
}

func (d *Dispatcher) signin(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	v, err := p.needsOne()
	if err != nil {
		return nil, err
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, newInvalidParams("signin requires an object")
	}

	snapshot := sess.Clone()
	token, authErr := d.IAM.Signin(ctx, d.DS, sess, obj)
	if authErr != nil {
		sess.Restore(snapshot)
		return nil, FromEngineError(authErr)
	}
	if token == nil {
		return value.None{}, nil
	}
	return value.Strand(*token), nil
}

func (d *Dispatcher) invalidate(sess *session.Session, p Params) (value.Value, error) {
	if err := p.needsZero(); err != nil {
		return nil, err
	}
	if err := d.IAM.Clear(sess); err != nil {
		return nil, FromEngineError(err)
	}
	return value.None{}, nil
}

func (d *Dispatcher) authenticate(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	v, err := p.needsOne()
	if err != nil {
		return nil, err
	}
	token, ok := asStrand(v)
	if !ok {
		return nil, newInvalidParams("authenticate requires a token string")
	}

	snapshot := sess.Clone()
	if authErr := d.IAM.Token(ctx, d.DS, sess, token); authErr != nil {
		sess.Restore(snapshot)
		return nil, FromEngineError(authErr)
	}
	return value.None{}, nil
}

// set computes value under the session plus every variable except key
// itself (so a new assignment can't see its own stale value), then
// stores or removes key depending on whether the computed result is
// value.None{}.
func (d *Dispatcher) set(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	keyv, valv, err := p.needsTwo()
	if err != nil {
		return nil, err
	}
	key, ok := asStrand(keyv)
	if !ok {
		return nil, newInvalidParams("set requires a string key")
	}
	if session.ProtectedVariables[key] {
		return nil, newInvalidParams("\"" + key + "\" is a protected variable name")
	}

	scratch := sess.Variables.Clone()
	delete(scratch, key)
	computed, err := d.DS.Compute(ctx, valv, sess, scratch)
	if err != nil {
		return nil, FromEngineError(err)
	}

	if isNoneLike(computed) {
		delete(sess.Variables, key)
	} else {
		if sess.Variables == nil {
			sess.Variables = make(session.Vars)
		}
		sess.Variables[key] = computed
	}
	return value.None{}, nil
}

func (d *Dispatcher) unset(sess *session.Session, p Params) (value.Value, error) {
	v, err := p.needsOne()
	if err != nil {
		return nil, err
	}
	key, ok := asStrand(v)
	if !ok {
		return nil, newInvalidParams("unset requires a string key")
	}
	delete(sess.Variables, key)
	return value.None{}, nil
}

func (d *Dispatcher) kill(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	idv, err := p.needsOne()
	if err != nil {
		return nil, err
	}
	stmt := &value.Statement{Keyword: "KILL", What: []value.Value{idv}}
	result, qt, err := d.processOne(ctx, sess, stmt)
	if err != nil {
		return nil, err
	}
	d.postProcess(ctx, sess, qt, result)
	return result, nil
}

func (d *Dispatcher) live(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	whatv, diffv, err := p.needsOneOrTwo()
	if err != nil {
		return nil, err
	}
	diff := false
	if b, ok := diffv.(value.Bool); ok {
		diff = bool(b)
	}
	stmt := &value.Statement{Keyword: "LIVE", What: []value.Value{coerceWhat(whatv)}, Diff: diff}
	result, qt, err := d.processOne(ctx, sess, stmt)
	if err != nil {
		return nil, err
	}
	d.postProcess(ctx, sess, qt, result)
	return result, nil
}

// dml covers select/insert/create/upsert/update/merge/patch/delete: what
// is coerced from a bare string to a Table, data becomes the CONTENT
// payload, and the result collapses to a single value when what names a
// specific record.
func (d *Dispatcher) dml(ctx context.Context, sess *session.Session, keyword string, p Params) (value.Value, error) {
	whatv, datav, err := p.needsOneOrTwo()
	if err != nil {
		return nil, err
	}
	what := coerceWhat(whatv)

	stmt := &value.Statement{Keyword: keyword, What: []value.Value{what}}
	if !isNoneLike(datav) {
		stmt.Content = datav
	}

	responses, err := d.DS.Process(ctx, value.Query{Statements: []*value.Statement{stmt}}, sess, sess.Variables)
	if err != nil {
		return nil, FromEngineError(err)
	}
	resp := responses[0]
	if resp.Err != nil {
		return nil, FromEngineError(resp.Err)
	}
	return collapseIfSingle(what, resp.Result), nil
}

func (d *Dispatcher) relate(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	fromv, kindv, tov, err := p.needsOneTwoOrThree()
	if err != nil {
		return nil, err
	}
	if isNoneLike(tov) {
		return nil, newInvalidParams("relate requires from, edge table, and to")
	}
	stmt := &value.Statement{Keyword: "RELATE", What: []value.Value{fromv, kindv, tov}}

	responses, err := d.DS.Process(ctx, value.Query{Statements: []*value.Statement{stmt}}, sess, sess.Variables)
	if err != nil {
		return nil, FromEngineError(err)
	}
	resp := responses[0]
	if resp.Err != nil {
		return nil, FromEngineError(resp.Err)
	}
	return resp.Result, nil
}

// query accepts a pre-parsed value.Query or a raw Strand of query text,
// the one RPC method spec.md §4.2 requires to take either shape. Caller
// vars win over session vars on conflict.
func (d *Dispatcher) query(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	qv, varsv, err := p.needsOneOrTwo()
	if err != nil {
		return nil, err
	}

	callerVars := session.Vars{}
	if obj, ok := asObject(varsv); ok {
		for _, k := range obj.Keys() {
			fv, _ := obj.Get(k)
			callerVars[k] = fv
		}
	}
	mergedVars := session.Merge(sess.Variables, callerVars)

	if sess.Realtime && !d.LQSupport {
		return nil, newBadLQConfig()
	}

	var responses []engine.Response
	switch q := qv.(type) {
	case value.Strand:
		responses, err = d.DS.Execute(ctx, string(q), sess, mergedVars)
	case value.Query:
		responses, err = d.DS.Process(ctx, q, sess, mergedVars)
	default:
		return nil, newInvalidParams("query requires a string or a parsed query")
	}
	if err != nil {
		return nil, FromEngineError(err)
	}

	out := make(value.Array, len(responses))
	for i, resp := range responses {
		d.postProcess(ctx, sess, resp.QueryType, resp.Result)
		out[i] = responseToValue(resp)
	}
	return out, nil
}

// run dispatches by name prefix: fn:: is a custom function call, ml::
// is an ML model invocation (requires a version), anything else is a
// built-in call.
func (d *Dispatcher) run(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	namev, versionv, argsv, err := p.needsOneTwoOrThree()
	if err != nil {
		return nil, err
	}
	name, ok := asStrand(namev)
	if !ok {
		return nil, newInvalidParams("run requires a function name string")
	}
	var args []value.Value
	if arr, ok := argsv.(value.Array); ok {
		args = []value.Value(arr)
	}

	var fn value.Value
	switch {
	case hasPrefix(name, "fn::"):
		fn = value.Function{FnKind: value.FunctionCustom, Name: name[len("fn::"):], Args: args}
	case hasPrefix(name, "ml::"):
		version, ok := asStrand(versionv)
		if !ok || version == "" {
			return nil, newInvalidParams("ml:: functions require a version")
		}
		fn = value.Model{Name: name[len("ml::"):], Version: version, Args: args}
	default:
		fn = value.Function{FnKind: value.FunctionNormal, Name: name, Args: args}
	}

	result, err := d.DS.Compute(ctx, fn, sess, sess.Variables)
	if err != nil {
		return nil, FromEngineError(err)
	}
	return result, nil
}

func (d *Dispatcher) graphql(ctx context.Context, sess *session.Session, p Params) (value.Value, error) {
	if !d.GQLSupport || d.GraphQL == nil {
		return nil, newBadGQLConfig()
	}
	reqv, optsv, err := p.needsOneOrTwo()
	if err != nil {
		return nil, err
	}

	var request *value.Object
	switch r := reqv.(type) {
	case *value.Object:
		request = r
	case value.Strand:
		request = value.NewObject()
		request.Set("query", value.Strand(r))
	default:
		return nil, newInvalidParams("graphql requires a JSON string or a structured request object")
	}

	if opts, ok := asObject(optsv); ok {
		if f, ok := opts.Get("format"); ok {
			if s, ok := asStrand(f); ok && s == "cbor" {
				return nil, newThrown("graphql cbor output is not yet supported")
			}
		}
	}

	result, err := d.GraphQL.Execute(ctx, sess, request)
	if err != nil {
		return nil, FromEngineError(err)
	}
	return result, nil
}

func (d *Dispatcher) processOne(ctx context.Context, sess *session.Session, stmt *value.Statement) (value.Value, engine.QueryType, error) {
	responses, err := d.DS.Process(ctx, value.Query{Statements: []*value.Statement{stmt}}, sess, sess.Variables)
	if err != nil {
		return nil, engine.QueryOther, FromEngineError(err)
	}
	resp := responses[0]
	if resp.Err != nil {
		return nil, resp.QueryType, FromEngineError(resp.Err)
	}
	return resp.Result, resp.QueryType, nil
}

// postProcess invokes the live-query hook for Live/Kill responses, a
// no-op whenever LQSupport is off or no hook is registered (spec.md
// §4.2's "Post-processing").
func (d *Dispatcher) postProcess(ctx context.Context, sess *session.Session, qt engine.QueryType, result value.Value) {
	if !d.LQSupport || d.LiveHook == nil {
		return
	}
	switch qt {
	case engine.QueryLive:
		d.LiveHook.HandleLive(ctx, sess, result)
	case engine.QueryKill:
		d.LiveHook.HandleKill(ctx, sess, result)
	}
}

func coerceWhat(v value.Value) value.Value {
	if s, ok := v.(value.Strand); ok {
		return value.Table{Name: string(s)}
	}
	return v
}

// collapseIfSingle returns the first element unwrapped when what named a
// specific record rather than a table, per spec.md §4.2's "what is a
// specific Thing → return a single value, not a singleton array".
func collapseIfSingle(what value.Value, result value.Value) value.Value {
	if _, ok := what.(value.Thing); !ok {
		return result
	}
	arr, ok := result.(value.Array)
	if !ok || len(arr) == 0 {
		return value.None{}
	}
	return arr[0]
}

func responseToValue(resp engine.Response) value.Value {
	out := value.NewObject()
	out.Set("time", value.Strand(resp.Time.String()))
	if resp.Err != nil {
		out.Set("status", value.Strand("ERR"))
		out.Set("result", value.Strand(resp.Err.Error()))
		return out
	}
	out.Set("status", value.Strand("OK"))
	if resp.Result != nil {
		out.Set("result", resp.Result)
	} else {
		out.Set("result", value.None{})
	}
	return out
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
