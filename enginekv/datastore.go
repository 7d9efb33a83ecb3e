package enginekv

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glyphdb/glyph/engine"
	"github.com/glyphdb/glyph/errs"
	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/syn/parser"
	"github.com/glyphdb/glyph/value"
)

// Datastore is the in-memory reference engine.Datastore. Records live
// entirely in process memory, scoped per namespace/database pair; a
// snapshot of the whole store can be written to disk with Snapshot for
// the durability demo (see snapshot.go).
type Datastore struct {
	mu     sync.RWMutex
	byNSDB map[string]*Store

	liveMu sync.Mutex
	live   map[string]liveQuery
}

type liveQuery struct {
	table string
	diff  bool
}

var _ engine.Datastore = (*Datastore)(nil)

// New returns an empty Datastore.
func New() *Datastore {
	return &Datastore{
		byNSDB: make(map[string]*Store),
		live:   make(map[string]liveQuery),
	}
}

func nsdbKey(sess *session.Session) string {
	if sess == nil {
		return "\x00default\x00default"
	}
	return sess.Namespace + "\x00" + sess.Database
}

func (d *Datastore) storeFor(sess *session.Session) *Store {
	key := nsdbKey(sess)
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.byNSDB[key]
	if !ok {
		s = NewStore()
		d.byNSDB[key] = s
	}
	return s
}

// Execute parses queryText and runs it, the text-parsing path spec.md
// §4.2 reserves for the query(...) RPC method and the CLI's one-shot
// query command; every other caller should build a value.Query directly
// and call Process, since this parser fragment does not implement the
// full planner-facing grammar (spec.md §1).
func (d *Datastore) Execute(ctx context.Context, queryText string, sess *session.Session, vars session.Vars) ([]engine.Response, error) {
	q, err := parser.ParseQuery(queryText, parser.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return d.Process(ctx, q, sess, vars)
}

// Process runs each statement of an already-parsed program in order,
// collecting one Response per statement. A per-statement failure is
// recorded on that Response and does not abort later statements, mirroring
// the corpus convention that a query program reports partial results.
func (d *Datastore) Process(ctx context.Context, query value.Query, sess *session.Session, vars session.Vars) ([]engine.Response, error) {
	responses := make([]engine.Response, 0, len(query.Statements))
	for _, stmt := range query.Statements {
		if err := ctx.Err(); err != nil {
			return responses, err
		}
		start := time.Now()
		result, qt, err := d.execStatement(ctx, stmt, sess, vars)
		responses = append(responses, engine.Response{
			Result:    result,
			Err:       err,
			Time:      time.Since(start),
			QueryType: qt,
		})
	}
	return responses, nil
}

// Compute evaluates a single value in isolation: resolving params against
// vars/session and folding additive expressions. It does not see a
// document context, so idioms and field access pass through unresolved.
func (d *Datastore) Compute(ctx context.Context, v value.Value, sess *session.Session, vars session.Vars) (value.Value, error) {
	return eval(v, sess, vars)
}

func (d *Datastore) execStatement(ctx context.Context, stmt *value.Statement, sess *session.Session, vars session.Vars) (value.Value, engine.QueryType, error) {
	store := d.storeFor(sess)

	switch stmt.Keyword {
	case "VALUE", "RETURN":
		v, err := eval(stmt.Content, sess, vars)
		return v, engine.QueryOther, err

	case "SELECT":
		return d.execSelect(store, stmt, sess, vars)

	case "CREATE":
		return d.execCreate(store, stmt, sess, vars)

	case "UPSERT", "UPDATE", "MERGE", "PATCH":
		return d.execUpsert(store, stmt, sess, vars)

	case "DELETE":
		return d.execDelete(store, stmt, sess, vars)

	case "RELATE":
		return d.execRelate(store, stmt, sess, vars)

	case "LIVE":
		return d.execLive(stmt, sess, vars)

	case "KILL":
		return d.execKill(stmt, sess, vars)

	case "DEFINE", "REMOVE", "REBUILD":
		// Resource definitions (tables, fields, indexes, ...) are metadata
		// the real storage engine's schema catalogue owns; this reference
		// store has no schema, so these are accepted no-ops.
		return value.Array{}, engine.QueryOther, nil

	case "IF":
		cond, err := eval(stmt.Cond, sess, vars)
		if err != nil {
			return nil, engine.QueryOther, err
		}
		branch := stmt.Else
		if truthy(cond) {
			branch = stmt.Then
		}
		if branch == nil {
			return value.None{}, engine.QueryOther, nil
		}
		v, err := eval(branch, sess, vars)
		return v, engine.QueryOther, err

	default:
		// Transaction and control-flow statements (BEGIN, COMMIT, USE,
		// LET, THROW, SLEEP, OPTION, SHOW, ANALYZE, BREAK, CONTINUE,
		// FOR, INFO) belong to the query planner's transaction manager,
		// an external collaborator (spec.md §1); evaluate the operand,
		// if any, and otherwise report NONE.
		if len(stmt.Args) > 0 {
			v, err := eval(stmt.Args[0], sess, vars)
			return v, engine.QueryOther, err
		}
		return value.None{}, engine.QueryOther, nil
	}
}

func (d *Datastore) resolveWhat(stmt *value.Statement, sess *session.Session, vars session.Vars) (value.Value, error) {
	if len(stmt.What) == 0 {
		return nil, errs.InvalidQuery(stmt.Keyword + " requires a target")
	}
	return eval(stmt.What[0], sess, vars)
}

func resolveContent(stmt *value.Statement, sess *session.Session, vars session.Vars) (*value.Object, error) {
	if stmt.Content == nil {
		return value.NewObject(), nil
	}
	v, err := eval(stmt.Content, sess, vars)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*value.Object)
	if !ok {
		return nil, errs.InvalidQuery(stmt.Keyword + " content must be an object")
	}
	return obj, nil
}

func (d *Datastore) execSelect(store *Store, stmt *value.Statement, sess *session.Session, vars session.Vars) (value.Value, engine.QueryType, error) {
	target, err := d.resolveWhat(stmt, sess, vars)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	switch t := target.(type) {
	case value.Table:
		recs := store.selectAll(t.Name)
		out := make(value.Array, len(recs))
		for i, r := range recs {
			out[i] = r
		}
		return out, engine.QueryOther, nil
	case value.Thing:
		rec, ok := store.selectOne(t)
		if !ok {
			return value.Array{}, engine.QueryOther, nil
		}
		return value.Array{rec}, engine.QueryOther, nil
	default:
		return nil, engine.QueryOther, errs.InvalidQuery("SELECT FROM requires a table or record id")
	}
}

func (d *Datastore) thingFor(store *Store, target value.Value) (value.Thing, bool) {
	switch t := target.(type) {
	case value.Thing:
		return t, true
	case value.Table:
		return value.Thing{Table: t.Name, ID: store.nextID()}, true
	default:
		return value.Thing{}, false
	}
}

func (d *Datastore) execCreate(store *Store, stmt *value.Statement, sess *session.Session, vars session.Vars) (value.Value, engine.QueryType, error) {
	target, err := d.resolveWhat(stmt, sess, vars)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	thing, ok := d.thingFor(store, target)
	if !ok {
		return nil, engine.QueryOther, errs.InvalidQuery("CREATE requires a table or record id")
	}
	content, err := resolveContent(stmt, sess, vars)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	rec, err := store.create(thing, content)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	return value.Array{rec}, engine.QueryOther, nil
}

func (d *Datastore) execUpsert(store *Store, stmt *value.Statement, sess *session.Session, vars session.Vars) (value.Value, engine.QueryType, error) {
	target, err := d.resolveWhat(stmt, sess, vars)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	content, err := resolveContent(stmt, sess, vars)
	if err != nil {
		return nil, engine.QueryOther, err
	}

	switch t := target.(type) {
	case value.Thing:
		rec := store.upsert(t, content)
		return value.Array{rec}, engine.QueryOther, nil
	case value.Table:
		recs := store.selectAll(t.Name)
		out := make(value.Array, 0, len(recs))
		for _, r := range recs {
			idv, _ := r.Get("id")
			thing, ok := idv.(value.Thing)
			if !ok {
				continue
			}
			out = append(out, store.upsert(thing, content))
		}
		return out, engine.QueryOther, nil
	default:
		return nil, engine.QueryOther, errs.InvalidQuery(stmt.Keyword + " requires a table or record id")
	}
}

func (d *Datastore) execDelete(store *Store, stmt *value.Statement, sess *session.Session, vars session.Vars) (value.Value, engine.QueryType, error) {
	target, err := d.resolveWhat(stmt, sess, vars)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	switch t := target.(type) {
	case value.Thing:
		rec, ok := store.delete(t)
		if !ok {
			return value.Array{}, engine.QueryOther, nil
		}
		return value.Array{rec}, engine.QueryOther, nil
	case value.Table:
		recs := store.selectAll(t.Name)
		out := make(value.Array, 0, len(recs))
		for _, r := range recs {
			idv, _ := r.Get("id")
			thing, ok := idv.(value.Thing)
			if !ok {
				continue
			}
			if rec, ok := store.delete(thing); ok {
				out = append(out, rec)
			}
		}
		return out, engine.QueryOther, nil
	default:
		return nil, engine.QueryOther, errs.InvalidQuery("DELETE requires a table or record id")
	}
}

// execRelate implements RELATE from->kind->to: What holds the from value,
// the edge table, and the to value in that order, the shape the rpc
// package's relate handler synthesizes directly as a Statement.
func (d *Datastore) execRelate(store *Store, stmt *value.Statement, sess *session.Session, vars session.Vars) (value.Value, engine.QueryType, error) {
	if len(stmt.What) != 3 {
		return nil, engine.QueryOther, errs.InvalidQuery("RELATE requires from, edge table, and to")
	}
	from, err := eval(stmt.What[0], sess, vars)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	kind, err := eval(stmt.What[1], sess, vars)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	to, err := eval(stmt.What[2], sess, vars)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	edgeTable, ok := kind.(value.Table)
	if !ok {
		return nil, engine.QueryOther, errs.InvalidQuery("RELATE edge kind must be a table")
	}
	content, err := resolveContent(stmt, sess, vars)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	content.Set("in", from)
	content.Set("out", to)

	thing := value.Thing{Table: edgeTable.Name, ID: store.nextID()}
	rec, err := store.create(thing, content)
	if err != nil {
		return nil, engine.QueryOther, err
	}
	return value.Array{rec}, engine.QueryOther, nil
}

// liveTarget returns the operand LIVE/KILL act on regardless of how the
// statement was built: a statement the rpc package synthesizes directly
// carries it in What, while one produced by ParseQuery's plain-statement
// path (parsePlainStatementBody) carries it in Args.
func liveTarget(stmt *value.Statement) (value.Value, bool) {
	if len(stmt.What) > 0 {
		return stmt.What[0], true
	}
	if len(stmt.Args) > 0 {
		return stmt.Args[0], true
	}
	return nil, false
}

func (d *Datastore) execLive(stmt *value.Statement, sess *session.Session, vars session.Vars) (value.Value, engine.QueryType, error) {
	operand, ok := liveTarget(stmt)
	if !ok {
		return nil, engine.QueryLive, errs.InvalidQuery("LIVE SELECT requires a table")
	}
	target, err := eval(operand, sess, vars)
	if err != nil {
		return nil, engine.QueryLive, err
	}
	tbl, ok := target.(value.Table)
	if !ok {
		return nil, engine.QueryLive, errs.InvalidQuery("LIVE SELECT target must be a table")
	}
	id := value.Uuid(uuid.New())

	d.liveMu.Lock()
	d.live[id.String()] = liveQuery{table: tbl.Name, diff: stmt.Diff}
	d.liveMu.Unlock()

	if sess != nil {
		sess.Realtime = true
	}
	return id, engine.QueryLive, nil
}

func (d *Datastore) execKill(stmt *value.Statement, sess *session.Session, vars session.Vars) (value.Value, engine.QueryType, error) {
	operand, ok := liveTarget(stmt)
	if !ok {
		return nil, engine.QueryKill, errs.InvalidQuery("KILL requires a live query id")
	}
	idv, err := eval(operand, sess, vars)
	if err != nil {
		return nil, engine.QueryKill, err
	}

	d.liveMu.Lock()
	_, found := d.live[idv.String()]
	delete(d.live, idv.String())
	d.liveMu.Unlock()

	if !found {
		return nil, engine.QueryKill, errs.LiveQueryNotFound(idv.String())
	}
	return idv, engine.QueryKill, nil
}
