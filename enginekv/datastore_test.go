package enginekv

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/glyphdb/glyph/engine"
	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/value"
)

func newTestSession() *session.Session {
	return &session.Session{Namespace: "test", Database: "test", Variables: make(session.Vars)}
}

func TestDatastoreCreateAndSelect(t *testing.T) {
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	stmt := &value.Statement{
		Keyword: "CREATE",
		What:    []value.Value{value.Table{Name: "person"}},
		Content: mustObject(t, map[string]value.Value{"name": value.Strand("ary")}),
	}
	resp, err := ds.Process(ctx, value.Query{Statements: []*value.Statement{stmt}}, sess, nil)
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.NoError(t, resp[0].Err)

	created, ok := resp[0].Result.(value.Array)
	assert.True(t, ok)
	assert.Len(t, created, 1)
	rec := created[0].(*value.Object)
	thing, ok := mustGet(t, rec, "id").(value.Thing)
	assert.True(t, ok)
	assert.Equal(t, "person", thing.Table)

	selectStmt := &value.Statement{
		Keyword: "SELECT",
		What:    []value.Value{value.Table{Name: "person"}},
	}
	resp, err = ds.Process(ctx, value.Query{Statements: []*value.Statement{selectStmt}}, sess, nil)
	assert.NoError(t, err)
	assert.NoError(t, resp[0].Err)
	all, ok := resp[0].Result.(value.Array)
	assert.True(t, ok)
	assert.Len(t, all, 1)
}

func TestDatastoreCreateDuplicateFails(t *testing.T) {
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	thing := value.Thing{Table: "person", ID: value.NewInt(1)}
	stmt := &value.Statement{Keyword: "CREATE", What: []value.Value{thing}}

	resp, err := ds.Process(ctx, value.Query{Statements: []*value.Statement{stmt}}, sess, nil)
	assert.NoError(t, err)
	assert.NoError(t, resp[0].Err)

	resp, err = ds.Process(ctx, value.Query{Statements: []*value.Statement{stmt}}, sess, nil)
	assert.NoError(t, err)
	assert.Error(t, resp[0].Err)
}

func TestDatastoreDeleteRemovesRecord(t *testing.T) {
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	thing := value.Thing{Table: "person", ID: value.NewInt(1)}
	create := &value.Statement{Keyword: "CREATE", What: []value.Value{thing}}
	del := &value.Statement{Keyword: "DELETE", What: []value.Value{thing}}

	resp, err := ds.Process(ctx, value.Query{Statements: []*value.Statement{create, del}}, sess, nil)
	assert.NoError(t, err)
	assert.NoError(t, resp[0].Err)
	assert.NoError(t, resp[1].Err)
	deleted := resp[1].Result.(value.Array)
	assert.Len(t, deleted, 1)

	selectStmt := &value.Statement{Keyword: "SELECT", What: []value.Value{thing}}
	resp, err = ds.Process(ctx, value.Query{Statements: []*value.Statement{selectStmt}}, sess, nil)
	assert.NoError(t, err)
	assert.NoError(t, resp[0].Err)
	assert.Equal(t, value.Array{}, resp[0].Result)
}

func TestDatastoreComputeEvaluatesAdditiveExpression(t *testing.T) {
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	expr := value.Expression{Op: "+", Left: value.NewInt(1), Right: value.NewInt(2)}
	v, err := ds.Compute(ctx, expr, sess, nil)
	assert.NoError(t, err)
	assert.Equal(t, value.NewInt(3), v)
}

func TestDatastoreComputeResolvesParam(t *testing.T) {
	ds := New()
	sess := newTestSession()
	ctx := context.Background()
	vars := session.Vars{"name": value.Strand("ary")}

	v, err := ds.Compute(ctx, value.Param{Name: "name"}, sess, vars)
	assert.NoError(t, err)
	assert.Equal(t, value.Strand("ary"), v)
}

func TestDatastoreRelateCreatesEdgeRecord(t *testing.T) {
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	from := value.Thing{Table: "person", ID: value.NewInt(1)}
	to := value.Thing{Table: "person", ID: value.NewInt(2)}
	stmt := &value.Statement{
		Keyword: "RELATE",
		What:    []value.Value{from, value.Table{Name: "likes"}, to},
	}
	resp, err := ds.Process(ctx, value.Query{Statements: []*value.Statement{stmt}}, sess, nil)
	assert.NoError(t, err)
	assert.NoError(t, resp[0].Err)

	edges := resp[0].Result.(value.Array)
	assert.Len(t, edges, 1)
	edge := edges[0].(*value.Object)
	assert.Equal(t, from, mustGet(t, edge, "in"))
	assert.Equal(t, to, mustGet(t, edge, "out"))
}

func TestDatastoreLiveThenKill(t *testing.T) {
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	live := &value.Statement{Keyword: "LIVE", What: []value.Value{value.Table{Name: "person"}}}
	resp, err := ds.Process(ctx, value.Query{Statements: []*value.Statement{live}}, sess, nil)
	assert.NoError(t, err)
	assert.NoError(t, resp[0].Err)
	assert.Equal(t, engine.QueryLive, resp[0].QueryType)
	assert.True(t, sess.Realtime)

	id := resp[0].Result

	kill := &value.Statement{Keyword: "KILL", What: []value.Value{id}}
	resp, err = ds.Process(ctx, value.Query{Statements: []*value.Statement{kill}}, sess, nil)
	assert.NoError(t, err)
	assert.NoError(t, resp[0].Err)
	assert.Equal(t, engine.QueryKill, resp[0].QueryType)

	resp, err = ds.Process(ctx, value.Query{Statements: []*value.Statement{kill}}, sess, nil)
	assert.NoError(t, err)
	assert.Error(t, resp[0].Err)
}

func TestDatastoreIfStatementBranches(t *testing.T) {
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	stmt := &value.Statement{
		Keyword: "IF",
		Cond:    value.Bool(false),
		Then:    value.Strand("yes"),
		Else:    value.Strand("no"),
	}
	resp, err := ds.Process(ctx, value.Query{Statements: []*value.Statement{stmt}}, sess, nil)
	assert.NoError(t, err)
	assert.NoError(t, resp[0].Err)
	assert.Equal(t, value.Strand("no"), resp[0].Result)
}

func mustObject(t *testing.T, fields map[string]value.Value) *value.Object {
	t.Helper()
	obj := value.NewObject()
	for k, v := range fields {
		obj.Set(k, v)
	}
	return obj
}

func mustGet(t *testing.T, obj *value.Object, key string) value.Value {
	t.Helper()
	v, ok := obj.Get(key)
	assert.True(t, ok, "missing field %q", key)
	return v
}
