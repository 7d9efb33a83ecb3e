package gql_test

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/glyphdb/glyph/enginekv"
	"github.com/glyphdb/glyph/gql"
	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/value"
)

func TestNewParsesSchema(t *testing.T) {
	_, err := gql.New(enginekv.New())
	assert.NoError(t, err)
}

func TestExecuteQueriesTable(t *testing.T) {
	ds := enginekv.New()
	sess := session.New()

	createStmt := &value.Statement{Keyword: "CREATE", What: []value.Value{value.Table{Name: "person"}}}
	_, err := ds.Process(context.Background(), value.Query{Statements: []*value.Statement{createStmt}}, sess, sess.Variables)
	assert.NoError(t, err)

	bridge, err := gql.New(ds)
	assert.NoError(t, err)

	req := value.NewObject()
	req.Set("query", value.Strand(`{ table(name: "person") }`))

	result, err := bridge.Execute(context.Background(), sess, req)
	assert.NoError(t, err)
	obj, ok := result.(*value.Object)
	assert.True(t, ok)
	_, hasData := obj.Get("data")
	assert.True(t, hasData)
}
