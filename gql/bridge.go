// Package gql is the reference implementation of rpc.GraphQLBridge: a
// thin adapter from the dispatcher's graphql RPC method onto a
// graph-gophers/graphql-go schema. The real schema cache (derived from
// table/field definitions) is an external collaborator per spec.md §1;
// this package ships one fixed, hand-written schema wide enough to
// exercise the bridge — querying the storage engine through the same
// Datastore.Process path the select RPC method uses.
package gql

import (
	"context"
	"encoding/json"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/glyphdb/glyph/engine"
	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/value"
)

// schemaSource is deliberately minimal: a single query field that
// forwards to the storage engine's SELECT path by table name. A real
// deployment would generate this from the namespace's DEFINE TABLE
// catalogue; that generator is out of scope here (spec.md §1).
const schemaSource = `
	schema {
		query: Query
	}

	type Query {
		table(name: String!): [String!]!
	}
`

// Bridge implements rpc.GraphQLBridge against one Datastore.
type Bridge struct {
	schema *graphql.Schema
}

// New parses the fixed schema against ds and returns a ready Bridge.
func New(ds engine.Datastore) (*Bridge, error) {
	root := &resolver{ds: ds}
	schema, err := graphql.ParseSchema(schemaSource, root)
	if err != nil {
		return nil, fmt.Errorf("gql: parse schema: %w", err)
	}
	return &Bridge{schema: schema}, nil
}

// Execute runs one GraphQL request against the session's namespace and
// database, matching whatever sess.Namespace/sess.Database are set to at
// call time (spec.md §4.2: the bridge runs inside the caller's session).
func (b *Bridge) Execute(ctx context.Context, sess *session.Session, request *value.Object) (value.Value, error) {
	queryV, ok := request.Get("query")
	if !ok {
		return nil, fmt.Errorf("gql: request is missing \"query\"")
	}
	queryStr, ok := queryV.(value.Strand)
	if !ok {
		return nil, fmt.Errorf("gql: \"query\" must be a string")
	}

	opName := ""
	if v, ok := request.Get("operationName"); ok {
		if s, ok := v.(value.Strand); ok {
			opName = string(s)
		}
	} else if v, ok := request.Get("operation"); ok {
		if s, ok := v.(value.Strand); ok {
			opName = string(s)
		}
	}

	variables := map[string]interface{}{}
	if v, ok := request.Get("variables"); ok {
		variables = toJSONMap(v)
	} else if v, ok := request.Get("vars"); ok {
		variables = toJSONMap(v)
	}

	ctx = context.WithValue(ctx, sessionKey{}, sessionScope{sess: sess})
	resp := b.schema.Exec(ctx, string(queryStr), opName, variables)
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("gql: %s", resp.Errors[0].Message)
	}

	out := value.NewObject()
	var data interface{}
	if err := json.Unmarshal(resp.Data, &data); err == nil {
		out.Set("data", fromJSON(data))
	}
	return out, nil
}

type sessionKey struct{}

type sessionScope struct {
	sess *session.Session
}

// resolver is the schema's root object; its Table method backs the
// table(name) query field.
type resolver struct {
	ds engine.Datastore
}

func (r *resolver) Table(ctx context.Context, args struct{ Name string }) ([]string, error) {
	scope, _ := ctx.Value(sessionKey{}).(sessionScope)
	if scope.sess == nil {
		return nil, fmt.Errorf("gql: no session in context")
	}
	stmt := &value.Statement{Keyword: "SELECT", What: []value.Value{value.Table{Name: args.Name}}}
	responses, err := r.ds.Process(ctx, value.Query{Statements: []*value.Statement{stmt}}, scope.sess, scope.sess.Variables)
	if err != nil {
		return nil, err
	}
	resp := responses[0]
	if resp.Err != nil {
		return nil, resp.Err
	}
	arr, ok := resp.Result.(value.Array)
	if !ok {
		return nil, nil
	}
	out := make([]string, len(arr))
	for i, v := range arr {
		b, _ := json.Marshal(fromValue(v))
		out[i] = string(b)
	}
	return out, nil
}

func toJSONMap(v value.Value) map[string]interface{} {
	obj, ok := v.(*value.Object)
	if !ok {
		return map[string]interface{}{}
	}
	out := map[string]interface{}{}
	for _, k := range obj.Keys() {
		fv, _ := obj.Get(k)
		out[k] = fromValue(fv)
	}
	return out
}

// fromValue converts an engine value.Value to a plain interface{} for
// JSON encoding, used only by the GraphQL bridge's boundary.
func fromValue(v value.Value) interface{} {
	switch t := v.(type) {
	case value.Strand:
		return string(t)
	case *value.Object:
		m := map[string]interface{}{}
		for _, k := range t.Keys() {
			fv, _ := t.Get(k)
			m[k] = fromValue(fv)
		}
		return m
	case value.Array:
		arr := make([]interface{}, len(t))
		for i, e := range t {
			arr[i] = fromValue(e)
		}
		return arr
	default:
		return fmt.Sprintf("%v", v)
	}
}

// fromJSON converts a decoded JSON value back into a value.Value tree
// for the bridge's response envelope.
func fromJSON(v interface{}) value.Value {
	switch t := v.(type) {
	case string:
		return value.Strand(t)
	case map[string]interface{}:
		obj := value.NewObject()
		for k, fv := range t {
			obj.Set(k, fromJSON(fv))
		}
		return obj
	case []interface{}:
		arr := make(value.Array, len(t))
		for i, e := range t {
			arr[i] = fromJSON(e)
		}
		return arr
	case float64:
		return value.NewFloat(t)
	case bool:
		return value.Bool(t)
	case nil:
		return value.Null{}
	default:
		return value.Strand(fmt.Sprintf("%v", t))
	}
}
