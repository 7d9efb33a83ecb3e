package rpc_test

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/glyphdb/glyph/enginekv"
	"github.com/glyphdb/glyph/rpc"
	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/value"
)

func newDispatcher() *rpc.Dispatcher {
	d := rpc.New(enginekv.New(), enginekv.NewIAM())
	d.LQSupport = true
	return d
}

func TestPingReturnsNone(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	v, err := d.Dispatch(context.Background(), sess, "ping", nil)
	assert.NoError(t, err)
	assert.Equal(t, value.None{}, v)
}

func TestUseClearNamespaceWhileDatabaseSetFails(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	sess.Namespace = "ns"
	sess.Database = "db"

	_, err := d.Dispatch(context.Background(), sess, "use", value.Array{value.Null{}, value.None{}})
	assert.Error(t, err)
	rpcErr, ok := err.(*rpc.Error)
	assert.True(t, ok)
	assert.Equal(t, rpc.InvalidParams, rpcErr.Kind)
}

func TestUseSetsNamespaceAndDatabase(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	_, err := d.Dispatch(context.Background(), sess, "use", value.Array{value.Strand("ns"), value.Strand("db")})
	assert.NoError(t, err)
	assert.Equal(t, "ns", sess.Namespace)
	assert.Equal(t, "db", sess.Database)
}

func TestUseLeavesUnchangedOnNone(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	sess.Namespace = "ns"
	_, err := d.Dispatch(context.Background(), sess, "use", value.Array{value.None{}, value.Strand("db")})
	assert.NoError(t, err)
	assert.Equal(t, "ns", sess.Namespace)
	assert.Equal(t, "db", sess.Database)
}

func TestSetStoresVariable(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	_, err := d.Dispatch(context.Background(), sess, "set", value.Array{value.Strand("name"), value.Strand("ary")})
	assert.NoError(t, err)
	assert.Equal(t, value.Strand("ary"), sess.Variables["name"])
}

func TestSetToNoneRemovesVariable(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	sess.Variables["name"] = value.Strand("ary")
	_, err := d.Dispatch(context.Background(), sess, "set", value.Array{value.Strand("name"), value.None{}})
	assert.NoError(t, err)
	_, ok := sess.Variables["name"]
	assert.False(t, ok)
}

func TestSetProtectedVariableFails(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	_, err := d.Dispatch(context.Background(), sess, "set", value.Array{value.Strand("token"), value.Strand("x")})
	assert.Error(t, err)
	rpcErr, ok := err.(*rpc.Error)
	assert.True(t, ok)
	assert.Equal(t, rpc.InvalidParams, rpcErr.Kind)
}

func TestReadOnlyDispatcherRejectsMutatingMethod(t *testing.T) {
	ro := rpc.NewReadOnly(newDispatcher())
	sess := session.New()
	_, err := ro.Dispatch(context.Background(), sess, "set", value.Array{value.Strand("x"), value.Strand("y")})
	assert.Error(t, err)
	rpcErr, ok := err.(*rpc.Error)
	assert.True(t, ok)
	assert.Equal(t, rpc.MethodNotFound, rpcErr.Kind)
}

func TestReadOnlyDispatcherAllowsSelect(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	ro := rpc.NewReadOnly(d)

	_, err := d.Dispatch(context.Background(), sess, "create", value.Array{value.Strand("person")})
	assert.NoError(t, err)

	v, err := ro.Dispatch(context.Background(), sess, "select", value.Array{value.Strand("person")})
	assert.NoError(t, err)
	arr, ok := v.(value.Array)
	assert.True(t, ok)
	assert.Len(t, arr, 1)
}

func TestCreateThenSelectSpecificRecordCollapsesToSingleValue(t *testing.T) {
	d := newDispatcher()
	sess := session.New()

	thing := value.Thing{Table: "person", ID: value.NewInt(1)}
	_, err := d.Dispatch(context.Background(), sess, "create", value.Array{thing})
	assert.NoError(t, err)

	v, err := d.Dispatch(context.Background(), sess, "select", value.Array{thing})
	assert.NoError(t, err)
	_, isArray := v.(value.Array)
	assert.False(t, isArray, "expected a single collapsed value, got an array")
	_, isObject := v.(*value.Object)
	assert.True(t, isObject)
}

func TestRunCustomFunctionDispatch(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	v, err := d.Dispatch(context.Background(), sess, "run", value.Array{
		value.Strand("fn::greet"), value.None{}, value.Array{value.Strand("ary")},
	})
	assert.NoError(t, err)
	// enginekv.Compute passes an unresolved Function through unchanged.
	fn, ok := v.(value.Function)
	assert.True(t, ok)
	assert.Equal(t, "greet", fn.Name)
}

func TestRunMLWithoutVersionFails(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	_, err := d.Dispatch(context.Background(), sess, "run", value.Array{value.Strand("ml::sentiment")})
	assert.Error(t, err)
	rpcErr, ok := err.(*rpc.Error)
	assert.True(t, ok)
	assert.Equal(t, rpc.InvalidParams, rpcErr.Kind)
}

func TestSigninWrongPasswordIsThrown(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	signupParams := value.NewObject()
	signupParams.Set("user", value.Strand("ary"))
	signupParams.Set("pass", value.Strand("secret"))
	_, err := d.Dispatch(context.Background(), sess, "signup", value.Array{signupParams})
	assert.NoError(t, err)

	badParams := value.NewObject()
	badParams.Set("user", value.Strand("ary"))
	badParams.Set("pass", value.Strand("nope"))
	_, err = d.Dispatch(context.Background(), sess, "signin", value.Array{badParams})
	assert.Error(t, err)
	rpcErr, ok := err.(*rpc.Error)
	assert.True(t, ok)
	assert.Equal(t, rpc.Thrown, rpcErr.Kind)
}

func TestQueryAcceptsRawString(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	v, err := d.Dispatch(context.Background(), sess, "query", value.Array{value.Strand("RETURN 1")})
	assert.NoError(t, err)
	arr, ok := v.(value.Array)
	assert.True(t, ok)
	assert.Len(t, arr, 1)
}

func TestLiveThenKillThroughDispatcher(t *testing.T) {
	d := newDispatcher()
	sess := session.New()

	v, err := d.Dispatch(context.Background(), sess, "live", value.Array{value.Strand("person")})
	assert.NoError(t, err)
	_, ok := v.(value.Uuid)
	assert.True(t, ok)

	_, err = d.Dispatch(context.Background(), sess, "kill", value.Array{v})
	assert.NoError(t, err)
}

func TestGraphQLDisabledByDefault(t *testing.T) {
	d := newDispatcher()
	sess := session.New()
	_, err := d.Dispatch(context.Background(), sess, "graphql", value.Array{value.Strand(`{"query":"{ping}"}`)})
	assert.Error(t, err)
	rpcErr, ok := err.(*rpc.Error)
	assert.True(t, ok)
	assert.Equal(t, rpc.BadGQLConfig, rpcErr.Kind)
}
