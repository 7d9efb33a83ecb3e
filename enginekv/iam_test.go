package enginekv

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/glyphdb/glyph/value"
)

func TestIAMSignupThenToken(t *testing.T) {
	iam := NewIAM()
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	params := mustObject(t, map[string]value.Value{
		"user": value.Strand("ary"),
		"pass": value.Strand("secret"),
	})
	token, err := iam.Signup(ctx, ds, sess, params)
	assert.NoError(t, err)
	assert.NotNil(t, token)
	assert.NotEmpty(t, *token)

	fresh := newTestSession()
	assert.NoError(t, iam.Token(ctx, ds, fresh, *token))
	assert.True(t, fresh.Authenticated)
	assert.Equal(t, sess.Namespace, fresh.Namespace)
}

func TestIAMSignupTwiceFails(t *testing.T) {
	iam := NewIAM()
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	params := mustObject(t, map[string]value.Value{
		"user": value.Strand("ary"),
		"pass": value.Strand("secret"),
	})
	_, err := iam.Signup(ctx, ds, sess, params)
	assert.NoError(t, err)

	_, err = iam.Signup(ctx, ds, sess, params)
	assert.Error(t, err)
}

func TestIAMSigninWrongPasswordFails(t *testing.T) {
	iam := NewIAM()
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	params := mustObject(t, map[string]value.Value{
		"user": value.Strand("ary"),
		"pass": value.Strand("secret"),
	})
	_, err := iam.Signup(ctx, ds, sess, params)
	assert.NoError(t, err)

	wrong := mustObject(t, map[string]value.Value{
		"user": value.Strand("ary"),
		"pass": value.Strand("nope"),
	})
	_, err = iam.Signin(ctx, ds, sess, wrong)
	assert.Error(t, err)
}

func TestIAMTokenUnknownIsInvalidAuth(t *testing.T) {
	iam := NewIAM()
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	err := iam.Token(ctx, ds, sess, "not-a-real-token")
	assert.Error(t, err)
}

func TestIAMClearResetsSession(t *testing.T) {
	iam := NewIAM()
	sess := newTestSession()
	sess.Authenticated = true
	sess.Token = "x"
	sess.Variables["auth"] = value.Strand("ary")

	assert.NoError(t, iam.Clear(sess))
	assert.False(t, sess.Authenticated)
	assert.Empty(t, sess.Token)
	_, ok := sess.Variables["auth"]
	assert.False(t, ok)
}

func TestIAMSignupThreadsAccessMethodThroughToken(t *testing.T) {
	iam := NewIAM()
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	params := mustObject(t, map[string]value.Value{
		"user": value.Strand("ary"),
		"pass": value.Strand("secret"),
		"ac":   value.Strand("user_scope"),
	})
	token, err := iam.Signup(ctx, ds, sess, params)
	assert.NoError(t, err)

	fresh := newTestSession()
	assert.NoError(t, iam.Token(ctx, ds, fresh, *token))
	assert.Equal(t, "user_scope", fresh.AccessMethod)
}

func TestIAMClearResetsAccessMethod(t *testing.T) {
	iam := NewIAM()
	sess := newTestSession()
	sess.Authenticated = true
	sess.AccessMethod = "user_scope"

	assert.NoError(t, iam.Clear(sess))
	assert.Empty(t, sess.AccessMethod)
}

func TestIAMSigninAcceptsCaseInsensitiveFieldNames(t *testing.T) {
	iam := NewIAM()
	ds := New()
	sess := newTestSession()
	ctx := context.Background()

	params := mustObject(t, map[string]value.Value{
		"User": value.Strand("ary"),
		"Pass": value.Strand("secret"),
	})
	_, err := iam.Signup(ctx, ds, sess, params)
	assert.NoError(t, err)

	signinParams := mustObject(t, map[string]value.Value{
		"USER": value.Strand("ary"),
		"PASS": value.Strand("secret"),
	})
	token, err := iam.Signin(ctx, ds, sess, signinParams)
	assert.NoError(t, err)
	assert.NotNil(t, token)
}
