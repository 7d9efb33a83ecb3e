package errs

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFromBackendErrorDuplicateKey(t *testing.T) {
	backends := []error{
		errors.New("duplicate key value violates unique constraint"),
		errors.New("Duplicate Key: 0x01"),
	}
	for _, be := range backends {
		got := FromBackendError(be)
		assert.Equal(t, KindTxKeyAlreadyExists, got.Kind)
	}
}

func TestFromBackendErrorConditionNotMet(t *testing.T) {
	got := FromBackendError(errors.New("value not expected"))
	assert.Equal(t, KindTxConditionNotMet, got.Kind)
}

func TestFromBackendErrorFallsBackToTx(t *testing.T) {
	got := FromBackendError(errors.New("disk is on fire"))
	assert.Equal(t, KindTx, got.Kind)
	assert.Equal(t, "disk is on fire", got.Msg)
}

func TestFromBase64AndJWTErrorsCollapseToInvalidAuth(t *testing.T) {
	assert.Equal(t, KindInvalidAuth, FromBase64Error(errors.New("illegal base64 data")).Kind)
	assert.Equal(t, KindInvalidAuth, FromJWTError(errors.New("token is expired")).Kind)
}

func TestSetCheckFromCoerce(t *testing.T) {
	coerce := CoerceTo("a string", "number")
	got := coerce.SetCheckFromCoerce("x")
	want := &Error{Kind: KindSetCheck, Name: "x", From: "a string", Check: "number"}
	assert.Equal(t, want, got)
}

func TestSetCheckFromCoercePassesThroughOtherKinds(t *testing.T) {
	other := TxFinished()
	got := other.SetCheckFromCoerce("x")
	assert.True(t, other == got)
}

func TestFunctionCheckFromCoerce(t *testing.T) {
	coerce := CoerceTo("true", "string")
	got := coerce.FunctionCheckFromCoerce("string::len")
	want := &Error{Kind: KindFunctionCheck, Name: "string::len", From: "true", Check: "string"}
	assert.Equal(t, want, got)
}

func TestErrorIsMatchesByKindAndResource(t *testing.T) {
	err := TableNotFound("person")
	assert.True(t, errors.Is(err, NotFound("table", "")))
	assert.False(t, errors.Is(err, NotFound("namespace", "")))
	assert.False(t, errors.Is(err, AlreadyExists("table", "")))
}

func TestControlFlowKindsNeverDisplayed(t *testing.T) {
	for _, k := range []Kind{KindIgnore, KindBreak, KindContinue, KindReturn, KindRetryWithID} {
		assert.True(t, k.IsControlFlow())
	}
	assert.False(t, KindInvalidAuth.IsControlFlow())
}
