package errs

import (
	"fmt"

	"github.com/glyphdb/glyph/value"
)

// Control-flow sentinels.

func Ignore() *Error   { return &Error{Kind: KindIgnore} }
func Break() *Error    { return &Error{Kind: KindBreak} }
func Continue() *Error { return &Error{Kind: KindContinue} }

func Return(v value.Value) *Error {
	return &Error{Kind: KindReturn, ReturnValue: v}
}

func RetryWithID(thing string) *Error {
	return &Error{Kind: KindRetryWithID, RetryThing: thing}
}

// Parse errors.

func InvalidQuery(msg string) *Error {
	return &Error{Kind: KindInvalidQuery, Msg: msg}
}

func QueryRemaining() *Error { return &Error{Kind: KindQueryRemaining} }

func ComputationDepthExceeded() *Error { return &Error{Kind: KindComputationDepthExceeded} }

// DisallowedStatement reports a reserved keyword found where an
// expression was expected, e.g. inside "(BEGIN ...)".
func DisallowedStatement(keyword string) *Error {
	return &Error{Kind: KindDisallowedStatement, Name: keyword}
}

// Resource not-found / already-exists, parameterised by resource kind so
// the taxonomy does not need a distinct Go type per resource while still
// preserving the discriminant via (Kind, Resource).

func NotFound(resource, name string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource, Name: name}
}

func AlreadyExists(resource, name string) *Error {
	return &Error{Kind: KindAlreadyExists, Resource: resource, Name: name}
}

func IndexExists(thing, index, value string) *Error {
	return &Error{Kind: KindIndexExists, Thing: thing, Index: index, Value: value}
}

// Convenience wrappers naming the fifteen resource kinds listed in the
// spec, all backed by the same NotFound/AlreadyExists pair.
func NamespaceNotFound(name string) *Error    { return NotFound("namespace", name) }
func DatabaseNotFound(name string) *Error     { return NotFound("database", name) }
func TableNotFound(name string) *Error        { return NotFound("table", name) }
func FieldNotFound(name string) *Error        { return NotFound("field", name) }
func EventNotFound(name string) *Error        { return NotFound("event", name) }
func FunctionNotFound(name string) *Error     { return NotFound("function", name) }
func ParamNotFound(name string) *Error        { return NotFound("param", name) }
func AnalyzerNotFound(name string) *Error     { return NotFound("analyzer", name) }
func IndexNotFound(name string) *Error        { return NotFound("index", name) }
func ModelNotFound(name string) *Error        { return NotFound("model", name) }
func UserNotFound(name string) *Error         { return NotFound("user", name) }
func AccessNotFound(name string) *Error       { return NotFound("access", name) }
func AccessGrantNotFound(name string) *Error  { return NotFound("access grant", name) }
func LiveQueryNotFound(name string) *Error    { return NotFound("live query", name) }
func ClusterNodeNotFound(name string) *Error  { return NotFound("cluster node", name) }

func NamespaceAlreadyExists(name string) *Error { return AlreadyExists("namespace", name) }
func DatabaseAlreadyExists(name string) *Error  { return AlreadyExists("database", name) }
func TableAlreadyExists(name string) *Error     { return AlreadyExists("table", name) }
func FieldAlreadyExists(name string) *Error     { return AlreadyExists("field", name) }
func UserAlreadyExists(name string) *Error      { return AlreadyExists("user", name) }
func AccessAlreadyExists(name string) *Error    { return AlreadyExists("access", name) }

// Transaction errors.

func TxFinished() *Error         { return &Error{Kind: KindTxFinished} }
func TxReadonly() *Error         { return &Error{Kind: KindTxReadonly} }
func TxConditionNotMet() *Error  { return &Error{Kind: KindTxConditionNotMet} }
func TxKeyAlreadyExists() *Error { return &Error{Kind: KindTxKeyAlreadyExists} }
func TxKeyTooLarge() *Error      { return &Error{Kind: KindTxKeyTooLarge} }
func TxValueTooLarge() *Error    { return &Error{Kind: KindTxValueTooLarge} }
func TxTooLarge() *Error         { return &Error{Kind: KindTxTooLarge} }
func Tx(msg string) *Error       { return &Error{Kind: KindTx, Msg: msg} }

// Coercion errors and the two targeted rewrite hooks from spec §4.3.

func CoerceTo(from, into string) *Error {
	return &Error{Kind: KindCoerceTo, From: from, Into: into}
}

// SetCheckFromCoerce rewrites a CoerceTo into a SetCheck naming the
// session variable that failed to accept the value; any other Kind
// passes through unchanged, per spec §4.3.
func (e *Error) SetCheckFromCoerce(name string) *Error {
	if e == nil || e.Kind != KindCoerceTo {
		return e
	}
	return &Error{Kind: KindSetCheck, Name: name, From: e.From, Check: e.Into}
}

// FunctionCheckFromCoerce rewrites a CoerceTo into a FunctionCheck naming
// the function whose argument failed to coerce; any other Kind passes
// through unchanged.
func (e *Error) FunctionCheckFromCoerce(name string) *Error {
	if e == nil || e.Kind != KindCoerceTo {
		return e
	}
	return &Error{Kind: KindFunctionCheck, Name: name, From: e.From, Check: e.Into}
}

// Auth errors.

func InvalidAuth() *Error    { return &Error{Kind: KindInvalidAuth} }
func ExpiredSession() *Error { return &Error{Kind: KindExpiredSession} }
func MissingToken() *Error   { return &Error{Kind: KindMissingToken} }

func SignupFailed(msg string) *Error { return &Error{Kind: KindSignupFailed, Msg: msg} }
func SigninFailed(msg string) *Error { return &Error{Kind: KindSigninFailed, Msg: msg} }

func InvalidParam(name string) *Error { return &Error{Kind: KindInvalidParam, Name: name} }

// Capability errors.

func ScriptingDisabled() *Error { return &Error{Kind: KindScriptingDisabled} }
func FunctionNotAllowed(name string) *Error {
	return &Error{Kind: KindFunctionNotAllowed, Name: name}
}
func NetworkTargetNotAllowed(target string) *Error {
	return &Error{Kind: KindNetworkTargetNotAllowed, Name: target}
}

// Query execution errors.

func QueryCancelled() *Error       { return &Error{Kind: KindQueryCancelled} }
func QueryTimedout() *Error        { return &Error{Kind: KindQueryTimedout} }
func InvalidTimeout(msg string) *Error { return &Error{Kind: KindInvalidTimeout, Msg: msg} }
func CorruptedIndex() *Error       { return &Error{Kind: KindCorruptedIndex} }

// Internal is the last resort, used only when no other variant fits.
func Internal(msg string) *Error { return &Error{Kind: KindInternal, Msg: msg} }

func Internalf(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...)}
}
