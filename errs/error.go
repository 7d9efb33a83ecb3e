package errs

import (
	"fmt"

	"github.com/glyphdb/glyph/value"
)

// Error is the single concrete type backing every taxonomy variant. Only
// the fields relevant to Kind are populated; String() switches on Kind to
// produce the one human-readable form clients ever see.
type Error struct {
	Kind Kind

	// Resource errors.
	Resource string
	Name     string
	Thing    string
	Index    string
	Value    string

	// Coercion / checks.
	From  string
	Into  string
	Check string

	// Control flow.
	ReturnValue value.Value
	RetryThing  string

	// Generic message, used by Tx, Internal, and backend passthroughs.
	Msg string

	cause error
}

// Error implements the error interface. There is no structured JSON
// projection: clients see exactly this string.
func (e *Error) Error() string { return e.display() }

// Unwrap exposes the underlying backend error, when one was recorded by a
// conversion helper, to support errors.As against the original cause.
func (e *Error) Unwrap() error { return e.cause }

// Is implements errors.Is by Kind equality plus, for resource errors, by
// Resource equality — so errors.Is(err, errs.NotFound("table", "")) matches
// any NotFound of kind "table" regardless of Name.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != other.Kind {
		return false
	}
	if e.Kind == KindNotFound || e.Kind == KindAlreadyExists {
		if other.Resource == "" {
			return true
		}
		return e.Resource == other.Resource
	}
	return true
}

func (e *Error) display() string {
	switch e.Kind {
	case KindIgnore:
		return "ignored"
	case KindBreak:
		return "break"
	case KindContinue:
		return "continue"
	case KindReturn:
		return "return"
	case KindRetryWithID:
		return fmt.Sprintf("retry with id %q", e.RetryThing)
	case KindInvalidQuery:
		return fmt.Sprintf("parse error: %s", e.Msg)
	case KindQueryRemaining:
		return "the query still has characters remaining"
	case KindComputationDepthExceeded:
		return "exceeded computation depth"
	case KindDisallowedStatement:
		return fmt.Sprintf("found %q, but this is not allowed in expression position", e.Name)
	case KindNotFound:
		return fmt.Sprintf("the %s '%s' does not exist", e.Resource, e.Name)
	case KindAlreadyExists:
		return fmt.Sprintf("the %s '%s' already exists", e.Resource, e.Name)
	case KindIndexExists:
		return fmt.Sprintf("database index '%s' already contains %s, with record %s", e.Index, e.Value, e.Thing)
	case KindTxFinished:
		return "transaction is finished"
	case KindTxReadonly:
		return "transaction is read-only"
	case KindTxConditionNotMet:
		return "value being checked was not correct"
	case KindTxKeyAlreadyExists:
		return "the key already exists in the datastore"
	case KindTxKeyTooLarge:
		return "the key being inserted in the transaction is too large"
	case KindTxValueTooLarge:
		return "the value being inserted in the transaction is too large"
	case KindTxTooLarge:
		return "the transaction was too large"
	case KindTx:
		return fmt.Sprintf("there was an error with the underlying datastore: %s", e.Msg)
	case KindCoerceTo:
		return fmt.Sprintf("expected value of type '%s' but cannot convert %s into it", e.Into, e.From)
	case KindSetCheck:
		return fmt.Sprintf("couldn't set parameter $%s because it expects a value of type '%s' but got %s", e.Name, e.Check, e.From)
	case KindFunctionCheck:
		return fmt.Sprintf("invalid argument for function %s(): expects a value of type '%s' but got %s", e.Name, e.Check, e.From)
	case KindInvalidAuth:
		return "there was a problem with authentication"
	case KindExpiredSession:
		return "the session has expired"
	case KindSignupFailed:
		return fmt.Sprintf("there was a problem with signup: %s", e.Msg)
	case KindSigninFailed:
		return fmt.Sprintf("there was a problem with signin: %s", e.Msg)
	case KindMissingToken:
		return "no authentication token was supplied"
	case KindInvalidParam:
		return fmt.Sprintf("'%s' is a protected variable and cannot be set", e.Name)
	case KindScriptingDisabled:
		return "scripting functions are not allowed"
	case KindFunctionNotAllowed:
		return fmt.Sprintf("function '%s' is not allowed", e.Name)
	case KindNetworkTargetNotAllowed:
		return fmt.Sprintf("network target '%s' is not allowed", e.Name)
	case KindQueryCancelled:
		return "the query was not executed due to a cancelled transaction"
	case KindQueryTimedout:
		return "the query was not executed due to a timeout"
	case KindInvalidTimeout:
		return fmt.Sprintf("invalid timeout: %s", e.Msg)
	case KindCorruptedIndex:
		return "corrupted index found"
	case KindIO:
		return fmt.Sprintf("i/o error: %s", e.Msg)
	case KindEncoding:
		return fmt.Sprintf("encoding error: %s", e.Msg)
	case KindRegex:
		return fmt.Sprintf("invalid regular expression: %s", e.Msg)
	case KindHTTP:
		return fmt.Sprintf("http error: %s", e.Msg)
	case KindChannel:
		return fmt.Sprintf("channel error: %s", e.Msg)
	case KindObjectStore:
		return fmt.Sprintf("object store error: %s", e.Msg)
	case KindBincode:
		return fmt.Sprintf("bincode error: %s", e.Msg)
	case KindFST:
		return fmt.Sprintf("fst error: %s", e.Msg)
	case KindInternal:
		return e.Msg
	default:
		return "an unknown error occurred"
	}
}
