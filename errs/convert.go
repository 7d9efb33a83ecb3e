package errs

import "strings"

// FromBackendError collapses a pluggable KV backend's error into the
// taxonomy. Every supported backend reports duplicate-key, condition,
// and size-limit failures as plain strings (there is no shared Go error
// type across backends to type-switch on), so the mapping matches on the
// well-known substrings each backend is documented to produce; anything
// else becomes a generic Tx(msg).
func FromBackendError(err error) *Error {
	if err == nil {
		return nil
	}
	if existing, ok := err.(*Error); ok {
		return existing
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	var out *Error
	switch {
	case strings.Contains(lower, "duplicate key"):
		out = TxKeyAlreadyExists()
	case strings.Contains(lower, "value not expected"):
		out = TxConditionNotMet()
	case strings.Contains(lower, "key is too large") || strings.Contains(lower, "key too large"):
		out = TxKeyTooLarge()
	case strings.Contains(lower, "value is too large") || strings.Contains(lower, "value too large"):
		out = TxValueTooLarge()
	case strings.Contains(lower, "transaction is too large") || strings.Contains(lower, "transaction too large"):
		out = TxTooLarge()
	default:
		out = Tx(msg)
	}
	out.cause = err
	return out
}

// FromBase64Error and FromJWTError both collapse to InvalidAuth: a
// malformed credential must not let a client distinguish a bad base64
// envelope from a bad signature.
func FromBase64Error(err error) *Error {
	if err == nil {
		return nil
	}
	return InvalidAuth()
}

func FromJWTError(err error) *Error {
	if err == nil {
		return nil
	}
	return InvalidAuth()
}
