package rpc

import (
	"context"

	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/value"
)

// ReadOnlyDispatcher rejects every method that would mutate session
// state, returning MethodNotFound for it instead of routing to the
// underlying Dispatcher. This lets a transport serve concurrent
// read-only calls on one connection without serialising them behind a
// write lock (spec.md §4.2).
type ReadOnlyDispatcher struct {
	*Dispatcher
}

// NewReadOnly wraps d as a read-only dispatch surface.
func NewReadOnly(d *Dispatcher) *ReadOnlyDispatcher {
	return &ReadOnlyDispatcher{Dispatcher: d}
}

func (r *ReadOnlyDispatcher) Dispatch(ctx context.Context, sess *session.Session, methodName string, params value.Array) (value.Value, error) {
	if mutatingMethods[ParseMethod(methodName)] {
		return nil, newMethodNotFound()
	}
	return r.Dispatcher.Dispatch(ctx, sess, methodName, params)
}
