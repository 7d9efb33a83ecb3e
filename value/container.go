package value

import (
	"strings"

	"golang.org/x/text/cases"
)

var fieldFold = cases.Fold()

// Array is an ordered sequence of values.
type Array []Value

func (Array) Kind() Kind { return KindArray }
func (a Array) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (Array) value() {}

// Object is an insertion-ordered mapping from string to Value. Go's map
// does not preserve insertion order, so Object keeps an explicit key slice
// alongside the lookup map to satisfy the invariant that serialisation is
// deterministic.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty, insertion-ordered Object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (*Object) Kind() Kind { return KindObject }

func (o *Object) value() {}

// Set inserts or updates key with val, appending key to the insertion
// order only the first time it is seen.
func (o *Object) Set(key string, val Value) {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = val
}

// Get returns the value stored under key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.values == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// GetFold looks up key the way Get does, falling back to a Unicode
// case-insensitive scan of the existing keys when no exact match is
// found. The IAM reference implementation uses it to read credential
// fields from a signup/signin object regardless of key case.
func (o *Object) GetFold(key string) (Value, bool) {
	if v, ok := o.Get(key); ok {
		return v, true
	}
	if o == nil {
		return nil, false
	}
	folded := fieldFold.String(key)
	for _, k := range o.keys {
		if fieldFold.String(k) == folded {
			return o.values[k], true
		}
	}
	return nil, false
}

// Delete removes key, preserving the relative order of the rest.
func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len reports the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) String() string {
	if o == nil || len(o.keys) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		parts = append(parts, k+": "+o.values[k].String())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Range is an inclusive-or-exclusive span between two bounds, used both as
// a standalone value and inside Thing ids. Mock stores its own integer
// bounds and does not use Range.
type Range struct {
	From      Value
	To        Value
	Inclusive bool
}

func (Range) Kind() Kind { return KindRange }
func (r Range) String() string {
	op := ".."
	if r.Inclusive {
		op = "..="
	}
	from, to := "", ""
	if r.From != nil {
		from = r.From.String()
	}
	if r.To != nil {
		to = r.To.String()
	}
	return from + op + to
}
func (Range) value() {}

// Direction is the arrow direction of a graph traversal step.
type Direction uint8

const (
	DirOut Direction = iota
	DirIn
	DirBoth
)

func (d Direction) String() string {
	switch d {
	case DirOut:
		return "->"
	case DirIn:
		return "<-"
	default:
		return "<->"
	}
}

// Edges is a graph traversal expression: a direction and a target table
// or idiom, as produced by "->likes" or "<-knows->person".
type Edges struct {
	Dir    Direction
	Target Value
}

func (Edges) Kind() Kind { return KindEdges }
func (e Edges) String() string {
	target := ""
	if e.Target != nil {
		target = e.Target.String()
	}
	return e.Dir.String() + target
}
func (Edges) value() {}
