package value

import "errors"

// ErrInvalidThing is returned by NewThing when the table name is empty or
// the id variant is not one the language allows as a record id.
var ErrInvalidThing = errors.New("value: thing requires a non-empty table and a valid id")

// Thing is a record identifier: a table name paired with an id value. The
// id may be a Number, a Strand, a Uuid, an Array, or an Object — any other
// variant violates the invariant that a Thing always names a concrete
// record.
type Thing struct {
	Table string
	ID    Value
}

// NewThing validates and constructs a Thing.
func NewThing(table string, id Value) (Thing, error) {
	if table == "" {
		return Thing{}, ErrInvalidThing
	}
	switch id.(type) {
	case Number, Strand, Uuid, Array, *Object:
		return Thing{Table: table, ID: id}, nil
	default:
		return Thing{}, ErrInvalidThing
	}
}

func (Thing) Kind() Kind { return KindThing }
func (t Thing) String() string {
	id := ""
	if t.ID != nil {
		id = t.ID.String()
	}
	return t.Table + ":" + id
}
func (Thing) value() {}
