// Package enginekv is an in-memory reference implementation of the
// engine.Datastore and engine.IAM contracts, sufficient to exercise the
// parser and the rpc dispatcher in tests. It is not a production storage
// engine: there is no persistence beyond the optional snapshot file, no
// transaction isolation, and no index planning (spec.md §1 places the real
// query planner out of scope).
package enginekv

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/glyphdb/glyph/errs"
	"github.com/glyphdb/glyph/value"
)

// table is one namespace.database.table's record set, keyed by the
// string form of the record id so Number, Strand, and Uuid ids all work
// as map keys uniformly.
type table struct {
	mu      sync.RWMutex
	records map[string]*value.Object
	order   []string
}

func newTable() *table {
	return &table{records: make(map[string]*value.Object)}
}

func (t *table) get(id string) (*value.Object, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[id]
	return rec, ok
}

func (t *table) put(id string, rec *value.Object) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.records[id]; !ok {
		t.order = append(t.order, id)
	}
	t.records[id] = rec
}

func (t *table) delete(id string) (*value.Object, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[id]
	if !ok {
		return nil, false
	}
	delete(t.records, id)
	for i, k := range t.order {
		if k == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return rec, true
}

func (t *table) all() []*value.Object {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*value.Object, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.records[id])
	}
	return out
}

func (t *table) allIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	sort.Strings(out)
	return out
}

// Store is a single namespace/database's set of tables plus a monotonic id
// generator used to satisfy CREATE on a bare table reference.
type Store struct {
	mu      sync.RWMutex
	tables  map[string]*table
	counter int64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*table)}
}

func (s *Store) table(name string) *table {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok {
		t = newTable()
		s.tables[name] = t
	}
	return t
}

// nextID returns a new integer id unique within the Store, mirroring the
// teacher corpus's generated-id pattern for bare CREATE targets.
func (s *Store) nextID() value.Number {
	return value.NewInt(atomic.AddInt64(&s.counter, 1))
}

func thingKey(id value.Value) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// withID returns a clone of obj with its "id" field set to thing, the
// representation every record carries once stored: the reference store
// bakes id into the object rather than tracking it out-of-band, so
// SELECT * reproduces it.
func withID(thing value.Thing, obj *value.Object) *value.Object {
	out := value.NewObject()
	if obj != nil {
		for _, k := range obj.Keys() {
			v, _ := obj.Get(k)
			out.Set(k, v)
		}
	}
	out.Set("id", thing)
	return out
}

func cloneObject(obj *value.Object) *value.Object {
	out := value.NewObject()
	if obj == nil {
		return out
	}
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		out.Set(k, v)
	}
	return out
}

// mergeObjects overlays patch's fields onto base, returning a new Object;
// base is left untouched.
func mergeObjects(base, patch *value.Object) *value.Object {
	out := cloneObject(base)
	if patch == nil {
		return out
	}
	for _, k := range patch.Keys() {
		v, _ := patch.Get(k)
		out.Set(k, v)
	}
	return out
}

func (s *Store) create(thing value.Thing, content *value.Object) (*value.Object, error) {
	tb := s.table(thing.Table)
	key := thingKey(thing.ID)
	if _, ok := tb.get(key); ok {
		return nil, recordExistsErr(thing)
	}
	rec := withID(thing, content)
	tb.put(key, rec)
	return rec, nil
}

func (s *Store) upsert(thing value.Thing, content *value.Object) *value.Object {
	tb := s.table(thing.Table)
	key := thingKey(thing.ID)
	existing, ok := tb.get(key)
	var rec *value.Object
	if ok {
		rec = withID(thing, mergeObjects(existing, content))
	} else {
		rec = withID(thing, content)
	}
	tb.put(key, rec)
	return rec
}

func (s *Store) delete(thing value.Thing) (*value.Object, bool) {
	return s.table(thing.Table).delete(thingKey(thing.ID))
}

func (s *Store) selectOne(thing value.Thing) (*value.Object, bool) {
	return s.table(thing.Table).get(thingKey(thing.ID))
}

func (s *Store) selectAll(tableName string) []*value.Object {
	return s.table(tableName).all()
}

func recordExistsErr(thing value.Thing) error {
	return errs.AlreadyExists("record", thing.String())
}
