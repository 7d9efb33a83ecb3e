package value

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// None represents the absence of a value distinct from Null, used when a
// parameter or field was never supplied.
type None struct{}

func (None) Kind() Kind   { return KindNone }
func (None) String() string { return "NONE" }
func (None) value()       {}

// Null is the explicit SQL-style null.
type Null struct{}

func (Null) Kind() Kind   { return KindNull }
func (Null) String() string { return "NULL" }
func (Null) value()       {}

// Bool is a boolean value.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) value() {}

// Strand is a string literal value.
type Strand string

func (Strand) Kind() Kind     { return KindStrand }
func (s Strand) String() string { return "'" + strings.ReplaceAll(string(s), "'", "\\'") + "'" }
func (Strand) value()         {}

// Duration wraps a time.Duration with the language's own display form.
type Duration time.Duration

func (Duration) Kind() Kind     { return KindDuration }
func (d Duration) String() string { return time.Duration(d).String() }
func (Duration) value()         {}

// Datetime is an absolute point in time.
type Datetime time.Time

func (Datetime) Kind() Kind { return KindDatetime }
func (d Datetime) String() string {
	return "d'" + time.Time(d).UTC().Format(time.RFC3339Nano) + "'"
}
func (Datetime) value() {}

// Uuid is a 128-bit unique identifier value.
type Uuid uuid.UUID

func (Uuid) Kind() Kind     { return KindUuid }
func (u Uuid) String() string { return "u'" + uuid.UUID(u).String() + "'" }
func (Uuid) value()         {}

// Bytes is an opaque byte string.
type Bytes []byte

func (Bytes) Kind() Kind     { return KindBytes }
func (b Bytes) String() string { return fmt.Sprintf("<bytes:%d>", len(b)) }
func (Bytes) value()         {}

// Param is a named session/user variable reference, e.g. $name.
type Param struct {
	Name string
}

func (Param) Kind() Kind       { return KindParam }
func (p Param) String() string { return "$" + p.Name }
func (Param) value()           {}

// Table is a bare table reference used as a DML target.
type Table struct {
	Name string
}

func (Table) Kind() Kind       { return KindTable }
func (t Table) String() string { return t.Name }
func (Table) value()           {}

// Regex is a parsed regular expression literal. Source preserves the
// pattern exactly as written between the slashes, with escaped slashes
// unescaped, matching the surface syntax /(?i)test\/[a-z]+/.
type Regex struct {
	Source string
}

func (Regex) Kind() Kind { return KindRegex }
func (r Regex) String() string {
	return "/" + strings.ReplaceAll(r.Source, "/", "\\/") + "/"
}
func (Regex) value() {}
