package rpc

import (
	"strconv"

	"github.com/glyphdb/glyph/value"
)

// Params is the RPC parameter array a method call carries; the shape
// each handler expects is enforced by the needs* helpers below rather
// than by per-field struct tags, mirroring the source's small Take
// protocol (spec.md §4.2).
type Params value.Array

func (p Params) needsZero() error {
	if len(p) != 0 {
		return newInvalidParams("expected 0 parameters, got " + strconv.Itoa(len(p)))
	}
	return nil
}

func (p Params) needsOne() (value.Value, error) {
	if len(p) != 1 {
		return nil, newInvalidParams("expected 1 parameter, got " + strconv.Itoa(len(p)))
	}
	return p[0], nil
}

func (p Params) needsTwo() (value.Value, value.Value, error) {
	if len(p) != 2 {
		return nil, nil, newInvalidParams("expected 2 parameters, got " + strconv.Itoa(len(p)))
	}
	return p[0], p[1], nil
}

// needsOneOrTwo returns value.None{} for the second param when absent.
func (p Params) needsOneOrTwo() (value.Value, value.Value, error) {
	switch len(p) {
	case 1:
		return p[0], value.None{}, nil
	case 2:
		return p[0], p[1], nil
	default:
		return nil, nil, newInvalidParams("expected 1 or 2 parameters, got " + strconv.Itoa(len(p)))
	}
}

// needsOneTwoOrThree fills absent trailing params with value.None{}.
func (p Params) needsOneTwoOrThree() (value.Value, value.Value, value.Value, error) {
	switch len(p) {
	case 1:
		return p[0], value.None{}, value.None{}, nil
	case 2:
		return p[0], p[1], value.None{}, nil
	case 3:
		return p[0], p[1], p[2], nil
	default:
		return nil, nil, nil, newInvalidParams("expected 1, 2, or 3 parameters, got " + strconv.Itoa(len(p)))
	}
}

// needsThreeOrFour fills an absent fourth param with value.None{}.
func (p Params) needsThreeOrFour() (value.Value, value.Value, value.Value, value.Value, error) {
	switch len(p) {
	case 3:
		return p[0], p[1], p[2], value.None{}, nil
	case 4:
		return p[0], p[1], p[2], p[3], nil
	default:
		return nil, nil, nil, nil, newInvalidParams("expected 3 or 4 parameters, got " + strconv.Itoa(len(p)))
	}
}

func isNoneLike(v value.Value) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case value.None:
		return true
	default:
		return false
	}
}

func isNullLike(v value.Value) bool {
	_, ok := v.(value.Null)
	return ok
}

func asStrand(v value.Value) (string, bool) {
	s, ok := v.(value.Strand)
	return string(s), ok
}

func asObject(v value.Value) (*value.Object, bool) {
	o, ok := v.(*value.Object)
	return o, ok
}
