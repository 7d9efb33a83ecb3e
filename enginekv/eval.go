package enginekv

import (
	"github.com/glyphdb/glyph/errs"
	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/value"
)

// eval resolves params against vars/session and evaluates additive
// expressions, descending into object fields, array items and value
// subqueries. Every other Value kind passes through unchanged: full
// per-document idiom resolution needs the real storage engine's field
// index, out of scope here (spec.md §1).
func eval(v value.Value, sess *session.Session, vars session.Vars) (value.Value, error) {
	switch t := v.(type) {
	case value.Param:
		if val, ok := vars[t.Name]; ok {
			return val, nil
		}
		if sess != nil {
			if val, ok := sess.Variables[t.Name]; ok {
				return val, nil
			}
		}
		return value.None{}, nil
	case value.Expression:
		return evalExpression(t, sess, vars)
	case *value.Object:
		out := value.NewObject()
		for _, k := range t.Keys() {
			fv, _ := t.Get(k)
			rv, err := eval(fv, sess, vars)
			if err != nil {
				return nil, err
			}
			out.Set(k, rv)
		}
		return out, nil
	case value.Array:
		out := make(value.Array, len(t))
		for i, item := range t {
			rv, err := eval(item, sess, vars)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	case value.Subquery:
		if t.SubKind == value.SubqueryValue && t.Value != nil {
			return eval(t.Value, sess, vars)
		}
		return v, nil
	default:
		return v, nil
	}
}

func evalExpression(e value.Expression, sess *session.Session, vars session.Vars) (value.Value, error) {
	left, err := eval(e.Left, sess, vars)
	if err != nil {
		return nil, err
	}
	right, err := eval(e.Right, sess, vars)
	if err != nil {
		return nil, err
	}

	ln, lok := left.(value.Number)
	rn, rok := right.(value.Number)
	if lok && rok {
		return addNumbers(ln, rn, e.Op), nil
	}

	ls, lsok := left.(value.Strand)
	rs, rsok := right.(value.Strand)
	if lsok && rsok && e.Op == "+" {
		return value.Strand(string(ls) + string(rs)), nil
	}

	return nil, errs.CoerceTo(left.Kind().String(), "number")
}

// addNumbers combines two numbers in the narrowest representation that
// both operands support: decimal beats float beats int, the same
// narrowing rule the literal parser applies (syn/parser/literals.go).
func addNumbers(a, b value.Number, op string) value.Number {
	switch {
	case a.IsDecimal() || b.IsDecimal():
		ad, bd := a.AsDecimal(), b.AsDecimal()
		if op == "-" {
			return value.NewDecimal(ad.Sub(bd))
		}
		return value.NewDecimal(ad.Add(bd))
	case a.IsFloat() || b.IsFloat():
		if op == "-" {
			return value.NewFloat(a.AsFloat64() - b.AsFloat64())
		}
		return value.NewFloat(a.AsFloat64() + b.AsFloat64())
	default:
		if op == "-" {
			return value.NewInt(a.AsInt64() - b.AsInt64())
		}
		return value.NewInt(a.AsInt64() + b.AsInt64())
	}
}

// truthy applies the language's value-to-bool coercion used by IF
// statements: Bool values use their own rule, Number
// values use the epsilon rule, None/Null are false, everything else
// (strings, objects, arrays, things) is true once present.
func truthy(v value.Value) bool {
	switch t := v.(type) {
	case value.Bool:
		return bool(t)
	case value.Number:
		return t.Truthy()
	case value.None:
		return false
	case value.Null:
		return false
	case nil:
		return false
	default:
		return true
	}
}
