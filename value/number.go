package value

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// NumberKind distinguishes the three numeric representations the language
// supports: machine integers, IEEE floats, and arbitrary-precision decimals.
type NumberKind uint8

const (
	NumberInt NumberKind = iota
	NumberFloat
	NumberDecimal
)

// truthyEpsilon mirrors the tolerance the runtime uses when deciding
// whether a float is "truthy" for boolean coercion, so that values like
// 1e-300 read as false the same way they would after a lossy round-trip.
const truthyEpsilon = 1e-10

var epsilonDecimal = decimal.NewFromFloat(truthyEpsilon)

// Number is the Value::Number variant: signed integer, float, or
// arbitrary-precision decimal, tagged by NumberKind.
type Number struct {
	kind NumberKind
	i    int64
	f    float64
	d    decimal.Decimal
}

func (Number) Kind() Kind { return KindNumber }
func (Number) value()     {}

// NewInt builds an integer number.
func NewInt(i int64) Number { return Number{kind: NumberInt, i: i} }

// NewFloat builds a float number.
func NewFloat(f float64) Number { return Number{kind: NumberFloat, f: f} }

// NewDecimal builds an arbitrary-precision decimal number.
func NewDecimal(d decimal.Decimal) Number { return Number{kind: NumberDecimal, d: d} }

// NumberKind reports which representation this Number carries.
func (n Number) NumberKind() NumberKind { return n.kind }

// IsFloat reports whether this number is the float variant.
func (n Number) IsFloat() bool { return n.kind == NumberFloat }

// IsDecimal reports whether this number is the decimal variant.
func (n Number) IsDecimal() bool { return n.kind == NumberDecimal }

// IsInt reports whether this number is the integer variant.
func (n Number) IsInt() bool { return n.kind == NumberInt }

// IsNaN reports whether a float-variant number is NaN. Int and decimal
// numbers can never be NaN. Geometry coordinates reject this case with a
// dedicated diagnostic (see syn/parser's coordinate disambiguation).
func (n Number) IsNaN() bool {
	return n.kind == NumberFloat && math.IsNaN(n.f)
}

func (n Number) String() string {
	switch n.kind {
	case NumberInt:
		return strconv.FormatInt(n.i, 10)
	case NumberFloat:
		return strconv.FormatFloat(n.f, 'g', -1, 64) + "f"
	case NumberDecimal:
		return n.d.String() + "dec"
	default:
		return "0"
	}
}

// Truthy applies the language's boolean-coercion rule for numbers: a
// magnitude below truthyEpsilon reads as false, matching the precedent set
// by the corpus's decimal truthiness helper rather than a bare != 0 check,
// which would make very small floats surprisingly true.
func (n Number) Truthy() bool {
	switch n.kind {
	case NumberInt:
		return n.i != 0
	case NumberFloat:
		return math.Abs(n.f) >= truthyEpsilon
	case NumberDecimal:
		return n.d.Abs().Cmp(epsilonDecimal) >= 0
	default:
		return false
	}
}

// AsFloat64 converts any numeric variant to a float64 for arithmetic that
// does not require decimal precision (e.g. geometry coordinates).
func (n Number) AsFloat64() float64 {
	switch n.kind {
	case NumberInt:
		return float64(n.i)
	case NumberFloat:
		return n.f
	case NumberDecimal:
		f, _ := n.d.Float64()
		return f
	default:
		return 0
	}
}

// AsInt64 converts an integer-variant number to int64 exactly; the float
// and decimal variants are truncated towards zero.
func (n Number) AsInt64() int64 {
	switch n.kind {
	case NumberInt:
		return n.i
	case NumberFloat:
		return int64(n.f)
	case NumberDecimal:
		return n.d.IntPart()
	default:
		return 0
	}
}

// AsDecimal converts any numeric variant to a decimal.Decimal, used by
// arithmetic that must not lose precision once any operand is a decimal.
func (n Number) AsDecimal() decimal.Decimal {
	switch n.kind {
	case NumberDecimal:
		return n.d
	case NumberInt:
		return decimal.NewFromInt(n.i)
	default:
		return decimal.NewFromFloat(n.f)
	}
}
