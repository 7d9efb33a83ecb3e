package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glyphdb/glyph/value"
)

// parseNumberLiteral converts a NUMBER token's raw text into the narrowest
// numeric variant that represents it exactly: an integer when there is no
// fractional part or exponent, a decimal when the integer overflows
// int64, and a float otherwise.
func parseNumberLiteral(s string) (value.Number, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.NewInt(i), nil
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return value.NewDecimal(d), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return value.Number{}, err
	}
	return value.NewFloat(f), nil
}

var durationUnits = []struct {
	suffix string
	unit   time.Duration
}{
	{"ns", time.Nanosecond},
	{"us", time.Microsecond},
	{"ms", time.Millisecond},
	{"s", time.Second},
	{"m", time.Minute},
	{"h", time.Hour},
	{"d", 24 * time.Hour},
	{"w", 7 * 24 * time.Hour},
	{"y", 365 * 24 * time.Hour},
}

// parseDurationLiteral converts a DURATION token's raw text (e.g. "5s",
// "2w", "100ms") into a time.Duration. Units d/w/y have no time.Duration
// equivalent in the standard library, so they are expanded manually using
// fixed-length days/weeks/years, matching how the lexer recognises them.
func parseDurationLiteral(s string) (time.Duration, error) {
	for _, u := range durationUnits {
		if strings.HasSuffix(s, u.suffix) {
			numStr := strings.TrimSuffix(s, u.suffix)
			f, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return 0, err
			}
			return time.Duration(f * float64(u.unit)), nil
		}
	}
	return 0, strconv.ErrSyntax
}

func isIdentLike(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if i > 0 && !isLetter && !isDigit {
			return false
		}
	}
	return true
}

// maybeLegacyReparse implements disambiguation #7: when legacy-strand mode
// is enabled, a parsed string literal is reinterpreted in order as a
// record id, a datetime, and a uuid before falling back to a plain Strand.
func (p *Parser) maybeLegacyReparse(s string) value.Value {
	if !p.opts.LegacyStrands {
		return value.Strand(s)
	}
	if idx := strings.IndexByte(s, ':'); idx > 0 && idx < len(s)-1 {
		table, id := s[:idx], s[idx+1:]
		if isIdentLike(table) && id != "" {
			var idVal value.Value
			if n, err := strconv.ParseInt(id, 10, 64); err == nil {
				idVal = value.NewInt(n)
			} else {
				idVal = value.Strand(id)
			}
			if thing, err := value.NewThing(table, idVal); err == nil {
				return thing
			}
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return value.Datetime(t)
	}
	if u, err := uuid.Parse(s); err == nil {
		return value.Uuid(u)
	}
	return value.Strand(s)
}
