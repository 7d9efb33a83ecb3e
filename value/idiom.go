package value

import "strings"

// PartKind distinguishes the step kinds that may appear inside an Idiom.
type PartKind uint8

const (
	PartField PartKind = iota
	PartIndex
	PartAll
	PartLast
	PartWhere
	PartGraph
	PartValue
	PartStart
	PartMethod
	PartDestructure
	PartFlatten
)

// Part is one step of an Idiom access path.
type Part struct {
	Kind PartKind

	Field string // PartField
	Index int    // PartIndex

	Where Value // PartWhere: filter predicate evaluated against each element

	GraphDir    Direction // PartGraph
	GraphTarget Value     // PartGraph

	Value Value // PartValue / PartStart: a literal value spliced into the path

	Method string  // PartMethod
	Args   []Value // PartMethod

	Destructure []Part // PartDestructure: nested idiom parts per field
}

func (p Part) String() string {
	switch p.Kind {
	case PartField:
		return "." + p.Field
	case PartIndex:
		return "[" + itoa(p.Index) + "]"
	case PartAll:
		return ".*"
	case PartLast:
		return ".last()"
	case PartWhere:
		return "[WHERE " + p.Where.String() + "]"
	case PartGraph:
		target := ""
		if p.GraphTarget != nil {
			target = p.GraphTarget.String()
		}
		return p.GraphDir.String() + target
	case PartValue:
		if p.Value != nil {
			return p.Value.String()
		}
		return ""
	case PartStart:
		if p.Value != nil {
			return p.Value.String()
		}
		return ""
	case PartMethod:
		args := make([]string, len(p.Args))
		for i, a := range p.Args {
			args[i] = a.String()
		}
		return "." + p.Method + "(" + strings.Join(args, ", ") + ")"
	case PartDestructure:
		parts := make([]string, len(p.Destructure))
		for i, d := range p.Destructure {
			parts[i] = d.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case PartFlatten:
		return ".flatten()"
	default:
		return ""
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// Idiom is an ordered access path: a sequence of Parts walked against a
// root value. The first Part is conventionally PartStart or PartField;
// IsSingleField reports whether the idiom is a single bare field, which the
// parser treats as interchangeable with a Table reference in contexts
// that accept either.
type Idiom struct {
	Parts []Part
}

func (Idiom) Kind() Kind { return KindIdiom }
func (i Idiom) String() string {
	if len(i.Parts) == 0 {
		return ""
	}
	var b strings.Builder
	for n, p := range i.Parts {
		s := p.String()
		if n == 0 && p.Kind == PartField {
			b.WriteString(p.Field)
			continue
		}
		b.WriteString(s)
	}
	return b.String()
}
func (Idiom) value() {}

// IsSingleField reports whether this idiom is exactly one Field part, the
// shape produced when a bare identifier is parsed in field position.
func (i Idiom) IsSingleField() bool {
	return len(i.Parts) == 1 && i.Parts[0].Kind == PartField
}

// FieldName returns the idiom's first field name, or false when the
// idiom does not start with a Field part.
func (i Idiom) FieldName() (string, bool) {
	if len(i.Parts) == 0 || i.Parts[0].Kind != PartField {
		return "", false
	}
	return i.Parts[0].Field, true
}
