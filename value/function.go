package value

import "strings"

// FunctionKind distinguishes the four ways a function call can be written.
type FunctionKind uint8

const (
	FunctionNormal FunctionKind = iota
	FunctionCustom
	FunctionScript
	FunctionAnonymous
)

// Function is the Value::Function variant: a built-in call, a user
// `fn::` call, an embedded script body, or an anonymous application of a
// value to arguments (the result of try_parse_inline folding `(...)`
// onto a preceding value).
type Function struct {
	FnKind FunctionKind

	Name string  // FunctionNormal / FunctionCustom: "::"-joined name, without the fn:: prefix for custom calls
	Args []Value // FunctionNormal / FunctionCustom / FunctionScript / FunctionAnonymous

	Body string // FunctionScript: embedded script source

	Subject Value // FunctionAnonymous: the value being applied
}

func (Function) Kind() Kind { return KindFunction }
func (f Function) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	joined := strings.Join(args, ", ")
	switch f.FnKind {
	case FunctionCustom:
		return "fn::" + f.Name + "(" + joined + ")"
	case FunctionScript:
		return "function() { " + f.Body + " }"
	case FunctionAnonymous:
		subject := ""
		if f.Subject != nil {
			subject = f.Subject.String()
		}
		return subject + "(" + joined + ")"
	default:
		return f.Name + "(" + joined + ")"
	}
}
func (Function) value() {}

// Model is an ML model invocation, e.g. ml::sentiment<1.0.0>(text).
type Model struct {
	Name    string
	Version string
	Args    []Value
}

func (Model) Kind() Kind { return KindModel }
func (m Model) String() string {
	args := make([]string, len(m.Args))
	for i, a := range m.Args {
		args[i] = a.String()
	}
	return "ml::" + m.Name + "<" + m.Version + ">(" + strings.Join(args, ", ") + ")"
}
func (Model) value() {}

// ClosureParam is one formal parameter of a Closure.
type ClosureParam struct {
	Name string
	Type string // empty when untyped
}

// Closure is an inline function literal: |a, b| body or
// |a: int, b: int| -> int { ... }.
type Closure struct {
	Params     []ClosureParam
	ReturnType string // empty when unannotated
	Body       Value
}

func (Closure) Kind() Kind { return KindClosure }
func (c Closure) String() string {
	parts := make([]string, len(c.Params))
	for i, p := range c.Params {
		if p.Type != "" {
			parts[i] = p.Name + ": " + p.Type
		} else {
			parts[i] = p.Name
		}
	}
	head := "|" + strings.Join(parts, ", ") + "|"
	if c.ReturnType != "" {
		head += " -> " + c.ReturnType
	}
	body := ""
	if c.Body != nil {
		body = c.Body.String()
	}
	return head + " " + body
}
func (Closure) value() {}

// MockKind distinguishes the two mock expression shapes.
type MockKind uint8

const (
	MockCount MockKind = iota
	MockRange
)

// Mock is a synthetic record generator: |table:N| produces N records,
// |table:A..B| produces one per id in the inclusive range A..B.
type Mock struct {
	MKind MockKind
	Table string
	Count int64
	From  int64
	To    int64
}

func (Mock) Kind() Kind { return KindMock }
func (m Mock) String() string {
	if m.MKind == MockCount {
		return "|" + m.Table + ":" + itoa64(m.Count) + "|"
	}
	return "|" + m.Table + ":" + itoa64(m.From) + ".." + itoa64(m.To) + "|"
}
func (Mock) value() {}

func itoa64(i int64) string { return itoa(int(i)) }

// Future is a deferred computation block: <future> { ... }. Its value is
// computed lazily by the storage engine when the Thing it resolves into
// is read, not at parse time.
type Future struct {
	Body Value
}

func (Future) Kind() Kind { return KindFuture }
func (f Future) String() string {
	body := ""
	if f.Body != nil {
		body = f.Body.String()
	}
	return "<future> { " + body + " }"
}
func (Future) value() {}
