// Package gen holds the small call-expression IR the generator emits and the
// renderer that turns it into Go source text.
package gen

import (
	"sort"
	"strconv"
	"strings"
)

// Call represents one constructor call in generated source: a function name,
// positional arguments, and an ordered list of option arguments (the Go
// rendering of keyword-style arguments).
type Call struct {
	Name string // fully qualified, e.g. "traits.Number"
	Args []Value
	Opts []Opt
}

// Opt is a single functional-option argument, rendered as Name(Value).
type Opt struct {
	Name  string // fully qualified, e.g. "traits.Minimum"
	Value Value
}

// NewCall builds a call expression with the given positional arguments.
func NewCall(name string, args ...Value) *Call {
	return &Call{Name: name, Args: args}
}

// Opt appends an option argument. Options keep insertion order so output is
// deterministic.
func (c *Call) Opt(name string, v Value) *Call {
	c.Opts = append(c.Opts, Opt{Name: name, Value: v})
	return c
}

// Render produces the Go source text of the call.
func (c *Call) Render() string {
	b := &strings.Builder{}
	b.WriteString(c.Name)
	b.WriteByte('(')
	first := true
	for _, a := range c.Args {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(a.Render())
	}
	for _, o := range c.Opts {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(o.Name)
		b.WriteByte('(')
		b.WriteString(o.Value.Render())
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

// Value is one argument value: a JSON literal, a nested call, or a typed
// list of values.
type Value struct {
	Kind     ValueKind
	Lit      any   // KindLit
	Call     *Call // KindCall
	List     []Value
	ElemType string // KindList: Go element type of the rendered slice literal
}

// ValueKind discriminates Value variants.
type ValueKind int

const (
	KindLit ValueKind = iota
	KindCall
	KindList
)

// Lit wraps a JSON-shaped Go value (nil, bool, float64, int, string, []any,
// map[string]any) as a literal argument.
func Lit(v any) Value { return Value{Kind: KindLit, Lit: v} }

// CallValue nests a call expression as an argument.
func CallValue(c *Call) Value { return Value{Kind: KindCall, Call: c} }

// List wraps values as a slice literal of the given Go element type, e.g.
// List("traits.Trait", a, b) renders []traits.Trait{a, b}.
func List(elemType string, items ...Value) Value {
	return Value{Kind: KindList, List: items, ElemType: elemType}
}

// Render produces the Go source text of the value.
func (v Value) Render() string {
	switch v.Kind {
	case KindCall:
		return v.Call.Render()
	case KindList:
		parts := make([]string, len(v.List))
		for i, it := range v.List {
			parts[i] = it.Render()
		}
		return "[]" + v.ElemType + "{" + strings.Join(parts, ", ") + "}"
	default:
		return RenderLiteral(v.Lit)
	}
}

// RenderLiteral renders a JSON-shaped Go value as Go source. Numbers that are
// integral render without a fraction so generated constraints read naturally.
func RenderLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return strconv.Quote(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = RenderLiteral(e)
		}
		return "[]any{" + strings.Join(parts, ", ") + "}"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + ": " + RenderLiteral(t[k])
		}
		return "map[string]any{" + strings.Join(parts, ", ") + "}"
	default:
		// Unknown dynamic types should never reach the renderer; quote a
		// placeholder rather than emit invalid source.
		return strconv.Quote("<unrenderable>")
	}
}
