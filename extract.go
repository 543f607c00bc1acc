package traitgen

import (
	"strconv"

	gen "github.com/reoring/traitgen/internal/gen"
)

// The extractor chain maps one schema node to one validated-property
// declaration. Extractors are tried in a fixed priority order and the first
// whose check succeeds wins; the order is a load-bearing contract (a node
// carrying both "$ref" and "type" must resolve the ref). A node no extractor
// recognizes is a hard error, never a silent fallback.

// extraction is the explicit per-run context threaded through the chain: the
// root class name (for refs to "#") and the trail of transparent-alias refs
// currently being inlined, which bounds cyclic non-class references.
type extraction struct {
	rootName string
	trail    []string
}

func (ec *extraction) push(ref string) *extraction {
	return &extraction{
		rootName: ec.rootName,
		trail:    append(append([]string(nil), ec.trail...), ref),
	}
}

func (ec *extraction) onTrail(ref string) bool {
	for _, r := range ec.trail {
		if r == ref {
			return true
		}
	}
	return false
}

type extractor struct {
	name  string
	check func(n *Node) bool
	emit  func(ec *extraction, n *Node, opts []gen.Opt) (*gen.Call, error)
}

// chain returns the extractors in priority order. Extractors are stateless;
// all per-run state lives in the extraction context.
func chain() []extractor {
	return []extractor{
		{name: "ref", check: checkRef, emit: emitRef},
		{name: "enum", check: checkEnum, emit: emitEnum},
		{name: "simple", check: checkSimple, emit: emitSimple},
		{name: "compound", check: checkCompound, emit: emitCompound},
		{name: "array", check: checkArray, emit: emitArray},
		{name: "anyOf", check: checkKeyword("anyOf"), emit: emitComposition("anyOf", "traits.AnyOf")},
		{name: "oneOf", check: checkKeyword("oneOf"), emit: emitComposition("oneOf", "traits.OneOf")},
		{name: "allOf", check: checkKeyword("allOf"), emit: emitComposition("allOf", "traits.AllOf")},
		{name: "not", check: checkKeyword("not"), emit: emitNot},
		{name: "object", check: (*Node).IsObject, emit: emitObject},
	}
}

// traitCall runs the chain on one node and returns the constructor-call IR
// for its property declaration.
func traitCall(ec *extraction, n *Node, opts []gen.Opt) (*gen.Call, error) {
	for _, ex := range chain() {
		if ex.check(n) {
			return ex.emit(ec, n, opts)
		}
	}
	return nil, errNoMatch(n.Pointer())
}

// TraitCode renders the validated-property declaration expression for a
// single schema node. Refs to the document root use the default root class
// name RootInstance; generation through Generator uses its configured name.
func TraitCode(n *Node) (string, error) {
	c, err := traitCall(&extraction{rootName: defaultRootName}, n, nil)
	if err != nil {
		return "", err
	}
	return c.Render(), nil
}

const defaultRootName = "RootInstance"

var simpleCtors = map[string]string{
	"boolean": "traits.Bool",
	"null":    "traits.Null",
	"number":  "traits.Number",
	"integer": "traits.Integer",
	"string":  "traits.String",
}

// numericKeys forwards draft-04 numeric constraints in a fixed order.
var numericKeys = []struct{ key, opt string }{
	{"minimum", "traits.Minimum"},
	{"exclusiveMinimum", "traits.ExclusiveMinimum"},
	{"maximum", "traits.Maximum"},
	{"exclusiveMaximum", "traits.ExclusiveMaximum"},
	{"multipleOf", "traits.MultipleOf"},
}

func applyOpts(c *gen.Call, opts []gen.Opt) *gen.Call {
	for _, o := range opts {
		c.Opt(o.Name, o.Value)
	}
	return c
}

// simpleCall emits the scalar declaration for one simple type name,
// forwarding numeric constraints present on the node.
func simpleCall(n *Node, typeName string, opts []gen.Opt) *gen.Call {
	c := gen.NewCall(simpleCtors[typeName])
	if typeName == "number" || typeName == "integer" {
		for _, nk := range numericKeys {
			if n.Has(nk.key) {
				c.Opt(nk.opt, gen.Lit(n.Get(nk.key)))
			}
		}
	}
	return applyOpts(c, opts)
}

// ---- ref ----

func checkRef(n *Node) bool { return n.Has("$ref") }

func emitRef(ec *extraction, n *Node, opts []gen.Opt) (*gen.Call, error) {
	ref, ok := n.Get("$ref").(string)
	if !ok {
		return nil, errUnsupportedRef(n.Pointer(), "")
	}
	target, err := n.doc.resolveAt(ref, n.Pointer())
	if err != nil {
		return nil, err
	}
	if target.IsObject() {
		// Instance-of terminates recursion: the target's body is never
		// inlined, so class-level reference cycles are fine.
		name := target.Classname()
		if name == "" {
			name = ec.rootName
		}
		return applyOpts(gen.NewCall("traits.InstanceOf", gen.Lit(name)), opts), nil
	}
	// Transparent alias: splice in the target's own declaration, keeping the
	// referencing site's options (metadata stays with the referencing site).
	if ec.onTrail(ref) {
		return nil, errCyclic(n.Pointer(), ref)
	}
	return traitCall(ec.push(ref), target, opts)
}

// ---- enum ----

func checkEnum(n *Node) bool { return n.Has("enum") }

func emitEnum(_ *extraction, n *Node, opts []gen.Opt) (*gen.Call, error) {
	values, ok := n.Get("enum").([]any)
	if !ok {
		return nil, errUnsupported(n.Pointer(), "'enum' must be an array")
	}
	return applyOpts(gen.NewCall("traits.Enum", gen.Lit(values)), opts), nil
}

// ---- simple scalar ----

func checkSimple(n *Node) bool {
	names, list := n.Type()
	if list || len(names) != 1 {
		return false
	}
	_, ok := simpleCtors[names[0]]
	return ok
}

func emitSimple(_ *extraction, n *Node, opts []gen.Opt) (*gen.Call, error) {
	names, _ := n.Type()
	return simpleCall(n, names[0], opts), nil
}

// ---- compound (union of simple types) ----

func checkCompound(n *Node) bool {
	names, list := n.Type()
	if !list || len(names) == 0 {
		return false
	}
	for _, name := range names {
		if _, ok := simpleCtors[name]; !ok {
			return false
		}
	}
	return true
}

func emitCompound(_ *extraction, n *Node, opts []gen.Opt) (*gen.Call, error) {
	names, _ := n.Type()
	rest := make([]string, 0, len(names))
	sawNull := false
	for _, name := range names {
		if name == "null" {
			sawNull = true
			continue
		}
		rest = append(rest, name)
	}
	if sawNull && len(rest) > 0 {
		// Null-ness applies to the union as a whole, not to each branch; a
		// null-only list needs no flag at all.
		opts = append(append([]gen.Opt(nil), opts...), gen.Opt{Name: "traits.AllowNull", Value: gen.Lit(true)})
	}
	switch len(rest) {
	case 0:
		return applyOpts(gen.NewCall("traits.Null"), opts), nil
	case 1:
		return simpleCall(n, rest[0], opts), nil
	}
	members := make([]gen.Value, len(rest))
	for i, name := range rest {
		members[i] = gen.CallValue(simpleCall(n, name, nil))
	}
	return applyOpts(gen.NewCall("traits.Union", gen.List("traits.Trait", members...)), opts), nil
}

// ---- array ----

func checkArray(n *Node) bool {
	names, list := n.Type()
	return !list && len(names) == 1 && names[0] == "array"
}

func emitArray(ec *extraction, n *Node, opts []gen.Opt) (*gen.Call, error) {
	if !n.Has("items") {
		return nil, errUnsupported(n.Pointer(), "array without 'items' is unsupported")
	}
	if _, isList := n.Get("items").([]any); isList {
		return nil, errUnsupported(n.Pointer(), "tuple typing ('items' as a list) is unsupported")
	}
	child, err := n.Child("items")
	if err != nil {
		return nil, err
	}
	item, err := traitCall(ec, child, nil)
	if err != nil {
		return nil, err
	}
	c := gen.NewCall("traits.Array", gen.CallValue(item))
	if n.Has("minItems") {
		c.Opt("traits.MinItems", gen.Lit(n.Get("minItems")))
	}
	if n.Has("maxItems") {
		c.Opt("traits.MaxItems", gen.Lit(n.Get("maxItems")))
	}
	if n.Has("uniqueItems") {
		c.Opt("traits.UniqueItems", gen.Lit(n.Get("uniqueItems")))
	}
	return applyOpts(c, opts), nil
}

// ---- anyOf / oneOf / allOf / not ----

func checkKeyword(kw string) func(*Node) bool {
	return func(n *Node) bool { return n.Has(kw) }
}

func emitComposition(kw, ctor string) func(*extraction, *Node, []gen.Opt) (*gen.Call, error) {
	return func(ec *extraction, n *Node, opts []gen.Opt) (*gen.Call, error) {
		arr, ok := n.Get(kw).([]any)
		if !ok {
			return nil, errUnsupported(n.Pointer(), "'"+kw+"' must be an array of schemas")
		}
		members := make([]gen.Value, len(arr))
		for i := range arr {
			child, err := n.Child(kw, strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			mc, err := traitCall(ec, child, nil)
			if err != nil {
				return nil, err
			}
			members[i] = gen.CallValue(mc)
		}
		return applyOpts(gen.NewCall(ctor, gen.List("traits.Trait", members...)), opts), nil
	}
}

func emitNot(ec *extraction, n *Node, opts []gen.Opt) (*gen.Call, error) {
	child, err := n.Child("not")
	if err != nil {
		return nil, err
	}
	inner, err := traitCall(ec, child, nil)
	if err != nil {
		return nil, err
	}
	return applyOpts(gen.NewCall("traits.Not", gen.CallValue(inner)), opts), nil
}

// ---- object (anonymous, inline) ----

func emitObject(_ *extraction, n *Node, _ []gen.Opt) (*gen.Call, error) {
	return nil, errUnsupported(n.Pointer(), "anonymous nested objects are unsupported; name the subschema and reference it via $ref")
}
