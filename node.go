package traitgen

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Document is the immutable parsed schema document a generation run works
// on: the JSON tree plus, when the decoder captured it, the original key
// order of every object (JSON maps in Go are unordered, and generated
// property order must follow the schema's declared order).
type Document struct {
	tree  map[string]any
	order map[string][]string // JSON Pointer of an object -> its key order
}

// NewDocument wraps an already-parsed schema tree. Without key-order
// metadata, object keys iterate in sorted order for determinism; use
// schemadoc to decode documents with declaration order preserved.
func NewDocument(tree map[string]any) *Document {
	return &Document{tree: tree}
}

// NewDocumentWithOrder wraps a parsed schema tree together with per-object
// key order, keyed by JSON Pointer ("" for the root object).
func NewDocumentWithOrder(tree map[string]any, order map[string][]string) *Document {
	return &Document{tree: tree, order: order}
}

// Tree returns the underlying document tree. Callers must not mutate it.
func (d *Document) Tree() map[string]any { return d.tree }

// Root returns the schema node for the document root.
func (d *Document) Root() *Node {
	return &Node{doc: d, sub: d.tree}
}

// keysAt returns the declared key order of the object at ptr, falling back
// to sorted order when the document carries no order metadata.
func (d *Document) keysAt(ptr string, m map[string]any) []string {
	if ks, ok := d.order[ptr]; ok {
		out := make([]string, 0, len(ks))
		for _, k := range ks {
			if _, present := m[k]; present {
				out = append(out, k)
			}
		}
		return out
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Node is an immutable view over one subtree of the document, carrying the
// document root for reference resolution and its path from the root, which
// names the node when it becomes a class. Nodes are never mutated; children
// are constructed fresh.
type Node struct {
	doc  *Document
	sub  map[string]any
	path []string
}

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// Pointer returns the node's location as a JSON Pointer ("" for the root).
func (n *Node) Pointer() string {
	if len(n.path) == 0 {
		return ""
	}
	segs := make([]string, len(n.path))
	for i, s := range n.path {
		segs[i] = escapePointerSeg(s)
	}
	return "/" + strings.Join(segs, "/")
}

// Has reports whether the schema has the given keyword.
func (n *Node) Has(key string) bool {
	_, ok := n.sub[key]
	return ok
}

// Get returns the raw value of the given keyword, or nil.
func (n *Node) Get(key string) any { return n.sub[key] }

// Child returns a new node scoped to the subtree reached by walking the
// given segments (object keys, or decimal indices into arrays), inheriting
// the document root and extending the path.
func (n *Node) Child(segs ...string) (*Node, error) {
	var cur any = n.sub
	for i, seg := range segs {
		switch t := cur.(type) {
		case map[string]any:
			v, ok := t[seg]
			if !ok {
				return nil, errUnsupported(n.Pointer(), "missing subschema at "+strings.Join(segs[:i+1], "/"))
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, errUnsupported(n.Pointer(), "bad subschema index "+seg)
			}
			cur = t[idx]
		default:
			return nil, errUnsupported(n.Pointer(), "cannot descend into scalar at "+strings.Join(segs[:i+1], "/"))
		}
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return nil, errUnsupported(n.Pointer(), "subschema at "+strings.Join(segs, "/")+" is not an object")
	}
	return &Node{doc: n.doc, sub: m, path: append(append([]string(nil), n.path...), segs...)}, nil
}

// Type returns the node's effective type names and whether the schema
// declared them in list form. When the "type" keyword is absent the type is
// inferred: "enum" yields no simple type (the enum extractor matches on the
// keyword itself), "properties"/"additionalProperties" imply object, and
// "items" implies array. An undefined type returns nil.
func (n *Node) Type() (names []string, list bool) {
	switch t := n.sub["type"].(type) {
	case string:
		return []string{t}, false
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	if n.Has("enum") {
		return nil, false
	}
	if n.Has("properties") || n.Has("additionalProperties") {
		return []string{"object"}, false
	}
	if n.Has("items") {
		return []string{"array"}, false
	}
	return nil, false
}

// IsObject reports whether the node describes an object schema, i.e. one
// that is promoted to its own class when named.
func (n *Node) IsObject() bool {
	names, list := n.Type()
	return !list && len(names) == 1 && names[0] == "object"
}

// Classname derives a class name from the node's path; empty for the root
// (the generator names the root class explicitly).
func (n *Node) Classname() string {
	if len(n.path) == 0 {
		return ""
	}
	return goExportName(n.path[len(n.path)-1])
}

// Title returns the schema title, if any.
func (n *Node) Title() string {
	s, _ := n.sub["title"].(string)
	return s
}

// Description returns the schema description, if any.
func (n *Node) Description() string {
	s, _ := n.sub["description"].(string)
	return s
}

// propertyNames returns the declared properties in declaration order.
func (n *Node) propertyNames() []string {
	props, ok := n.sub["properties"].(map[string]any)
	if !ok {
		return nil
	}
	ptr := n.Pointer() + "/properties"
	return n.doc.keysAt(ptr, props)
}

// requiredSet returns the property names listed under "required".
func (n *Node) requiredSet() map[string]bool {
	arr, ok := n.sub["required"].([]any)
	if !ok {
		return nil
	}
	out := make(map[string]bool, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out[s] = true
		}
	}
	return out
}

// escapePointerSeg escapes '~' -> '~0', '/' -> '~1' per RFC6901.
func escapePointerSeg(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// goExportName sanitizes a schema name into an exported Go identifier.
func goExportName(name string) string {
	b := &strings.Builder{}
	upperNext := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			if upperNext {
				r = unicode.ToUpper(r)
				upperNext = false
			}
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if b.Len() == 0 {
				b.WriteByte('N')
			}
			b.WriteRune(r)
		default:
			upperNext = true
		}
	}
	return b.String()
}
