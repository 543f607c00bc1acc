package traitgen

import (
	"strconv"
	"strings"
)

// Resolve resolves a draft-04-style same-document fragment reference
// ("#/definitions/Foo" or "#/Foo") against the document root and returns the
// target node. Resolution is deterministic and side-effect-free. A reference
// to a missing path is a hard error, and non-fragment references (external
// URIs) are unsupported.
func (d *Document) Resolve(ref string) (*Node, error) {
	return d.resolveAt(ref, "")
}

// resolveAt is Resolve with the referencing site's pointer for error paths.
func (d *Document) resolveAt(ref, site string) (*Node, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, errUnsupportedRef(site, ref)
	}
	frag := strings.TrimPrefix(ref, "#")
	if frag == "" {
		return d.Root(), nil
	}
	if !strings.HasPrefix(frag, "/") {
		return nil, errUnsupportedRef(site, ref)
	}
	var path []string
	var cur any = d.tree
	for _, raw := range strings.Split(frag[1:], "/") {
		seg := unescapePointerSeg(raw)
		switch t := cur.(type) {
		case map[string]any:
			v, ok := t[seg]
			if !ok {
				return nil, errUnresolved(site, ref, "no such key "+strconv.Quote(seg))
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, errUnresolved(site, ref, "bad index "+strconv.Quote(seg))
			}
			cur = t[idx]
		default:
			return nil, errUnresolved(site, ref, "cannot descend past scalar at "+strconv.Quote(seg))
		}
		path = append(path, seg)
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return nil, errUnresolved(site, ref, "target is not a schema object")
	}
	return &Node{doc: d, sub: m, path: path}, nil
}

// unescapePointerSeg reverses RFC6901 escaping: '~1' -> '/', '~0' -> '~'.
func unescapePointerSeg(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}
