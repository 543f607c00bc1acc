package traitgen

import (
	gen "github.com/reoring/traitgen/internal/gen"
)

// classDef is one assembled class: the ordered property declarations for a
// named object schema. Property order follows the schema's declared order;
// property names are unique by construction (they are object keys).
type classDef struct {
	name         string
	doc          string
	noAdditional bool
	props        []propDef
}

type propDef struct {
	name     string
	call     *gen.Call
	required bool
	doc      string
}

// assembleClass builds the class declaration for a named object schema:
// one validated-property declaration per entry of "properties", with the
// required flag taken from the schema's "required" array and
// additionalProperties:false forwarded as a forbid-unknown-keys policy.
func assembleClass(ec *extraction, n *Node, name string) (*classDef, error) {
	cd := &classDef{
		name:         name,
		doc:          classDoc(n),
		noAdditional: n.Get("additionalProperties") == false,
	}
	required := n.requiredSet()
	for _, pname := range n.propertyNames() {
		child, err := n.Child("properties", pname)
		if err != nil {
			return nil, err
		}
		call, err := traitCall(ec, child, nil)
		if err != nil {
			return nil, err
		}
		cd.props = append(cd.props, propDef{
			name:     pname,
			call:     call,
			required: required[pname],
			doc:      child.Description(),
		})
	}
	return cd, nil
}

// classDoc folds schema title and description into one doc string.
func classDoc(n *Node) string {
	title, desc := n.Title(), n.Description()
	switch {
	case title != "" && desc != "":
		return title + ": " + desc
	case title != "":
		return title
	default:
		return desc
	}
}
