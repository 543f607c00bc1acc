package traitgen

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/reoring/traitgen/traits"
)

// Generator turns one schema document into a generated module: every named
// object schema (the definitions/$defs entries plus the document root)
// becomes one class. A generation run is a pure function of (document, root
// class name); independent runs share no state.
type Generator struct {
	doc      *Document
	rootName string
	pkg      string
}

// NewGenerator builds a generator for the document. rootName names the class
// generated for the document root; empty means RootInstance.
func NewGenerator(doc *Document, rootName string) *Generator {
	if rootName == "" {
		rootName = defaultRootName
	}
	return &Generator{doc: doc, rootName: goExportName(rootName), pkg: "models"}
}

// WithPackage sets the package name of the generated source file.
func (g *Generator) WithPackage(pkg string) *Generator {
	g.pkg = pkg
	return g
}

// defsContainers lists the keywords holding named definitions, in lookup
// order.
var defsContainers = []string{"definitions", "$defs"}

// classes assembles every named object schema in document order: definitions
// first, root class last. Non-object definitions (scalar aliases reached via
// $ref splicing) do not become classes.
func (g *Generator) classes() ([]*classDef, error) {
	ec := &extraction{rootName: g.rootName}
	var out []*classDef
	seen := map[string]bool{}
	root := g.doc.Root()
	for _, container := range defsContainers {
		defs, ok := root.Get(container).(map[string]any)
		if !ok {
			continue
		}
		for _, name := range g.doc.keysAt("/"+escapePointerSeg(container), defs) {
			child, err := root.Child(container, name)
			if err != nil {
				return nil, err
			}
			if !child.IsObject() {
				continue
			}
			cd, err := assembleClass(ec, child, child.Classname())
			if err != nil {
				return nil, err
			}
			if seen[cd.name] {
				return nil, errUnsupported(child.Pointer(), "duplicate class name "+cd.name)
			}
			seen[cd.name] = true
			out = append(out, cd)
		}
	}
	if !root.IsObject() {
		return nil, errUnsupported("", "root schema must be an object")
	}
	if seen[g.rootName] {
		return nil, errUnsupported("", "root class name "+g.rootName+" collides with a definition")
	}
	rootClass, err := assembleClass(ec, root, g.rootName)
	if err != nil {
		return nil, err
	}
	out = append(out, rootClass)
	return out, nil
}

// ModuleCode assembles the complete generated source file. Classes reference
// each other by name through the module registry, so declaration order never
// breaks compilation even for mutually recursive definitions; the emitted
// order is the schema's declaration order with the root class last.
func (g *Generator) ModuleCode() (string, error) {
	classes, err := g.classes()
	if err != nil {
		return "", err
	}
	b := &strings.Builder{}
	b.WriteString("// Code generated by traitgen. DO NOT EDIT.\n\n")
	b.WriteString("package " + g.pkg + "\n\n")
	b.WriteString("import \"github.com/reoring/traitgen/traits\"\n\n")
	b.WriteString("var schemaModule = traits.NewModule(" + strconv.Quote(g.pkg) + ")\n")
	for _, cd := range classes {
		b.WriteString("\n")
		if cd.doc != "" {
			writeComment(b, cd.name+": "+cd.doc)
		}
		b.WriteString("var " + cd.name + " = traits.MustClass(schemaModule, " + strconv.Quote(cd.name) + ", traits.ClassSpec{\n")
		if cd.doc != "" {
			b.WriteString("\tDoc: " + strconv.Quote(cd.doc) + ",\n")
		}
		if len(cd.props) > 0 {
			b.WriteString("\tFields: []traits.Field{\n")
			for _, p := range cd.props {
				b.WriteString("\t\t{Name: " + strconv.Quote(p.name) + ", Trait: " + p.call.Render())
				if p.required {
					b.WriteString(", Required: true")
				}
				if p.doc != "" {
					b.WriteString(", Doc: " + strconv.Quote(p.doc))
				}
				b.WriteString("},\n")
			}
			b.WriteString("\t},\n")
		}
		if cd.noAdditional {
			b.WriteString("\tNoAdditional: true,\n")
		}
		b.WriteString("})\n")
	}
	return b.String(), nil
}

// Load evaluates the generated declarations into a live traits.Module and
// registers it under id, so tests can instantiate and round-trip classes
// without compiling the source text. An empty id gets a fresh unique one;
// reloading under the same id replaces the previous registration.
func (g *Generator) Load(id string) (*traits.Module, error) {
	if id == "" {
		id = uuid.NewString()
	}
	classes, err := g.classes()
	if err != nil {
		return nil, err
	}
	m := traits.NewModule(id)
	for _, cd := range classes {
		spec := traits.ClassSpec{Doc: cd.doc, NoAdditional: cd.noAdditional}
		for _, p := range cd.props {
			tr, err := evalTrait(p.call)
			if err != nil {
				return nil, err
			}
			spec.Fields = append(spec.Fields, traits.Field{
				Name:     p.name,
				Trait:    tr,
				Required: p.required,
				Doc:      p.doc,
			})
		}
		if _, err := m.Class(cd.name, spec); err != nil {
			return nil, err
		}
	}
	traits.Register(m)
	return m, nil
}

func writeComment(b *strings.Builder, text string) {
	for _, line := range strings.Split(text, "\n") {
		b.WriteString("// " + line + "\n")
	}
}
