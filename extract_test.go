package traitgen_test

import (
	"testing"

	traitgen "github.com/reoring/traitgen"
)

// code extracts the declaration expression for the schema in tree.
func code(t *testing.T, tree map[string]any) string {
	t.Helper()
	src, err := traitgen.TraitCode(traitgen.NewDocument(tree).Root())
	if err != nil {
		t.Fatalf("trait code: %v", err)
	}
	return src
}

func TestExtract_SimpleScalars(t *testing.T) {
	cases := []struct {
		tree map[string]any
		want string
	}{
		{map[string]any{"type": "boolean"}, "traits.Bool()"},
		{map[string]any{"type": "null"}, "traits.Null()"},
		{map[string]any{"type": "number"}, "traits.Number()"},
		{map[string]any{"type": "integer"}, "traits.Integer()"},
		{map[string]any{"type": "string"}, "traits.String()"},
	}
	for _, c := range cases {
		if got := code(t, c.tree); got != c.want {
			t.Fatalf("%v: got %s want %s", c.tree, got, c.want)
		}
	}
}

func TestExtract_NumericConstraintsForwarded(t *testing.T) {
	got := code(t, map[string]any{
		"type":             "integer",
		"minimum":          0,
		"exclusiveMinimum": true,
		"maximum":          100,
		"multipleOf":       5,
	})
	want := "traits.Integer(traits.Minimum(0), traits.ExclusiveMinimum(true), traits.Maximum(100), traits.MultipleOf(5))"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}

	// Constraints apply to number and integer only.
	if got := code(t, map[string]any{"type": "string", "minimum": 0}); got != "traits.String()" {
		t.Fatalf("string forwarded numeric constraint: %s", got)
	}
}

func TestExtract_Enum(t *testing.T) {
	got := code(t, map[string]any{"enum": []any{1, 2, "three"}})
	if got != `traits.Enum([]any{1, 2, "three"})` {
		t.Fatalf("got %s", got)
	}
	// Enum wins over a declared simple type.
	got = code(t, map[string]any{"type": "string", "enum": []any{"a"}})
	if got != `traits.Enum([]any{"a"})` {
		t.Fatalf("enum should outrank simple type, got %s", got)
	}
}

func TestExtract_Compound(t *testing.T) {
	if got := code(t, map[string]any{"type": []any{"string", "null"}}); got != "traits.String(traits.AllowNull(true))" {
		t.Fatalf("nullable degrade: got %s", got)
	}
	if got := code(t, map[string]any{"type": []any{"string", "number"}}); got != "traits.Union([]traits.Trait{traits.String(), traits.Number()})" {
		t.Fatalf("two-type union: got %s", got)
	}
	got := code(t, map[string]any{"type": []any{"string", "integer", "null"}})
	want := "traits.Union([]traits.Trait{traits.String(), traits.Integer()}, traits.AllowNull(true))"
	if got != want {
		t.Fatalf("nullable union: got %s want %s", got, want)
	}
	// Null-ness stays on the union, not on the branches.
	if got := code(t, map[string]any{"type": []any{"null"}}); got != "traits.Null()" {
		t.Fatalf("null-only list: got %s", got)
	}
}

func TestExtract_Array(t *testing.T) {
	got := code(t, map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "integer", "minimum": 1},
		"minItems":    1,
		"maxItems":    5,
		"uniqueItems": true,
	})
	want := "traits.Array(traits.Integer(traits.Minimum(1)), traits.MinItems(1), traits.MaxItems(5), traits.UniqueItems(true))"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestExtract_ArrayUnsupportedForms(t *testing.T) {
	_, err := traitgen.TraitCode(traitgen.NewDocument(map[string]any{"type": "array"}).Root())
	if !traitgen.HasCode(err, traitgen.CodeUnsupportedConstruct) {
		t.Fatalf("array without items: got %v", err)
	}
	_, err = traitgen.TraitCode(traitgen.NewDocument(map[string]any{
		"type":  "array",
		"items": []any{map[string]any{"type": "string"}},
	}).Root())
	if !traitgen.HasCode(err, traitgen.CodeUnsupportedConstruct) {
		t.Fatalf("tuple items: got %v", err)
	}
}

func TestExtract_Compositions(t *testing.T) {
	if got := code(t, map[string]any{"anyOf": []any{map[string]any{"type": "string"}, map[string]any{"type": "null"}}}); got != "traits.AnyOf([]traits.Trait{traits.String(), traits.Null()})" {
		t.Fatalf("anyOf: got %s", got)
	}
	if got := code(t, map[string]any{"oneOf": []any{map[string]any{"type": "integer"}}}); got != "traits.OneOf([]traits.Trait{traits.Integer()})" {
		t.Fatalf("oneOf: got %s", got)
	}
	if got := code(t, map[string]any{"allOf": []any{map[string]any{"type": "number", "minimum": 0}}}); got != "traits.AllOf([]traits.Trait{traits.Number(traits.Minimum(0))})" {
		t.Fatalf("allOf: got %s", got)
	}
	if got := code(t, map[string]any{"not": map[string]any{"type": "string"}}); got != "traits.Not(traits.String())" {
		t.Fatalf("not: got %s", got)
	}
}

func TestExtract_RefPriority(t *testing.T) {
	doc := traitgen.NewDocument(map[string]any{
		"definitions": map[string]any{
			"Person": map[string]any{"type": "object", "properties": map[string]any{}},
		},
		"properties": map[string]any{
			// $ref must win even when "type" is also present.
			"p": map[string]any{"$ref": "#/definitions/Person", "type": "object"},
		},
	})
	n, err := doc.Root().Child("properties", "p")
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	got, err := traitgen.TraitCode(n)
	if err != nil {
		t.Fatalf("trait code: %v", err)
	}
	if got != `traits.InstanceOf("Person")` {
		t.Fatalf("ref to object class: got %s", got)
	}
}

func TestExtract_TransparentAlias(t *testing.T) {
	doc := traitgen.NewDocument(map[string]any{
		"definitions": map[string]any{
			"Name": map[string]any{"type": "string"},
		},
		"properties": map[string]any{
			"name": map[string]any{"$ref": "#/definitions/Name"},
		},
	})
	n, err := doc.Root().Child("properties", "name")
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	got, err := traitgen.TraitCode(n)
	if err != nil {
		t.Fatalf("trait code: %v", err)
	}
	if got != "traits.String()" {
		t.Fatalf("alias splice: got %s", got)
	}
}

func TestExtract_RefToRoot(t *testing.T) {
	doc := traitgen.NewDocument(map[string]any{
		"properties": map[string]any{
			"self": map[string]any{"$ref": "#"},
		},
	})
	n, err := doc.Root().Child("properties", "self")
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	got, err := traitgen.TraitCode(n)
	if err != nil {
		t.Fatalf("trait code: %v", err)
	}
	if got != `traits.InstanceOf("RootInstance")` {
		t.Fatalf("ref to root: got %s", got)
	}
}

func TestExtract_CyclicAliasDetected(t *testing.T) {
	doc := traitgen.NewDocument(map[string]any{
		"definitions": map[string]any{
			"A": map[string]any{"$ref": "#/definitions/B"},
			"B": map[string]any{"$ref": "#/definitions/A"},
		},
	})
	n, err := doc.Root().Child("definitions", "A")
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	_, err = traitgen.TraitCode(n)
	if !traitgen.HasCode(err, traitgen.CodeCyclicReference) {
		t.Fatalf("expected cyclic_reference, got %v", err)
	}
}

func TestExtract_AnonymousObjectRejected(t *testing.T) {
	_, err := traitgen.TraitCode(traitgen.NewDocument(map[string]any{"type": "object"}).Root())
	if !traitgen.HasCode(err, traitgen.CodeUnsupportedConstruct) {
		t.Fatalf("anonymous object: got %v", err)
	}
}

func TestExtract_NoMatchIsHardError(t *testing.T) {
	_, err := traitgen.TraitCode(traitgen.NewDocument(map[string]any{"format": "date-time"}).Root())
	if !traitgen.HasCode(err, traitgen.CodeNoMatchingExtractor) {
		t.Fatalf("expected no_matching_extractor, got %v", err)
	}
}
