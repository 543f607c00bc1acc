package schemadoc_test

import (
	"reflect"
	"testing"

	"github.com/reoring/traitgen/schemadoc"
)

func TestDecodeJSON_Tree(t *testing.T) {
	doc, err := schemadoc.DecodeJSON([]byte(`{"type": "object", "properties": {"a": {"type": "string"}}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tree := doc.Tree()
	if tree["type"] != "object" {
		t.Fatalf("tree lost type: %#v", tree)
	}
	props, ok := tree["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties not a map: %#v", tree["properties"])
	}
	if _, ok := props["a"].(map[string]any); !ok {
		t.Fatalf("nested schema not a map: %#v", props["a"])
	}
}

func TestDecodeJSON_ChildWalk(t *testing.T) {
	doc, err := schemadoc.DecodeJSON([]byte(`{
		"properties": {"z": {"type": "string"}, "a": {"type": "string"}, "m": {"type": "string"}}
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	n, err := doc.Root().Child("properties", "z")
	if err != nil || n.Pointer() != "/properties/z" {
		t.Fatalf("child walk failed: %v", err)
	}
}

func TestDecodeJSON_ScalarsAndArrays(t *testing.T) {
	doc, err := schemadoc.DecodeJSON([]byte(`{"enum": [1, 2.5, "x", true, null], "minimum": 3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []any{float64(1), 2.5, "x", true, nil}
	if !reflect.DeepEqual(doc.Tree()["enum"], want) {
		t.Fatalf("enum decoded as %#v", doc.Tree()["enum"])
	}
	if doc.Tree()["minimum"] != float64(3) {
		t.Fatalf("minimum decoded as %#v", doc.Tree()["minimum"])
	}
}

func TestDecodeJSON_RejectsNonObject(t *testing.T) {
	if _, err := schemadoc.DecodeJSON([]byte(`[1, 2]`)); err == nil {
		t.Fatalf("array document accepted")
	}
	if _, err := schemadoc.DecodeJSON([]byte(`{"a": `)); err == nil {
		t.Fatalf("truncated document accepted")
	}
}

func TestDecodeYAML_Basic(t *testing.T) {
	doc, err := schemadoc.DecodeYAML([]byte(`
type: object
properties:
  name:
    type: string
required:
  - name
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tree := doc.Tree()
	if tree["type"] != "object" {
		t.Fatalf("type lost: %#v", tree)
	}
	props, ok := tree["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties not normalized to map[string]any: %#v", tree["properties"])
	}
	if _, ok := props["name"].(map[string]any); !ok {
		t.Fatalf("nested mapping not normalized: %#v", props["name"])
	}
	req, ok := tree["required"].([]any)
	if !ok || len(req) != 1 || req[0] != "name" {
		t.Fatalf("required decoded as %#v", tree["required"])
	}
}

func TestDecode_Sniffs(t *testing.T) {
	if _, err := schemadoc.Decode([]byte(`  {"type": "object"}`)); err != nil {
		t.Fatalf("json sniff: %v", err)
	}
	if _, err := schemadoc.Decode([]byte("type: object\n")); err != nil {
		t.Fatalf("yaml sniff: %v", err)
	}
}
