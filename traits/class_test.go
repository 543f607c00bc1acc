package traits_test

import (
	"reflect"
	"testing"

	"github.com/reoring/traitgen/traits"
)

func personClass(t *testing.T, m *traits.Module) *traits.Class {
	t.Helper()
	return traits.MustClass(m, "Person", traits.ClassSpec{
		Fields: []traits.Field{
			{Name: "name", Trait: traits.String(), Required: true},
			{Name: "age", Trait: traits.Integer()},
		},
	})
}

func TestClass_RequiredAndTypes(t *testing.T) {
	m := traits.NewModule("class-test")
	person := personClass(t, m)

	if _, err := person.New(map[string]any{"name": "Alice"}); err != nil {
		t.Fatalf("minimal valid instance rejected: %v", err)
	}
	if _, err := person.New(map[string]any{"name": "Alice", "age": 30}); err != nil {
		t.Fatalf("full valid instance rejected: %v", err)
	}
	_, err := person.New(map[string]any{"age": 30})
	if err == nil {
		t.Fatalf("missing required name accepted")
	}
	iss, ok := traits.AsIssues(err)
	if !ok || iss[0].Code != traits.CodeRequired || iss[0].Path != "/name" {
		t.Fatalf("expected required at /name, got %v", err)
	}
	if _, err := person.New(map[string]any{"name": "Alice", "age": "old"}); err == nil {
		t.Fatalf("wrong-typed age accepted")
	}
}

func TestClass_RoundTrip(t *testing.T) {
	m := traits.NewModule("class-roundtrip")
	person := personClass(t, m)

	in := map[string]any{"name": "Alice", "age": 30}
	inst, err := person.FromMap(in)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	out := inst.ToMap()
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: in=%#v out=%#v", in, out)
	}

	// Optional fields stay absent, not null.
	inst2, err := person.FromMap(map[string]any{"name": "Bob"})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	out2 := inst2.ToMap()
	if _, present := out2["age"]; present {
		t.Fatalf("absent optional field appeared in ToMap: %#v", out2)
	}
}

func TestClass_AdditionalProperties(t *testing.T) {
	m := traits.NewModule("class-extras")
	open := traits.MustClass(m, "Open", traits.ClassSpec{
		Fields: []traits.Field{{Name: "a", Trait: traits.String()}},
	})
	closed := traits.MustClass(m, "Closed", traits.ClassSpec{
		Fields:       []traits.Field{{Name: "a", Trait: traits.String()}},
		NoAdditional: true,
	})

	in := map[string]any{"a": "x", "extra": float64(1)}
	inst, err := open.FromMap(in)
	if err != nil {
		t.Fatalf("open class rejected extra key: %v", err)
	}
	if !reflect.DeepEqual(inst.ToMap(), in) {
		t.Fatalf("extras not preserved: %#v", inst.ToMap())
	}

	_, err = closed.FromMap(in)
	if err == nil {
		t.Fatalf("closed class accepted extra key")
	}
	if iss, _ := traits.AsIssues(err); iss[0].Code != traits.CodeUnknownKey {
		t.Fatalf("expected unknown_key, got %v", err)
	}
}

func TestModule_DuplicateClassAndLookup(t *testing.T) {
	m := traits.NewModule("dup-test")
	if _, err := m.Class("A", traits.ClassSpec{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := m.Class("A", traits.ClassSpec{}); err == nil {
		t.Fatalf("duplicate class registration accepted")
	}
	if _, err := m.Lookup("B"); err == nil {
		t.Fatalf("lookup of unknown class succeeded")
	}
}

func TestRegistry_ReplaceOnReload(t *testing.T) {
	const id = "registry-reload-test"
	defer traits.Unregister(id)

	m1 := traits.NewModule(id)
	traits.MustClass(m1, "Only", traits.ClassSpec{})
	traits.Register(m1)

	m2 := traits.NewModule(id)
	traits.MustClass(m2, "Only", traits.ClassSpec{})
	traits.MustClass(m2, "Second", traits.ClassSpec{})
	traits.Register(m2) // must replace, not error

	got, ok := traits.Loaded(id)
	if !ok || len(got.Classes()) != 2 {
		t.Fatalf("reload did not replace module: %v", got)
	}
}
