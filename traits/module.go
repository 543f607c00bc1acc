package traits

import (
	"fmt"
	"sync"
)

// Module is an ordered set of classes generated from one schema document.
// InstanceOf traits resolve class names through it lazily, which is what lets
// mutually recursive definitions load in plain declaration order.
type Module struct {
	id      string
	classes []*Class
	byName  map[string]*Class
}

// NewModule creates an empty module with the given identifier.
func NewModule(id string) *Module {
	return &Module{id: id, byName: map[string]*Class{}}
}

// ID returns the module identifier.
func (m *Module) ID() string { return m.id }

// Classes returns the registered classes in registration order.
func (m *Module) Classes() []*Class { return append([]*Class(nil), m.classes...) }

// Class registers a class under the given name and binds its traits to the
// module. Registering a duplicate name within one module is an error.
func (m *Module) Class(name string, spec ClassSpec) (*Class, error) {
	if _, exists := m.byName[name]; exists {
		return nil, fmt.Errorf("traits: class %s already registered in module %s", name, m.id)
	}
	byName := make(map[string]int, len(spec.Fields))
	for i, f := range spec.Fields {
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("traits: duplicate field %s in class %s", f.Name, name)
		}
		byName[f.Name] = i
	}
	c := &Class{name: name, spec: spec, byName: byName, module: m}
	for _, f := range spec.Fields {
		f.Trait.bind(m)
	}
	m.classes = append(m.classes, c)
	m.byName[name] = c
	return c, nil
}

// MustClass is the panicking form of Class used by generated source, where a
// registration failure means the generator itself produced a bad module.
func MustClass(m *Module, name string, spec ClassSpec) *Class {
	c, err := m.Class(name, spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup resolves a class by name.
func (m *Module) Lookup(name string) (*Class, error) {
	c, ok := m.byName[name]
	if !ok {
		return nil, issue(CodeUnknownClass, fmt.Sprintf("class %s is not defined in module %s", name, m.id))
	}
	return c, nil
}

// ---- loaded-module registry ----

// The registry scopes live-loaded modules under caller-supplied identifiers
// so repeated test runs do not collide; re-registering an identifier replaces
// the previous module.
var registry = struct {
	mu   sync.Mutex
	mods map[string]*Module
}{mods: map[string]*Module{}}

// Register records a module under its identifier, replacing any previous
// module with the same identifier.
func Register(m *Module) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.mods[m.id] = m
}

// Loaded returns the module registered under id, if any.
func Loaded(id string) (*Module, bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	m, ok := registry.mods[id]
	return m, ok
}

// Unregister removes the module registered under id.
func Unregister(id string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.mods, id)
}
