package traits

import "fmt"

// Field declares one validated property of a class.
type Field struct {
	Name     string
	Trait    Trait
	Required bool
	Doc      string
}

// ClassSpec is the declaration a generated module supplies for each class.
type ClassSpec struct {
	Doc          string
	Fields       []Field
	NoAdditional bool // reject keys outside Fields (additionalProperties: false)
}

// Class is a registered model class: an ordered field list plus the module it
// belongs to. Instances are map-backed; validation happens at construction.
type Class struct {
	name   string
	spec   ClassSpec
	byName map[string]int
	module *Module
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Doc returns the class documentation derived from the schema title and
// description.
func (c *Class) Doc() string { return c.spec.Doc }

// Fields returns the declared fields in declaration order.
func (c *Class) Fields() []Field { return c.spec.Fields }

// Module returns the module the class is registered in.
func (c *Class) Module() *Module { return c.module }

// New constructs an instance from already-runtime values (nested class values
// must be *Instance, not maps). It fails if a required field is missing, a
// value does not satisfy its trait, or an unknown key is present while the
// class forbids additional properties.
func (c *Class) New(values map[string]any) (*Instance, error) {
	return c.build(values, false)
}

// FromMap constructs an instance from a plain wire mapping, decoding nested
// objects into instances. Inverse of ToMap.
func (c *Class) FromMap(m map[string]any) (*Instance, error) {
	return c.build(m, true)
}

func (c *Class) build(values map[string]any, decode bool) (*Instance, error) {
	var iss Issues
	out := make(map[string]any, len(values))
	for _, f := range c.spec.Fields {
		v, ok := values[f.Name]
		if !ok {
			if f.Required {
				iss = append(iss, Issue{Path: "/" + escapeSeg(f.Name), Code: CodeRequired, Message: "required property missing"})
			}
			continue
		}
		var err error
		if decode {
			v, err = f.Trait.Decode(v)
		} else {
			err = f.Trait.Validate(v)
		}
		if err != nil {
			if sub, ok := AsIssues(prefixIssues(f.Name, err)); ok {
				iss = append(iss, sub...)
			} else {
				return nil, err
			}
			continue
		}
		out[f.Name] = v
	}
	for k, v := range values {
		if _, declared := c.byName[k]; declared {
			continue
		}
		if c.spec.NoAdditional {
			iss = append(iss, Issue{Path: "/" + escapeSeg(k), Code: CodeUnknownKey, Message: "unknown key"})
			continue
		}
		out[k] = v
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return &Instance{class: c, values: out}, nil
}

// Instance is a validated, map-backed value of a class.
type Instance struct {
	class  *Class
	values map[string]any
}

// Class returns the instance's class.
func (i *Instance) Class() *Class { return i.class }

// Get returns the value stored for name and whether it is present.
func (i *Instance) Get(name string) (any, bool) {
	v, ok := i.values[name]
	return v, ok
}

// ToMap extracts the plain wire mapping for the instance, encoding nested
// instances back into maps. Inverse of FromMap for any valid instance.
func (i *Instance) ToMap() map[string]any {
	out := make(map[string]any, len(i.values))
	for _, f := range i.class.spec.Fields {
		v, ok := i.values[f.Name]
		if !ok {
			continue
		}
		ev, err := f.Trait.Encode(v)
		if err != nil {
			// Values were validated on the way in; an encode failure here
			// means the instance was mutated out of band.
			panic(fmt.Sprintf("traits: encode of validated field %s.%s failed: %v", i.class.name, f.Name, err))
		}
		out[f.Name] = ev
	}
	for k, v := range i.values {
		if _, declared := i.class.byName[k]; !declared {
			out[k] = v
		}
	}
	return out
}
