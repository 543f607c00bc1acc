package traits

import (
	"fmt"
	"reflect"
	"strconv"
)

// Enum returns a trait accepting only the listed values, compared with JSON
// equality (see canonical).
func Enum(values []any, opts ...Option) Trait {
	return &enumTrait{values: values, cfg: buildConfig(opts)}
}

type enumTrait struct {
	values []any
	cfg    config
}

func (t *enumTrait) Validate(v any) error {
	if v == nil && t.cfg.allowNull {
		return nil
	}
	for _, allowed := range t.values {
		if jsonEqual(v, allowed) {
			return nil
		}
	}
	return issue(CodeInvalidEnum, fmt.Sprintf("value %v is not one of the allowed values", v))
}
func (t *enumTrait) Decode(v any) (any, error) { return v, t.Validate(v) }
func (t *enumTrait) Encode(v any) (any, error) { return v, nil }
func (t *enumTrait) bind(*Module)              {}

// Array returns a trait accepting sequences whose elements all satisfy item.
func Array(item Trait, opts ...Option) Trait {
	return &arrayTrait{item: item, cfg: buildConfig(opts)}
}

type arrayTrait struct {
	item Trait
	cfg  config
}

func (t *arrayTrait) Validate(v any) error {
	elems, err := t.elements(v)
	if elems == nil || err != nil {
		return err
	}
	for i, e := range elems {
		if err := t.item.Validate(e); err != nil {
			return prefixIssues(strconv.Itoa(i), err)
		}
	}
	return t.checkUnique(elems)
}

func (t *arrayTrait) Decode(v any) (any, error) {
	elems, err := t.elements(v)
	if err != nil {
		return nil, err
	}
	if elems == nil {
		return nil, nil
	}
	out := make([]any, len(elems))
	for i, e := range elems {
		de, err := t.item.Decode(e)
		if err != nil {
			return nil, prefixIssues(strconv.Itoa(i), err)
		}
		out[i] = de
	}
	if err := t.checkUnique(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *arrayTrait) Encode(v any) (any, error) {
	elems, err := t.elements(v)
	if err != nil || elems == nil {
		return v, err
	}
	out := make([]any, len(elems))
	for i, e := range elems {
		ee, err := t.item.Encode(e)
		if err != nil {
			return nil, prefixIssues(strconv.Itoa(i), err)
		}
		out[i] = ee
	}
	return out, nil
}

func (t *arrayTrait) bind(m *Module) { t.item.bind(m) }

// elements normalizes any slice value into []any, enforcing null policy and
// length bounds. A nil result with nil error means an accepted null.
func (t *arrayTrait) elements(v any) ([]any, error) {
	if v == nil {
		if t.cfg.allowNull {
			return nil, nil
		}
		return nil, issue(CodeInvalidType, "expected array, got null")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, issue(CodeInvalidType, "expected array")
	}
	n := rv.Len()
	if t.cfg.minItems != nil && n < *t.cfg.minItems {
		return nil, issue(CodeTooShort, fmt.Sprintf("array has %d items, needs at least %d", n, *t.cfg.minItems))
	}
	if t.cfg.maxItems != nil && n > *t.cfg.maxItems {
		return nil, issue(CodeTooLong, fmt.Sprintf("array has %d items, allows at most %d", n, *t.cfg.maxItems))
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func (t *arrayTrait) checkUnique(elems []any) error {
	if !t.cfg.unique {
		return nil
	}
	for i := range elems {
		for j := i + 1; j < len(elems); j++ {
			if jsonEqual(elems[i], elems[j]) {
				return issue(CodeNotUnique, fmt.Sprintf("items %d and %d are equal", i, j))
			}
		}
	}
	return nil
}

// Union returns a trait accepting values that satisfy any member; used for
// list-form simple types like ["string", "number"].
func Union(members []Trait, opts ...Option) Trait {
	return &unionTrait{members: members, cfg: buildConfig(opts), mode: unionAny}
}

// AnyOf returns a trait accepting values valid against at least one member.
func AnyOf(members []Trait, opts ...Option) Trait {
	return &unionTrait{members: members, cfg: buildConfig(opts), mode: unionAny}
}

// OneOf returns a trait accepting values valid against exactly one member.
func OneOf(members []Trait, opts ...Option) Trait {
	return &unionTrait{members: members, cfg: buildConfig(opts), mode: unionExactlyOne}
}

// AllOf returns a trait accepting values valid against every member.
func AllOf(members []Trait, opts ...Option) Trait {
	return &unionTrait{members: members, cfg: buildConfig(opts), mode: unionAll}
}

type unionMode int

const (
	unionAny unionMode = iota
	unionExactlyOne
	unionAll
)

type unionTrait struct {
	members []Trait
	cfg     config
	mode    unionMode
}

func (t *unionTrait) Validate(v any) error {
	if v == nil && t.cfg.allowNull {
		return nil
	}
	matches := 0
	for _, m := range t.members {
		if m.Validate(v) == nil {
			matches++
		}
	}
	switch t.mode {
	case unionAll:
		if matches == len(t.members) {
			return nil
		}
		return issue(CodeUnionMismatch, "value does not satisfy all branches")
	case unionExactlyOne:
		if matches == 1 {
			return nil
		}
		if matches > 1 {
			return issue(CodeUnionAmbiguous, fmt.Sprintf("value matches %d branches, expected exactly one", matches))
		}
		return issue(CodeUnionMismatch, "value does not satisfy any branch")
	default:
		if matches > 0 {
			return nil
		}
		return issue(CodeUnionMismatch, "value does not satisfy any branch")
	}
}

func (t *unionTrait) Decode(v any) (any, error) {
	if err := t.Validate(v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	// Decode through the first branch that accepts the value; for allOf the
	// branches must agree on the wire shape, so the first is as good as any.
	for _, m := range t.members {
		if m.Validate(v) == nil {
			return m.Decode(v)
		}
	}
	return v, nil
}

func (t *unionTrait) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	for _, m := range t.members {
		if m.Validate(v) == nil {
			return m.Encode(v)
		}
	}
	return v, nil
}

func (t *unionTrait) bind(m *Module) {
	for _, mem := range t.members {
		mem.bind(m)
	}
}

// Not returns a trait accepting values that do NOT satisfy the inner trait.
func Not(inner Trait, opts ...Option) Trait {
	return &notTrait{inner: inner, cfg: buildConfig(opts)}
}

type notTrait struct {
	inner Trait
	cfg   config
}

func (t *notTrait) Validate(v any) error {
	if v == nil && t.cfg.allowNull {
		return nil
	}
	if t.inner.Validate(v) == nil {
		return issue(CodeNotExcluded, "value matches the excluded schema")
	}
	return nil
}
func (t *notTrait) Decode(v any) (any, error) { return v, t.Validate(v) }
func (t *notTrait) Encode(v any) (any, error) { return v, nil }
func (t *notTrait) bind(m *Module)            { t.inner.bind(m) }

// InstanceOf returns a trait accepting instances of the named class. The
// class is looked up lazily through the owning module, so mutually
// referencing classes work regardless of declaration order.
func InstanceOf(className string, opts ...Option) Trait {
	return &instanceTrait{className: className, cfg: buildConfig(opts)}
}

type instanceTrait struct {
	className string
	cfg       config
	module    *Module
}

func (t *instanceTrait) class() (*Class, error) {
	if t.module == nil {
		return nil, issue(CodeUnknownClass, fmt.Sprintf("instance trait for %q is not bound to a module", t.className))
	}
	return t.module.Lookup(t.className)
}

func (t *instanceTrait) Validate(v any) error {
	if v == nil {
		if t.cfg.allowNull {
			return nil
		}
		return issue(CodeInvalidType, fmt.Sprintf("expected %s instance, got null", t.className))
	}
	cls, err := t.class()
	if err != nil {
		return err
	}
	inst, ok := v.(*Instance)
	if !ok {
		return issue(CodeInvalidType, fmt.Sprintf("expected %s instance", t.className))
	}
	if inst.Class() != cls {
		return issue(CodeInvalidType, fmt.Sprintf("expected %s instance, got %s", t.className, inst.Class().Name()))
	}
	return nil
}

func (t *instanceTrait) Decode(v any) (any, error) {
	if v == nil {
		if t.cfg.allowNull {
			return nil, nil
		}
		return nil, issue(CodeInvalidType, fmt.Sprintf("expected %s object, got null", t.className))
	}
	cls, err := t.class()
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case *Instance:
		return val, t.Validate(val)
	case map[string]any:
		return cls.FromMap(val)
	default:
		return nil, issue(CodeInvalidType, fmt.Sprintf("expected %s object", t.className))
	}
}

func (t *instanceTrait) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	inst, ok := v.(*Instance)
	if !ok {
		return nil, issue(CodeInvalidType, fmt.Sprintf("expected %s instance", t.className))
	}
	return inst.ToMap(), nil
}

func (t *instanceTrait) bind(m *Module) { t.module = m }
