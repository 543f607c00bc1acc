package traits

import "math"

// Bool returns a trait accepting JSON booleans.
func Bool(opts ...Option) Trait { return &boolTrait{cfg: buildConfig(opts)} }

// Null returns a trait accepting only null.
func Null(opts ...Option) Trait { return &nullTrait{cfg: buildConfig(opts)} }

// Number returns a trait accepting any JSON number, with optional
// Minimum/Maximum/ExclusiveMinimum/ExclusiveMaximum/MultipleOf bounds.
func Number(opts ...Option) Trait {
	return &numberTrait{cfg: buildConfig(opts)}
}

// Integer returns a trait accepting integral JSON numbers, with the same
// bound options as Number.
func Integer(opts ...Option) Trait {
	return &numberTrait{cfg: buildConfig(opts), integral: true}
}

// String returns a trait accepting JSON strings.
func String(opts ...Option) Trait { return &stringTrait{cfg: buildConfig(opts)} }

type boolTrait struct{ cfg config }

func (t *boolTrait) Validate(v any) error {
	if v == nil {
		if t.cfg.allowNull {
			return nil
		}
		return issue(CodeInvalidType, "expected boolean, got null")
	}
	if _, ok := v.(bool); !ok {
		return issue(CodeInvalidType, "expected boolean")
	}
	return nil
}
func (t *boolTrait) Decode(v any) (any, error) { return v, t.Validate(v) }
func (t *boolTrait) Encode(v any) (any, error) { return v, nil }
func (t *boolTrait) bind(*Module)              {}

type nullTrait struct{ cfg config }

func (t *nullTrait) Validate(v any) error {
	if v != nil {
		return issue(CodeInvalidType, "expected null")
	}
	return nil
}
func (t *nullTrait) Decode(v any) (any, error) { return v, t.Validate(v) }
func (t *nullTrait) Encode(v any) (any, error) { return v, nil }
func (t *nullTrait) bind(*Module)              {}

type numberTrait struct {
	cfg      config
	integral bool
}

func (t *numberTrait) Validate(v any) error {
	if v == nil {
		if t.cfg.allowNull {
			return nil
		}
		return issue(CodeInvalidType, "expected number, got null")
	}
	if _, ok := v.(bool); ok {
		return issue(CodeInvalidType, "expected number, got boolean")
	}
	f, ok := toFloat(v)
	if !ok {
		return issue(CodeInvalidType, "expected number")
	}
	if t.integral && f != math.Trunc(f) {
		return issue(CodeInvalidType, "expected integer")
	}
	return t.cfg.checkBounds(f)
}
func (t *numberTrait) Decode(v any) (any, error) { return v, t.Validate(v) }
func (t *numberTrait) Encode(v any) (any, error) { return v, nil }
func (t *numberTrait) bind(*Module)              {}

type stringTrait struct{ cfg config }

func (t *stringTrait) Validate(v any) error {
	if v == nil {
		if t.cfg.allowNull {
			return nil
		}
		return issue(CodeInvalidType, "expected string, got null")
	}
	if _, ok := v.(string); !ok {
		return issue(CodeInvalidType, "expected string")
	}
	return nil
}
func (t *stringTrait) Decode(v any) (any, error) { return v, t.Validate(v) }
func (t *stringTrait) Encode(v any) (any, error) { return v, nil }
func (t *stringTrait) bind(*Module)              {}
