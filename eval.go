package traitgen

import (
	"fmt"

	gen "github.com/reoring/traitgen/internal/gen"
	"github.com/reoring/traitgen/traits"
)

// evalTrait interprets the same call IR the renderer prints, producing the
// live runtime trait. Renderer and evaluator must stay in lockstep: a loaded
// module behaves exactly as the generated source would after compilation.
func evalTrait(c *gen.Call) (traits.Trait, error) {
	opts, err := evalOpts(c.Opts)
	if err != nil {
		return nil, err
	}
	switch c.Name {
	case "traits.Bool":
		return traits.Bool(opts...), nil
	case "traits.Null":
		return traits.Null(opts...), nil
	case "traits.Number":
		return traits.Number(opts...), nil
	case "traits.Integer":
		return traits.Integer(opts...), nil
	case "traits.String":
		return traits.String(opts...), nil
	case "traits.Enum":
		values, ok := litOf(c, 0).([]any)
		if !ok {
			return nil, fmt.Errorf("traitgen: enum call without value list")
		}
		return traits.Enum(values, opts...), nil
	case "traits.InstanceOf":
		name, ok := litOf(c, 0).(string)
		if !ok {
			return nil, fmt.Errorf("traitgen: instance call without class name")
		}
		return traits.InstanceOf(name, opts...), nil
	case "traits.Array":
		item, err := evalArg(c, 0)
		if err != nil {
			return nil, err
		}
		return traits.Array(item, opts...), nil
	case "traits.Not":
		inner, err := evalArg(c, 0)
		if err != nil {
			return nil, err
		}
		return traits.Not(inner, opts...), nil
	case "traits.Union", "traits.AnyOf", "traits.OneOf", "traits.AllOf":
		members, err := evalMembers(c)
		if err != nil {
			return nil, err
		}
		switch c.Name {
		case "traits.Union":
			return traits.Union(members, opts...), nil
		case "traits.AnyOf":
			return traits.AnyOf(members, opts...), nil
		case "traits.OneOf":
			return traits.OneOf(members, opts...), nil
		default:
			return traits.AllOf(members, opts...), nil
		}
	default:
		return nil, fmt.Errorf("traitgen: unknown trait constructor %s", c.Name)
	}
}

func litOf(c *gen.Call, i int) any {
	if i >= len(c.Args) || c.Args[i].Kind != gen.KindLit {
		return nil
	}
	return c.Args[i].Lit
}

func evalArg(c *gen.Call, i int) (traits.Trait, error) {
	if i >= len(c.Args) || c.Args[i].Kind != gen.KindCall {
		return nil, fmt.Errorf("traitgen: %s missing nested trait argument", c.Name)
	}
	return evalTrait(c.Args[i].Call)
}

func evalMembers(c *gen.Call) ([]traits.Trait, error) {
	if len(c.Args) == 0 || c.Args[0].Kind != gen.KindList {
		return nil, fmt.Errorf("traitgen: %s missing member list", c.Name)
	}
	members := make([]traits.Trait, len(c.Args[0].List))
	for i, v := range c.Args[0].List {
		if v.Kind != gen.KindCall {
			return nil, fmt.Errorf("traitgen: %s member %d is not a trait call", c.Name, i)
		}
		m, err := evalTrait(v.Call)
		if err != nil {
			return nil, err
		}
		members[i] = m
	}
	return members, nil
}

func evalOpts(opts []gen.Opt) ([]traits.Option, error) {
	out := make([]traits.Option, 0, len(opts))
	for _, o := range opts {
		built, err := evalOpt(o)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func evalOpt(o gen.Opt) (traits.Option, error) {
	v := o.Value.Lit
	switch o.Name {
	case "traits.Minimum", "traits.Maximum", "traits.MultipleOf":
		f, ok := litFloat(v)
		if !ok {
			return nil, fmt.Errorf("traitgen: option %s needs a number, got %T", o.Name, v)
		}
		switch o.Name {
		case "traits.Minimum":
			return traits.Minimum(f), nil
		case "traits.Maximum":
			return traits.Maximum(f), nil
		default:
			return traits.MultipleOf(f), nil
		}
	case "traits.MinItems", "traits.MaxItems":
		f, ok := litFloat(v)
		if !ok {
			return nil, fmt.Errorf("traitgen: option %s needs an integer, got %T", o.Name, v)
		}
		if o.Name == "traits.MinItems" {
			return traits.MinItems(int(f)), nil
		}
		return traits.MaxItems(int(f)), nil
	case "traits.ExclusiveMinimum", "traits.ExclusiveMaximum", "traits.UniqueItems", "traits.AllowNull":
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("traitgen: option %s needs a boolean, got %T", o.Name, v)
		}
		switch o.Name {
		case "traits.ExclusiveMinimum":
			return traits.ExclusiveMinimum(b), nil
		case "traits.ExclusiveMaximum":
			return traits.ExclusiveMaximum(b), nil
		case "traits.UniqueItems":
			return traits.UniqueItems(b), nil
		default:
			return traits.AllowNull(b), nil
		}
	default:
		return nil, fmt.Errorf("traitgen: unknown trait option %s", o.Name)
	}
}

// litFloat widens the numeric literal shapes JSON and YAML decoding produce.
func litFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}
