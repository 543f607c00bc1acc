// Package traits is the runtime library generated modules call into. Each
// trait validates one property shape; Class groups traits into a map-backed
// model with Decode/Encode symmetry (FromMap/ToMap).
package traits

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Issue codes raised during validation.
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeUnknownKey     = "unknown_key"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodeNotUnique      = "not_unique"
	CodeNotMultiple    = "not_multiple"
	CodeInvalidEnum    = "invalid_enum"
	CodeUnionMismatch  = "union_mismatch"
	CodeUnionAmbiguous = "union_ambiguous"
	CodeNotExcluded    = "not_excluded"
	CodeUnknownClass   = "unknown_class"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer relative to the validated value.
	Code    string // One of the codes listed above.
	Message string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func issue(code, msg string) Issues {
	return Issues{{Path: "/", Code: code, Message: msg}}
}

// prefixIssues rebases relative issue paths under the given pointer segment.
func prefixIssues(seg string, err error) error {
	iss, ok := AsIssues(err)
	if !ok {
		return err
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		p := it.Path
		if p == "/" || p == "" {
			p = ""
		}
		it.Path = "/" + escapeSeg(seg) + p
		out[i] = it
	}
	return out
}

// escapeSeg escapes '~' -> '~0', '/' -> '~1' per RFC6901.
func escapeSeg(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// Trait validates one property shape. Decode converts a wire value (plain
// maps, slices, scalars) into the runtime form, validating on the way in;
// Encode is the inverse. The bind hook is how container traits learn their
// owning module, which keeps Instance lookups lazy and cycle-safe.
type Trait interface {
	Validate(v any) error
	Decode(v any) (any, error)
	Encode(v any) (any, error)
	bind(m *Module)
}

// config carries the keyword-style constraint arguments shared across trait
// constructors. Options not meaningful for a given trait are ignored.
type config struct {
	allowNull  bool
	min        *float64
	max        *float64
	exclMin    bool
	exclMax    bool
	multipleOf *float64
	minItems   *int
	maxItems   *int
	unique     bool
}

// Option is a constraint argument for a trait constructor.
type Option func(*config)

// AllowNull permits an explicit null value in place of the trait's type.
func AllowNull(on bool) Option { return func(c *config) { c.allowNull = on } }

// Minimum sets the inclusive lower bound for numeric traits (exclusive when
// ExclusiveMinimum is set).
func Minimum(v float64) Option { return func(c *config) { c.min = &v } }

// Maximum sets the inclusive upper bound for numeric traits (exclusive when
// ExclusiveMaximum is set).
func Maximum(v float64) Option { return func(c *config) { c.max = &v } }

// ExclusiveMinimum makes Minimum an exclusive bound (draft-04 boolean form).
func ExclusiveMinimum(on bool) Option { return func(c *config) { c.exclMin = on } }

// ExclusiveMaximum makes Maximum an exclusive bound (draft-04 boolean form).
func ExclusiveMaximum(on bool) Option { return func(c *config) { c.exclMax = on } }

// MultipleOf constrains numeric values to multiples of v.
func MultipleOf(v float64) Option { return func(c *config) { c.multipleOf = &v } }

// MinItems sets the minimum array length.
func MinItems(n int) Option { return func(c *config) { c.minItems = &n } }

// MaxItems sets the maximum array length.
func MaxItems(n int) Option { return func(c *config) { c.maxItems = &n } }

// UniqueItems requires array elements to be pairwise distinct.
func UniqueItems(on bool) Option { return func(c *config) { c.unique = on } }

func buildConfig(opts []Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	return c
}

// toFloat widens any Go numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

// canonical normalizes a JSON-shaped value for equality comparison: all
// numerics widen to float64 and containers normalize recursively. This gives
// enum and uniqueness checks JSON semantics, where 1 and 1.0 are the same
// value.
func canonical(v any) any {
	if f, ok := toFloat(v); ok {
		return f
	}
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = canonical(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = canonical(vv)
		}
		return out
	default:
		return v
	}
}

func jsonEqual(a, b any) bool {
	return reflect.DeepEqual(canonical(a), canonical(b))
}

func (c *config) checkBounds(f float64) error {
	if c.min != nil {
		if c.exclMin {
			if f <= *c.min {
				return issue(CodeTooSmall, fmt.Sprintf("value %v must be > %v", f, *c.min))
			}
		} else if f < *c.min {
			return issue(CodeTooSmall, fmt.Sprintf("value %v must be >= %v", f, *c.min))
		}
	}
	if c.max != nil {
		if c.exclMax {
			if f >= *c.max {
				return issue(CodeTooBig, fmt.Sprintf("value %v must be < %v", f, *c.max))
			}
		} else if f > *c.max {
			return issue(CodeTooBig, fmt.Sprintf("value %v must be <= %v", f, *c.max))
		}
	}
	if c.multipleOf != nil && *c.multipleOf != 0 {
		q := f / *c.multipleOf
		if math.Abs(q-math.Round(q)) > 1e-9 {
			return issue(CodeNotMultiple, fmt.Sprintf("value %v is not a multiple of %v", f, *c.multipleOf))
		}
	}
	return nil
}
