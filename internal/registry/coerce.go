package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// coerce converts v to the Go type backing t. Conversion is weak: numeric
// strings become numbers, numbers become strings, and so on. Composite values
// are never accepted for a scalar parameter.
func coerce(t ParamType, v any) (any, error) {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer, reflect.Interface:
		return nil, fmt.Errorf("cannot use %T as %s", v, t)
	}

	switch t {
	case TypeString:
		var s string
		if err := mapstructure.WeakDecode(v, &s); err != nil {
			return nil, err
		}
		return s, nil
	case TypeInteger:
		return toInt(v)
	case TypeNumber:
		var f float64
		if err := mapstructure.WeakDecode(v, &f); err != nil {
			return nil, err
		}
		return f, nil
	case TypeBoolean:
		var b bool
		if err := mapstructure.WeakDecode(v, &b); err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %q", t)
	}
}

// toInt accepts integral numbers that fit in an int, numeric strings and
// json.Number values. Integers in a json.Number are taken digit for digit.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			if int64(int(i)) != i {
				return 0, fmt.Errorf("%s is out of range for an integer", n)
			}
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s is not an integer", n)
		}
		return floatToInt(f)
	case float64:
		return floatToInt(n)
	case float32:
		return floatToInt(float64(n))
	}
	var i int
	if err := mapstructure.WeakDecode(v, &i); err != nil {
		return 0, err
	}
	return i, nil
}

// floatToInt rejects fractions, NaN and values outside [math.MinInt, math.MaxInt].
// float64(math.MaxInt) rounds up to a power of two, hence the >= bound.
func floatToInt(f float64) (int, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("%v is out of range for an integer", f)
	}
	return int(f), nil
}

// coerceArgs resolves every declared parameter of d from args, filling in
// defaults for omitted optional ones. Undeclared arguments are dropped.
func coerceArgs(d Descriptor, args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(d.Params))
	for _, p := range d.Params {
		v, ok := args[p.Name]
		if !ok || v == nil {
			if p.Required() {
				return nil, &ArgumentError{Operation: d.Name, Param: p.Name, Reason: "missing required parameter"}
			}
			out[p.Name] = p.Default
			continue
		}
		cv, err := coerce(p.Type, v)
		if err != nil {
			return nil, &ArgumentError{Operation: d.Name, Param: p.Name, Reason: err.Error()}
		}
		out[p.Name] = cv
	}
	return out, nil
}

// Bind adapts a handler taking a typed input struct into a Handler. Fields of
// T are matched to parameter names through mapstructure tags.
func Bind[T any](fn func(ctx context.Context, in T) (string, error)) Handler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		var in T
		if err := mapstructure.Decode(args, &in); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return fn(ctx, in)
	}
}
