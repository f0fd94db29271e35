package tools

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var (
	errLossy       = errors.New("value has a fractional part")
	errIntOverflow = errors.New("value out of int range")
)

// Coerce converts arguments to the primitive types declared in spec.
//
// Only arguments naming a declared parameter with a known type are touched, and only when
// the runtime value does not already match. A failed conversion keeps the original value and
// is reported in the returned slice. The input mapping is never modified.
func Coerce(args Args, spec Spec) (Args, []error) {
	out := make(Args, len(args))
	for k, v := range args {
		out[k] = v
	}
	if spec.Parameters == nil {
		return out, nil
	}

	var errs []error
	for name, value := range args {
		param, ok := spec.Parameters.Lookup(name)
		if !ok || param.Type == Unknown || Matches(value, param.Type) {
			continue
		}
		converted, err := convert(value, param.Type)
		if err != nil {
			errs = append(errs, &CoercionError{Arg: name, Type: param.Type, Value: value, Err: err})
			continue
		}
		out[name] = converted
	}
	return out, errs
}

// Matches reports whether value already has the Go type used for t
func Matches(value any, t Type) bool {
	switch t {
	case Int:
		_, ok := value.(int)
		return ok
	case Float:
		_, ok := value.(float64)
		return ok
	case Bool:
		_, ok := value.(bool)
		return ok
	case String:
		_, ok := value.(string)
		return ok
	}
	return false
}

func convert(value any, t Type) (any, error) {
	if value == nil {
		return nil, errors.New("value is null")
	}
	switch t {
	case Int:
		return toInt(value)
	case Float:
		return toFloat(value)
	case Bool:
		return toBool(value)
	case String:
		return toString(value)
	}
	return nil, fmt.Errorf("unsupported type %q", t)
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 0)
		if err != nil {
			return 0, err
		}
		return int(n), nil
	case float64:
		return floatToInt(v)
	case float32:
		return floatToInt(float64(v))
	}
	return cast.ToIntE(value)
}

// floatToInt converts only integral values that fit in an int.
// MinInt and -MinInt are powers of two, so both bounds are exact as float64.
func floatToInt(v float64) (int, error) {
	if v != math.Trunc(v) {
		return 0, errLossy
	}
	if v < math.MinInt || v >= -math.MinInt {
		return 0, errIntOverflow
	}
	return int(v), nil
}

func toFloat(value any) (float64, error) {
	if s, ok := value.(string); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return cast.ToFloat64E(value)
}

// toBool accepts only the literals "true" and "false" (any case) for strings.
// Numbers convert as non-zero = true.
func toBool(value any) (bool, error) {
	if s, ok := value.(string); ok {
		switch {
		case strings.EqualFold(strings.TrimSpace(s), "true"):
			return true, nil
		case strings.EqualFold(strings.TrimSpace(s), "false"):
			return false, nil
		}
		return false, fmt.Errorf("%q is not a boolean literal", s)
	}
	return cast.ToBoolE(value)
}

func toString(value any) (string, error) {
	switch value.(type) {
	case map[string]any, []any:
		return "", errors.New("structured values are not converted to strings")
	}
	return cast.ToStringE(value)
}
