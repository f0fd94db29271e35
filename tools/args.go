package tools

import "fmt"

// Int returns the named argument as an int
func (a Args) Int(name string) (int, error) {
	v, err := a.lookup(name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	}
	return 0, typeMismatch(name, Int, v)
}

// Float returns the named argument as a float64. Integers are widened.
func (a Args) Float(name string) (float64, error) {
	v, err := a.lookup(name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, typeMismatch(name, Float, v)
}

// String returns the named argument as a string
func (a Args) String(name string) (string, error) {
	v, err := a.lookup(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch(name, String, v)
	}
	return s, nil
}

// Bool returns the named argument as a bool
func (a Args) Bool(name string) (bool, error) {
	v, err := a.lookup(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeMismatch(name, Bool, v)
	}
	return b, nil
}

func (a Args) lookup(name string) (any, error) {
	v, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("missing required argument %q", name)
	}
	return v, nil
}

func typeMismatch(name string, want Type, got any) error {
	return fmt.Errorf("argument %q: expected %s, got %T", name, want, got)
}
