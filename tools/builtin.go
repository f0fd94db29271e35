package tools

import (
	"context"
	"fmt"
	"sort"
)

// AddTwoNumbers adds two integers
func AddTwoNumbers() *Tool {
	return Must(New(
		"add_two_numbers",
		"Used to add two numbers together",
		[]Param{{Name: "a", Type: Int}, {Name: "b", Type: Int}},
		Func(func(_ context.Context, args Args) (any, error) {
			a, err := args.Int("a")
			if err != nil {
				return nil, err
			}
			b, err := args.Int("b")
			if err != nil {
				return nil, err
			}
			return a + b, nil
		}),
	))
}

// RectangleArea multiplies length by width
func RectangleArea() *Tool {
	return Must(New(
		"calculate_area_of_rectangle",
		"Used to calculate the area of a rectangle",
		[]Param{{Name: "length", Type: Float}, {Name: "width", Type: Float}},
		Func(func(_ context.Context, args Args) (any, error) {
			length, err := args.Float("length")
			if err != nil {
				return nil, err
			}
			width, err := args.Float("width")
			if err != nil {
				return nil, err
			}
			return length * width, nil
		}),
	))
}

var builtins = map[string]func() *Tool{
	"add_two_numbers":             AddTwoNumbers,
	"calculate_area_of_rectangle": RectangleArea,
	"shell":                       func() *Tool { return Shell(0) },
	"ssh":                         SSH,
	"fetch_page":                  func() *Tool { return FetchPage(nil) },
}

// Builtin returns a fresh instance of the named built-in tool
func Builtin(name string) (*Tool, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown built-in tool %q (available: %v)", name, BuiltinNames())
	}
	return build(), nil
}

// BuiltinNames lists the built-in tools in alphabetical order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
