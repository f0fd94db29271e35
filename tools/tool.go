package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Type is the primitive type tag of a tool parameter
type Type string

const (
	Unknown Type = ""
	Int     Type = "int"
	String  Type = "str"
	Bool    Type = "bool"
	Float   Type = "float"
)

// ParseType maps a type tag, including its JSON-schema alias, to a Type.
// Unrecognized tags return Unknown and false.
func ParseType(tag string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "int", "integer":
		return Int, true
	case "str", "string":
		return String, true
	case "bool", "boolean":
		return Bool, true
	case "float", "number":
		return Float, true
	}
	return Unknown, false
}

// Param declares one named tool parameter
type Param struct {
	Name        string
	Type        Type
	Description string
}

// Parameters holds the declared parameters in declaration order
type Parameters struct {
	Properties []Param
}

// Lookup returns the declared parameter with the given name
func (p *Parameters) Lookup(name string) (Param, bool) {
	if p == nil {
		return Param{}, false
	}
	for _, param := range p.Properties {
		if param.Name == name {
			return param, true
		}
	}
	return Param{}, false
}

// Spec describes a tool's calling convention to the model.
// A nil Parameters means the tool carries no parameter specification.
type Spec struct {
	Name        string
	Description string
	Parameters  *Parameters
}

// Args is the named-argument mapping a tool is invoked with
type Args map[string]any

// Invocable is the single call capability every registered tool is adapted to
type Invocable interface {
	Call(ctx context.Context, args Args) (any, error)
}

// Func adapts a plain function to Invocable
type Func func(ctx context.Context, args Args) (any, error)

// Call invokes f
func (f Func) Call(ctx context.Context, args Args) (any, error) {
	return f(ctx, args)
}

var (
	// ErrMissingName is returned when a tool is declared without a name
	ErrMissingName = errors.New("tool name is required")
	// ErrDuplicate is returned when two tools or parameters share a name
	ErrDuplicate = errors.New("duplicate name")
)

// Tool is a named Invocable together with its specification.
// Tools are immutable once constructed.
type Tool struct {
	spec Spec
	fn   Invocable
}

// New declares a tool from an explicit parameter descriptor
func New(name, description string, params []Param, fn Invocable) (*Tool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}
	if fn == nil {
		return nil, fmt.Errorf("tool %q: nil implementation", name)
	}

	seen := make(map[string]bool, len(params))
	props := make([]Param, 0, len(params))
	for _, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("tool %q: parameter name is required", name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("tool %q: parameter %q: %w", name, p.Name, ErrDuplicate)
		}
		seen[p.Name] = true
		props = append(props, p)
	}

	return &Tool{
		spec: Spec{
			Name:        name,
			Description: strings.TrimSpace(description),
			Parameters:  &Parameters{Properties: props},
		},
		fn: fn,
	}, nil
}

// NewUnspecified declares a tool that carries no parameter specification.
// Arguments reach it exactly as the model wrote them.
func NewUnspecified(name, description string, fn Invocable) (*Tool, error) {
	t, err := New(name, description, nil, fn)
	if err != nil {
		return nil, err
	}
	t.spec.Parameters = nil
	return t, nil
}

// Must panics if err is non-nil. Intended for static tool declarations.
func Must(t *Tool, err error) *Tool {
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tool) Name() string { return t.spec.Name }

func (t *Tool) Description() string { return t.spec.Description }

// Spec returns the tool's specification
func (t *Tool) Spec() Spec { return t.spec }

// Invoke runs the tool. Panics inside the implementation are returned as errors.
func (t *Tool) Invoke(ctx context.Context, args Args) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	if args == nil {
		args = Args{}
	}
	return t.fn.Call(ctx, args)
}
