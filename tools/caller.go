package tools

import (
	"context"
	"sort"
)

// Caller is the schema-described tool shape used by shell-style integrations:
// parameters as a JSON schema map and a string result.
type Caller interface {
	Name() string
	Description() string
	Parameters() map[string]any // JSON schema for parameters
	Call(ctx context.Context, params map[string]any) (string, error)
}

// FromCaller adapts a Caller into a Tool, reading parameter types from the
// schema's "properties" object. Properties are ordered by the schema's "required"
// list first, then alphabetically.
func FromCaller(c Caller) (*Tool, error) {
	fn := Func(func(ctx context.Context, args Args) (any, error) {
		return c.Call(ctx, map[string]any(args))
	})
	schema := c.Parameters()
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		return NewUnspecified(c.Name(), c.Description(), fn)
	}
	return New(c.Name(), c.Description(), ParamsFromSchema(props, requiredNames(schema)), fn)
}

// ParamsFromSchema converts a JSON-schema properties object into Params.
// Non-primitive property types are kept with an Unknown type tag.
func ParamsFromSchema(props map[string]any, required []string) []Param {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	rank := make(map[string]int, len(required))
	for i, name := range required {
		rank[name] = i + 1
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := rank[names[i]], rank[names[j]]
		if ri != rj {
			if ri == 0 {
				return false
			}
			if rj == 0 {
				return true
			}
			return ri < rj
		}
		return names[i] < names[j]
	})

	params := make([]Param, 0, len(names))
	for _, name := range names {
		p := Param{Name: name}
		if prop, ok := props[name].(map[string]any); ok {
			if tag, ok := prop["type"].(string); ok {
				p.Type, _ = ParseType(tag)
			}
			p.Description, _ = prop["description"].(string)
		}
		params = append(params, p)
	}
	return params
}

func requiredNames(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		names := make([]string, 0, len(req))
		for _, v := range req {
			if s, ok := v.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}
