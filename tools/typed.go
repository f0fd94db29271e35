package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// NewTyped declares a tool whose parameters are the fields of struct T.
//
// Parameter names, types and descriptions come from the JSON schema reflected from T,
// so `json` and `jsonschema:"description=..."` struct tags drive the specification.
// Arguments are decoded into T with a JSON round-trip before fn runs.
func NewTyped[T, R any](name, description string, fn func(ctx context.Context, input T) (R, error)) (*Tool, error) {
	params, err := reflectParams[T]()
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	call := Func(func(ctx context.Context, args Args) (any, error) {
		input, err := decodeArgs[T](args)
		if err != nil {
			return nil, err
		}
		return fn(ctx, input)
	})
	return New(name, description, params, call)
}

func reflectParams[T any]() ([]Param, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Anonymous:      true,
	}
	schema := r.Reflect(new(T))
	if schema == nil || schema.Properties == nil {
		return nil, fmt.Errorf("input type %T has no properties", *new(T))
	}

	var params []Param
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		p := Param{Name: pair.Key}
		if pair.Value != nil {
			p.Type, _ = ParseType(pair.Value.Type)
			p.Description = pair.Value.Description
		}
		params = append(params, p)
	}
	return params, nil
}

func decodeArgs[T any](args Args) (T, error) {
	var input T
	data, err := json.Marshal(args)
	if err != nil {
		return input, fmt.Errorf("failed to marshal args: %w", err)
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("failed to decode args: %w", err)
	}
	return input, nil
}
