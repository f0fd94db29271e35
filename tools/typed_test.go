package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetInput struct {
	Name  string  `json:"name" jsonschema:"description=Who to greet"`
	Times int     `json:"times"`
	Shout bool    `json:"shout"`
	Pitch float64 `json:"pitch"`
}

func greet(_ context.Context, in greetInput) (string, error) {
	msg := "hello " + in.Name
	if in.Shout {
		msg += "!"
	}
	return msg, nil
}

func TestNewTyped_ReflectsFields(t *testing.T) {
	tool, err := NewTyped("greet", "Greets someone", greet)
	require.NoError(t, err)

	spec := tool.Spec()
	require.NotNil(t, spec.Parameters)
	assert.Equal(t, []Param{
		{Name: "name", Type: String, Description: "Who to greet"},
		{Name: "times", Type: Int},
		{Name: "shout", Type: Bool},
		{Name: "pitch", Type: Float},
	}, spec.Parameters.Properties)
}

func TestNewTyped_DecodesArguments(t *testing.T) {
	tool, err := NewTyped("greet", "Greets someone", greet)
	require.NoError(t, err)

	out, err := tool.Invoke(context.Background(), Args{"name": "Ada", "shout": true})
	require.NoError(t, err)
	assert.Equal(t, "hello Ada!", out)
}

func TestNewTyped_DecodeFailure(t *testing.T) {
	tool, err := NewTyped("greet", "Greets someone", greet)
	require.NoError(t, err)

	_, err = tool.Invoke(context.Background(), Args{"name": 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode args")
}
