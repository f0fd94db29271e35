package agent

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/rathore/agentloop/protocol"
	"github.com/rathore/agentloop/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Success(t *testing.T) {
	d := NewDispatcher(registry(t, tools.AddTwoNumbers()), nil)

	res := d.Dispatch(context.Background(), protocol.ToolCall{
		Name:      "add_two_numbers",
		Arguments: map[string]any{"a": "10", "b": 20.0},
	})
	require.NoError(t, res.Err)
	assert.Equal(t, 30, res.Output)
	assert.Equal(t, map[string]any{"a": 10, "b": 20}, res.Arguments)
}

func TestDispatcher_UnknownTool(t *testing.T) {
	d := NewDispatcher(registry(t), nil)

	res := d.Dispatch(context.Background(), protocol.ToolCall{Name: "X", Arguments: map[string]any{}})
	var nf *tools.NotFoundError
	require.True(t, errors.As(res.Err, &nf))
	assert.Equal(t, "X", nf.Name)
	assert.Equal(t, "Error: Tool 'X' not found", res.Text())
}

func TestDispatcher_ExecutionError(t *testing.T) {
	div := tools.Must(tools.New("divide", "", []tools.Param{{Name: "a", Type: tools.Float}, {Name: "b", Type: tools.Float}},
		tools.Func(func(_ context.Context, args tools.Args) (any, error) {
			b, _ := args.Float("b")
			if b == 0 {
				return nil, errors.New("division by zero")
			}
			a, _ := args.Float("a")
			return a / b, nil
		})))
	d := NewDispatcher(registry(t, div), nil)

	res := d.Dispatch(context.Background(), protocol.ToolCall{Name: "divide", Arguments: map[string]any{"a": 1, "b": 0}})
	var ee *tools.ExecError
	require.True(t, errors.As(res.Err, &ee))
	assert.Equal(t, "Error executing divide: division by zero", res.Text())
}

func TestDispatcher_CoercionFailureStillInvokes(t *testing.T) {
	d := NewDispatcher(registry(t, tools.AddTwoNumbers()), nil)

	res := d.Dispatch(context.Background(), protocol.ToolCall{
		Name:      "add_two_numbers",
		Arguments: map[string]any{"a": "abc", "b": 1},
	})
	// "abc" stays a string, so the tool body rejects it
	require.Error(t, res.Err)
	assert.Contains(t, res.Text(), `Error executing add_two_numbers: argument "a": expected int, got string`)
}

func TestDispatcher_LogsToolLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := NewDispatcher(registry(t, tools.AddTwoNumbers()), logger)

	d.DispatchAll(context.Background(), []protocol.ToolCall{
		{Name: "add_two_numbers", Arguments: map[string]any{"a": "1", "b": "x"}},
		{Name: "missing", Arguments: map[string]any{}},
	})

	out := buf.String()
	for _, want := range []string{
		`msg="argument coerced" tool=add_two_numbers arg=a`,
		`msg="coercion failed" tool=add_two_numbers`,
		`msg="tool start" tool=add_two_numbers`,
		`msg="tool error" tool=add_two_numbers duration=`,
		`msg="tool error" tool=missing`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestDispatcher_DispatchAllKeepsOrder(t *testing.T) {
	d := NewDispatcher(registry(t, tools.AddTwoNumbers(), tools.RectangleArea()), nil)

	results := d.DispatchAll(context.Background(), []protocol.ToolCall{
		{Name: "calculate_area_of_rectangle", Arguments: map[string]any{"length": 2, "width": 3}},
		{Name: "nope", Arguments: map[string]any{}},
		{Name: "add_two_numbers", Arguments: map[string]any{"a": 1, "b": 2}},
	})
	require.Len(t, results, 3)
	assert.Equal(t, "calculate_area_of_rectangle", results[0].Name)
	assert.Equal(t, 6.0, results[0].Output)
	assert.Error(t, results[1].Err)
	assert.Equal(t, 3, results[2].Output)
}
