package agent

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/rathore/agentloop/protocol"
	"github.com/rathore/agentloop/tools"
)

// Dispatcher resolves tool calls against a registry and runs them.
// It never returns an error: every failure is captured in the Result.
type Dispatcher struct {
	registry *tools.Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil logger discards output.
func NewDispatcher(registry *tools.Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = discardLogger()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch runs a single tool call
func (d *Dispatcher) Dispatch(ctx context.Context, call protocol.ToolCall) protocol.Result {
	return d.dispatch(ctx, d.logger, call)
}

func (d *Dispatcher) dispatch(ctx context.Context, log *slog.Logger, call protocol.ToolCall) protocol.Result {
	result := protocol.Result{Name: call.Name, Arguments: call.Arguments}

	tool, ok := d.registry.Get(call.Name)
	if !ok {
		result.Err = &tools.NotFoundError{Name: call.Name}
		log.Warn("tool error", "tool", call.Name, "error", result.Err)
		return result
	}

	args, errs := tools.Coerce(call.Arguments, tool.Spec())
	for _, err := range errs {
		log.Warn("coercion failed", "tool", call.Name, "error", err)
	}
	for name, v := range args {
		if orig, ok := call.Arguments[name]; ok && reflect.TypeOf(orig) != reflect.TypeOf(v) {
			log.Debug("argument coerced", "tool", call.Name, "arg", name, "from", orig, "to", v)
		}
	}
	result.Arguments = args

	log.Info("tool start", "tool", call.Name, "args", args)
	start := time.Now()
	out, err := tool.Invoke(ctx, args)
	duration := time.Since(start)
	if err != nil {
		result.Err = &tools.ExecError{Name: call.Name, Err: err}
		log.Warn("tool error", "tool", call.Name, "duration", duration, "error", err)
		return result
	}
	result.Output = out
	log.Info("tool end", "tool", call.Name, "duration", duration)
	return result
}

// DispatchAll runs calls sequentially in order. A failing call does not stop the rest.
func (d *Dispatcher) DispatchAll(ctx context.Context, calls []protocol.ToolCall) []protocol.Result {
	return d.dispatchAll(ctx, d.logger, calls)
}

func (d *Dispatcher) dispatchAll(ctx context.Context, log *slog.Logger, calls []protocol.ToolCall) []protocol.Result {
	results := make([]protocol.Result, 0, len(calls))
	for _, call := range calls {
		results = append(results, d.dispatch(ctx, log, call))
	}
	return results
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
