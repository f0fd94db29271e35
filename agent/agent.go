// Package agent runs the model/tool loop: it prompts the model with the tool
// list, executes the tool calls it asks for and feeds the results back until
// the model answers or the iteration budget runs out.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rathore/agentloop/llm"
	"github.com/rathore/agentloop/protocol"
	"github.com/rathore/agentloop/tools"
)

// DefaultMaxIter is used when Config.MaxIter is zero
const DefaultMaxIter = 10

// MaxIterationsMessage is returned when no final answer arrived within the budget
const MaxIterationsMessage = "Max iterations reached without a final response."

// Mode selects the loop variant
type Mode int

const (
	// ModeReAct re-prompts the model after every round of tool calls
	ModeReAct Mode = iota
	// ModeToolCalling runs one round of tool calls and returns the next reply verbatim
	ModeToolCalling
)

func (m Mode) String() string {
	if m == ModeToolCalling {
		return "tool_calling"
	}
	return "react"
}

// ParseMode parses "react" or "tool_calling" (also "tool-calling")
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "react":
		return ModeReAct, nil
	case "tool_calling", "tool-calling", "toolcalling":
		return ModeToolCalling, nil
	}
	return ModeReAct, fmt.Errorf("unknown agent mode %q (want react or tool_calling)", s)
}

// State is where the loop stopped
type State string

const (
	StateAwaitingModel  State = "AWAITING_MODEL"
	StateFinalAnswer    State = "HAVE_FINAL_ANSWER"
	StatePlainText      State = "HAVE_PLAIN_TEXT"
	StateExecutingTools State = "EXECUTING_TOOLS"
	StateMaxIterations  State = "MAX_ITERATIONS_EXCEEDED"
)

// Config holds agent configuration
type Config struct {
	Client       llm.ChatClient  // required
	SystemPrompt string          // instructions placed before the <tools> block; defaults per Mode
	Tools        *tools.Registry // nil means no tools
	MaxIter      int
	Mode         Mode
	Logger       *slog.Logger // nil discards logs
	OnChunk      func(chunk string)
}

// Result describes one completed run
type Result struct {
	Text       string
	State      State
	Iterations int // completion calls made
	ToolCalls  int // tool calls dispatched
}

// Agent runs the agent loop. It keeps conversation history between runs and
// is not safe for concurrent use.
type Agent struct {
	client     llm.ChatClient
	registry   *tools.Registry
	dispatcher *Dispatcher
	system     string
	mode       Mode
	maxRounds  int
	reenter    bool
	logger     *slog.Logger
	onChunk    func(string)
	history    []llm.Message
}

// New creates a new agent
func New(cfg Config) (*Agent, error) {
	if cfg.Client == nil {
		return nil, errors.New("agent: client is required")
	}
	if cfg.MaxIter < 0 {
		return nil, fmt.Errorf("agent: max iterations must be positive, got %d", cfg.MaxIter)
	}
	registry := cfg.Tools
	if registry == nil {
		registry, _ = tools.NewRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = discardLogger()
	}

	a := &Agent{
		client:     cfg.Client,
		registry:   registry,
		dispatcher: NewDispatcher(registry, logger),
		mode:       cfg.Mode,
		logger:     logger,
		onChunk:    cfg.OnChunk,
	}

	switch cfg.Mode {
	case ModeReAct:
		a.maxRounds, a.reenter = cfg.MaxIter, true
		if a.maxRounds == 0 {
			a.maxRounds = DefaultMaxIter
		}
	case ModeToolCalling:
		a.maxRounds, a.reenter = 1, false
	default:
		return nil, fmt.Errorf("agent: unknown mode %d", cfg.Mode)
	}

	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = DefaultReActPrompt
		if cfg.Mode == ModeToolCalling {
			prompt = DefaultToolCallingPrompt
		}
	}
	block, err := protocol.FormatTools(registry.Specs())
	if err != nil {
		return nil, err
	}
	a.system = prompt + "\n\n" + block
	return a, nil
}

// Run executes the agent with the given user input and returns the answer text
func (a *Agent) Run(ctx context.Context, userInput string) (string, error) {
	res, err := a.Execute(ctx, userInput)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Execute runs the loop for one user turn.
//
// Only the user input and the final model reply are kept in history; tool
// requests and results live in the working message list of this run. Running
// out of iterations is not an error: the result carries MaxIterationsMessage.
func (a *Agent) Execute(ctx context.Context, userInput string) (*Result, error) {
	log := a.logger.With("run_id", uuid.NewString())
	log.Info("agent run start", "mode", a.mode.String(), "max_iterations", a.maxRounds, "tools", a.registry.Len())

	a.history = append(a.history, llm.Message{Role: llm.RoleUser, Content: userInput})

	messages := make([]llm.Message, 0, len(a.history)+1+2*min(a.maxRounds, 8))
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: a.system})
	messages = append(messages, a.history...)

	res := &Result{State: StateAwaitingModel}
	for i := 0; i < a.maxRounds; i++ {
		log.Debug("iteration", "n", i+1)
		text, err := a.complete(ctx, messages)
		res.Iterations++
		if err != nil {
			return nil, fmt.Errorf("agent iteration %d: %w", i, err)
		}
		log.Debug("model response", "chars", len(text), "content", text)

		directives := protocol.Extract(text)
		for _, err := range directives.Malformed {
			log.Warn("malformed tool call", "error", err)
		}

		switch directives.Kind() {
		case protocol.FinalAnswer:
			log.Info("final answer", "iterations", res.Iterations)
			return a.finish(res, StateFinalAnswer, directives.Final, text), nil
		case protocol.PlainText:
			log.Info("plain text response", "iterations", res.Iterations)
			return a.finish(res, StatePlainText, text, text), nil
		}

		res.State = StateExecutingTools
		results := a.dispatcher.dispatchAll(ctx, log, directives.Calls)
		res.ToolCalls += len(results)
		messages = append(messages,
			llm.Message{Role: llm.RoleAssistant, Content: text},
			llm.Message{Role: llm.RoleUser, Content: protocol.FormatResults(results)},
		)

		if !a.reenter {
			text, err := a.complete(ctx, messages)
			res.Iterations++
			if err != nil {
				return nil, fmt.Errorf("agent iteration %d: %w", i+1, err)
			}
			log.Info("final answer", "iterations", res.Iterations)
			return a.finish(res, StateFinalAnswer, text, text), nil
		}
		res.State = StateAwaitingModel
	}

	log.Warn("max iterations reached", "iterations", res.Iterations, "tool_calls", res.ToolCalls)
	res.State = StateMaxIterations
	res.Text = MaxIterationsMessage
	return res, nil
}

// finish records the raw reply in history and completes res
func (a *Agent) finish(res *Result, state State, answer, raw string) *Result {
	a.history = append(a.history, llm.Message{Role: llm.RoleAssistant, Content: raw})
	res.State = state
	res.Text = answer
	return res
}

func (a *Agent) complete(ctx context.Context, messages []llm.Message) (string, error) {
	if a.onChunk != nil {
		if sc, ok := a.client.(llm.StreamingChatClient); ok {
			resp, err := sc.ChatStream(ctx, messages, a.onChunk)
			if err != nil {
				return "", err
			}
			return resp.Content, nil
		}
	}
	resp, err := a.client.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// History returns a copy of the conversation so far
func (a *Agent) History() []llm.Message {
	return append([]llm.Message(nil), a.history...)
}

// ClearHistory clears the conversation history
func (a *Agent) ClearHistory() {
	a.history = nil
	a.logger.Info("conversation history reset")
}

// Tools returns the registry the agent dispatches against
func (a *Agent) Tools() *tools.Registry {
	return a.registry
}

// SystemPrompt returns the effective system message, tool list included
func (a *Agent) SystemPrompt() string {
	return a.system
}
