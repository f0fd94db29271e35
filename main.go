package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rathore/agentloop/config"
	"github.com/rathore/agentloop/tools"
)

var version = "0.1.0"

// options holds the persistent command-line flags
type options struct {
	configPath string
	provider   string
	model      string
	mode       string
	maxIter    int
	mcp        []string
	tools      []string
	verbose    bool
	noColor    bool
	stream     bool
}

// parseMCPSpec parses an MCP spec into a tool name prefix and target command/URL.
// Format: [label:]command-or-url
// If label is provided: prefix is "mcp_<label>"
// If no label: "mcp" for index 0, "mcp2" for index 1, etc.
func parseMCPSpec(spec string, index int) (prefix, target string) {
	// Only split if the part before ':' doesn't look like a URL scheme.
	if i := strings.Index(spec, ":"); i > 0 {
		label := spec[:i]
		if label != "http" && label != "https" && !strings.ContainsAny(label, " /") {
			return "mcp_" + label, strings.TrimSpace(spec[i+1:])
		}
	}

	if index == 0 {
		return "mcp", spec
	}
	return fmt.Sprintf("mcp%d", index+1), spec
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(&options{}).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "agentloop",
		Short: "Tool-calling agent loop for chat completion models",
		Long: `agentloop drives a chat model through a tool-calling loop.

The model sees the registered tools in its system prompt, asks for them with
<tool_call> directives and answers inside <response> tags.

Modes:
  react         re-prompt after every round of tool calls (default)
  tool_calling  one round of tool calls, then return the next reply`,
		Version:      version,
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config (default ./"+config.DefaultFileName+" if present)")
	f.StringVar(&opts.provider, "provider", "", "Completion backend: openai, ollama or langchain-openai")
	f.StringVarP(&opts.model, "model", "m", "", "Model name")
	f.StringVar(&opts.mode, "mode", "", "Agent mode: react or tool_calling")
	f.IntVar(&opts.maxIter, "max-iter", 0, "Maximum agent iterations per query")
	f.StringArrayVar(&opts.mcp, "mcp", nil, "MCP server (repeatable). Format: [label:]command-or-url")
	f.StringArrayVar(&opts.tools, "tool", nil, "Built-in tool to enable (repeatable): "+strings.Join(tools.BuiltinNames(), ", "))
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log model responses and tool arguments")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	f.BoolVar(&opts.stream, "stream", false, "Stream model output as it arrives")

	root.AddCommand(newRunCmd(opts), newChatCmd(opts), newToolsCmd(opts))
	return root
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <question>",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			answer, err := app.agent.Run(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if opts.stream {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

func newToolsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool specifications shown to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			fmt.Fprintln(cmd.OutOrStdout(), app.toolsBlock())
			return nil
		},
	}
}

func newChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			return chat(cmd.Context(), app, opts)
		},
	}
}

type replCommand int

const (
	replPrompt replCommand = iota
	replEmpty
	replHelp
	replClear
	replTools
	replExit
)

func parseReplCommand(input string) replCommand {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return replEmpty
	case "quit", "exit", "/exit", "/quit":
		return replExit
	case "clear", "/clear":
		return replClear
	case "/tools":
		return replTools
	case "/help":
		return replHelp
	}
	return replPrompt
}

const replHelpText = `Commands:
  /help   - Show this help message
  /tools  - Show the tool specifications
  /clear  - Clear conversation history
  /exit   - Exit the agent

Anything else is sent to the model as a prompt.`

func chat(ctx context.Context, app *app, opts *options) error {
	rl, err := readline.New(color.CyanString("> "))
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	fmt.Fprintf(out, "agentloop %s (%s, model: %s, mode: %s, %d tools)\n",
		version, app.cfg.Provider, app.cfg.Model, app.cfg.Mode, app.agent.Tools().Len())
	fmt.Fprintln(out, "Type /help for commands")
	fmt.Fprintln(out, "---")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				fmt.Fprintln(out, color.GreenString("Goodbye!"))
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out, color.GreenString("Goodbye!"))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		switch parseReplCommand(line) {
		case replEmpty:
			continue
		case replExit:
			fmt.Fprintln(out, color.GreenString("Goodbye!"))
			return nil
		case replClear:
			app.agent.ClearHistory()
			fmt.Fprintln(out, "History cleared.")
			continue
		case replTools:
			fmt.Fprintln(out, app.toolsBlock())
			continue
		case replHelp:
			fmt.Fprintln(out, replHelpText)
			continue
		}

		answer, err := app.agent.Run(ctx, strings.TrimSpace(line))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(out, "\n%s %v\n", color.RedString("[Error]"), err)
			continue
		}
		if opts.stream {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "\n%s\n%s\n", color.New(color.Bold).Sprint("[Answer]"), answer)
	}
}
