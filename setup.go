package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mark3labs/mcp-go/client"
	"github.com/openai/openai-go/v3/option"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rathore/agentloop/agent"
	"github.com/rathore/agentloop/config"
	"github.com/rathore/agentloop/llm"
	"github.com/rathore/agentloop/protocol"
	"github.com/rathore/agentloop/tools"
)

// app is everything a command needs, built once from config and flags
type app struct {
	cfg     *config.Config
	agent   *agent.Agent
	logger  *slog.Logger
	servers []*client.Client
}

func (a *app) Close() {
	for _, c := range a.servers {
		if err := c.Close(); err != nil {
			a.logger.Debug("mcp close failed", "error", err)
		}
	}
}

func (a *app) toolsBlock() string {
	block, err := protocol.FormatTools(a.agent.Tools().Specs())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return block
}

func setup(cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if opts.noColor {
		color.NoColor = true
	}
	useColor := !opts.noColor && term.IsTerminal(int(os.Stderr.Fd()))
	logger := slog.New(newConsoleHandler(cmd.ErrOrStderr(), logLevel(cfg.LogLevel, opts.verbose), useColor))

	ctx := cmd.Context()
	a := &app{cfg: cfg, logger: logger}

	registry, err := buildRegistry(ctx, cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}
	chatClient, err := buildClient(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	prompt, err := cfg.Prompt()
	if err != nil {
		a.Close()
		return nil, err
	}
	mode, err := agent.ParseMode(cfg.Mode)
	if err != nil {
		a.Close()
		return nil, err
	}

	agentCfg := agent.Config{
		Client:       chatClient,
		SystemPrompt: prompt,
		Tools:        registry,
		MaxIter:      cfg.MaxIterations,
		Mode:         mode,
		Logger:       logger,
	}
	if opts.stream {
		out := cmd.OutOrStdout()
		agentCfg.OnChunk = func(chunk string) { fmt.Fprint(out, chunk) }
	}
	a.agent, err = agent.New(agentCfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = opts.provider
	}
	if flags.Changed("model") {
		cfg.Model = opts.model
	}
	if flags.Changed("mode") {
		cfg.Mode = opts.mode
	}
	if flags.Changed("max-iter") {
		cfg.MaxIterations = opts.maxIter
	}
	cfg.MCPServers = append(cfg.MCPServers, opts.mcp...)
	cfg.Tools = append(cfg.Tools, opts.tools...)
}

func logLevel(name string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func buildClient(cfg *config.Config) (llm.ChatClient, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return llm.NewOllama(cfg.Model, cfg.BaseURL)
	case config.ProviderLangChainOpenAI:
		return llm.NewLangChainOpenAI(cfg.Model, cfg.APIKey, cfg.BaseURL)
	case config.ProviderOpenAI:
		var opts []option.RequestOption
		if cfg.APIKey != "" {
			opts = append(opts, option.WithAPIKey(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		return llm.NewOpenAI(cfg.Model, opts...), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

// buildRegistry registers built-in tools, then every tool of each MCP server.
// With nothing configured, the two arithmetic tools are registered.
func buildRegistry(ctx context.Context, cfg *config.Config, a *app) (*tools.Registry, error) {
	registry, err := tools.NewRegistry()
	if err != nil {
		return nil, err
	}

	names := cfg.Tools
	if len(names) == 0 && len(cfg.MCPServers) == 0 {
		names = []string{"add_two_numbers", "calculate_area_of_rectangle"}
	}
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if seen[name] {
			continue
		}
		seen[name] = true
		t, err := tools.Builtin(name)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}

	for i, spec := range cfg.MCPServers {
		prefix, target := parseMCPSpec(spec, i)
		c, err := tools.DialMCP(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MCP server %q: %w", prefix, err)
		}
		a.servers = append(a.servers, c)

		loaded, err := tools.LoadMCP(ctx, c, prefix)
		if err != nil {
			return nil, fmt.Errorf("MCP server %q: %w", prefix, err)
		}
		for _, t := range loaded {
			if err := registry.Register(t); err != nil {
				return nil, err
			}
		}
		a.logger.Info("mcp server connected", "server", prefix, "tools", len(loaded))
	}
	return registry, nil
}
