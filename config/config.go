// Package config loads agentloop settings from a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported providers
const (
	ProviderOpenAI          = "openai"
	ProviderOllama          = "ollama"
	ProviderLangChainOpenAI = "langchain-openai"
)

// Supported modes
const (
	ModeReAct       = "react"
	ModeToolCalling = "tool_calling"
)

// DefaultFileName is read by Load when no path is given and the file exists
const DefaultFileName = "agentloop.yaml"

// Config holds the application configuration
type Config struct {
	Provider         string   `yaml:"provider"`
	Model            string   `yaml:"model"`
	BaseURL          string   `yaml:"base_url,omitempty"`
	APIKey           string   `yaml:"api_key,omitempty"`
	Mode             string   `yaml:"mode"`
	MaxIterations    int      `yaml:"max_iterations"`
	SystemPrompt     string   `yaml:"system_prompt,omitempty"`
	SystemPromptFile string   `yaml:"system_prompt_file,omitempty"`
	MCPServers       []string `yaml:"mcp_servers,omitempty"` // [label:]command-or-url
	Tools            []string `yaml:"tools,omitempty"`       // built-in tool names
	LogLevel         string   `yaml:"log_level,omitempty"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Provider:      ProviderOpenAI,
		Model:         "gpt-4o",
		Mode:          ModeReAct,
		MaxIterations: 10,
		LogLevel:      "info",
	}
}

// Load builds the configuration from defaults, the YAML file at path and the environment,
// in that order of precedence. A .env file in the working directory is loaded first if present.
// An empty path reads DefaultFileName when it exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			path = DefaultFileName
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("AGENTLOOP_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("AGENTLOOP_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("AGENTLOOP_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("AGENTLOOP_MAX_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AGENTLOOP_MAX_ITERATIONS: %w", err)
		}
		c.MaxIterations = n
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" && c.BaseURL == "" {
		c.BaseURL = v
	}
	return nil
}

// Validate checks the configuration for unsupported values
func (c *Config) Validate() error {
	var errs []error
	switch c.Provider {
	case ProviderOpenAI, ProviderOllama, ProviderLangChainOpenAI:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}
	switch strings.ReplaceAll(c.Mode, "-", "_") {
	case ModeReAct, ModeToolCalling:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if strings.TrimSpace(c.Model) == "" {
		errs = append(errs, errors.New("model is required"))
	}
	if c.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations))
	}
	return errors.Join(errs...)
}

// Prompt returns the configured system instructions. SystemPromptFile wins over
// SystemPrompt. An empty result means the agent default is used.
func (c *Config) Prompt() (string, error) {
	if c.SystemPromptFile == "" {
		return c.SystemPrompt, nil
	}
	data, err := os.ReadFile(c.SystemPromptFile)
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
