package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with the agentloop variables cleared
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		"AGENTLOOP_PROVIDER", "AGENTLOOP_MODEL", "AGENTLOOP_MODE",
		"AGENTLOOP_MAX_ITERATIONS", "OPENAI_API_KEY", "OPENAI_BASE_URL",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
provider: ollama
model: llama3.1
mode: tool_calling
max_iterations: 4
mcp_servers:
  - "fs:npx -y @modelcontextprotocol/server-filesystem /tmp"
tools: [add_two_numbers, shell]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "llama3.1", cfg.Model)
	assert.Equal(t, ModeToolCalling, cfg.Mode)
	assert.Equal(t, 4, cfg.MaxIterations)
	assert.Equal(t, []string{"fs:npx -y @modelcontextprotocol/server-filesystem /tmp"}, cfg.MCPServers)
	assert.Equal(t, []string{"add_two_numbers", "shell"}, cfg.Tools)
	assert.Equal(t, "info", cfg.LogLevel, "unset keys keep defaults")
}

func TestLoadDefaultFileName(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, DefaultFileName), "model: gpt-4o-mini\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "model: from-file\nmax_iterations: 4\n")
	t.Setenv("AGENTLOOP_MODEL", "from-env")
	t.Setenv("AGENTLOOP_MAX_ITERATIONS", "7")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Model)
	assert.Equal(t, 7, cfg.MaxIterations)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("AGENTLOOP_PROVIDER")
	writeFile(t, filepath.Join(dir, ".env"), "AGENTLOOP_PROVIDER=ollama\n")
	t.Cleanup(func() { os.Unsetenv("AGENTLOOP_PROVIDER") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.Provider)
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "max_iterations: [not a number\n")
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("AGENTLOOP_MAX_ITERATIONS", "ten")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Provider = "bedrock"
	cfg.Mode = "reflection"
	cfg.MaxIterations = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "bedrock"`)
	assert.Contains(t, err.Error(), `unknown mode "reflection"`)
	assert.Contains(t, err.Error(), "max_iterations must be positive")

	cfg = Default()
	cfg.Mode = "tool-calling"
	assert.NoError(t, cfg.Validate())
}

func TestPrompt(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	cfg.SystemPrompt = "inline"
	p, err := cfg.Prompt()
	require.NoError(t, err)
	assert.Equal(t, "inline", p)

	file := filepath.Join(dir, "prompt.md")
	writeFile(t, file, "from file\n")
	cfg.SystemPromptFile = file
	p, err = cfg.Prompt()
	require.NoError(t, err)
	assert.Equal(t, "from file", p)

	cfg.SystemPromptFile = filepath.Join(dir, "nope.md")
	_, err = cfg.Prompt()
	assert.Error(t, err)
}
