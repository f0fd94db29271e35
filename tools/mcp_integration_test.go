//go:build integration

package tools

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMCP_Integration_FilesystemServer(t *testing.T) {
	serverPath, err := exec.LookPath("mcp-filesystem-server")
	if err != nil {
		t.Skip("mcp-filesystem-server not in PATH; install with: go install github.com/mark3labs/mcp-filesystem-server@latest")
	}

	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "hello.txt"), []byte("hello from MCP"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := DialMCP(ctx, serverPath+" "+tmpDir)
	if err != nil {
		t.Fatalf("DialMCP() error = %v", err)
	}
	defer c.Close()

	loaded, err := LoadMCP(ctx, c, "fs")
	if err != nil {
		t.Fatalf("LoadMCP() error = %v", err)
	}
	reg, err := NewRegistry(loaded...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	t.Logf("Discovered tools: %v", reg.Names())

	t.Run("list_directory", func(t *testing.T) {
		tool, ok := reg.Get("fs_list_directory")
		if !ok {
			t.Skip("server does not expose list_directory")
		}
		result, err := tool.Invoke(ctx, Args{"path": tmpDir})
		if err != nil {
			t.Fatalf("Invoke(list_directory) error = %v", err)
		}
		if !strings.Contains(result.(string), "hello.txt") {
			t.Errorf("list_directory result should contain hello.txt, got: %v", result)
		}
	})

	t.Run("read_file", func(t *testing.T) {
		tool, ok := reg.Get("fs_read_file")
		if !ok {
			t.Skip("server does not expose read_file")
		}
		result, err := tool.Invoke(ctx, Args{"path": filepath.Join(tmpDir, "hello.txt")})
		if err != nil {
			t.Fatalf("Invoke(read_file) error = %v", err)
		}
		if !strings.Contains(result.(string), "hello from MCP") {
			t.Errorf("read_file result should contain file content, got: %v", result)
		}
	})
}
