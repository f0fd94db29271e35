package tools

import (
	"context"
	"strings"
	"testing"
	"time"
)

func callShell(t *testing.T, tool *Tool, args Args) string {
	t.Helper()
	result, err := tool.Invoke(context.Background(), args)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	s, ok := result.(string)
	if !ok {
		t.Fatalf("Invoke() result type = %T, want string", result)
	}
	return s
}

func TestShell_Spec(t *testing.T) {
	tool := Shell(0)
	if got := tool.Name(); got != "shell" {
		t.Errorf("Name() = %q, want %q", got, "shell")
	}
	if !strings.Contains(strings.ToLower(tool.Description()), "local") {
		t.Error("Description() should mention 'local'")
	}

	spec := tool.Spec()
	param, ok := spec.Parameters.Lookup("command")
	if !ok {
		t.Fatal("expected a 'command' parameter")
	}
	if param.Type != String {
		t.Errorf("command type = %q, want %q", param.Type, String)
	}
}

func TestShell_SimpleCommand(t *testing.T) {
	result := callShell(t, Shell(0), Args{"command": "echo hello"})
	if !strings.Contains(result, "hello") {
		t.Errorf("result = %q, want to contain 'hello'", result)
	}
}

func TestShell_MultipleCommands(t *testing.T) {
	result := callShell(t, Shell(0), Args{"command": "echo one && echo two"})
	if !strings.Contains(result, "one") || !strings.Contains(result, "two") {
		t.Errorf("result = %q, want to contain 'one' and 'two'", result)
	}
}

func TestShell_CapturesStderr(t *testing.T) {
	result := callShell(t, Shell(0), Args{"command": "echo error >&2"})
	if !strings.Contains(result, "STDERR") || !strings.Contains(result, "error") {
		t.Errorf("result = %q, want STDERR section with 'error'", result)
	}
}

func TestShell_ExitErrorIsObservation(t *testing.T) {
	result := callShell(t, Shell(0), Args{"command": "exit 1"})
	if !strings.Contains(result, "exited with status") {
		t.Errorf("result = %q, want to contain 'exited with status'", result)
	}
}

func TestShell_Timeout(t *testing.T) {
	result := callShell(t, Shell(100*time.Millisecond), Args{"command": "sleep 10"})
	if !strings.Contains(result, "timed out") {
		t.Errorf("result = %q, want to contain 'timed out'", result)
	}
}

func TestShell_MissingCommand(t *testing.T) {
	if _, err := Shell(0).Invoke(context.Background(), Args{}); err == nil {
		t.Error("Invoke() with no command should return error")
	}
}

func TestShell_EmptyCommand(t *testing.T) {
	if _, err := Shell(0).Invoke(context.Background(), Args{"command": ""}); err == nil {
		t.Error("Invoke() with empty command should return error")
	}
}

func TestShell_NoOutput(t *testing.T) {
	result := callShell(t, Shell(0), Args{"command": "true"})
	if result != "(command succeeded but produced no output)" {
		t.Errorf("result = %q", result)
	}
}
