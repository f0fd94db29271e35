package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultShellTimeout bounds a single shell command
const DefaultShellTimeout = 30 * time.Second

// Shell returns a tool that runs a command with `sh -c` on the local machine.
// A zero timeout uses DefaultShellTimeout.
func Shell(timeout time.Duration) *Tool {
	if timeout <= 0 {
		timeout = DefaultShellTimeout
	}
	return Must(New(
		"shell",
		"Execute a command on the LOCAL machine only. Do NOT use for remote hosts - use the ssh tool instead.",
		[]Param{{Name: "command", Type: String, Description: "The shell command to execute locally"}},
		Func(func(ctx context.Context, args Args) (any, error) {
			command, err := args.String("command")
			if err != nil {
				return nil, err
			}
			if command == "" {
				return nil, errors.New("command parameter required")
			}
			return runLocal(ctx, command, timeout), nil
		}),
	))
}

func runLocal(ctx context.Context, command string, timeout time.Duration) string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return combineOutput(stdout.String(), stderr.String()) + "\nError: command timed out"
	}
	return describeRun(combineOutput(stdout.String(), stderr.String()), err)
}

func combineOutput(stdout, stderr string) string {
	if stderr == "" {
		return stdout
	}
	if stdout != "" {
		stdout += "\n"
	}
	return stdout + "STDERR:\n" + stderr
}

// describeRun turns command output and exit status into an observation for the model.
// A non-zero exit is reported in the text rather than as a tool failure.
func describeRun(output string, err error) string {
	if err != nil {
		if output == "" {
			output = "(command produced no output)\n"
		}
		return output + fmt.Sprintf("Command exited with status: %v (note: grep returns status 1 when no matches found, which is not an error)", err)
	}
	if output == "" {
		return "(command succeeded but produced no output)"
	}
	return output
}
