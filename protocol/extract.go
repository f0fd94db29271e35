package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	responseRe = regexp.MustCompile(`(?s)<response>(.*?)</response>`)
	toolCallRe = regexp.MustCompile(`(?s)<tool_call>(.*?)</tool_call>`)
)

// ErrMalformedDirective is wrapped by every error reporting a dropped <tool_call> span
var ErrMalformedDirective = errors.New("malformed tool call")

// MalformedError describes a <tool_call> span that could not be turned into a ToolCall
type MalformedError struct {
	Index  int    // position of the span among all <tool_call> spans
	Raw    string // trimmed inner text
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tool_call %d: %s: %v", e.Index, e.Reason, e.Err)
	}
	return fmt.Sprintf("tool_call %d: %s", e.Index, e.Reason)
}

func (e *MalformedError) Is(target error) bool { return target == ErrMalformedDirective }

func (e *MalformedError) Unwrap() error { return e.Err }

// ToolCall is a directive asking the host to run a tool
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ExtractFinal returns the trimmed content of the first <response> span
func ExtractFinal(text string) (string, bool) {
	m := responseRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ExtractToolCalls returns every well-formed <tool_call> directive in document order.
// Malformed spans are skipped and reported in the second return value.
func ExtractToolCalls(text string) ([]ToolCall, []error) {
	var (
		calls []ToolCall
		errs  []error
	)
	for i, m := range toolCallRe.FindAllStringSubmatch(text, -1) {
		raw := strings.TrimSpace(m[1])
		call, err := decodeCall(raw)
		if err != nil {
			err.Index = i
			err.Raw = raw
			errs = append(errs, err)
			continue
		}
		calls = append(calls, call)
	}
	return calls, errs
}

func decodeCall(raw string) (ToolCall, *MalformedError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return ToolCall{}, &MalformedError{Reason: "invalid JSON", Err: err}
	}

	rawName, ok := fields["name"]
	if !ok {
		return ToolCall{}, &MalformedError{Reason: `missing "name"`}
	}
	var name string
	if err := json.Unmarshal(rawName, &name); err != nil || name == "" {
		return ToolCall{}, &MalformedError{Reason: `"name" must be a non-empty string`}
	}

	rawArgs, ok := fields["arguments"]
	if !ok {
		return ToolCall{}, &MalformedError{Reason: `missing "arguments"`}
	}
	args := map[string]any{}
	if !bytes.Equal(bytes.TrimSpace(rawArgs), []byte("null")) {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return ToolCall{}, &MalformedError{Reason: `"arguments" must be an object`}
		}
		if args == nil {
			args = map[string]any{}
		}
	}
	return ToolCall{Name: name, Arguments: args}, nil
}

// Kind classifies a model response
type Kind int

const (
	PlainText Kind = iota
	FinalAnswer
	ToolCalls
)

func (k Kind) String() string {
	switch k {
	case FinalAnswer:
		return "final_answer"
	case ToolCalls:
		return "tool_calls"
	}
	return "plain_text"
}

// Directives holds everything extracted from one model response
type Directives struct {
	Final     string
	HasFinal  bool
	Calls     []ToolCall
	Malformed []error
}

// Extract runs both scans over text
func Extract(text string) Directives {
	var d Directives
	d.Final, d.HasFinal = ExtractFinal(text)
	d.Calls, d.Malformed = ExtractToolCalls(text)
	return d
}

// Kind reports how the response should be handled. A <response> span wins over
// tool calls in the same text.
func (d Directives) Kind() Kind {
	switch {
	case d.HasFinal:
		return FinalAnswer
	case len(d.Calls) > 0:
		return ToolCalls
	}
	return PlainText
}
