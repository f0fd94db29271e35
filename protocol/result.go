package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/rathore/agentloop/tools"
)

// Result is the outcome of dispatching one ToolCall
type Result struct {
	Name      string
	Arguments map[string]any
	Output    any
	Err       error
}

// Text renders the result as the observation shown to the model.
func (r Result) Text() string {
	if r.Err != nil {
		var nf *tools.NotFoundError
		if errors.As(r.Err, &nf) {
			return fmt.Sprintf("Error: Tool '%s' not found", nf.Name)
		}
		var ee *tools.ExecError
		if errors.As(r.Err, &ee) {
			return fmt.Sprintf("Error executing %s: %v", ee.Name, ee.Err)
		}
		return "Error: " + r.Err.Error()
	}
	return outputText(r.Output)
}

func outputText(v any) string {
	if v == nil {
		return "null"
	}
	switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if data, err := json.MarshalIndent(v, "", "  "); err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}

// FormatResults builds the "Tool results:" block, one line per result
func FormatResults(results []Result) string {
	var sb strings.Builder
	sb.WriteString("Tool results:\n")
	for _, r := range results {
		args, err := json.Marshal(r.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		fmt.Fprintf(&sb, "- %s%s: %s\n", r.Name, args, r.Text())
	}
	return sb.String()
}
