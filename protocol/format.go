// Package protocol implements the textual wire format shared with the model:
// the <tools> specification block, <tool_call> and <response> directives, and
// the "Tool results:" block fed back after dispatch.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rathore/agentloop/tools"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type toolRecord struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Parameters  parametersRecord `json:"parameters"`
}

type parametersRecord struct {
	Properties *orderedmap.OrderedMap[string, propertyRecord] `json:"properties"`
}

type propertyRecord struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// FormatTools renders specs, in order, as a pretty-printed JSON array wrapped in
// <tools> tags. Parameter properties keep their declaration order.
func FormatTools(specs []tools.Spec) (string, error) {
	records := make([]toolRecord, 0, len(specs))
	for _, spec := range specs {
		records = append(records, newRecord(spec))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool specs: %w", err)
	}
	return "<tools>\n" + string(data) + "\n</tools>", nil
}

func newRecord(spec tools.Spec) toolRecord {
	rec := toolRecord{
		Name:       spec.Name,
		Parameters: parametersRecord{Properties: orderedmap.New[string, propertyRecord]()},
	}
	if spec.Description != "" {
		desc := spec.Description
		rec.Description = &desc
	}
	if spec.Parameters != nil {
		for _, p := range spec.Parameters.Properties {
			rec.Parameters.Properties.Set(p.Name, propertyRecord{
				Type:        string(p.Type),
				Description: p.Description,
			})
		}
	}
	return rec
}
