// Package tools defines the agent's tools and their execution. Tools never
// abort a request: validation and execution failures are captured as failed
// results so the response node can explain them.
package tools

import (
	"context"

	"github.com/lumilabs/lumi/pkg/llms"
)

// ToolParameter describes one argument of a tool.
type ToolParameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // "string", "number", "integer", "boolean"
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolInfo describes a tool to both the model and the schema endpoint.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`
}

// Definition converts the info to the wire form offered to the model.
func (ti ToolInfo) Definition() llms.ToolDefinition {
	properties := make(map[string]any, len(ti.Parameters))
	var required []string

	for _, p := range ti.Parameters {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			enum := make([]any, len(p.Enum))
			for i, v := range p.Enum {
				enum[i] = v
			}
			prop["enum"] = enum
		}
		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return llms.ToolDefinition{
		Name:        ti.Name,
		Description: ti.Description,
		Parameters:  schema,
	}
}

// ToolResult is the outcome of one tool call. Error is empty on success.
type ToolResult struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Failed reports whether the call did not produce a usable result.
func (r ToolResult) Failed() bool {
	return r.Error != ""
}

// Tool is a capability the model can invoke.
type Tool interface {
	GetInfo() ToolInfo
	Execute(ctx context.Context, args map[string]any) (ToolResult, error)
}
