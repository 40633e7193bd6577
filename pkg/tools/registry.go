package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumilabs/lumi/pkg/llms"
	"github.com/lumilabs/lumi/pkg/observability"
	"github.com/lumilabs/lumi/pkg/registry"
)

// Registry holds the available tools and runs calls against them.
type Registry struct {
	tools *registry.Registry[Tool]
}

func NewRegistry() *Registry {
	return &Registry{
		tools: registry.New[Tool](),
	}
}

// Register adds a tool. Duplicate names are an error.
func (r *Registry) Register(tool Tool) error {
	return r.tools.Register(tool.GetInfo().Name, tool)
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	return r.tools.Get(name)
}

// List returns the infos of all registered tools, for the schema endpoint.
func (r *Registry) List() []ToolInfo {
	all := r.tools.List()
	infos := make([]ToolInfo, 0, len(all))
	for _, tool := range all {
		infos = append(infos, tool.GetInfo())
	}
	return infos
}

// Definitions returns the wire-form definitions offered to the model.
func (r *Registry) Definitions() []llms.ToolDefinition {
	all := r.tools.List()
	defs := make([]llms.ToolDefinition, 0, len(all))
	for _, tool := range all {
		defs = append(defs, tool.GetInfo().Definition())
	}
	return defs
}

// Execute runs a single tool call. Failures of any kind, unknown tool,
// invalid arguments, or execution errors, come back as a failed ToolResult
// so one bad call never aborts the rest of the batch.
func (r *Registry) Execute(ctx context.Context, call llms.ToolCall) ToolResult {
	start := time.Now()

	result, err := r.execute(ctx, call)

	if metrics := observability.GetGlobalMetrics(); metrics != nil {
		metrics.RecordToolExecution(call.Name, time.Since(start), err)
	}

	if err != nil {
		slog.Warn("Tool call failed", "tool", call.Name, "error", err)
		return ToolResult{Error: err.Error()}
	}

	return result
}

func (r *Registry) execute(ctx context.Context, call llms.ToolCall) (ToolResult, error) {
	tool, ok := r.tools.Get(call.Name)
	if !ok {
		return ToolResult{}, fmt.Errorf("unknown tool %q", call.Name)
	}

	if err := ValidateArgs(tool.GetInfo(), call.Args); err != nil {
		return ToolResult{}, fmt.Errorf("invalid arguments for %q: %w", call.Name, err)
	}

	result, err := tool.Execute(ctx, call.Args)
	if err != nil {
		return ToolResult{}, fmt.Errorf("tool %q failed: %w", call.Name, err)
	}

	return result, nil
}
