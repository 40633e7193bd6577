// Package llms provides chat and embedding model providers. Upstage Solar is
// the primary provider; any OpenAI-compatible endpoint works through the same
// implementation.
package llms

import "context"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single chat message.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall // set on assistant messages that requested tools
	ToolCallID string     // set on tool messages carrying a result
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolDefinition describes a tool offered to the model.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// StructuredOutput requests a JSON response constrained by a schema.
type StructuredOutput struct {
	Name   string
	Schema map[string]any
}

// Provider generates chat completions.
type Provider interface {
	// Generate returns the response text, any tool calls the model requested,
	// and the total tokens used.
	Generate(ctx context.Context, messages []Message, tools []ToolDefinition) (string, []ToolCall, int, error)

	// GenerateStructured constrains the response to the given JSON schema.
	GenerateStructured(ctx context.Context, messages []Message, output *StructuredOutput) (string, int, error)

	ModelName() string
	Close() error
}

// Embedder converts text to vectors for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
