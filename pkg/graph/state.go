// Package graph implements the agent workflow: a compiled node graph walked
// once per request, emitting a progress event at every node boundary.
package graph

import (
	"github.com/lumilabs/lumi/pkg/llms"
	"github.com/lumilabs/lumi/pkg/tools"
)

// Decision is the router's classification of a user turn.
type Decision string

const (
	// DecisionChat answers directly from the model.
	DecisionChat Decision = "chat"
	// DecisionRetrieve consults the knowledge base first.
	DecisionRetrieve Decision = "retrieve"
	// DecisionTool runs the tool calls the model requested.
	DecisionTool Decision = "tool"
)

// ContextChunk is retrieved background knowledge with provenance.
type ContextChunk struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float32 `json:"score"`
}

// State is the conversation state threaded through one graph traversal. It
// is created per request, owned by that traversal, and discarded afterward.
// Nodes append to it or set their own fields once; no node overwrites
// another node's output.
type State struct {
	SessionID string
	Turns     []llms.Message // prior turns, oldest first
	Input     string

	Decision     Decision
	Context      []ContextChunk
	PendingCalls []llms.ToolCall
	Results      map[string]tools.ToolResult // call id -> result
	Warnings     []string

	Reply      string
	TokensUsed int
}

// NewState creates the state for one incoming request.
func NewState(sessionID, input string, turns []llms.Message) *State {
	return &State{
		SessionID: sessionID,
		Input:     input,
		Turns:     turns,
		Results:   make(map[string]tools.ToolResult),
	}
}

// AddWarning records a non-fatal shortfall for the response node to mention.
func (s *State) AddWarning(msg string) {
	s.Warnings = append(s.Warnings, msg)
}
