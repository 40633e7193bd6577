package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumilabs/lumi/pkg/llms"
)

// DefaultPersona is the system prompt used when configuration provides none.
const DefaultPersona = `You are Lumi, a cheerful virtual idol chatting with a fan.
Stay in character: warm, playful, and a little dramatic. Use the fan's
language. Keep replies short enough for a chat window.
When tool results or background notes are provided, base your answer on
them and do not invent facts beyond them. If a note says something was
unavailable or a tool failed, briefly acknowledge the shortfall instead of
guessing.`

// ResponseNode synthesizes the final reply from everything upstream nodes
// attached to the state. It is the terminal node, reachable from every
// path, including after retrieval or tool failures.
type ResponseNode struct {
	provider llms.Provider
	persona  string
}

func NewResponseNode(provider llms.Provider, persona string) *ResponseNode {
	if persona == "" {
		persona = DefaultPersona
	}
	return &ResponseNode{provider: provider, persona: persona}
}

func (n *ResponseNode) ID() NodeID {
	return NodeResponse
}

func (n *ResponseNode) Successors() []NodeID {
	return []NodeID{NodeEnd}
}

func (n *ResponseNode) Run(ctx context.Context, state *State) (NodeID, error) {
	messages := n.compose(state)

	text, _, tokens, err := n.provider.Generate(ctx, messages, nil)
	if err != nil {
		return NodeEnd, err
	}

	state.TokensUsed += tokens
	state.Reply = text
	return NodeEnd, nil
}

// compose builds the model prompt deterministically: persona, then
// retrieved context, then tool results, then warnings, then the
// conversation itself.
func (n *ResponseNode) compose(state *State) []llms.Message {
	var system strings.Builder
	system.WriteString(n.persona)

	if len(state.Context) > 0 {
		system.WriteString("\n\nBackground notes:\n")
		for _, chunk := range state.Context {
			fmt.Fprintf(&system, "- %s\n", chunk.Text)
		}
	}

	if len(state.PendingCalls) > 0 {
		system.WriteString("\n\nTool results:\n")
		for _, call := range state.PendingCalls {
			result, ok := state.Results[call.ID]
			switch {
			case !ok:
				fmt.Fprintf(&system, "- %s: no result\n", call.Name)
			case result.Failed():
				fmt.Fprintf(&system, "- %s failed: %s\n", call.Name, result.Error)
			default:
				fmt.Fprintf(&system, "- %s: %s\n", call.Name, result.Content)
			}
		}
	}

	if len(state.Warnings) > 0 {
		system.WriteString("\n\nNotes:\n")
		for _, w := range state.Warnings {
			fmt.Fprintf(&system, "- %s\n", w)
		}
	}

	messages := make([]llms.Message, 0, len(state.Turns)+2)
	messages = append(messages, llms.Message{Role: llms.RoleSystem, Content: system.String()})
	messages = append(messages, state.Turns...)
	messages = append(messages, llms.Message{Role: llms.RoleUser, Content: state.Input})

	return messages
}
