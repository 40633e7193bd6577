package graph

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/lumilabs/lumi/pkg/llms"
)

const routerPrompt = `You are the dispatcher for a virtual idol's chat agent.
Decide how to handle the user's message.

If the message asks for schedules, saving a fan letter, a song
recommendation, or profile facts, call the matching tool.

Otherwise answer with a JSON object {"route": "..."} where route is:
- "retrieve" when the message asks about the idol's background, lore,
  songs' stories, or past streams that need looking up
- "chat" for greetings, small talk, and everything else

Output only the tool calls or the JSON object, nothing more.`

// routeSchema constrains the tie-break classification to the closed set of
// routes.
var routeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"route": map[string]any{
			"type": "string",
			"enum": []string{"chat", "retrieve"},
		},
	},
	"required":             []string{"route"},
	"additionalProperties": false,
}

// RouterNode classifies the user turn into one of the fixed decisions and
// picks the next node. An ambiguous or malformed classification falls back
// to the chat path rather than failing the request.
type RouterNode struct {
	provider llms.Provider
	toolDefs []llms.ToolDefinition
}

func NewRouterNode(provider llms.Provider, toolDefs []llms.ToolDefinition) *RouterNode {
	return &RouterNode{provider: provider, toolDefs: toolDefs}
}

func (n *RouterNode) ID() NodeID {
	return NodeRouter
}

func (n *RouterNode) Successors() []NodeID {
	return []NodeID{NodeRetrieval, NodeToolExecution, NodeResponse}
}

func (n *RouterNode) Run(ctx context.Context, state *State) (NodeID, error) {
	messages := make([]llms.Message, 0, len(state.Turns)+2)
	messages = append(messages, llms.Message{Role: llms.RoleSystem, Content: routerPrompt})
	messages = append(messages, state.Turns...)
	messages = append(messages, llms.Message{Role: llms.RoleUser, Content: state.Input})

	text, toolCalls, tokens, err := n.provider.Generate(ctx, messages, n.toolDefs)
	if err != nil {
		return NodeEnd, err
	}
	state.TokensUsed += tokens

	if len(toolCalls) > 0 {
		state.Decision = DecisionTool
		state.PendingCalls = toolCalls
		return NodeToolExecution, nil
	}

	switch parseRoute(text) {
	case DecisionRetrieve:
		state.Decision = DecisionRetrieve
		return NodeRetrieval, nil
	case DecisionChat:
		state.Decision = DecisionChat
		return NodeResponse, nil
	default:
		slog.Debug("Ambiguous router output, re-asking with constrained output", "output", text)
		decision, tokens := n.classify(ctx, messages)
		state.TokensUsed += tokens
		state.Decision = decision
		if decision == DecisionRetrieve {
			return NodeRetrieval, nil
		}
		return NodeResponse, nil
	}
}

// classify re-asks the model with a schema-constrained response when the
// free-form output did not parse. Any failure here means chat.
func (n *RouterNode) classify(ctx context.Context, messages []llms.Message) (Decision, int) {
	out, tokens, err := n.provider.GenerateStructured(ctx, messages, &llms.StructuredOutput{
		Name:   "route_decision",
		Schema: routeSchema,
	})
	if err != nil {
		slog.Debug("Constrained route classification failed, defaulting to chat", "error", err)
		return DecisionChat, tokens
	}
	if decision := parseRoute(out); decision != "" {
		return decision, tokens
	}
	return DecisionChat, tokens
}

// parseRoute extracts a route from the classifier's text output. It accepts
// the requested JSON form and, leniently, a bare route word. Anything else
// returns an empty decision for the caller to default.
func parseRoute(text string) Decision {
	trimmed := strings.TrimSpace(text)

	var parsed struct {
		Route string `json:"route"`
	}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed.Route != "" {
		trimmed = parsed.Route
	}

	switch strings.ToLower(strings.Trim(trimmed, `"' .`)) {
	case "retrieve", "retrieval":
		return DecisionRetrieve
	case "chat":
		return DecisionChat
	default:
		return ""
	}
}
