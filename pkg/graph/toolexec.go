package graph

import (
	"context"

	"github.com/lumilabs/lumi/pkg/tools"
)

// ToolExecutionNode runs the pending tool calls in the order the model
// emitted them. Ordering matters: a write in one call must not race a read
// in the next. Each call's failure is captured as a structured result, so
// one bad call never blocks the rest of the batch.
type ToolExecutionNode struct {
	registry *tools.Registry
}

func NewToolExecutionNode(registry *tools.Registry) *ToolExecutionNode {
	return &ToolExecutionNode{registry: registry}
}

func (n *ToolExecutionNode) ID() NodeID {
	return NodeToolExecution
}

func (n *ToolExecutionNode) Successors() []NodeID {
	return []NodeID{NodeResponse}
}

func (n *ToolExecutionNode) Run(ctx context.Context, state *State) (NodeID, error) {
	for _, call := range state.PendingCalls {
		if err := ctx.Err(); err != nil {
			return NodeEnd, err
		}
		state.Results[call.ID] = n.registry.Execute(ctx, call)
	}

	return NodeResponse, nil
}
