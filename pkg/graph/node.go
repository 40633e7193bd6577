package graph

import "context"

// NodeID names a node in the workflow graph.
type NodeID string

const (
	NodeRouter        NodeID = "router"
	NodeRetrieval     NodeID = "retrieval"
	NodeToolExecution NodeID = "tool_execution"
	NodeResponse      NodeID = "response"

	// NodeEnd is the terminal marker, not a real node.
	NodeEnd NodeID = "end"
)

// Node is one step of the workflow. Run mutates the state and returns the
// successor to execute next. Nodes are immutable after graph compilation
// and shared across requests; all per-request data lives in the State.
type Node interface {
	ID() NodeID

	// Successors lists every node this one can return from Run. Declared
	// statically so the compiler can reject dangling edges at startup.
	Successors() []NodeID

	Run(ctx context.Context, state *State) (NodeID, error)
}
