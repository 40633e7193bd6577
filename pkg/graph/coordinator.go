package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumilabs/lumi/pkg/observability"
)

// Coordinator walks the compiled graph for one request, emitting a started
// and a completed (or failed) event at every node boundary. Traversal is
// strictly sequential; each node's output is the next node's input.
type Coordinator struct {
	graph *Graph
}

func NewCoordinator(graph *Graph) *Coordinator {
	return &Coordinator{graph: graph}
}

// Run starts the traversal and returns the event stream. The channel is
// closed when the traversal reaches the terminal node, emits a failed
// event, or the context is cancelled. After a client disconnect no further
// nodes run and nothing more is emitted; there is no one left to tell.
func (c *Coordinator) Run(ctx context.Context, state *State) <-chan StreamEvent {
	events := make(chan StreamEvent)

	go func() {
		defer close(events)

		current := c.graph.Entry()
		for current != NodeEnd {
			node, ok := c.graph.Node(current)
			if !ok {
				// Unreachable on a compiled graph; guard anyway.
				c.emit(ctx, events, StreamEvent{
					Node:    current,
					Status:  StatusFailed,
					Payload: map[string]any{"error": fmt.Sprintf("unknown node %q", current)},
				})
				return
			}

			if !c.emit(ctx, events, StreamEvent{Node: current, Status: StatusStarted}) {
				return
			}

			// Re-check before doing work: the disconnect may have raced
			// the started event.
			if ctx.Err() != nil {
				return
			}

			next, err := c.runNode(ctx, node, state)
			if err != nil {
				if ctx.Err() != nil {
					// Client is gone; stop silently.
					return
				}
				slog.Error("Workflow node failed", "node", current, "error", err)
				c.emit(ctx, events, StreamEvent{
					Node:    current,
					Status:  StatusFailed,
					Payload: map[string]any{"error": err.Error()},
				})
				return
			}

			if !c.emit(ctx, events, StreamEvent{
				Node:    current,
				Status:  StatusCompleted,
				Payload: completionPayload(current, state),
			}) {
				return
			}

			current = next
		}
	}()

	return events
}

// RunSync walks the same traversal but accumulates silently and returns
// only the final state, for non-streaming callers.
func (c *Coordinator) RunSync(ctx context.Context, state *State) (*State, error) {
	current := c.graph.Entry()
	for current != NodeEnd {
		node, ok := c.graph.Node(current)
		if !ok {
			return nil, fmt.Errorf("unknown node %q", current)
		}

		next, err := c.runNode(ctx, node, state)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", current, err)
		}
		current = next
	}

	return state, nil
}

func (c *Coordinator) runNode(ctx context.Context, node Node, state *State) (NodeID, error) {
	start := time.Now()
	next, err := node.Run(ctx, state)

	if metrics := observability.GetGlobalMetrics(); metrics != nil {
		metrics.RecordNodeExecution(string(node.ID()), time.Since(start), err)
	}

	return next, err
}

// emit sends an event unless the context is done. It reports whether the
// traversal should continue.
func (c *Coordinator) emit(ctx context.Context, events chan<- StreamEvent, event StreamEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
