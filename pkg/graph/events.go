package graph

// Status is the lifecycle stage of a node reported in a StreamEvent.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// StreamEvent is one unit of progress pushed to the client. Exactly one
// started and one completed or failed event is emitted per executed node,
// in traversal order.
type StreamEvent struct {
	Node    NodeID         `json:"node"`
	Status  Status         `json:"status"`
	Payload map[string]any `json:"payload,omitempty"`
}

// completionPayload summarizes what a node contributed to the state, for
// the completed event at its boundary.
func completionPayload(id NodeID, state *State) map[string]any {
	switch id {
	case NodeRouter:
		return map[string]any{"decision": string(state.Decision)}
	case NodeRetrieval:
		payload := map[string]any{"chunks": len(state.Context)}
		if len(state.Warnings) > 0 {
			payload["warnings"] = state.Warnings
		}
		return payload
	case NodeToolExecution:
		calls := make([]map[string]any, 0, len(state.PendingCalls))
		for _, call := range state.PendingCalls {
			entry := map[string]any{"id": call.ID, "tool": call.Name}
			if result, ok := state.Results[call.ID]; ok {
				entry["ok"] = !result.Failed()
			}
			calls = append(calls, entry)
		}
		return map[string]any{"calls": calls}
	case NodeResponse:
		return map[string]any{"reply": state.Reply, "session_id": state.SessionID}
	default:
		return nil
	}
}
