package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lumilabs/lumi/pkg/graph"
)

// writeSSE serializes one workflow event as a server-sent event. The node
// name is the event type and the data carries status plus payload, so a
// client can subscribe per node.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, event graph.StreamEvent) {
	data := map[string]any{"status": string(event.Status)}
	if event.Payload != nil {
		data["payload"] = event.Payload
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Node, encoded)
	flusher.Flush()
}
