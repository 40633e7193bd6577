package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/lumilabs/lumi/pkg/graph"
	"github.com/lumilabs/lumi/pkg/llms"
	"github.com/lumilabs/lumi/pkg/session"
)

// ChatRequest is the body of both chat endpoints.
type ChatRequest struct {
	Message   string `json:"message" jsonschema:"title=Message,description=The user's message,minLength=1"`
	SessionID string `json:"session_id,omitempty" jsonschema:"title=Session ID,description=Omit to start a new conversation"`
}

// ChatResponse is the synchronous endpoint's reply.
type ChatResponse struct {
	Reply      string   `json:"reply"`
	SessionID  string   `json:"session_id"`
	Decision   string   `json:"decision"`
	Warnings   []string `json:"warnings,omitempty"`
	TokensUsed int      `json:"tokens_used"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	state, sess := s.newState(req)

	result, err := s.coordinator.RunSync(r.Context(), state)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	s.sessions.AppendTurn(sess.ID, req.Message, result.Reply)

	writeJSON(w, http.StatusOK, ChatResponse{
		Reply:      result.Reply,
		SessionID:  sess.ID,
		Decision:   string(result.Decision),
		Warnings:   result.Warnings,
		TokensUsed: result.TokensUsed,
	})
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	state, sess := s.newState(req)

	failed := false
	for event := range s.coordinator.Run(r.Context(), state) {
		writeSSE(w, flusher, event)
		if event.Status == graph.StatusFailed {
			failed = true
		}
	}

	// A cancelled request has no one left to notify.
	if r.Context().Err() != nil {
		return
	}

	if !failed {
		s.sessions.AppendTurn(sess.ID, req.Message, state.Reply)
		writeSSE(w, flusher, graph.StreamEvent{
			Node:    graph.NodeEnd,
			Status:  graph.StatusCompleted,
			Payload: map[string]any{"session_id": sess.ID},
		})
	}
}

func (s *Server) decodeChatRequest(w http.ResponseWriter, r *http.Request) (ChatRequest, bool) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return req, false
	}
	return req, true
}

// newState resolves the session and builds a fresh traversal state carrying
// its history.
func (s *Server) newState(req ChatRequest) (*graph.State, *session.Session) {
	sess := s.sessions.GetOrCreate(req.SessionID)

	turns := sess.Turns()
	history := make([]llms.Message, 0, len(turns)*2)
	for _, turn := range turns {
		history = append(history,
			llms.Message{Role: llms.RoleUser, Content: turn.User},
			llms.Message{Role: llms.RoleAssistant, Content: turn.Assistant},
		)
	}

	return graph.NewState(sess.ID, req.Message, history), sess
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status": "ok",
		"agent":  s.cfg.Agent.Name,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["storage"] = err.Error()
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.registry.List()})
}

// handleSchema serves the JSON schema of the chat request body, so widget
// clients can validate before sending.
func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&ChatRequest{})
	writeJSON(w, http.StatusOK, schema)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
