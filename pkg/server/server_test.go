package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lumilabs/lumi/pkg/config"
	"github.com/lumilabs/lumi/pkg/graph"
	"github.com/lumilabs/lumi/pkg/llms"
	"github.com/lumilabs/lumi/pkg/session"
	"github.com/lumilabs/lumi/pkg/storage"
	"github.com/lumilabs/lumi/pkg/tools"
)

type scriptedProvider struct {
	routeText string
	reply     string
	replyErr  error
}

func (p *scriptedProvider) Generate(_ context.Context, _ []llms.Message, toolDefs []llms.ToolDefinition) (string, []llms.ToolCall, int, error) {
	if toolDefs != nil {
		return p.routeText, nil, 5, nil
	}
	return p.reply, nil, 9, p.replyErr
}

func (p *scriptedProvider) GenerateStructured(context.Context, []llms.Message, *llms.StructuredOutput) (string, int, error) {
	return "", 0, errors.New("not scripted")
}

func (p *scriptedProvider) ModelName() string { return "scripted" }
func (p *scriptedProvider) Close() error      { return nil }

func newTestServer(t *testing.T, provider llms.Provider) (*Server, *session.Store) {
	t.Helper()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}

	store := storage.NewMemStore()
	registry, err := tools.NewDefaultRegistry(store)
	if err != nil {
		t.Fatal(err)
	}

	g, err := graph.NewBuilder().
		AddNode(graph.NewRouterNode(provider, registry.Definitions())).
		AddNode(graph.NewRetrievalNode(nil, 5, 1000, 0, nil)).
		AddNode(graph.NewToolExecutionNode(registry)).
		AddNode(graph.NewResponseNode(provider, "")).
		SetEntry(graph.NodeRouter).
		Compile()
	if err != nil {
		t.Fatal(err)
	}

	sessions := session.NewStore(20, time.Hour)
	t.Cleanup(sessions.Close)

	return New(cfg, graph.NewCoordinator(g), sessions, registry, store), sessions
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleChat(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedProvider{routeText: `{"route":"chat"}`, reply: "hi there!"})
	handler := srv.Handler()

	rec := postJSON(t, handler, "/api/v1/chat", `{"message":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Reply != "hi there!" {
		t.Errorf("reply = %q, want hi there!", resp.Reply)
	}
	if resp.SessionID == "" {
		t.Error("session_id is empty")
	}
	if resp.Decision != "chat" {
		t.Errorf("decision = %q, want chat", resp.Decision)
	}

	// A second message on the same session reuses it.
	rec = postJSON(t, handler, "/api/v1/chat", `{"message":"again","session_id":"`+resp.SessionID+`"}`)
	var resp2 ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp2); err != nil {
		t.Fatal(err)
	}
	if resp2.SessionID != resp.SessionID {
		t.Errorf("session_id changed: %q -> %q", resp.SessionID, resp2.SessionID)
	}
}

func TestHandleChat_EmptyMessage(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedProvider{})

	rec := postJSON(t, srv.Handler(), "/api/v1/chat", `{"message":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleChat_ModelError(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedProvider{
		routeText: `{"route":"chat"}`,
		replyErr:  errors.New("model unreachable"),
	})

	rec := postJSON(t, srv.Handler(), "/api/v1/chat", `{"message":"hello"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "model unreachable") {
		t.Errorf("body = %s, want error message", rec.Body.String())
	}
}

func TestHandleChatStream_SSEFraming(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedProvider{routeText: `{"route":"chat"}`, reply: "streamed reply"})

	rec := postJSON(t, srv.Handler(), "/api/v1/chat/stream", `{"message":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	body := rec.Body.String()
	wantOrder := []string{
		"event: router",
		`"status":"started"`,
		"event: router",
		"event: response",
		"event: response",
		"event: end",
	}
	pos := 0
	for _, want := range wantOrder {
		idx := strings.Index(body[pos:], want)
		if idx < 0 {
			t.Fatalf("SSE body missing %q after position %d:\n%s", want, pos, body)
		}
		pos += idx + len(want)
	}

	if !strings.Contains(body, `"reply":"streamed reply"`) {
		t.Errorf("SSE body missing reply payload:\n%s", body)
	}
}

func TestHandleChatStream_FailureTerminates(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedProvider{
		routeText: `{"route":"chat"}`,
		replyErr:  errors.New("model unreachable"),
	})

	rec := postJSON(t, srv.Handler(), "/api/v1/chat/stream", `{"message":"hello"}`)
	body := rec.Body.String()

	if !strings.Contains(body, `"status":"failed"`) {
		t.Errorf("SSE body missing failed event:\n%s", body)
	}
	if strings.Contains(body, "event: end") {
		t.Errorf("SSE body has end event after failure:\n%s", body)
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedProvider{})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleTools(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedProvider{})

	req := httptest.NewRequest("GET", "/api/v1/tools", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, name := range []string{"get_schedule", "save_fan_letter", "recommend_song", "get_profile"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("tools listing missing %s", name)
		}
	}
}

func TestHandleSchema(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedProvider{})

	req := httptest.NewRequest("GET", "/api/v1/schema", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "session_id") {
		t.Errorf("schema missing session_id field: %s", rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedProvider{})

	req := httptest.NewRequest("OPTIONS", "/api/v1/chat", nil)
	req.Header.Set("Origin", "https://widget.example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://widget.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
