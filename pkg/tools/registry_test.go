package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lumilabs/lumi/pkg/llms"
	"github.com/lumilabs/lumi/pkg/storage"
)

type failingTool struct{}

func (failingTool) GetInfo() ToolInfo {
	return ToolInfo{Name: "broken", Description: "always fails"}
}

func (failingTool) Execute(context.Context, map[string]any) (ToolResult, error) {
	return ToolResult{}, errors.New("backend exploded")
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewDefaultRegistry(storage.NewMemStore())
	if err != nil {
		t.Fatalf("NewDefaultRegistry() error = %v", err)
	}
	return r
}

func TestRegistry_Definitions(t *testing.T) {
	r := newTestRegistry(t)

	defs := r.Definitions()
	if len(defs) != 4 {
		t.Fatalf("Definitions() = %d, want 4", len(defs))
	}

	names := make(map[string]bool)
	for _, d := range defs {
		names[d.Name] = true
		if d.Parameters["type"] != "object" {
			t.Errorf("tool %s schema type = %v, want object", d.Name, d.Parameters["type"])
		}
	}
	for _, want := range []string{"get_schedule", "save_fan_letter", "recommend_song", "get_profile"} {
		if !names[want] {
			t.Errorf("Definitions() missing tool %s", want)
		}
	}
}

func TestRegistry_Execute_UnknownTool(t *testing.T) {
	r := newTestRegistry(t)

	result := r.Execute(context.Background(), llms.ToolCall{ID: "c1", Name: "launch_rocket"})
	if !result.Failed() {
		t.Fatal("Execute(unknown) did not fail")
	}
	if !strings.Contains(result.Error, "unknown tool") {
		t.Errorf("Error = %q, want unknown tool message", result.Error)
	}
}

func TestRegistry_Execute_ValidationFailure(t *testing.T) {
	r := newTestRegistry(t)

	// save_fan_letter requires author and content.
	result := r.Execute(context.Background(), llms.ToolCall{
		ID:   "c1",
		Name: "save_fan_letter",
		Args: map[string]any{"author": "Mika"},
	})
	if !result.Failed() {
		t.Fatal("Execute() with missing argument did not fail")
	}
	if !strings.Contains(result.Error, "content") {
		t.Errorf("Error = %q, want mention of missing content", result.Error)
	}
}

func TestRegistry_Execute_FailureIsolated(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register(failingTool{}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	bad := r.Execute(ctx, llms.ToolCall{ID: "c1", Name: "broken"})
	if !bad.Failed() {
		t.Fatal("broken tool did not fail")
	}

	// A failed call leaves the registry fully usable.
	good := r.Execute(ctx, llms.ToolCall{ID: "c2", Name: "get_profile"})
	if good.Failed() {
		t.Fatalf("get_profile after failure: %s", good.Error)
	}
	if !strings.Contains(good.Content, "Lumi") {
		t.Errorf("profile content = %q, want Lumi", good.Content)
	}
}

func TestRegistry_Execute_Success(t *testing.T) {
	r := newTestRegistry(t)

	result := r.Execute(context.Background(), llms.ToolCall{
		ID:   "c1",
		Name: "recommend_song",
		Args: map[string]any{"mood": "sad"},
	})
	if result.Failed() {
		t.Fatalf("Execute() error = %s", result.Error)
	}
	if !strings.Contains(result.Content, "Paper Moon") {
		t.Errorf("Content = %q, want Paper Moon", result.Content)
	}
}
