package observability

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetrics_Recording(t *testing.T) {
	m := NewMetrics()

	m.RecordNodeExecution("router", 50*time.Millisecond, nil)
	m.RecordNodeExecution("response", 10*time.Millisecond, errors.New("boom"))
	m.RecordLLMCall("solar-pro2", 200*time.Millisecond, 42, nil)
	m.RecordToolExecution("get_schedule", 5*time.Millisecond, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		`lumi_node_executions_total{node="router",status="ok"} 1`,
		`lumi_node_executions_total{node="response",status="error"} 1`,
		`lumi_llm_tokens_total{model="solar-pro2"} 42`,
		`lumi_tool_executions_total{status="ok",tool="get_schedule"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestGetGlobalMetrics_NilBeforeInit(t *testing.T) {
	// Must not panic when metrics are disabled.
	if m := GetGlobalMetrics(); m != nil {
		t.Skip("global metrics already initialized by another test")
	}

	InitGlobalMetrics()
	if GetGlobalMetrics() == nil {
		t.Error("GetGlobalMetrics() = nil after init")
	}
}
