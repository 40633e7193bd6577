// Package observability provides Prometheus metrics for node, model, and
// tool executions. Metrics are optional: callers must nil-check
// GetGlobalMetrics so a service running without metrics pays nothing.
package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	nodeExecutions *prometheus.CounterVec
	nodeDuration   *prometheus.HistogramVec

	llmCalls    *prometheus.CounterVec
	llmDuration *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec

	toolExecutions *prometheus.CounterVec
	toolDuration   *prometheus.HistogramVec
}

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// InitGlobalMetrics creates and installs the process-wide metrics instance.
func InitGlobalMetrics() *Metrics {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalMetrics == nil {
		globalMetrics = NewMetrics()
	}
	return globalMetrics
}

// GetGlobalMetrics returns the installed metrics instance, or nil when
// metrics are disabled.
func GetGlobalMetrics() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		nodeExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumi_node_executions_total",
			Help: "Workflow node executions by node and outcome.",
		}, []string{"node", "status"}),
		nodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lumi_node_duration_seconds",
			Help:    "Workflow node execution duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"node"}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumi_llm_calls_total",
			Help: "Chat model calls by model and outcome.",
		}, []string{"model", "status"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lumi_llm_duration_seconds",
			Help:    "Chat model call duration.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"model"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumi_llm_tokens_total",
			Help: "Total tokens consumed by chat model calls.",
		}, []string{"model"}),
		toolExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumi_tool_executions_total",
			Help: "Tool executions by tool and outcome.",
		}, []string{"tool", "status"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lumi_tool_duration_seconds",
			Help:    "Tool execution duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
	}

	registry.MustRegister(
		m.nodeExecutions, m.nodeDuration,
		m.llmCalls, m.llmDuration, m.llmTokens,
		m.toolExecutions, m.toolDuration,
	)

	return m
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordNodeExecution records one workflow node run.
func (m *Metrics) RecordNodeExecution(node string, duration time.Duration, err error) {
	m.nodeExecutions.WithLabelValues(node, statusLabel(err)).Inc()
	m.nodeDuration.WithLabelValues(node).Observe(duration.Seconds())
}

// RecordLLMCall records one chat model call.
func (m *Metrics) RecordLLMCall(model string, duration time.Duration, tokens int, err error) {
	m.llmCalls.WithLabelValues(model, statusLabel(err)).Inc()
	m.llmDuration.WithLabelValues(model).Observe(duration.Seconds())
	if tokens > 0 {
		m.llmTokens.WithLabelValues(model).Add(float64(tokens))
	}
}

// RecordToolExecution records one tool run.
func (m *Metrics) RecordToolExecution(tool string, duration time.Duration, err error) {
	m.toolExecutions.WithLabelValues(tool, statusLabel(err)).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// Handler returns the Prometheus exposition handler for this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
