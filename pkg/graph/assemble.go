package graph

import (
	"log/slog"

	"github.com/lumilabs/lumi/pkg/config"
	"github.com/lumilabs/lumi/pkg/knowledge"
	"github.com/lumilabs/lumi/pkg/llms"
	"github.com/lumilabs/lumi/pkg/tools"
	"github.com/lumilabs/lumi/pkg/utils"
)

// Assemble builds and compiles the standard workflow graph: router at the
// entry, fanning out to retrieval, tool execution, or straight to the
// response node. Called once at startup; the compiled graph is shared
// across all requests.
func Assemble(cfg *config.Config, provider llms.Provider, store knowledge.Store, registry *tools.Registry) (*Graph, error) {
	// The counter needs tiktoken's encoding data, which is fetched on first
	// use; without it the retrieval budget falls back to length estimates.
	counter, err := utils.NewTokenCounter(cfg.LLM.Model)
	if err != nil {
		slog.Warn("Token counter unavailable, using length estimates for the retrieval budget", "error", err)
		counter = nil
	}

	return NewBuilder().
		AddNode(NewRouterNode(provider, registry.Definitions())).
		AddNode(NewRetrievalNode(store, cfg.Knowledge.TopK, cfg.Knowledge.TokenBudget, cfg.Knowledge.ScoreThreshold, counter)).
		AddNode(NewToolExecutionNode(registry)).
		AddNode(NewResponseNode(provider, cfg.Agent.Persona)).
		SetEntry(NodeRouter).
		Compile()
}
