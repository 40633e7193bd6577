package graph

import (
	"context"
	"log/slog"

	"github.com/lumilabs/lumi/pkg/knowledge"
	"github.com/lumilabs/lumi/pkg/utils"
)

// RetrievalNode queries the knowledge store and attaches the results to the
// state, bounded by a minimum score, a result count, and a token budget. A
// store failure is recorded as a warning with empty context; it never aborts
// the request.
type RetrievalNode struct {
	store     knowledge.Store
	topK      int
	budget    int
	threshold float32
	counter   *utils.TokenCounter
}

func NewRetrievalNode(store knowledge.Store, topK, tokenBudget int, scoreThreshold float32, counter *utils.TokenCounter) *RetrievalNode {
	return &RetrievalNode{
		store:     store,
		topK:      topK,
		budget:    tokenBudget,
		threshold: scoreThreshold,
		counter:   counter,
	}
}

func (n *RetrievalNode) ID() NodeID {
	return NodeRetrieval
}

func (n *RetrievalNode) Successors() []NodeID {
	return []NodeID{NodeResponse}
}

func (n *RetrievalNode) Run(ctx context.Context, state *State) (NodeID, error) {
	if n.store == nil {
		state.AddWarning("knowledge base is not configured")
		return NodeResponse, nil
	}

	chunks, err := n.store.Search(ctx, state.Input, n.topK)
	if err != nil {
		slog.Warn("Knowledge store query failed", "error", err)
		state.AddWarning("background knowledge was unavailable for this answer")
		return NodeResponse, nil
	}

	// Results arrive ranked best-first; drop anything below the score
	// threshold, then keep the rest until the token budget runs out so the
	// lowest-ranked are dropped.
	used := 0
	for _, chunk := range chunks {
		if chunk.Score < n.threshold {
			continue
		}
		cost := n.counter.Count(chunk.Text)
		if used+cost > n.budget && len(state.Context) > 0 {
			break
		}
		state.Context = append(state.Context, ContextChunk{
			Text:   chunk.Text,
			Source: chunk.Source,
			Score:  chunk.Score,
		})
		used += cost
	}

	return NodeResponse, nil
}
