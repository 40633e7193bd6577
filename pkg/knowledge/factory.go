package knowledge

import (
	"fmt"

	"github.com/lumilabs/lumi/pkg/config"
	"github.com/lumilabs/lumi/pkg/llms"
)

// NewStore creates a Store from configuration. A "none" provider returns
// nil, which the retrieval node treats as no knowledge base.
func NewStore(cfg config.KnowledgeConfig, embedder llms.Embedder) (Store, error) {
	switch cfg.Provider {
	case "chromem":
		return NewChromemStore(embedder, cfg.Collection, cfg.Path)
	case "qdrant":
		return NewQdrantStore(embedder, cfg.Host, cfg.Port, cfg.Collection)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown knowledge provider: %s", cfg.Provider)
	}
}
