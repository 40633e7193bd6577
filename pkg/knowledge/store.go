// Package knowledge provides the vector store behind the retrieval node.
// Two backends are available: chromem-go for embedded zero-config storage
// and Qdrant for external deployments.
package knowledge

import "context"

// Chunk is a piece of background knowledge with a similarity score when
// returned from Search.
type Chunk struct {
	ID     string
	Text   string
	Source string
	Score  float32
}

// Store indexes and searches knowledge chunks. Implementations embed the
// query text themselves.
type Store interface {
	Search(ctx context.Context, query string, topK int) ([]Chunk, error)
	Upsert(ctx context.Context, chunks []Chunk) error
	Close() error
}
