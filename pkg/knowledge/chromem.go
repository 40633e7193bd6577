package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/lumilabs/lumi/pkg/llms"
)

// ChromemStore is an embedded vector store with optional file persistence.
// Vectors live in RAM, so it is single-process and memory-bound, which is
// fine for a persona knowledge base of a few thousand chunks.
type ChromemStore struct {
	db          *chromem.DB
	embedder    llms.Embedder
	collection  string
	persistPath string

	mu  sync.Mutex
	col *chromem.Collection
}

// NewChromemStore creates a store backed by chromem-go. When persistPath is
// empty, vectors are kept in memory only.
func NewChromemStore(embedder llms.Embedder, collection, persistPath string) (*ChromemStore, error) {
	var db *chromem.DB

	if persistPath != "" {
		if err := os.MkdirAll(persistPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create persist directory: %w", err)
		}

		dbPath := filepath.Join(persistPath, "vectors.gob")
		if _, statErr := os.Stat(dbPath); statErr == nil {
			var err error
			db, err = chromem.NewPersistentDB(dbPath, false)
			if err != nil {
				slog.Warn("Failed to load existing vector database, creating new",
					"path", dbPath, "error", err)
				db = chromem.NewDB()
			}
		} else {
			db = chromem.NewDB()
		}
	} else {
		db = chromem.NewDB()
	}

	s := &ChromemStore{
		db:          db,
		embedder:    embedder,
		collection:  collection,
		persistPath: persistPath,
	}

	embeddingFunc := func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.Embed(ctx, text)
	}

	col, err := db.GetOrCreateCollection(collection, nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection %q: %w", collection, err)
	}
	s.col = col

	return s, nil
}

func (s *ChromemStore) Search(ctx context.Context, query string, topK int) ([]Chunk, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// chromem errors when topK exceeds the collection size.
	if count := s.col.Count(); count < topK {
		if count == 0 {
			return nil, nil
		}
		topK = count
	}

	results, err := s.col.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	chunks := make([]Chunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, Chunk{
			ID:     r.ID,
			Text:   r.Content,
			Source: r.Metadata["source"],
			Score:  r.Similarity,
		})
	}

	return chunks, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, chunks []Chunk) error {
	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		vector, err := s.embedder.Embed(ctx, c.Text)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %s: %w", c.ID, err)
		}

		docs = append(docs, chromem.Document{
			ID:        c.ID,
			Content:   c.Text,
			Metadata:  map[string]string{"source": c.Source},
			Embedding: vector,
		})
	}

	if err := s.col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to upsert documents: %w", err)
	}

	if err := s.persist(); err != nil {
		slog.Warn("Failed to persist vector database", "error", err)
	}

	return nil
}

func (s *ChromemStore) Close() error {
	return s.persist()
}

func (s *ChromemStore) persist() error {
	if s.persistPath == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dbPath := filepath.Join(s.persistPath, "vectors.gob")
	if err := s.db.Export(dbPath, false, ""); err != nil {
		return fmt.Errorf("failed to persist database: %w", err)
	}
	return nil
}

var _ Store = (*ChromemStore)(nil)
