package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/lumilabs/lumi/pkg/llms"
)

// QdrantStore is a vector store backed by an external Qdrant server over
// gRPC. Use it when the knowledge base outgrows the embedded store.
type QdrantStore struct {
	client     *qdrant.Client
	embedder   llms.Embedder
	collection string
}

// NewQdrantStore connects to Qdrant and ensures the collection exists.
func NewQdrantStore(embedder llms.Embedder, host string, port int, collection string) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client for %s:%d: %w", host, port, err)
	}

	s := &QdrantStore{
		client:     client,
		embedder:   embedder,
		collection: collection,
	}

	if err := s.ensureCollection(context.Background()); err != nil {
		client.Close()
		return nil, err
	}

	return s, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.embedder.Dimension()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, query string, topK int) ([]Chunk, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchRequest := &qdrant.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload:    qdrant.NewWithPayload(true),
	}

	searchResult, err := s.client.GetPointsClient().Search(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	chunks := make([]Chunk, 0, len(searchResult.Result))
	for _, point := range searchResult.Result {
		var id string
		if point.Id != nil {
			switch idType := point.Id.PointIdOptions.(type) {
			case *qdrant.PointId_Uuid:
				id = idType.Uuid
			case *qdrant.PointId_Num:
				id = fmt.Sprintf("%d", idType.Num)
			}
		}

		chunk := Chunk{ID: id, Score: point.Score}
		if point.Payload != nil {
			if v, ok := point.Payload["text"]; ok {
				chunk.Text = v.GetStringValue()
			}
			if v, ok := point.Payload["source"]; ok {
				chunk.Source = v.GetStringValue()
			}
		}

		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

func (s *QdrantStore) Upsert(ctx context.Context, chunks []Chunk) error {
	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, c := range chunks {
		vector, err := s.embedder.Embed(ctx, c.Text)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %s: %w", c.ID, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(c.ID),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":   c.Text,
				"source": c.Source,
			}),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

var _ Store = (*QdrantStore)(nil)
