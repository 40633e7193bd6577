package knowledge

import (
	"context"
	"strings"
	"testing"
)

// fakeEmbedder maps known words to fixed orthogonal-ish vectors so tests can
// control similarity without a real model.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 4)
	lower := strings.ToLower(text)
	if strings.Contains(lower, "song") || strings.Contains(lower, "music") {
		vec[0] = 1
	}
	if strings.Contains(lower, "tea") || strings.Contains(lower, "food") {
		vec[1] = 1
	}
	if strings.Contains(lower, "stream") {
		vec[2] = 1
	}
	vec[3] = 0.01 // avoid zero vectors, cosine similarity is undefined there
	return vec, nil
}

func (fakeEmbedder) Dimension() int { return 4 }

func newTestStore(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore(fakeEmbedder{}, "test", "")
	if err != nil {
		t.Fatalf("NewChromemStore() error = %v", err)
	}
	return store
}

func TestChromemStore_UpsertAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, []Chunk{
		{ID: "1", Text: "Starlit Echo is her first original song", Source: "lore"},
		{ID: "2", Text: "She loves iced peach tea", Source: "lore"},
		{ID: "3", Text: "She streams three times a week", Source: "lore"},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	chunks, err := store.Search(ctx, "what music does she make", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Search() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].ID != "1" {
		t.Errorf("top chunk ID = %s, want 1 (the song chunk)", chunks[0].ID)
	}
	if chunks[0].Source != "lore" {
		t.Errorf("Source = %q, want lore", chunks[0].Source)
	}
	if chunks[0].Score <= 0 {
		t.Errorf("Score = %g, want positive", chunks[0].Score)
	}
}

func TestChromemStore_SearchEmpty(t *testing.T) {
	store := newTestStore(t)

	chunks, err := store.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Search() on empty store error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("Search() on empty store returned %d chunks, want 0", len(chunks))
	}
}

func TestChromemStore_TopKClampedToCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, []Chunk{{ID: "1", Text: "tea time stream", Source: "lore"}}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	chunks, err := store.Search(ctx, "tea", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Errorf("Search() returned %d chunks, want 1", len(chunks))
	}
}

func TestSeedDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := SeedDefaults(ctx, store); err != nil {
		t.Fatalf("SeedDefaults() error = %v", err)
	}

	chunks, err := store.Search(ctx, "song", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) == 0 {
		t.Error("Search() after seeding returned no chunks")
	}

	// Seeding twice must not duplicate.
	if err := SeedDefaults(ctx, store); err != nil {
		t.Fatalf("second SeedDefaults() error = %v", err)
	}
	if count := store.col.Count(); count != len(seedChunks) {
		t.Errorf("collection count = %d, want %d", count, len(seedChunks))
	}
}

func TestSeedDefaults_NilStore(t *testing.T) {
	if err := SeedDefaults(context.Background(), nil); err != nil {
		t.Errorf("SeedDefaults(nil) error = %v", err)
	}
}
