// Package index defines the vector index contract and the embedding document
// payload handed to it.
package index

import "context"

// Hit is a scored search result with its stored payload.
type Hit struct {
	ID      uint64
	Score   float32
	Payload map[string]any
}

// Index persists embedding documents and supports nearest-neighbour search
// with cosine distance. Re-upserting the same document id overwrites the
// previous point, so ingestion is idempotent per document.
type Index interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, name string, dimension int) error
	Upsert(ctx context.Context, collection string, doc Document, vector []float32) error
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]Hit, error)
	DeleteAll(ctx context.Context, collection string) error
}
