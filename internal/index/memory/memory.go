// Package memory is an in-process vector index using brute-force cosine
// similarity. It backs tests and offline runs without a Qdrant instance.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"ordertwin/internal/index"
)

type point struct {
	id      uint64
	vector  []float32
	payload map[string]any
	order   int // insertion order, breaks score ties
}

type collection struct {
	dimension int
	points    map[uint64]*point
	inserted  int
}

// Store is a thread-safe in-memory vector index.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// New creates an empty store.
func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) CollectionExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	return ok, nil
}

func (s *Store) CreateCollection(_ context.Context, name string, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; ok {
		return nil
	}
	s.collections[name] = &collection{dimension: dimension, points: make(map[uint64]*point)}
	return nil
}

// Upsert stores the document under its derived point id, overwriting any
// previous point with the same id. An unknown collection is created lazily
// with the vector's dimension.
func (s *Store) Upsert(_ context.Context, name string, doc index.Document, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[name]
	if !ok {
		col = &collection{dimension: len(vector), points: make(map[uint64]*point)}
		s.collections[name] = col
	}
	if len(vector) != col.dimension {
		return fmt.Errorf("vector dimension %d does not match collection dimension %d", len(vector), col.dimension)
	}

	payload := make(map[string]any, len(doc.Metadata)+2)
	for k, v := range doc.Metadata {
		payload[k] = v
	}
	payload["id"] = doc.ID
	payload["text"] = doc.Text

	id := index.PointID(doc.ID)
	vec := make([]float32, len(vector))
	copy(vec, vector)

	if existing, ok := col.points[id]; ok {
		existing.vector = vec
		existing.payload = payload
		return nil
	}
	col.inserted++
	col.points[id] = &point{id: id, vector: vec, payload: payload, order: col.inserted}
	return nil
}

func (s *Store) Search(_ context.Context, name string, vector []float32, limit int) ([]index.Hit, error) {
	if limit <= 0 {
		limit = 5
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", name)
	}

	type scored struct {
		p     *point
		score float32
	}
	results := make([]scored, 0, len(col.points))
	for _, p := range col.points {
		results = append(results, scored{p: p, score: cosine(p.vector, vector)})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].p.order < results[j].p.order
	})
	if limit > len(results) {
		limit = len(results)
	}
	hits := make([]index.Hit, 0, limit)
	for _, r := range results[:limit] {
		hits = append(hits, index.Hit{ID: r.p.id, Score: r.score, Payload: r.p.payload})
	}
	return hits, nil
}

func (s *Store) DeleteAll(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.collections[name]; ok {
		col.points = make(map[uint64]*point)
		col.inserted = 0
	}
	return nil
}

// Count returns the number of stored points in a collection.
func (s *Store) Count(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if col, ok := s.collections[name]; ok {
		return len(col.points)
	}
	return 0
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
