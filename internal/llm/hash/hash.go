// Package hash is a deterministic local embedder: a token-hash bag-of-words
// projected into a fixed number of buckets and L2-normalised. It needs no
// model server, which makes it the embedder of choice for tests and offline
// runs; texts sharing vocabulary land close under cosine similarity.
package hash

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

const DefaultDimension = 256

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// Embedder maps text to a fixed-length vector by hashing tokens into buckets.
type Embedder struct {
	dimension int
}

// New creates a hash embedder with the given dimension (DefaultDimension if
// non-positive).
func New(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Embedder{dimension: dimension}
}

// Dimension returns the length of produced vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the deterministic embedding for the text. Identical input
// yields identical output. A text with no tokens embeds to the zero vector,
// which callers treat the same as an unavailable embedder.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, e.dimension)
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return nil, nil
	}
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dimension)]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}
