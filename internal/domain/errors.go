package domain

import "errors"

// Errors for the order lifecycle and the RAG pipelines.
var (
	// ErrNilOrder is returned when a lifecycle operation receives no order snapshot.
	ErrNilOrder = errors.New("order snapshot is required")

	// ErrInvalidTransition is returned when the snapshot status does not match
	// the target status of the requested lifecycle operation.
	ErrInvalidTransition = errors.New("order status does not match requested transition")

	// ErrEmbeddingUnavailable signals that the embedder produced an empty vector.
	// Fatal on the query path only; ingestion logs and moves on.
	ErrEmbeddingUnavailable = errors.New("embedder returned an empty vector")

	// ErrIndexUnavailable signals a failed vector index call.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrGenerationFailure signals a failed generative model call.
	ErrGenerationFailure = errors.New("text generation failed")
)
