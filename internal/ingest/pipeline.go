// Package ingest turns lifecycle facts into searchable documents:
// render → embed → build document → upsert. Ingestion is best-effort by
// design: the business transition has already happened, so embedding or
// index failures are logged and absorbed, never surfaced to the caller.
package ingest

import (
	"context"
	"log/slog"

	"ordertwin/internal/domain"
	"ordertwin/internal/index"
	"ordertwin/internal/llm"
	"ordertwin/internal/messaging"
	"ordertwin/internal/render"
)

// Pipeline ingests events and order snapshots into a vector index collection.
type Pipeline struct {
	embedder   llm.Embedder
	idx        index.Index
	publisher  messaging.EventPublisher
	collection string
	log        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublisher attaches a secondary event sink. The default is a noop.
func WithPublisher(p messaging.EventPublisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// New creates an ingestion pipeline writing into the given collection.
func New(embedder llm.Embedder, idx index.Index, collection string, log *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		embedder:   embedder,
		idx:        idx,
		publisher:  messaging.Noop{},
		collection: collection,
		log:        log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IngestEvent records a lifecycle event into the index. Each event is an
// independent unit of work: no batching, and a failure affects at most this
// one document.
func (p *Pipeline) IngestEvent(ctx context.Context, e domain.Event) {
	text := render.Event(e)
	doc := index.FromEvent(e, text)
	p.ingest(ctx, doc, "eventType", e.EventType())
	if err := p.publisher.PublishEvent(ctx, e); err != nil {
		p.log.Warn("event publish failed", "eventType", e.EventType(), "error", err)
	}
}

// IngestEventWithID records an event under an explicitly supplied document id
// instead of the derived semantic id.
func (p *Pipeline) IngestEventWithID(ctx context.Context, e domain.Event, id string) {
	text := render.Event(e)
	doc := index.FromEventWithID(e, text, id)
	p.ingest(ctx, doc, "eventType", e.EventType())
	if err := p.publisher.PublishEvent(ctx, e); err != nil {
		p.log.Warn("event publish failed", "eventType", e.EventType(), "error", err)
	}
}

// IngestOrder records a full order snapshot document into the index.
func (p *Pipeline) IngestOrder(ctx context.Context, o domain.Order) {
	text := render.Order(o)
	doc := index.FromOrder(o, text)
	p.ingest(ctx, doc, "orderNumber", o.OrderNumber)
}

func (p *Pipeline) ingest(ctx context.Context, doc index.Document, key, value string) {
	vec, err := p.embedder.Embed(ctx, doc.Text)
	if err != nil {
		p.log.Error("embedding failed", key, value, "id", doc.ID, "error", err)
		return
	}
	if len(vec) == 0 {
		// Soft failure: no embedding model available. Skip, do not retry.
		p.log.Warn("empty embedding, document skipped", key, value, "id", doc.ID)
		return
	}
	if err := p.idx.Upsert(ctx, p.collection, doc, vec); err != nil {
		p.log.Error("index upsert failed", key, value, "id", doc.ID, "error", err)
		return
	}
	p.log.Debug("document ingested", key, value, "id", doc.ID)
}
