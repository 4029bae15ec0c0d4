package index

import (
	"hash/fnv"
	"time"

	"ordertwin/internal/domain"
)

// Document is the payload unit handed to the vector index: a semantic id, the
// rendered description and the scalar metadata used to correlate documents.
// Documents are immutable; re-ingesting the same id overwrites the stored
// point.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// PointID derives the stable numeric point id the index stores a document
// under. Same-id upserts overwrite, which is what makes re-ingestion
// idempotent.
func PointID(semanticID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(semanticID))
	return h.Sum64()
}

// FromEvent builds the embedding document for a lifecycle event.
func FromEvent(e domain.Event, text string) Document {
	return fromContext(domain.ContextFromEvent(e), text, nil)
}

// FromEventWithID builds the embedding document for an event under an
// explicitly supplied document id instead of the derived semantic id.
func FromEventWithID(e domain.Event, text, id string) Document {
	ctx := domain.ContextFromEvent(e)
	ctx.EventID = id
	return fromContext(ctx, text, nil)
}

// FromOrder builds the embedding document for an order snapshot. Snapshot
// documents carry extra correlation fields (status, customer, total) that
// event documents do not.
func FromOrder(o domain.Order, text string) Document {
	total, _ := o.TotalAmount.Float64()
	return fromContext(domain.ContextFromOrder(o), text, map[string]any{
		"status":      string(o.Status),
		"customerId":  o.CustomerID,
		"totalAmount": total,
	})
}

func fromContext(ctx domain.EventContext, text string, extra map[string]any) Document {
	metadata := map[string]any{
		"orderNumber":            ctx.OrderNumber,
		"eventType":              ctx.EventType,
		"version":                ctx.Version,
		"eventTimestamp":         ctx.Timestamp.UTC().Format(time.RFC3339),
		"orderContextKey":        ctx.OrderKey(),
		"eventTypeContextKey":    ctx.EventTypeKey(),
		"orderVersionContextKey": ctx.OrderVersionKey(),
	}
	for k, v := range extra {
		metadata[k] = v
	}
	return Document{
		ID:       ctx.SemanticID(),
		Text:     text,
		Metadata: metadata,
	}
}
