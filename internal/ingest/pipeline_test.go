package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordertwin/internal/domain"
	"ordertwin/internal/index"
	"ordertwin/internal/index/memory"
	"ordertwin/internal/llm/hash"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type failingEmbedder struct{ err error }

func (f *failingEmbedder) Embed(context.Context, string) ([]float32, error) { return nil, f.err }

type emptyEmbedder struct{}

func (emptyEmbedder) Embed(context.Context, string) ([]float32, error) { return nil, nil }

type failingIndex struct{}

func (failingIndex) CollectionExists(context.Context, string) (bool, error) { return false, nil }

func (failingIndex) CreateCollection(context.Context, string, int) error { return nil }

func (failingIndex) Upsert(context.Context, string, index.Document, []float32) error {
	return errors.New("index down")
}

func (failingIndex) Search(context.Context, string, []float32, int) ([]index.Hit, error) {
	return nil, errors.New("index down")
}

func (failingIndex) DeleteAll(context.Context, string) error { return nil }

type recordingPublisher struct{ events []domain.Event }

func (r *recordingPublisher) PublishEvent(_ context.Context, e domain.Event) error {
	r.events = append(r.events, e)
	return nil
}

func confirmedEvent() domain.OrderConfirmed {
	return domain.OrderConfirmed{
		OrderNumber:    "ORD-2025-000001",
		PreviousStatus: domain.StatusPending,
		NewStatus:      domain.StatusConfirmed,
		ConfirmedAt:    time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
		ConfirmedBy:    "admin001",
		Version:        2,
	}
}

func TestIngestEventStoresDocument(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := New(hash.New(64), store, "orders", discard)

	p.IngestEvent(ctx, confirmedEvent())

	require.Equal(t, 1, store.Count("orders"))

	vec, err := hash.New(64).Embed(ctx, "order confirmed")
	require.NoError(t, err)
	hits, err := store.Search(ctx, "orders", vec, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "OrderConfirmed", hits[0].Payload["eventType"])
	assert.Equal(t, "ORD-2025-000001", hits[0].Payload["orderNumber"])
	assert.NotEmpty(t, hits[0].Payload["text"])
}

func TestIngestEventIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := New(hash.New(64), store, "orders", discard)

	p.IngestEvent(ctx, confirmedEvent())
	p.IngestEvent(ctx, confirmedEvent())

	assert.Equal(t, 1, store.Count("orders"))
}

func TestIngestEventWithIDOverridesSemanticID(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := New(hash.New(64), store, "orders", discard)

	p.IngestEvent(ctx, confirmedEvent())
	p.IngestEventWithID(ctx, confirmedEvent(), "external-1")

	// Different ids, so two points despite identical content.
	assert.Equal(t, 2, store.Count("orders"))
}

func TestIngestOrderStoresSnapshotDocument(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p := New(hash.New(64), store, "orders", discard)

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p.IngestOrder(ctx, domain.Order{
		OrderNumber:  "ORD-2025-000002",
		CustomerID:   "CUST-000002",
		CustomerName: "Giulia Bianchi",
		Status:       domain.StatusPending,
		Currency:     "EUR",
		Version:      1,
		CreatedAt:    at,
	})

	require.Equal(t, 1, store.Count("orders"))

	vec, err := hash.New(64).Embed(ctx, "order Giulia Bianchi")
	require.NoError(t, err)
	hits, err := store.Search(ctx, "orders", vec, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Order", hits[0].Payload["eventType"])
	assert.Equal(t, "Pending", hits[0].Payload["status"])
}

func TestIngestAbsorbsEmbedderFailure(t *testing.T) {
	store := memory.New()
	p := New(&failingEmbedder{err: errors.New("ollama down")}, store, "orders", discard)

	p.IngestEvent(context.Background(), confirmedEvent())

	assert.Equal(t, 0, store.Count("orders"))
}

func TestIngestSkipsOnEmptyEmbedding(t *testing.T) {
	store := memory.New()
	p := New(emptyEmbedder{}, store, "orders", discard)

	p.IngestEvent(context.Background(), confirmedEvent())

	assert.Equal(t, 0, store.Count("orders"))
}

func TestIngestAbsorbsIndexFailure(t *testing.T) {
	p := New(hash.New(64), failingIndex{}, "orders", discard)

	// Must not panic or surface the error.
	p.IngestEvent(context.Background(), confirmedEvent())
	p.IngestOrder(context.Background(), domain.Order{OrderNumber: "ORD-1", Version: 1})
}

func TestIngestNotifiesPublisher(t *testing.T) {
	pub := &recordingPublisher{}
	p := New(hash.New(64), memory.New(), "orders", discard, WithPublisher(pub))

	p.IngestEvent(context.Background(), confirmedEvent())

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventTypeOrderConfirmed, pub.events[0].EventType())
}
