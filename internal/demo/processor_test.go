package demo

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordertwin/internal/domain"
	"ordertwin/internal/index/memory"
	"ordertwin/internal/ingest"
	"ordertwin/internal/lifecycle"
	"ordertwin/internal/llm/hash"
)

func TestRunSeedsEventsAndSnapshots(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	pipeline := ingest.New(hash.New(64), store, "orders", log)
	svc := lifecycle.New(pipeline, log)

	p := New(domain.NewSequence(), svc, pipeline, log)
	p.Run(context.Background(), 5, 7)

	// Five flows: 3+4+3+3+4 events plus one snapshot per order.
	assert.Equal(t, 22, store.Count("orders"))
}

func TestRunIsReproducibleWithSeed(t *testing.T) {
	run := func() int {
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		store := memory.New()
		pipeline := ingest.New(hash.New(64), store, "orders", log)
		p := New(domain.NewSequence(), lifecycle.New(pipeline, log), pipeline, log)
		p.Run(context.Background(), 3, 42)
		return store.Count("orders")
	}

	require.Equal(t, run(), run())
}

func TestRunSnapshotDocumentCarriesFinalStatus(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	pipeline := ingest.New(hash.New(64), store, "orders", log)
	svc := lifecycle.New(pipeline, log)

	// A single order takes flow 0 (create, confirm, ship).
	p := New(domain.NewSequence(), svc, pipeline, log)
	p.Run(context.Background(), 1, 1)

	require.Equal(t, 4, store.Count("orders"))

	vec, err := hash.New(64).Embed(context.Background(), "order status shipped")
	require.NoError(t, err)
	hits, err := store.Search(context.Background(), "orders", vec, 4)
	require.NoError(t, err)

	var snapshotStatus string
	for _, h := range hits {
		if h.Payload["eventType"] == domain.EventTypeOrder {
			snapshotStatus, _ = h.Payload["status"].(string)
		}
	}
	assert.Equal(t, "Shipped", snapshotStatus)
}
