package lifecycle

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
	"ordertwin/internal/ingest"
	"ordertwin/internal/llm/hash"
)

// countingEmbedder counts Embed calls so tests can assert the pipeline was
// never reached on a rejected transition.
type countingEmbedder struct{ calls int }

func (c *countingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	c.calls++
	return []float32{1, 0}, nil
}

type countingIndex struct {
	upserts int
	err     error
}

func (c *countingIndex) CollectionExists(context.Context, string) (bool, error) { return true, nil }

func (c *countingIndex) CreateCollection(context.Context, string, int) error { return nil }

func (c *countingIndex) Upsert(context.Context, string, index.Document, []float32) error {
	c.upserts++
	return c.err
}

func (c *countingIndex) Search(context.Context, string, []float32, int) ([]index.Hit, error) {
	return nil, nil
}

func (c *countingIndex) DeleteAll(context.Context, string) error { return nil }

func newService(embedder *countingEmbedder, idx *countingIndex) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(ingest.New(embedder, idx, "orders", log), log)
}

func orderIn(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		OrderNumber: "ORD-2025-000001",
		Status:      status,
		Version:     2,
		UpdatedAt:   time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
		UpdatedBy:   "admin001",
	}
}

func TestCreate(t *testing.T) {
	embedder := &countingEmbedder{}
	idx := &countingIndex{}
	svc := newService(embedder, idx)

	order := orderIn(domain.StatusPending)
	order.Version = 1

	event, err := svc.Create(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, *order, event.Snapshot)
	assert.Equal(t, 1, idx.upserts)
}

func TestConfirm(t *testing.T) {
	embedder := &countingEmbedder{}
	idx := &countingIndex{}
	svc := newService(embedder, idx)

	order := orderIn(domain.StatusConfirmed)

	event, err := svc.Confirm(context.Background(), order, domain.StatusPending, "admin002")
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-000001", event.OrderNumber)
	assert.Equal(t, domain.StatusPending, event.PreviousStatus)
	assert.Equal(t, domain.StatusConfirmed, event.NewStatus)
	assert.Equal(t, order.UpdatedAt, event.ConfirmedAt)
	assert.Equal(t, "admin002", event.ConfirmedBy)
	assert.Equal(t, 2, event.Version)
	assert.Equal(t, 1, idx.upserts)
}

func TestConfirmDefaultsPreviousStatusAndActor(t *testing.T) {
	svc := newService(&countingEmbedder{}, &countingIndex{})

	order := orderIn(domain.StatusConfirmed)

	event, err := svc.Confirm(context.Background(), order, "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, event.PreviousStatus)
	assert.Equal(t, "admin001", event.ConfirmedBy)
}

func TestShip(t *testing.T) {
	svc := newService(&countingEmbedder{}, &countingIndex{})

	order := orderIn(domain.StatusShipped)

	event, err := svc.Ship(context.Background(), order, domain.StatusConfirmed, "warehouse001", "TRACK-001", "DHL")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, event.PreviousStatus)
	assert.Equal(t, "TRACK-001", event.TrackingNumber)
	assert.Equal(t, "DHL", event.Carrier)
}

func TestShipDefaultsPreviousStatusToProcessing(t *testing.T) {
	svc := newService(&countingEmbedder{}, &countingIndex{})

	event, err := svc.Ship(context.Background(), orderIn(domain.StatusShipped), "", "warehouse001", "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, event.PreviousStatus)
}

func TestDeliver(t *testing.T) {
	svc := newService(&countingEmbedder{}, &countingIndex{})

	event, err := svc.Deliver(context.Background(), orderIn(domain.StatusDelivered), "", "courier001", "SIGN-001", "Left at the door")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, event.PreviousStatus)
	assert.Equal(t, "SIGN-001", event.Signature)
	assert.Equal(t, "Left at the door", event.DeliveryNotes)
}

func TestCancel(t *testing.T) {
	svc := newService(&countingEmbedder{}, &countingIndex{})

	event, err := svc.Cancel(context.Background(), orderIn(domain.StatusCancelled), domain.StatusConfirmed, "admin003", "Customer requested cancellation")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, event.PreviousStatus)
	assert.Equal(t, "Customer requested cancellation", event.CancellationReason)
}

func TestGuardRejectsWrongStatus(t *testing.T) {
	tests := []struct {
		name   string
		status domain.OrderStatus
		op     func(*Service, *domain.Order) error
	}{
		{"create requires pending", domain.StatusConfirmed, func(s *Service, o *domain.Order) error {
			_, err := s.Create(context.Background(), o)
			return err
		}},
		{"confirm requires confirmed", domain.StatusPending, func(s *Service, o *domain.Order) error {
			_, err := s.Confirm(context.Background(), o, domain.StatusPending, "")
			return err
		}},
		{"ship requires shipped", domain.StatusConfirmed, func(s *Service, o *domain.Order) error {
			_, err := s.Ship(context.Background(), o, "", "", "", "")
			return err
		}},
		{"deliver requires delivered", domain.StatusShipped, func(s *Service, o *domain.Order) error {
			_, err := s.Deliver(context.Background(), o, "", "", "", "")
			return err
		}},
		{"cancel requires cancelled", domain.StatusPending, func(s *Service, o *domain.Order) error {
			_, err := s.Cancel(context.Background(), o, domain.StatusPending, "", "")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := &countingEmbedder{}
			idx := &countingIndex{}
			svc := newService(embedder, idx)

			err := tt.op(svc, orderIn(tt.status))
			require.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Contains(t, err.Error(), "ORD-2025-000001")

			// A rejected transition must not touch the pipeline.
			assert.Zero(t, embedder.calls)
			assert.Zero(t, idx.upserts)
		})
	}
}

func TestGuardRejectsNilOrder(t *testing.T) {
	svc := newService(&countingEmbedder{}, &countingIndex{})

	_, err := svc.Create(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNilOrder)
	_, err = svc.Confirm(context.Background(), nil, "", "")
	assert.ErrorIs(t, err, domain.ErrNilOrder)
	_, err = svc.Cancel(context.Background(), nil, "", "", "")
	assert.ErrorIs(t, err, domain.ErrNilOrder)
}

// Confirming a snapshot and then shipping the same unmodified snapshot must
// fail: the ship guard sees status Confirmed, not Shipped.
func TestShipRejectsStaleSnapshotAfterConfirm(t *testing.T) {
	svc := newService(&countingEmbedder{}, &countingIndex{})
	ctx := context.Background()

	order := &domain.Order{
		OrderNumber: "ORD-2025-000001",
		Status:      domain.StatusPending,
		Version:     1,
	}
	_, err := svc.Create(ctx, order)
	require.NoError(t, err)

	order.Status = domain.StatusConfirmed
	event, err := svc.Confirm(ctx, order, domain.StatusPending, "admin001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, event.PreviousStatus)
	assert.Equal(t, domain.StatusConfirmed, event.NewStatus)
	assert.Equal(t, 1, event.Version)

	_, err = svc.Ship(ctx, order, domain.StatusConfirmed, "warehouse001", "TRACK-001", "DHL")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransitionSucceedsWhenIndexFails(t *testing.T) {
	embedder := &countingEmbedder{}
	idx := &countingIndex{err: errors.New("index down")}
	svc := newService(embedder, idx)

	_, err := svc.Confirm(context.Background(), orderIn(domain.StatusConfirmed), "", "")
	assert.NoError(t, err)
	assert.Equal(t, 1, idx.upserts)
}

// Walking a snapshot through confirm and ship records both events in the
// index under distinct point ids.
func TestLifecycleRecordsEventsInIndex(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	svc := New(ingest.New(hash.New(64), store, "orders", log), log)

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	order := domain.Order{
		OrderNumber: "ORD-2025-000001",
		Status:      domain.StatusPending,
		Version:     1,
		CreatedAt:   at,
		CustomerID:  "CUST-000001",
	}

	_, err := svc.Create(ctx, &order)
	require.NoError(t, err)

	confirmed := order.WithStatus(domain.StatusConfirmed, "admin001", at.Add(time.Hour))
	_, err = svc.Confirm(ctx, &confirmed, domain.StatusPending, "admin001")
	require.NoError(t, err)

	shipped := confirmed.WithStatus(domain.StatusShipped, "warehouse001", at.Add(2*time.Hour))
	_, err = svc.Ship(ctx, &shipped, domain.StatusConfirmed, "warehouse001", "TRACK-001", "DHL")
	require.NoError(t, err)

	assert.Equal(t, 3, store.Count("orders"))
}
