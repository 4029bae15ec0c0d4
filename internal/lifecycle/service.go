// Package lifecycle implements the order state machine guard. Each operation
// validates a caller-asserted snapshot against the transition's target
// status, constructs the corresponding immutable event and hands it to the
// ingestion pipeline. The guard checks only the target status: it does not
// verify that previousStatus→newStatus is a legal edge, preserving the
// decoupled validation contract between the caller and the service.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ordertwin/internal/domain"
	"ordertwin/internal/ingest"
)

// Service validates lifecycle transitions and records their events.
// Indexing is best-effort: a failed ingestion never fails the transition.
type Service struct {
	pipeline *ingest.Pipeline
	log      *slog.Logger
}

// New creates a lifecycle service backed by the given ingestion pipeline.
func New(pipeline *ingest.Pipeline, log *slog.Logger) *Service {
	return &Service{pipeline: pipeline, log: log}
}

// Create records the creation event for a freshly minted order. The snapshot
// must be in status Pending.
func (s *Service) Create(ctx context.Context, order *domain.Order) (domain.OrderCreated, error) {
	if err := s.guard(order, domain.StatusPending); err != nil {
		return domain.OrderCreated{}, err
	}
	event := domain.OrderCreated{Snapshot: *order}
	s.record(ctx, event)
	return event, nil
}

// Confirm records the Pending→Confirmed transition. The snapshot must
// already be in status Confirmed; previousStatus defaults to Pending.
func (s *Service) Confirm(ctx context.Context, order *domain.Order, previousStatus domain.OrderStatus, confirmedBy string) (domain.OrderConfirmed, error) {
	if err := s.guard(order, domain.StatusConfirmed); err != nil {
		return domain.OrderConfirmed{}, err
	}
	if previousStatus == "" {
		previousStatus = domain.StatusPending
	}
	event := domain.OrderConfirmed{
		OrderNumber:    order.OrderNumber,
		PreviousStatus: previousStatus,
		NewStatus:      domain.StatusConfirmed,
		ConfirmedAt:    changedAt(order),
		ConfirmedBy:    actor(order, confirmedBy),
		Version:        order.Version,
	}
	s.record(ctx, event)
	return event, nil
}

// Ship records the hand-off to a carrier. The snapshot must already be in
// status Shipped; previousStatus defaults to Processing.
func (s *Service) Ship(ctx context.Context, order *domain.Order, previousStatus domain.OrderStatus, shippedBy, trackingNumber, carrier string) (domain.OrderShipped, error) {
	if err := s.guard(order, domain.StatusShipped); err != nil {
		return domain.OrderShipped{}, err
	}
	if previousStatus == "" {
		previousStatus = domain.StatusProcessing
	}
	event := domain.OrderShipped{
		OrderNumber:    order.OrderNumber,
		PreviousStatus: previousStatus,
		NewStatus:      domain.StatusShipped,
		ShippedAt:      changedAt(order),
		ShippedBy:      actor(order, shippedBy),
		TrackingNumber: trackingNumber,
		Carrier:        carrier,
		Version:        order.Version,
	}
	s.record(ctx, event)
	return event, nil
}

// Deliver records the final delivery. The snapshot must already be in status
// Delivered; previousStatus defaults to Shipped.
func (s *Service) Deliver(ctx context.Context, order *domain.Order, previousStatus domain.OrderStatus, deliveredBy, signature, deliveryNotes string) (domain.OrderDelivered, error) {
	if err := s.guard(order, domain.StatusDelivered); err != nil {
		return domain.OrderDelivered{}, err
	}
	if previousStatus == "" {
		previousStatus = domain.StatusShipped
	}
	event := domain.OrderDelivered{
		OrderNumber:    order.OrderNumber,
		PreviousStatus: previousStatus,
		NewStatus:      domain.StatusDelivered,
		DeliveredAt:    changedAt(order),
		DeliveredBy:    actor(order, deliveredBy),
		Signature:      signature,
		DeliveryNotes:  deliveryNotes,
		Version:        order.Version,
	}
	s.record(ctx, event)
	return event, nil
}

// Cancel records a cancellation. The snapshot must already be in status
// Cancelled; previousStatus is required and taken as asserted by the caller.
func (s *Service) Cancel(ctx context.Context, order *domain.Order, previousStatus domain.OrderStatus, cancelledBy, reason string) (domain.OrderCancelled, error) {
	if err := s.guard(order, domain.StatusCancelled); err != nil {
		return domain.OrderCancelled{}, err
	}
	event := domain.OrderCancelled{
		OrderNumber:        order.OrderNumber,
		PreviousStatus:     previousStatus,
		NewStatus:          domain.StatusCancelled,
		CancelledAt:        changedAt(order),
		CancelledBy:        actor(order, cancelledBy),
		CancellationReason: reason,
		Version:            order.Version,
	}
	s.record(ctx, event)
	return event, nil
}

func (s *Service) guard(order *domain.Order, target domain.OrderStatus) error {
	if order == nil {
		return domain.ErrNilOrder
	}
	if order.Status != target {
		return fmt.Errorf("%w: order %s is %s, expected %s",
			domain.ErrInvalidTransition, order.OrderNumber, order.Status, target)
	}
	return nil
}

// record hands the event to the ingestion pipeline. The pipeline absorbs its
// own failures, so the transition result never depends on index availability.
func (s *Service) record(ctx context.Context, e domain.Event) {
	s.pipeline.IngestEvent(ctx, e)
}

func changedAt(order *domain.Order) time.Time {
	if !order.UpdatedAt.IsZero() {
		return order.UpdatedAt
	}
	return time.Now().UTC()
}

func actor(order *domain.Order, override string) string {
	if override != "" {
		return override
	}
	return order.UpdatedBy
}
