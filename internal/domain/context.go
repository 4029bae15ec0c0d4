package domain

import (
	"fmt"
	"time"
)

const semanticTimestampLayout = "20060102150405"

// EventContext carries the identity fields from which lookup keys and the
// semantic document id are derived. It is computed on demand, never stored.
// Contexts derived from an order snapshot and from an event describing that
// order at the same version produce identical keys, so queries can correlate
// both kinds of document.
type EventContext struct {
	OrderNumber string
	EventType   string
	Version     int
	Timestamp   time.Time

	// EventID, when set, replaces the derived semantic id with an
	// externally supplied one.
	EventID string
}

// SemanticID returns the deterministic document identifier,
// "{orderNumber}:{eventType}:v{version}:{timestamp}", unless an explicit
// EventID was supplied.
func (c EventContext) SemanticID() string {
	if c.EventID != "" {
		return c.EventID
	}
	return fmt.Sprintf("%s:%s:v%d:%s",
		c.OrderNumber, c.EventType, c.Version, c.Timestamp.UTC().Format(semanticTimestampLayout))
}

// OrderKey returns the per-order lookup key shared by every document of the
// same order.
func (c EventContext) OrderKey() string { return "order:" + c.OrderNumber }

// EventTypeKey returns the per-event-type lookup key.
func (c EventContext) EventTypeKey() string { return "event-type:" + c.EventType }

// OrderVersionKey returns the per-order-version lookup key.
func (c EventContext) OrderVersionKey() string {
	return fmt.Sprintf("order:%s:v%d", c.OrderNumber, c.Version)
}

// ContextFromEvent derives the context for a lifecycle event. The switch is
// exhaustive over the sealed event set.
func ContextFromEvent(e Event) EventContext {
	switch ev := e.(type) {
	case OrderCreated:
		return EventContext{
			OrderNumber: ev.Snapshot.OrderNumber,
			EventType:   ev.EventType(),
			Version:     ev.Snapshot.Version,
			Timestamp:   ev.OccurredAt(),
		}
	case OrderConfirmed:
		return EventContext{OrderNumber: ev.OrderNumber, EventType: ev.EventType(), Version: ev.Version, Timestamp: ev.ConfirmedAt}
	case OrderShipped:
		return EventContext{OrderNumber: ev.OrderNumber, EventType: ev.EventType(), Version: ev.Version, Timestamp: ev.ShippedAt}
	case OrderDelivered:
		return EventContext{OrderNumber: ev.OrderNumber, EventType: ev.EventType(), Version: ev.Version, Timestamp: ev.DeliveredAt}
	case OrderCancelled:
		return EventContext{OrderNumber: ev.OrderNumber, EventType: ev.EventType(), Version: ev.Version, Timestamp: ev.CancelledAt}
	}
	// Unreachable: Event is sealed.
	return EventContext{}
}

// ContextFromOrder derives the context for an order snapshot document. The
// timestamp follows the snapshot's last change (UpdatedAt, falling back to
// CreatedAt) so re-ingesting an unchanged snapshot is idempotent.
func ContextFromOrder(o Order) EventContext {
	ts := o.UpdatedAt
	if ts.IsZero() {
		ts = o.CreatedAt
	}
	return EventContext{
		OrderNumber: o.OrderNumber,
		EventType:   EventTypeOrder,
		Version:     o.Version,
		Timestamp:   ts,
	}
}
