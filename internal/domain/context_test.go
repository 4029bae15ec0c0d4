package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSemanticID(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 30, 45, 0, time.UTC)
	ctx := EventContext{
		OrderNumber: "ORD-2025-000001",
		EventType:   EventTypeOrderConfirmed,
		Version:     2,
		Timestamp:   ts,
	}

	assert.Equal(t, "ORD-2025-000001:OrderConfirmed:v2:20250301103045", ctx.SemanticID())
}

func TestSemanticIDHonoursExplicitEventID(t *testing.T) {
	ctx := EventContext{
		OrderNumber: "ORD-2025-000001",
		EventType:   EventTypeOrderCreated,
		Version:     1,
		Timestamp:   time.Now(),
		EventID:     "external-42",
	}
	assert.Equal(t, "external-42", ctx.SemanticID())
}

func TestSemanticIDNormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	local := EventContext{
		OrderNumber: "ORD-2025-000007",
		EventType:   EventTypeOrderShipped,
		Version:     3,
		Timestamp:   time.Date(2025, 3, 1, 11, 30, 45, 0, loc),
	}
	utc := local
	utc.Timestamp = local.Timestamp.UTC()

	assert.Equal(t, utc.SemanticID(), local.SemanticID())
}

func TestContextKeys(t *testing.T) {
	ctx := EventContext{OrderNumber: "ORD-2025-000003", EventType: EventTypeOrderDelivered, Version: 4}

	assert.Equal(t, "order:ORD-2025-000003", ctx.OrderKey())
	assert.Equal(t, "event-type:OrderDelivered", ctx.EventTypeKey())
	assert.Equal(t, "order:ORD-2025-000003:v4", ctx.OrderVersionKey())
}

func TestContextFromEvent(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		event     Event
		eventType string
		version   int
	}{
		{
			name: "created",
			event: OrderCreated{Snapshot: Order{
				OrderNumber: "ORD-2025-000001", Version: 1, CreatedAt: ts,
			}},
			eventType: EventTypeOrderCreated,
			version:   1,
		},
		{
			name:      "confirmed",
			event:     OrderConfirmed{OrderNumber: "ORD-2025-000001", Version: 2, ConfirmedAt: ts},
			eventType: EventTypeOrderConfirmed,
			version:   2,
		},
		{
			name:      "shipped",
			event:     OrderShipped{OrderNumber: "ORD-2025-000001", Version: 3, ShippedAt: ts},
			eventType: EventTypeOrderShipped,
			version:   3,
		},
		{
			name:      "delivered",
			event:     OrderDelivered{OrderNumber: "ORD-2025-000001", Version: 4, DeliveredAt: ts},
			eventType: EventTypeOrderDelivered,
			version:   4,
		},
		{
			name:      "cancelled",
			event:     OrderCancelled{OrderNumber: "ORD-2025-000001", Version: 3, CancelledAt: ts},
			eventType: EventTypeOrderCancelled,
			version:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextFromEvent(tt.event)
			assert.Equal(t, "ORD-2025-000001", ctx.OrderNumber)
			assert.Equal(t, tt.eventType, ctx.EventType)
			assert.Equal(t, tt.version, ctx.Version)
			assert.Equal(t, ts, ctx.Timestamp)
			assert.Equal(t, tt.eventType, tt.event.EventType())
			assert.Equal(t, ts, tt.event.OccurredAt())
		})
	}
}

func TestContextFromOrderSharesKeysWithEvents(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	order := Order{OrderNumber: "ORD-2025-000009", Version: 2, CreatedAt: ts, UpdatedAt: ts}
	event := OrderConfirmed{OrderNumber: "ORD-2025-000009", Version: 2, ConfirmedAt: ts}

	orderCtx := ContextFromOrder(order)
	eventCtx := ContextFromEvent(event)

	// Per-order and per-version keys correlate snapshot and event documents.
	assert.Equal(t, eventCtx.OrderKey(), orderCtx.OrderKey())
	assert.Equal(t, eventCtx.OrderVersionKey(), orderCtx.OrderVersionKey())
	// Per-type keys differ: the snapshot carries its own discriminator.
	assert.NotEqual(t, eventCtx.EventTypeKey(), orderCtx.EventTypeKey())
	assert.Equal(t, "event-type:Order", orderCtx.EventTypeKey())
}

func TestContextFromOrderTimestampFallback(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(2 * time.Hour)

	withUpdate := ContextFromOrder(Order{OrderNumber: "ORD-1", CreatedAt: created, UpdatedAt: updated})
	assert.Equal(t, updated, withUpdate.Timestamp)

	fresh := ContextFromOrder(Order{OrderNumber: "ORD-1", CreatedAt: created})
	assert.Equal(t, created, fresh.Timestamp)
}
