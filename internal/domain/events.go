package domain

import "time"

// Event is the closed set of immutable order lifecycle facts. Events are
// write-once: once constructed they are appended to the semantic index and
// never mutated or deleted. The set is sealed so that the text renderer and
// the context deriver can match exhaustively over the five variants.
type Event interface {
	// EventType returns the discriminator tag stored in index metadata.
	EventType() string
	// OccurredAt returns the event timestamp.
	OccurredAt() time.Time

	sealedEvent()
}

// Event type discriminators.
const (
	EventTypeOrder          = "Order" // order snapshot documents, not an event
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderConfirmed = "OrderConfirmed"
	EventTypeOrderShipped   = "OrderShipped"
	EventTypeOrderDelivered = "OrderDelivered"
	EventTypeOrderCancelled = "OrderCancelled"
)

// OrderCreated records that an order entered the system. It carries the full
// snapshot so the rendered document holds the complete cost breakdown.
type OrderCreated struct {
	Snapshot Order
}

func (e OrderCreated) EventType() string     { return EventTypeOrderCreated }
func (e OrderCreated) OccurredAt() time.Time { return e.Snapshot.CreatedAt }
func (OrderCreated) sealedEvent()            {}

// OrderConfirmed records a Pending→Confirmed transition.
type OrderConfirmed struct {
	OrderNumber    string
	PreviousStatus OrderStatus
	NewStatus      OrderStatus
	ConfirmedAt    time.Time
	ConfirmedBy    string
	Version        int
}

func (e OrderConfirmed) EventType() string     { return EventTypeOrderConfirmed }
func (e OrderConfirmed) OccurredAt() time.Time { return e.ConfirmedAt }
func (OrderConfirmed) sealedEvent()            {}

// OrderShipped records the hand-off to a carrier.
type OrderShipped struct {
	OrderNumber    string
	PreviousStatus OrderStatus
	NewStatus      OrderStatus
	ShippedAt      time.Time
	ShippedBy      string
	TrackingNumber string
	Carrier        string
	Version        int
}

func (e OrderShipped) EventType() string     { return EventTypeOrderShipped }
func (e OrderShipped) OccurredAt() time.Time { return e.ShippedAt }
func (OrderShipped) sealedEvent()            {}

// OrderDelivered records the final delivery to the customer.
type OrderDelivered struct {
	OrderNumber    string
	PreviousStatus OrderStatus
	NewStatus      OrderStatus
	DeliveredAt    time.Time
	DeliveredBy    string
	Signature      string
	DeliveryNotes  string
	Version        int
}

func (e OrderDelivered) EventType() string     { return EventTypeOrderDelivered }
func (e OrderDelivered) OccurredAt() time.Time { return e.DeliveredAt }
func (OrderDelivered) sealedEvent()            {}

// OrderCancelled records a cancellation from any pre-shipment state.
type OrderCancelled struct {
	OrderNumber        string
	PreviousStatus     OrderStatus
	NewStatus          OrderStatus
	CancelledAt        time.Time
	CancelledBy        string
	CancellationReason string
	Version            int
}

func (e OrderCancelled) EventType() string     { return EventTypeOrderCancelled }
func (e OrderCancelled) OccurredAt() time.Time { return e.CancelledAt }
func (OrderCancelled) sealedEvent()            {}
