// Package messaging defines the optional secondary sink for lifecycle events.
package messaging

import (
	"context"

	"ordertwin/internal/domain"
)

// EventPublisher receives every ingested lifecycle event. Delivery is
// best-effort and observational: publish failures never affect the
// transition or the index write.
type EventPublisher interface {
	PublishEvent(ctx context.Context, e domain.Event) error
}

// Noop is the EventPublisher used when no broker is configured.
type Noop struct{}

func (Noop) PublishEvent(context.Context, domain.Event) error { return nil }
