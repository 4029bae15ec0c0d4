// Package demo seeds the index with sample orders walked through their
// lifecycle, so the prompt API has something to answer questions about.
package demo

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"ordertwin/internal/domain"
	"ordertwin/internal/ingest"
	"ordertwin/internal/lifecycle"
)

// Processor drives sample orders through lifecycle flows.
type Processor struct {
	seq       *domain.Sequence
	lifecycle *lifecycle.Service
	pipeline  *ingest.Pipeline
	log       *slog.Logger
}

// New creates a demo processor.
func New(seq *domain.Sequence, svc *lifecycle.Service, pipeline *ingest.Pipeline, log *slog.Logger) *Processor {
	return &Processor{seq: seq, lifecycle: svc, pipeline: pipeline, log: log}
}

// Run creates n sample orders and processes each through one of a handful of
// flows: confirm+ship, the full happy path, cancellation after confirmation,
// shipping out of Processing, and so on. After each flow the final order
// snapshot is ingested as a document of its own. Transition failures are
// logged and the run continues with the next order.
func (p *Processor) Run(ctx context.Context, n int, seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	now := time.Now().UTC()

	for i := 0; i < n; i++ {
		order := domain.NewSampleOrder(p.seq, rng, now)
		final, err := p.process(ctx, order, i%5)
		if err != nil {
			p.log.Error("demo order failed", "orderNumber", order.OrderNumber, "error", err)
			continue
		}
		p.pipeline.IngestOrder(ctx, final)
		p.log.Info("demo order processed", "orderNumber", final.OrderNumber, "status", final.Status)
	}
}

func (p *Processor) process(ctx context.Context, order domain.Order, flow int) (domain.Order, error) {
	if _, err := p.lifecycle.Create(ctx, &order); err != nil {
		return order, err
	}
	now := time.Now().UTC()

	switch flow {
	case 0:
		order = order.WithStatus(domain.StatusConfirmed, "admin001", now)
		if _, err := p.lifecycle.Confirm(ctx, &order, domain.StatusPending, "admin001"); err != nil {
			return order, err
		}
		order = order.WithStatus(domain.StatusShipped, "warehouse001", now)
		if _, err := p.lifecycle.Ship(ctx, &order, domain.StatusConfirmed, "warehouse001", "TRACK-001", "DHL"); err != nil {
			return order, err
		}
	case 1:
		order = order.WithStatus(domain.StatusConfirmed, "admin002", now)
		if _, err := p.lifecycle.Confirm(ctx, &order, domain.StatusPending, "admin002"); err != nil {
			return order, err
		}
		order = order.WithStatus(domain.StatusShipped, "warehouse002", now)
		if _, err := p.lifecycle.Ship(ctx, &order, domain.StatusConfirmed, "warehouse002", "TRACK-002", "UPS"); err != nil {
			return order, err
		}
		order = order.WithStatus(domain.StatusDelivered, "courier001", now)
		if _, err := p.lifecycle.Deliver(ctx, &order, domain.StatusShipped, "courier001", "SIGN-001", "Delivered to the ground floor"); err != nil {
			return order, err
		}
	case 2:
		order = order.WithStatus(domain.StatusConfirmed, "admin003", now)
		if _, err := p.lifecycle.Confirm(ctx, &order, domain.StatusPending, "admin003"); err != nil {
			return order, err
		}
		order = order.WithStatus(domain.StatusCancelled, "admin003", now)
		if _, err := p.lifecycle.Cancel(ctx, &order, domain.StatusConfirmed, "admin003", "Customer requested cancellation"); err != nil {
			return order, err
		}
	case 3:
		order = order.WithStatus(domain.StatusProcessing, "warehouse003", now)
		order = order.WithStatus(domain.StatusShipped, "warehouse003", now)
		if _, err := p.lifecycle.Ship(ctx, &order, domain.StatusProcessing, "warehouse003", "TRACK-003", "FedEx"); err != nil {
			return order, err
		}
		order = order.WithStatus(domain.StatusDelivered, "courier002", now)
		if _, err := p.lifecycle.Deliver(ctx, &order, domain.StatusShipped, "courier002", "SIGN-002", "Delivered to the office"); err != nil {
			return order, err
		}
	case 4:
		order = order.WithStatus(domain.StatusConfirmed, "admin004", now)
		if _, err := p.lifecycle.Confirm(ctx, &order, domain.StatusPending, "admin004"); err != nil {
			return order, err
		}
		order = order.WithStatus(domain.StatusShipped, "warehouse004", now)
		if _, err := p.lifecycle.Ship(ctx, &order, domain.StatusConfirmed, "warehouse004", "TRACK-004", "GLS"); err != nil {
			return order, err
		}
		order = order.WithStatus(domain.StatusDelivered, "courier003", now)
		if _, err := p.lifecycle.Deliver(ctx, &order, domain.StatusShipped, "courier003", "SIGN-003", "Delivered to the recipient"); err != nil {
			return order, err
		}
	}
	return order, nil
}
