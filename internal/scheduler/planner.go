package scheduler

import (
	"context"
	"time"

	"groenportaal_backend/platform/logger"
)

// Plan intervals. The expiry sweep is idempotent, so running it more often
// than daily is harmless.
const (
	sweepInterval     = time.Hour
	snapshotTerugblik = 48 * time.Hour
)

// Planner periodically enqueues the recurring maintenance tasks.
type Planner struct {
	client *Client
	log    *logger.Logger
}

// NewPlanner creates a new planner
func NewPlanner(client *Client, log *logger.Logger) *Planner {
	return &Planner{client: client, log: log}
}

// Run enqueues the recurring tasks on a fixed interval until the context is
// cancelled.
func (p *Planner) Run(ctx context.Context) {
	if p == nil || p.client == nil {
		return
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		p.enqueue(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Planner) enqueue(ctx context.Context) {
	if err := p.client.EnqueueOfferteVerloop(ctx); err != nil {
		p.log.Warn("enqueue offerte verloop failed", "error", err)
	}
	if err := p.client.EnqueueNacalculatieSnapshot(ctx, time.Now().Add(-snapshotTerugblik)); err != nil {
		p.log.Warn("enqueue nacalculatie snapshot failed", "error", err)
	}
}
