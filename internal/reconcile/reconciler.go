// Package reconcile runs the background sweep that persists unpaid-to-
// overdue status transitions. Display paths never depend on it: the
// effective status is always recomputed at read time, so the sweep only
// keeps stored rows (and anything consuming them directly) in line.
package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiftbill/be-invoicing/internal/client"
	"github.com/swiftbill/be-invoicing/internal/repository"
)

// Store is the slice of the invoice repository the sweep needs.
type Store interface {
	ListOverdueCandidates(ctx context.Context, now time.Time) ([]repository.OverdueCandidate, error)
	MarkOverdue(ctx context.Context, id string) (bool, error)
}

// Reconciler periodically marks past-due unpaid invoices overdue.
type Reconciler struct {
	store    Store
	events   *client.NotificationPublisher
	log      zerolog.Logger
	interval time.Duration
	now      func() time.Time
}

// New creates a reconciler. events may be nil.
func New(store Store, events *client.NotificationPublisher, log zerolog.Logger, interval time.Duration) *Reconciler {
	return &Reconciler{
		store:    store,
		events:   events,
		log:      log.With().Str("component", "reconciler").Logger(),
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps on the configured interval until the context is canceled.
// Ticks never overlap: each sweep completes before the next fires, and a
// duplicate transition attempt is a no-op anyway since MarkOverdue only
// touches still-unpaid rows.
func (r *Reconciler) Run(ctx context.Context) {
	r.log.Info().Dur("interval", r.interval).Msg("Overdue reconciliation started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("Overdue reconciliation stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one reconciliation pass and returns the number of invoices
// transitioned. Store failures are logged and swallowed; the next tick
// retries naturally.
func (r *Reconciler) Sweep(ctx context.Context) int {
	now := r.now()

	candidates, err := r.store.ListOverdueCandidates(ctx, now)
	if err != nil {
		r.log.Warn().Err(err).Msg("sweep: failed to list overdue candidates")
		return 0
	}

	transitioned := 0
	for _, c := range candidates {
		changed, err := r.store.MarkOverdue(ctx, c.ID)
		if err != nil {
			r.log.Warn().Err(err).
				Str("invoice_id", c.ID).
				Msg("sweep: failed to mark invoice overdue")
			continue
		}
		if !changed {
			continue
		}

		transitioned++
		r.events.PublishInvoiceEvent(ctx, "invoice_overdue", c.OwnerID, c.ID, c.InvoiceNumber, nil)
		r.log.Info().
			Str("invoice_id", c.ID).
			Str("invoice_number", c.InvoiceNumber).
			Str("owner_id", c.OwnerID).
			Msg("Invoice marked overdue")
	}

	if transitioned > 0 {
		r.log.Info().Int("transitioned", transitioned).Msg("Overdue sweep completed")
	}
	return transitioned
}
