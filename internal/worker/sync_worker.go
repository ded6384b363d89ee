// Package worker applies transaction change events to the spreadsheet mirror.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dompetku/internal/core"
	"dompetku/internal/period"
	"dompetku/internal/ports"
)

// SyncWorker handles change events consumed from AMQP. It always reads the
// current record from the store, so replayed or reordered events converge
// on the stored state.
type SyncWorker struct {
	store  ports.TransactionStore
	mirror ports.SheetMirror
	calc   period.Calculator
}

func NewSyncWorker(store ports.TransactionStore, mirror ports.SheetMirror, calc period.Calculator) *SyncWorker {
	return &SyncWorker{store: store, mirror: mirror, calc: calc}
}

// HandleEvent processes a single change event. A returned error requeues
// the message.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev core.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"id", ev.ID,
		"kind", ev.Kind)

	switch ev.Kind {
	case core.EventCreated, core.EventUpdated:
		return w.syncRecord(ctx, ev.ID)
	case core.EventDeleted:
		if err := w.mirror.Remove(ctx, ev.ID); err != nil {
			return fmt.Errorf("remove sheet row: %w", err)
		}
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown event kind", "kind", ev.Kind, "id", ev.ID)
		return nil
	}
}

func (w *SyncWorker) syncRecord(ctx context.Context, id string) error {
	tx, err := w.store.Get(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted after the event was published.
		if err := w.mirror.Remove(ctx, id); err != nil {
			return fmt.Errorf("remove sheet row: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from store: %w", err)
	}

	p := w.calc.Range(w.calc.StartFor(tx.Timestamp))
	if err := w.mirror.Upsert(ctx, tx, p); err != nil {
		return fmt.Errorf("upsert sheet row: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction",
		"id", tx.ID,
		"period", period.Token(p.Start))
	return nil
}
