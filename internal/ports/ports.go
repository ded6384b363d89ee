package ports

import (
	"context"
	"time"

	"dompetku/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionStore persists transaction records. Implementations assign
	// IDs on insert and return core.ErrNotFound for missing records and
	// core.ErrStorageUnavailable for backend failures.
	TransactionStore interface {
		Insert(ctx context.Context, tx core.Transaction) (id string, err error)
		Get(ctx context.Context, id string) (core.Transaction, error)
		// ListRange returns records with start <= timestamp <= end ordered by
		// timestamp descending, ties broken by id descending.
		ListRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error)
		Update(ctx context.Context, id string, f core.TransactionFields) error
		Delete(ctx context.Context, id string) error
		Ping(ctx context.Context) error
	}

	EventPublisher interface {
		PublishTransactionEvent(ctx context.Context, ev core.TransactionEvent) error
	}

	// SheetMirror keeps one spreadsheet row per transaction.
	SheetMirror interface {
		Upsert(ctx context.Context, tx core.Transaction, period core.Period) error
		Remove(ctx context.Context, id string) error
	}
)
