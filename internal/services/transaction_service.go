package services

import (
	"context"
	"fmt"
	"time"

	"dompetku/internal/core"
	"dompetku/internal/log"
	"dompetku/internal/period"
	"dompetku/internal/ports"
)

// TransactionService orchestrates transaction operations across the store
// and the optional change-event publisher.
type TransactionService struct {
	store     ports.TransactionStore
	calc      period.Calculator
	now       func() time.Time
	publisher ports.EventPublisher
}

// NewTransactionService wires the service. A nil clock defaults to
// time.Now; a nil publisher disables change events.
func NewTransactionService(store ports.TransactionStore, calc period.Calculator, now func() time.Time, publisher ports.EventPublisher) *TransactionService {
	if now == nil {
		now = time.Now
	}
	return &TransactionService{
		store:     store,
		calc:      calc,
		now:       now,
		publisher: publisher,
	}
}

// Calculator exposes the period rules the service lists with.
func (s *TransactionService) Calculator() period.Calculator {
	return s.calc
}

// Now returns the service clock reading.
func (s *TransactionService) Now() time.Time {
	return s.now()
}

// List returns the transactions of the cycle starting at periodStart,
// newest first.
func (s *TransactionService) List(ctx context.Context, periodStart time.Time) ([]core.Transaction, error) {
	p := s.calc.Range(periodStart)
	txs, err := s.store.ListRange(ctx, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Summary lists the cycle and aggregates exactly the listed records.
func (s *TransactionService) Summary(ctx context.Context, periodStart time.Time) (core.PeriodSummary, error) {
	txs, err := s.List(ctx, periodStart)
	if err != nil {
		return core.PeriodSummary{}, err
	}
	return core.Summarize(s.calc.Range(periodStart), txs), nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	tx, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// Create validates the fields, stamps the current time and persists the
// record. The timestamp is truncated to whole seconds so it always falls
// inside exactly one cycle.
func (s *TransactionService) Create(ctx context.Context, f core.TransactionFields) (string, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return "", err
	}
	tx := core.Transaction{
		Timestamp:         s.now().In(s.location()).Truncate(time.Second),
		TransactionFields: f,
	}
	id, err := s.store.Insert(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, core.EventCreated, id)
	return id, nil
}

// Update replaces the editable fields; the timestamp never changes.
func (s *TransactionService) Update(ctx context.Context, id string, f core.TransactionFields) error {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return err
	}
	if err := s.store.Update(ctx, id, f); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publish(ctx, core.EventUpdated, id)
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, core.EventDeleted, id)
	return nil
}

// Ping reports whether the store is reachable.
func (s *TransactionService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *TransactionService) location() *time.Location {
	if s.calc.Location == nil {
		return period.WITA()
	}
	return s.calc.Location
}

// publish never fails the caller: the mutation has already been stored.
func (s *TransactionService) publish(ctx context.Context, kind core.EventKind, id string) {
	if s.publisher == nil {
		return
	}
	ev := core.TransactionEvent{Kind: kind, ID: id, Timestamp: s.now()}
	if err := s.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldTransactionID, id, log.FieldEventKind, kind, log.FieldError, err)
	}
}
