// Package memory is an in-process transaction store used by tests and the
// memory backend. Data is lost on restart.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"dompetku/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items map[string]core.Transaction
}

func New() *Store {
	return &Store{items: make(map[string]core.Transaction)}
}

// Insert stores the record under a fresh ID.
func (s *Store) Insert(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = uuid.NewString()
	s.items[tx.ID] = tx
	return tx.ID, nil
}

func (s *Store) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.items[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return tx, nil
}

func (s *Store) ListRange(_ context.Context, start, end time.Time) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := core.Period{Start: start, End: end}
	out := make([]core.Transaction, 0)
	for _, tx := range s.items {
		if p.Contains(tx.Timestamp) {
			tx.Timestamp = tx.Timestamp.In(start.Location())
			out = append(out, tx)
		}
	}
	slices.SortFunc(out, func(a, b core.Transaction) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (s *Store) Update(_ context.Context, id string, f core.TransactionFields) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.items[id]
	if !ok {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	tx.TransactionFields = f
	s.items[id] = tx
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
