// Package postgres is the PostgreSQL transaction store backed by a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dompetku/internal/core"
)

const selectColumns = `SELECT id::text, occurred_at, type, amount, description, category FROM transactions`

type Store struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// New connects to dsn, verifies the connection and applies migrations.
func New(ctx context.Context, dsn string, loc *time.Location) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	s := &Store{pool: pool, loc: loc}
	if err := migrateConn(pool.Config().ConnConfig); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO transactions (id, occurred_at, type, amount, description, category)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, tx.Timestamp, string(tx.Type), tx.Amount.Units, tx.Description, tx.Category)
	if err != nil {
		return "", unavailable("insert transaction", err)
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (core.Transaction, error) {
	if uuid.Validate(id) != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	tx, err := s.scan(s.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, unavailable("get transaction", err)
	}
	return tx, nil
}

func (s *Store) ListRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		selectColumns+` WHERE occurred_at >= $1 AND occurred_at <= $2 ORDER BY occurred_at DESC, id DESC`,
		start, end)
	if err != nil {
		return nil, unavailable("list transactions", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := s.scan(rows)
		if err != nil {
			return nil, unavailable("scan transaction", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list transactions", err)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, id string, f core.TransactionFields) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if uuid.Validate(id) != nil {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE transactions SET type = $1, amount = $2, description = $3, category = $4 WHERE id = $5`,
		string(f.Type), f.Amount.Units, f.Description, f.Category, id)
	if err != nil {
		return unavailable("update transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return unavailable("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (s *Store) scan(row pgx.Row) (core.Transaction, error) {
	var (
		tx   core.Transaction
		kind string
	)
	if err := row.Scan(&tx.ID, &tx.Timestamp, &kind, &tx.Amount.Units, &tx.Description, &tx.Category); err != nil {
		return core.Transaction{}, err
	}
	tx.Timestamp = tx.Timestamp.In(s.loc)
	tx.Type = core.TransactionType(kind)
	return tx, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrStorageUnavailable, err)
}
