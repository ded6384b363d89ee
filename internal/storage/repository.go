package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"dompetku/internal/core"

	_ "modernc.org/sqlite"
)

const selectColumns = `SELECT id, occurred_at, type, amount, description, category FROM transactions`

// SQLiteRepository stores transactions in a single table. Timestamps are
// kept as unix nanoseconds so range scans use the index.
type SQLiteRepository struct {
	db  *sql.DB
	loc *time.Location
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies migrations. Returned timestamps are converted to loc.
func NewSQLiteRepository(dbPath string, loc *time.Location) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if loc == nil {
		loc = time.UTC
	}
	return &SQLiteRepository{db: db, loc: loc}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Insert implements ports.TransactionStore.
func (r *SQLiteRepository) Insert(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, occurred_at, type, amount, description, category) VALUES (?, ?, ?, ?, ?, ?)`,
		id, tx.Timestamp.UnixNano(), string(tx.Type), tx.Amount.Units, tx.Description, tx.Category)
	if err != nil {
		return "", unavailable("insert transaction", err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"type", tx.Type,
		"amount", tx.Amount.Units)

	return id, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	tx, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, unavailable("get transaction", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) ListRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		selectColumns+` WHERE occurred_at BETWEEN ? AND ? ORDER BY occurred_at DESC, id DESC`,
		start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, unavailable("list transactions", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := r.scan(rows)
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

func (r *SQLiteRepository) Update(ctx context.Context, id string, f core.TransactionFields) error {
	if err := f.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET type = ?, amount = ?, description = ?, category = ? WHERE id = ?`,
		string(f.Type), f.Amount.Units, f.Description, f.Category, id)
	if err != nil {
		return unavailable("update transaction", err)
	}
	return affected(res, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return unavailable("delete transaction", err)
	}
	return affected(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) scan(s scanner) (core.Transaction, error) {
	var (
		tx   core.Transaction
		ns   int64
		kind string
	)
	if err := s.Scan(&tx.ID, &ns, &kind, &tx.Amount.Units, &tx.Description, &tx.Category); err != nil {
		return core.Transaction{}, err
	}
	tx.Timestamp = time.Unix(0, ns).In(r.loc)
	tx.Type = core.TransactionType(kind)
	return tx, nil
}

func affected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrStorageUnavailable, err)
}
