package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4/source/iofs"

	"dompetku/internal/core"
)

func TestEmbeddedMigrationsParse(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("iofs.New: %v", err)
	}
	defer src.Close()

	first, err := src.First()
	if err != nil || first != 1 {
		t.Fatalf("First = %d, %v", first, err)
	}
	up, name, err := src.ReadUp(first)
	if err != nil {
		t.Fatalf("ReadUp: %v", err)
	}
	defer up.Close()
	if name != "create_transactions" {
		t.Fatalf("migration name = %q", name)
	}
	down, _, err := src.ReadDown(first)
	if err != nil {
		t.Fatalf("every migration needs a down file: %v", err)
	}
	down.Close()
}

func TestRunMigrationsRejectsBadURL(t *testing.T) {
	if err := RunMigrations("postgres://%zz"); err == nil {
		t.Fatal("expected a parse error")
	}
}

// TestStoreIntegration runs against a real database when
// DOMPETKU_TEST_DATABASE_URL is set.
func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("DOMPETKU_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("DOMPETKU_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	loc := time.FixedZone("WITA", 8*3600)
	s, err := New(ctx, dsn, loc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	ts := time.Date(2026, 2, 1, 9, 0, 0, 0, loc)
	id, err := s.Insert(ctx, core.Transaction{Timestamp: ts, TransactionFields: core.TransactionFields{
		Type: core.Expense, Amount: core.Money{Units: 12000}, Category: "Kopi",
	}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() { _ = s.Delete(ctx, id) })

	got, err := s.ListRange(ctx, ts, ts)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, tx := range got {
		if tx.ID == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("inserted record missing from range")
	}

	if err := s.Delete(ctx, "not-a-uuid"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
