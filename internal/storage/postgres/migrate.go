package postgres

import (
	"embed"
	"fmt"

	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"dompetku/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies the Postgres schema to the database at dsn.
func RunMigrations(dsn string) error {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	return migrateConn(cfg)
}

func migrateConn(cfg *pgx.ConnConfig) error {
	// Own connection: closing the migrator must not close the store pool.
	db := stdlib.OpenDB(*cfg)
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("create pgx migrate driver: %w", err)
	}
	return storage.ApplyMigrations(migrationsFS, "migrations", "pgx5", driver)
}
