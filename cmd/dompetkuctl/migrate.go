package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dompetku/internal/storage"
	"dompetku/internal/storage/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations for the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch cfg.DataBackend {
			case "sqlite":
				if err := os.MkdirAll(filepath.Dir(cfg.SQLiteDBPath), 0755); err != nil {
					return fmt.Errorf("create db directory: %w", err)
				}
				err = storage.RunMigrations(cfg.SQLiteDBPath)
			case "postgres":
				err = postgres.RunMigrations(cfg.DatabaseURL)
			default:
				fmt.Fprintf(out, "backend %q has no schema\n", cfg.DataBackend)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s schema up to date\n", cfg.DataBackend)
			return nil
		},
	}
}
