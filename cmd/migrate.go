package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/hours-portal/db"
	"github.com/frahmantamala/hours-portal/internal"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "run the embedded db/migrations against the configured database",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration instead of applying pending ones")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	conn, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer conn.Close()

	return migrate(cmd.Context(), conn.DB, cfg.Database.Driver, migrateRollback)
}

func migrate(ctx context.Context, conn *sql.DB, driver string, rollback bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	dialect := "sqlite3"
	if driver == internal.StoragePostgres {
		dialect = "postgres"
	}

	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	if rollback {
		if err := goose.DownContext(ctx, conn, db.MigrationsDir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		slog.Info("rolled back latest migration", "driver", driver)
		return nil
	}

	if err := goose.UpContext(ctx, conn, db.MigrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	slog.Info("migrations applied", "driver", driver)
	return nil
}
