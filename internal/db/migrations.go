package db

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Migration is one forward-only schema change.
type Migration struct {
	Version int
	Name    string
	Up      func(tx *sqlx.Tx) error
}

// migrations must be kept in step with SchemaSQL: a fresh install gets
// SchemaSQL and every version marked as applied.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up: func(tx *sqlx.Tx) error {
			_, err := tx.Exec(SchemaSQL)
			return err
		},
	},
	{
		Version: 2,
		Name:    "add_mission_density",
		Up:      migrationV2,
	},
}

func createVersionTable(conn *sqlx.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(conn *sqlx.DB) error {
	if err := createVersionTable(conn); err != nil {
		return err
	}

	var currentVersion int
	if err := conn.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := conn.Beginx()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}
		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV2 adds the yield density fixed at departure. Databases from
// version 1 builds without the column get 1, the old implicit value.
func migrationV2(tx *sqlx.Tx) error {
	var n int
	err := tx.Get(&n, "SELECT COUNT(*) FROM pragma_table_info('missions') WHERE name = 'density'")
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = tx.Exec("ALTER TABLE missions ADD COLUMN density REAL NOT NULL DEFAULT 1")
	return err
}
