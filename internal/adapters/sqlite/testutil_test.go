// Package sqlite_test contains integration tests for SQLite repositories.
//
// Every test database is loaded from db.GetSchemaSQL(), so repositories are
// always exercised against the authoritative schema. Do not hardcode
// CREATE TABLE statements here; use setupTestDB and the seed helpers.
package sqlite_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/hamlet/internal/db"
)

var t0 = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

// setupTestDB creates a file-backed database with the authoritative schema.
// A file is used instead of :memory: so concurrent tests share one database
// across pooled connections.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	testDB, err := sqlx.Open("sqlite3", db.DSN(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedVillage inserts a village with zeroed resources and returns its ID.
func seedVillage(t *testing.T, conn *sqlx.DB, id string, x, y int) string {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO villages (id, owner_id, name, x, y, capacity, created_at) VALUES (?, ?, ?, ?, ?, 5, ?)",
		id, "owner-"+id, "Village "+id, x, y, t0.UnixMilli())
	if err != nil {
		t.Fatalf("failed to seed village: %v", err)
	}
	_, err = conn.Exec("INSERT INTO village_resources (village_id, last_consumption_at) VALUES (?, ?)", id, t0.UnixMilli())
	if err != nil {
		t.Fatalf("failed to seed resources: %v", err)
	}
	return id
}

// seedBalance overwrites the counters of a village.
func seedBalance(t *testing.T, conn *sqlx.DB, id string, wood, stone, grain, meat int) {
	t.Helper()
	_, err := conn.Exec("UPDATE village_resources SET wood = ?, stone = ?, grain = ?, meat = ? WHERE village_id = ?",
		wood, stone, grain, meat, id)
	if err != nil {
		t.Fatalf("failed to seed balance: %v", err)
	}
}
