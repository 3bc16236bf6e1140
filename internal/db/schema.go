package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SchemaSQL is the complete schema for fresh installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests load it
// via GetSchemaSQL(), so a repository referencing a missing column fails
// with "no such column" instead of drifting.
//
// Timestamps are unix milliseconds. Resource counters are guarded by CHECK
// constraints so a bad conditional update fails loudly.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS villages (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	capacity INTEGER NOT NULL CHECK(capacity >= 0),
	created_at INTEGER NOT NULL,
	UNIQUE (x, y)
);

CREATE TABLE IF NOT EXISTS village_resources (
	village_id TEXT PRIMARY KEY,
	wood INTEGER NOT NULL DEFAULT 0 CHECK(wood >= 0),
	stone INTEGER NOT NULL DEFAULT 0 CHECK(stone >= 0),
	grain INTEGER NOT NULL DEFAULT 0 CHECK(grain >= 0),
	meat INTEGER NOT NULL DEFAULT 0 CHECK(meat >= 0),
	last_consumption_at INTEGER NOT NULL,
	FOREIGN KEY (village_id) REFERENCES villages(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS village_inhabitants (
	village_id TEXT NOT NULL,
	worker_type TEXT NOT NULL,
	count INTEGER NOT NULL DEFAULT 0 CHECK(count >= 0),
	PRIMARY KEY (village_id, worker_type),
	FOREIGN KEY (village_id) REFERENCES villages(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS missions (
	id TEXT PRIMARY KEY,
	village_id TEXT NOT NULL,
	worker_type TEXT NOT NULL,
	target_x INTEGER NOT NULL,
	target_y INTEGER NOT NULL,
	departed_at INTEGER NOT NULL,
	travel_seconds INTEGER NOT NULL CHECK(travel_seconds >= 0),
	work_seconds INTEGER NOT NULL CHECK(work_seconds >= 0),
	density REAL NOT NULL DEFAULT 1,
	recalled_at INTEGER,
	completed_at INTEGER,
	loop INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (village_id) REFERENCES villages(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_missions_pending ON missions(village_id, departed_at) WHERE completed_at IS NULL;

CREATE TABLE IF NOT EXISTS buildings (
	id TEXT PRIMARY KEY,
	village_id TEXT NOT NULL,
	building_type TEXT NOT NULL,
	worker_type TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	build_seconds INTEGER NOT NULL CHECK(build_seconds > 0),
	assigned_workers INTEGER NOT NULL CHECK(assigned_workers > 0),
	completed_at INTEGER,
	FOREIGN KEY (village_id) REFERENCES villages(id) ON DELETE CASCADE
);

-- One active construction per type and village.
CREATE UNIQUE INDEX IF NOT EXISTS idx_buildings_active_type ON buildings(village_id, building_type) WHERE completed_at IS NULL;

CREATE TABLE IF NOT EXISTS travelers (
	village_id TEXT PRIMARY KEY,
	arrives_at INTEGER NOT NULL,
	departs_at INTEGER NOT NULL,
	welcomed_at INTEGER,
	assigned_at INTEGER,
	FOREIGN KEY (village_id) REFERENCES villages(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS village_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	village_id TEXT NOT NULL,
	actor_id TEXT NOT NULL DEFAULT '',
	kind TEXT NOT NULL,
	subject_id TEXT NOT NULL DEFAULT '',
	detail TEXT NOT NULL DEFAULT '',
	at INTEGER NOT NULL,
	FOREIGN KEY (village_id) REFERENCES villages(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_village_events_village ON village_events(village_id, id);
`

// InitSchema creates the schema on a fresh database and runs pending
// migrations on an existing one.
func InitSchema(conn *sqlx.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Fresh install - create the schema directly and mark every
		// migration as applied.
		if _, err := conn.Exec(SchemaSQL); err != nil {
			return err
		}
		if err := createVersionTable(conn); err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
		}
		return nil
	}

	return RunMigrations(conn)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
