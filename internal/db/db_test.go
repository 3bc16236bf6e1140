package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "nested", "hamlet.db")
}

func TestOpen_FreshInstallMarksMigrations(t *testing.T) {
	conn, err := Open(openTemp(t))
	require.NoError(t, err)
	defer conn.Close()

	var version int
	require.NoError(t, conn.Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, migrations[len(migrations)-1].Version, version)
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := openTemp(t)
	conn, err := Open(path)
	require.NoError(t, err)
	conn.Close()

	conn, err = Open(path)
	require.NoError(t, err)
	defer conn.Close()

	var n int
	require.NoError(t, conn.Get(&n, "SELECT COUNT(*) FROM schema_version"))
	assert.Equal(t, len(migrations), n)
}

func TestRunMigrations_UpgradesVersionOne(t *testing.T) {
	conn, err := Open(openTemp(t))
	require.NoError(t, err)
	defer conn.Close()

	// Rewind to a version 1 database whose missions table predates density.
	_, err = conn.Exec(`
		DELETE FROM schema_version WHERE version > 1;
		DROP TABLE missions;
		CREATE TABLE missions (
			id TEXT PRIMARY KEY, village_id TEXT NOT NULL, worker_type TEXT NOT NULL,
			target_x INTEGER NOT NULL, target_y INTEGER NOT NULL, departed_at INTEGER NOT NULL,
			travel_seconds INTEGER NOT NULL, work_seconds INTEGER NOT NULL,
			recalled_at INTEGER, completed_at INTEGER, loop INTEGER NOT NULL DEFAULT 0
		);
	`)
	require.NoError(t, err)

	require.NoError(t, RunMigrations(conn))

	var n int
	require.NoError(t, conn.Get(&n, "SELECT COUNT(*) FROM pragma_table_info('missions') WHERE name = 'density'"))
	assert.Equal(t, 1, n)
}

func TestActiveBuildingIndex(t *testing.T) {
	conn, err := Open(openTemp(t))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(`INSERT INTO villages (id, owner_id, name, x, y, capacity, created_at) VALUES ('v1', 'p1', 'V', 3, 3, 5, 0)`)
	require.NoError(t, err)

	insert := `INSERT INTO buildings (id, village_id, building_type, worker_type, started_at, build_seconds, assigned_workers, completed_at)
		VALUES (?, 'v1', 'wooden_hut', 'builder', 0, 30, 1, ?)`
	_, err = conn.Exec(insert, "b1", nil)
	require.NoError(t, err)
	_, err = conn.Exec(insert, "b2", nil)
	assert.Error(t, err, "second active hut must violate the index")
	_, err = conn.Exec(insert, "b3", int64(1000))
	assert.NoError(t, err, "completed huts are not constrained")
}

func TestSeedFixtures(t *testing.T) {
	conn, err := Open(openTemp(t))
	require.NoError(t, err)
	defer conn.Close()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	id, err := SeedFixtures(conn, "alice", 5, now)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var wood int
	require.NoError(t, conn.Get(&wood, "SELECT wood FROM village_resources WHERE village_id = ?", id))
	assert.Equal(t, SeedResources.Wood, wood)

	var lumberjacks int
	require.NoError(t, conn.Get(&lumberjacks, "SELECT count FROM village_inhabitants WHERE village_id = ? AND worker_type = 'lumberjack'", id))
	assert.Equal(t, 2, lumberjacks)

	var capacity int
	require.NoError(t, conn.Get(&capacity, "SELECT capacity FROM villages WHERE id = ?", id))
	assert.Equal(t, totalSeedInhabitants(), capacity)

	again, err := SeedFixtures(conn, "alice", 5, now)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}
