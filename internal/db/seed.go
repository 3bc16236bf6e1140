package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/world"
)

// SeedInhabitants is the demo workforce.
var SeedInhabitants = map[catalog.WorkerType]int{
	catalog.Lumberjack: 2,
	catalog.Miner:      1,
	catalog.Hunter:     1,
	catalog.Gatherer:   1,
	catalog.Builder:    2,
}

// SeedResources is the demo starting balance.
var SeedResources = catalog.Bundle{Wood: 120, Stone: 80, Grain: 40, Meat: 40}

// SeedFixtures gives ownerID a demo village with a workforce and starting
// resources. An existing village of the owner is topped up in place.
// Returns the village ID.
func SeedFixtures(conn *sqlx.DB, ownerID string, capacity int, now time.Time) (string, error) {
	tx, err := conn.Beginx()
	if err != nil {
		return "", fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	var villageID string
	err = tx.Get(&villageID, "SELECT id FROM villages WHERE owner_id = ?", ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		villageID, err = seedVillage(tx, ownerID, capacity, now)
	}
	if err != nil {
		return "", fmt.Errorf("seed village: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO village_resources (village_id, wood, stone, grain, meat, last_consumption_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(village_id) DO UPDATE SET wood = excluded.wood, stone = excluded.stone,
		   grain = excluded.grain, meat = excluded.meat, last_consumption_at = excluded.last_consumption_at`,
		villageID, SeedResources.Wood, SeedResources.Stone, SeedResources.Grain, SeedResources.Meat, now.UnixMilli(),
	); err != nil {
		return "", fmt.Errorf("seed resources: %w", err)
	}

	for t, n := range SeedInhabitants {
		if _, err := tx.Exec(
			`INSERT INTO village_inhabitants (village_id, worker_type, count) VALUES (?, ?, ?)
			 ON CONFLICT(village_id, worker_type) DO UPDATE SET count = MAX(count, excluded.count)`,
			villageID, string(t), n,
		); err != nil {
			return "", fmt.Errorf("seed inhabitants: %w", err)
		}
	}

	if capacity < totalSeedInhabitants() {
		capacity = totalSeedInhabitants()
	}
	if _, err := tx.Exec("UPDATE villages SET capacity = MAX(capacity, ?) WHERE id = ?", capacity, villageID); err != nil {
		return "", fmt.Errorf("seed capacity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("seed: %w", err)
	}
	return villageID, nil
}

func seedVillage(tx *sqlx.Tx, ownerID string, capacity int, now time.Time) (string, error) {
	var coords []struct {
		X int `db:"x"`
		Y int `db:"y"`
	}
	if err := tx.Select(&coords, "SELECT x, y FROM villages"); err != nil {
		return "", err
	}
	taken := make(map[world.Point]bool, len(coords))
	for _, c := range coords {
		taken[world.Point{X: c.X, Y: c.Y}] = true
	}
	site, ok := world.FindVillageSite(world.Default(), taken)
	if !ok {
		return "", errors.New("no free village site")
	}

	id := uuid.NewString()
	_, err := tx.Exec(
		"INSERT INTO villages (id, owner_id, name, x, y, capacity, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, ownerID, "Demo Hamlet", site.X, site.Y, capacity, now.UnixMilli(),
	)
	return id, err
}

func totalSeedInhabitants() int {
	n := 0
	for _, c := range SeedInhabitants {
		n += c
	}
	return n
}
