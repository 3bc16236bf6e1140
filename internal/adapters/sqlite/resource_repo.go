package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/ports/secondary"
)

// ResourceRepository implements secondary.ResourceRepository with SQLite.
// Every mutation is one conditional UPDATE.
type ResourceRepository struct {
	db *sqlx.DB
}

// NewResourceRepository creates a new SQLite resource repository.
func NewResourceRepository(db *sqlx.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// resourceColumns whitelists the counter column per kind.
var resourceColumns = map[catalog.ResourceKind]string{
	catalog.Wood:  "wood",
	catalog.Stone: "stone",
	catalog.Grain: "grain",
	catalog.Meat:  "meat",
}

type resourceRow struct {
	VillageID         string `db:"village_id"`
	Wood              int    `db:"wood"`
	Stone             int    `db:"stone"`
	Grain             int    `db:"grain"`
	Meat              int    `db:"meat"`
	LastConsumptionAt int64  `db:"last_consumption_at"`
}

// Init creates zeroed counters for a new village.
func (r *ResourceRepository) Init(ctx context.Context, villageID string, lastConsumptionAt time.Time) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO village_resources (village_id, last_consumption_at) VALUES (?, ?)",
		villageID, toMillis(lastConsumptionAt),
	)
	if err != nil {
		return wrap("init resources", err)
	}
	return nil
}

// Get reads the counters.
func (r *ResourceRepository) Get(ctx context.Context, villageID string) (*secondary.ResourceRecord, error) {
	var row resourceRow
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &row,
		"SELECT village_id, wood, stone, grain, meat, last_consumption_at FROM village_resources WHERE village_id = ?",
		villageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resources of village %s: %w", villageID, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get resources", err)
	}
	return &secondary.ResourceRecord{
		VillageID:         row.VillageID,
		Balance:           catalog.Bundle{Wood: row.Wood, Stone: row.Stone, Grain: row.Grain, Meat: row.Meat},
		LastConsumptionAt: fromMillis(row.LastConsumptionAt),
	}, nil
}

// Credit adds amount of one kind.
func (r *ResourceRepository) Credit(ctx context.Context, villageID string, kind catalog.ResourceKind, amount int) error {
	col, ok := resourceColumns[kind]
	if !ok {
		return fmt.Errorf("unknown resource kind %q", kind)
	}
	res, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE village_resources SET "+col+" = "+col+" + ? WHERE village_id = ?", amount, villageID)
	if err != nil {
		return wrap("credit "+col, err)
	}
	ok, err = affected(res)
	if err != nil {
		return wrap("credit "+col, err)
	}
	if !ok {
		return fmt.Errorf("resources of village %s: %w", villageID, secondary.ErrNotFound)
	}
	return nil
}

// Debit subtracts cost if the balance still covers it at write time.
func (r *ResourceRepository) Debit(ctx context.Context, villageID string, cost catalog.Bundle) (bool, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE village_resources
		 SET wood = wood - ?, stone = stone - ?, grain = grain - ?, meat = meat - ?
		 WHERE village_id = ? AND wood >= ? AND stone >= ? AND grain >= ? AND meat >= ?`,
		cost.Wood, cost.Stone, cost.Grain, cost.Meat,
		villageID, cost.Wood, cost.Stone, cost.Grain, cost.Meat,
	)
	if err != nil {
		return false, wrap("debit resources", err)
	}
	return affected(res)
}

// ApplyConsumption deducts food floored at zero, conditioned on the
// consumption boundary not having moved.
func (r *ResourceRepository) ApplyConsumption(ctx context.Context, villageID string, grain, meat int, expectedLast, newLast time.Time) (bool, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE village_resources
		 SET grain = MAX(grain - ?, 0), meat = MAX(meat - ?, 0), last_consumption_at = ?
		 WHERE village_id = ? AND last_consumption_at = ?`,
		grain, meat, toMillis(newLast), villageID, toMillis(expectedLast),
	)
	if err != nil {
		return false, wrap("apply consumption", err)
	}
	return affected(res)
}

// Ensure ResourceRepository implements the interface
var _ secondary.ResourceRepository = (*ResourceRepository)(nil)
