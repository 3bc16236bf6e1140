package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/ports/secondary"
)

// BuildingRepository implements secondary.BuildingRepository with SQLite.
// The partial unique index idx_buildings_active_type turns a second active
// construction of the same type into secondary.ErrConflict.
type BuildingRepository struct {
	db *sqlx.DB
}

// NewBuildingRepository creates a new SQLite building repository.
func NewBuildingRepository(db *sqlx.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

type buildingRow struct {
	ID              string `db:"id"`
	VillageID       string `db:"village_id"`
	BuildingType    string `db:"building_type"`
	WorkerType      string `db:"worker_type"`
	StartedAt       int64  `db:"started_at"`
	BuildSeconds    int    `db:"build_seconds"`
	AssignedWorkers int    `db:"assigned_workers"`
	CompletedAt     *int64 `db:"completed_at"`
}

func (r buildingRow) record() *secondary.BuildingRecord {
	return &secondary.BuildingRecord{
		ID:              r.ID,
		VillageID:       r.VillageID,
		BuildingType:    catalog.BuildingType(r.BuildingType),
		WorkerType:      catalog.WorkerType(r.WorkerType),
		StartedAt:       fromMillis(r.StartedAt),
		BuildSeconds:    r.BuildSeconds,
		AssignedWorkers: r.AssignedWorkers,
		CompletedAt:     fromNullMillis(r.CompletedAt),
	}
}

const buildingColumns = "id, village_id, building_type, worker_type, started_at, build_seconds, assigned_workers, completed_at"

// Create persists a new construction.
func (r *BuildingRepository) Create(ctx context.Context, b *secondary.BuildingRecord) error {
	if b.ID == "" {
		return fmt.Errorf("building ID must be pre-populated by service layer")
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO buildings ("+buildingColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		b.ID, b.VillageID, string(b.BuildingType), string(b.WorkerType), toMillis(b.StartedAt),
		b.BuildSeconds, b.AssignedWorkers, nullMillis(b.CompletedAt),
	)
	if err != nil {
		return wrap("create building", err)
	}
	return nil
}

// ListPending returns constructions not yet completed, oldest first.
func (r *BuildingRepository) ListPending(ctx context.Context, villageID string) ([]*secondary.BuildingRecord, error) {
	return r.list(ctx, "village_id = ? AND completed_at IS NULL ORDER BY started_at, rowid", villageID)
}

// ListByVillage returns every construction of a village, newest first.
func (r *BuildingRepository) ListByVillage(ctx context.Context, villageID string) ([]*secondary.BuildingRecord, error) {
	return r.list(ctx, "village_id = ? ORDER BY started_at DESC, rowid DESC", villageID)
}

func (r *BuildingRepository) list(ctx context.Context, where string, args ...any) ([]*secondary.BuildingRecord, error) {
	var rows []buildingRow
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows, "SELECT "+buildingColumns+" FROM buildings WHERE "+where, args...); err != nil {
		return nil, wrap("list buildings", err)
	}
	out := make([]*secondary.BuildingRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

// MarkCompleted sets completed_at if it is still null.
func (r *BuildingRepository) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE buildings SET completed_at = ? WHERE id = ? AND completed_at IS NULL", toMillis(at), id)
	if err != nil {
		return false, wrap("complete building", err)
	}
	return affected(res)
}

// CountActiveByType counts uncompleted constructions per building type.
func (r *BuildingRepository) CountActiveByType(ctx context.Context, villageID string) (map[catalog.BuildingType]int, error) {
	var rows []countRow
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows,
		`SELECT building_type AS grp, COUNT(*) AS n FROM buildings
		 WHERE village_id = ? AND completed_at IS NULL GROUP BY building_type`, villageID)
	if err != nil {
		return nil, wrap("count active buildings", err)
	}
	out := make(map[catalog.BuildingType]int, len(rows))
	for _, row := range rows {
		out[catalog.BuildingType(row.Key)] = row.Count
	}
	return out, nil
}

// BusyWorkers sums assigned workers of uncompleted constructions per worker type.
func (r *BuildingRepository) BusyWorkers(ctx context.Context, villageID string) (map[catalog.WorkerType]int, error) {
	var rows []countRow
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows,
		`SELECT worker_type AS grp, SUM(assigned_workers) AS n FROM buildings
		 WHERE village_id = ? AND completed_at IS NULL GROUP BY worker_type`, villageID)
	if err != nil {
		return nil, wrap("sum busy builders", err)
	}
	out := make(map[catalog.WorkerType]int, len(rows))
	for _, row := range rows {
		out[catalog.WorkerType(row.Key)] = row.Count
	}
	return out, nil
}

// Ensure BuildingRepository implements the interface
var _ secondary.BuildingRepository = (*BuildingRepository)(nil)
