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

// MissionRepository implements secondary.MissionRepository with SQLite.
type MissionRepository struct {
	db *sqlx.DB
}

// NewMissionRepository creates a new SQLite mission repository.
func NewMissionRepository(db *sqlx.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

type missionRow struct {
	ID            string  `db:"id"`
	VillageID     string  `db:"village_id"`
	WorkerType    string  `db:"worker_type"`
	TargetX       int     `db:"target_x"`
	TargetY       int     `db:"target_y"`
	DepartedAt    int64   `db:"departed_at"`
	TravelSeconds int     `db:"travel_seconds"`
	WorkSeconds   int     `db:"work_seconds"`
	Density       float64 `db:"density"`
	RecalledAt    *int64  `db:"recalled_at"`
	CompletedAt   *int64  `db:"completed_at"`
	Loop          bool    `db:"loop"`
}

func (r missionRow) record() *secondary.MissionRecord {
	return &secondary.MissionRecord{
		ID:            r.ID,
		VillageID:     r.VillageID,
		WorkerType:    catalog.WorkerType(r.WorkerType),
		TargetX:       r.TargetX,
		TargetY:       r.TargetY,
		DepartedAt:    fromMillis(r.DepartedAt),
		TravelSeconds: r.TravelSeconds,
		WorkSeconds:   r.WorkSeconds,
		Density:       r.Density,
		RecalledAt:    fromNullMillis(r.RecalledAt),
		CompletedAt:   fromNullMillis(r.CompletedAt),
		Loop:          r.Loop,
	}
}

const missionColumns = `id, village_id, worker_type, target_x, target_y, departed_at,
	travel_seconds, work_seconds, density, recalled_at, completed_at, loop`

// Create persists a new mission.
func (r *MissionRepository) Create(ctx context.Context, m *secondary.MissionRecord) error {
	if m.ID == "" {
		return fmt.Errorf("mission ID must be pre-populated by service layer")
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO missions ("+missionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.VillageID, string(m.WorkerType), m.TargetX, m.TargetY, toMillis(m.DepartedAt),
		m.TravelSeconds, m.WorkSeconds, m.Density, nullMillis(m.RecalledAt), nullMillis(m.CompletedAt), m.Loop,
	)
	if err != nil {
		return wrap("create mission", err)
	}
	return nil
}

// GetByID retrieves a mission by its ID.
func (r *MissionRepository) GetByID(ctx context.Context, id string) (*secondary.MissionRecord, error) {
	var row missionRow
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &row, "SELECT "+missionColumns+" FROM missions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mission %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get mission", err)
	}
	return row.record(), nil
}

// ListPending returns missions not yet completed, oldest departure first.
func (r *MissionRepository) ListPending(ctx context.Context, villageID string) ([]*secondary.MissionRecord, error) {
	var rows []missionRow
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows,
		"SELECT "+missionColumns+" FROM missions WHERE village_id = ? AND completed_at IS NULL ORDER BY departed_at, rowid",
		villageID)
	if err != nil {
		return nil, wrap("list pending missions", err)
	}
	out := make([]*secondary.MissionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

// MarkCompleted sets completed_at if it is still null.
func (r *MissionRepository) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE missions SET completed_at = ? WHERE id = ? AND completed_at IS NULL", toMillis(at), id)
	if err != nil {
		return false, wrap("complete mission", err)
	}
	return affected(res)
}

// MarkRecalled sets recalled_at while the workers are still outbound.
func (r *MissionRepository) MarkRecalled(ctx context.Context, id string, at time.Time) (bool, error) {
	ms := toMillis(at)
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE missions SET recalled_at = ?
		 WHERE id = ? AND recalled_at IS NULL AND completed_at IS NULL
		   AND departed_at + travel_seconds * 1000 > ?`,
		ms, id, ms)
	if err != nil {
		return false, wrap("recall mission", err)
	}
	return affected(res)
}

// ToggleLoop flips the loop flag in one statement, so two toggles always
// cancel out.
func (r *MissionRepository) ToggleLoop(ctx context.Context, id string) (bool, bool, error) {
	var loop bool
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &loop,
		"UPDATE missions SET loop = NOT loop WHERE id = ? AND completed_at IS NULL RETURNING loop", id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, wrap("toggle mission loop", err)
	}
	return loop, true, nil
}

// CountActiveByType counts uncompleted missions per worker type.
func (r *MissionRepository) CountActiveByType(ctx context.Context, villageID string) (map[catalog.WorkerType]int, error) {
	var rows []countRow
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows,
		`SELECT worker_type AS grp, COUNT(*) AS n FROM missions
		 WHERE village_id = ? AND completed_at IS NULL GROUP BY worker_type`, villageID)
	if err != nil {
		return nil, wrap("count active missions", err)
	}
	out := make(map[catalog.WorkerType]int, len(rows))
	for _, row := range rows {
		out[catalog.WorkerType(row.Key)] = row.Count
	}
	return out, nil
}

// Ensure MissionRepository implements the interface
var _ secondary.MissionRepository = (*MissionRepository)(nil)
