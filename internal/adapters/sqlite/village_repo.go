package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/hamlet/internal/ports/secondary"
)

// VillageRepository implements secondary.VillageRepository with SQLite.
type VillageRepository struct {
	db *sqlx.DB
}

// NewVillageRepository creates a new SQLite village repository.
func NewVillageRepository(db *sqlx.DB) *VillageRepository {
	return &VillageRepository{db: db}
}

type villageRow struct {
	ID        string `db:"id"`
	OwnerID   string `db:"owner_id"`
	Name      string `db:"name"`
	X         int    `db:"x"`
	Y         int    `db:"y"`
	Capacity  int    `db:"capacity"`
	CreatedAt int64  `db:"created_at"`
}

func (r villageRow) record() *secondary.VillageRecord {
	return &secondary.VillageRecord{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Name:      r.Name,
		X:         r.X,
		Y:         r.Y,
		Capacity:  r.Capacity,
		CreatedAt: fromMillis(r.CreatedAt),
	}
}

const villageColumns = "id, owner_id, name, x, y, capacity, created_at"

// Create persists a new village.
// The record must have ID pre-populated by the service layer.
func (r *VillageRepository) Create(ctx context.Context, v *secondary.VillageRecord) error {
	if v.ID == "" {
		return fmt.Errorf("village ID must be pre-populated by service layer")
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO villages ("+villageColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		v.ID, v.OwnerID, v.Name, v.X, v.Y, v.Capacity, toMillis(v.CreatedAt),
	)
	if err != nil {
		return wrap("create village", err)
	}
	return nil
}

// GetByID retrieves a village by its ID.
func (r *VillageRepository) GetByID(ctx context.Context, id string) (*secondary.VillageRecord, error) {
	return r.getOne(ctx, "id", id)
}

// GetByOwner retrieves the village of a player.
func (r *VillageRepository) GetByOwner(ctx context.Context, ownerID string) (*secondary.VillageRecord, error) {
	return r.getOne(ctx, "owner_id", ownerID)
}

func (r *VillageRepository) getOne(ctx context.Context, column, value string) (*secondary.VillageRecord, error) {
	var row villageRow
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &row,
		"SELECT "+villageColumns+" FROM villages WHERE "+column+" = ?", value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("village %s=%s: %w", column, value, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get village", err)
	}
	return row.record(), nil
}

// List retrieves every village ordered by creation.
func (r *VillageRepository) List(ctx context.Context) ([]*secondary.VillageRecord, error) {
	var rows []villageRow
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows,
		"SELECT "+villageColumns+" FROM villages ORDER BY created_at, rowid")
	if err != nil {
		return nil, wrap("list villages", err)
	}
	out := make([]*secondary.VillageRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

// Rename updates the village name.
func (r *VillageRepository) Rename(ctx context.Context, id, name string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE villages SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return wrap("rename village", err)
	}
	return r.requireRow(res, id)
}

// AddCapacity raises the inhabitant capacity.
func (r *VillageRepository) AddCapacity(ctx context.Context, id string, bonus int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE villages SET capacity = capacity + ? WHERE id = ?", bonus, id)
	if err != nil {
		return wrap("add capacity", err)
	}
	return r.requireRow(res, id)
}

func (r *VillageRepository) requireRow(res sql.Result, id string) error {
	ok, err := affected(res)
	if err != nil {
		return wrap("update village", err)
	}
	if !ok {
		return fmt.Errorf("village %s: %w", id, secondary.ErrNotFound)
	}
	return nil
}

// Ensure VillageRepository implements the interface
var _ secondary.VillageRepository = (*VillageRepository)(nil)
