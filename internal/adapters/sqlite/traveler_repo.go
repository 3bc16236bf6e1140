package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/hamlet/internal/ports/secondary"
)

// TravelerRepository implements secondary.TravelerRepository with SQLite.
type TravelerRepository struct {
	db *sqlx.DB
}

// NewTravelerRepository creates a new SQLite traveler repository.
func NewTravelerRepository(db *sqlx.DB) *TravelerRepository {
	return &TravelerRepository{db: db}
}

type travelerRow struct {
	VillageID  string `db:"village_id"`
	ArrivesAt  int64  `db:"arrives_at"`
	DepartsAt  int64  `db:"departs_at"`
	WelcomedAt *int64 `db:"welcomed_at"`
	AssignedAt *int64 `db:"assigned_at"`
}

// Get returns the current traveler.
func (r *TravelerRepository) Get(ctx context.Context, villageID string) (*secondary.TravelerRecord, error) {
	var row travelerRow
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &row,
		"SELECT village_id, arrives_at, departs_at, welcomed_at, assigned_at FROM travelers WHERE village_id = ?",
		villageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("traveler of village %s: %w", villageID, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get traveler", err)
	}
	return &secondary.TravelerRecord{
		VillageID:  row.VillageID,
		ArrivesAt:  fromMillis(row.ArrivesAt),
		DepartsAt:  fromMillis(row.DepartsAt),
		WelcomedAt: fromNullMillis(row.WelcomedAt),
		AssignedAt: fromNullMillis(row.AssignedAt),
	}, nil
}

// Replace drops any traveler of the village and stores a new one.
func (r *TravelerRepository) Replace(ctx context.Context, t *secondary.TravelerRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO travelers (village_id, arrives_at, departs_at, welcomed_at, assigned_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(village_id) DO UPDATE SET
		   arrives_at = excluded.arrives_at,
		   departs_at = excluded.departs_at,
		   welcomed_at = excluded.welcomed_at,
		   assigned_at = excluded.assigned_at`,
		t.VillageID, toMillis(t.ArrivesAt), toMillis(t.DepartsAt), nullMillis(t.WelcomedAt), nullMillis(t.AssignedAt),
	)
	if err != nil {
		return wrap("replace traveler", err)
	}
	return nil
}

// Welcome records the welcome and extends the stay of a present traveler.
func (r *TravelerRepository) Welcome(ctx context.Context, villageID string, at, departsAt time.Time) (bool, error) {
	ms := toMillis(at)
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE travelers SET welcomed_at = ?, departs_at = ?
		 WHERE village_id = ? AND welcomed_at IS NULL AND assigned_at IS NULL
		   AND arrives_at <= ? AND departs_at > ?`,
		ms, toMillis(departsAt), villageID, ms, ms)
	if err != nil {
		return false, wrap("welcome traveler", err)
	}
	return affected(res)
}

// Claim marks a welcomed, present, unassigned traveler as assigned.
func (r *TravelerRepository) Claim(ctx context.Context, villageID string, at time.Time) (bool, error) {
	ms := toMillis(at)
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE travelers SET assigned_at = ?
		 WHERE village_id = ? AND welcomed_at IS NOT NULL AND assigned_at IS NULL AND departs_at > ?`,
		ms, villageID, ms)
	if err != nil {
		return false, wrap("claim traveler", err)
	}
	return affected(res)
}

// Ensure TravelerRepository implements the interface
var _ secondary.TravelerRepository = (*TravelerRepository)(nil)
