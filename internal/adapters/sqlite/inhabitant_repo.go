package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/ports/secondary"
)

// InhabitantRepository implements secondary.InhabitantRepository with SQLite.
type InhabitantRepository struct {
	db *sqlx.DB
}

// NewInhabitantRepository creates a new SQLite inhabitant repository.
func NewInhabitantRepository(db *sqlx.DB) *InhabitantRepository {
	return &InhabitantRepository{db: db}
}

type countRow struct {
	Key   string `db:"grp"`
	Count int    `db:"n"`
}

// Counts returns the number of inhabitants per worker type.
func (r *InhabitantRepository) Counts(ctx context.Context, villageID string) (map[catalog.WorkerType]int, error) {
	var rows []countRow
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows,
		"SELECT worker_type AS grp, count AS n FROM village_inhabitants WHERE village_id = ?", villageID)
	if err != nil {
		return nil, wrap("count inhabitants", err)
	}
	out := make(map[catalog.WorkerType]int, len(rows))
	for _, row := range rows {
		out[catalog.WorkerType(row.Key)] = row.Count
	}
	return out, nil
}

// Add increments the count of one worker type.
func (r *InhabitantRepository) Add(ctx context.Context, villageID string, workerType catalog.WorkerType, n int) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO village_inhabitants (village_id, worker_type, count) VALUES (?, ?, ?)
		 ON CONFLICT(village_id, worker_type) DO UPDATE SET count = count + excluded.count`,
		villageID, string(workerType), n,
	)
	if err != nil {
		return wrap("add inhabitant", err)
	}
	return nil
}

// Ensure InhabitantRepository implements the interface
var _ secondary.InhabitantRepository = (*InhabitantRepository)(nil)
