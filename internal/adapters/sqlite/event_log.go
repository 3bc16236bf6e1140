package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/hamlet/internal/ctxutil"
	"github.com/example/hamlet/internal/ports/secondary"
)

// defaultEventLimit bounds List when the caller passes no limit.
const defaultEventLimit = 50

// EventLog implements secondary.EventLog on the village_events table.
type EventLog struct {
	db *sqlx.DB
}

// NewEventLog creates a new EventLog.
func NewEventLog(db *sqlx.DB) *EventLog {
	return &EventLog{db: db}
}

type eventRow struct {
	ID        int64  `db:"id"`
	VillageID string `db:"village_id"`
	ActorID   string `db:"actor_id"`
	Kind      string `db:"kind"`
	SubjectID string `db:"subject_id"`
	Detail    string `db:"detail"`
	At        int64  `db:"at"`
}

// Record appends an event. An empty ActorID is filled from the context player.
func (l *EventLog) Record(ctx context.Context, e *secondary.EventRecord) error {
	actorID := e.ActorID
	if actorID == "" {
		actorID = ctxutil.PlayerFromContext(ctx)
	}

	res, err := conn(ctx, l.db).ExecContext(ctx,
		"INSERT INTO village_events (village_id, actor_id, kind, subject_id, detail, at) VALUES (?, ?, ?, ?, ?, ?)",
		e.VillageID, actorID, e.Kind, e.SubjectID, e.Detail, toMillis(e.At),
	)
	if err != nil {
		return wrap("record event", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	e.ActorID = actorID
	return nil
}

// List returns the latest events of a village, newest first.
func (l *EventLog) List(ctx context.Context, villageID string, limit int) ([]*secondary.EventRecord, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	var rows []eventRow
	err := sqlx.SelectContext(ctx, conn(ctx, l.db), &rows,
		`SELECT id, village_id, actor_id, kind, subject_id, detail, at FROM village_events
		 WHERE village_id = ? ORDER BY id DESC LIMIT ?`, villageID, limit)
	if err != nil {
		return nil, wrap("list events", err)
	}
	out := make([]*secondary.EventRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, &secondary.EventRecord{
			ID:        r.ID,
			VillageID: r.VillageID,
			ActorID:   r.ActorID,
			Kind:      r.Kind,
			SubjectID: r.SubjectID,
			Detail:    r.Detail,
			At:        fromMillis(r.At),
		})
	}
	return out, nil
}

// Ensure EventLog implements the interface
var _ secondary.EventLog = (*EventLog)(nil)
