package secondary

import (
	"context"
	"time"
)

// Event kinds written to the village journal.
const (
	EventMissionCompleted  = "mission_completed"
	EventMissionRestarted  = "mission_restarted"
	EventLoopDropped       = "loop_dropped"
	EventBuildingCompleted = "building_completed"
	EventConsumption       = "consumption"
	EventTravelerJoined    = "traveler_joined"
)

// EventLog is the village journal: an append-only record of what the
// lazy sweeps did, so players can see changes they were not looking at.
type EventLog interface {
	// Record appends an event. Actor is taken from context.
	Record(ctx context.Context, event *EventRecord) error

	// List returns the latest events of a village, newest first.
	List(ctx context.Context, villageID string, limit int) ([]*EventRecord, error)
}

// EventRecord is one journal entry.
type EventRecord struct {
	ID        int64
	VillageID string
	ActorID   string
	Kind      string
	SubjectID string // mission or building ID, empty otherwise
	Detail    string
	At        time.Time
}
