// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"
	"time"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/mission"
)

// MissionService defines the primary port for gathering missions.
type MissionService interface {
	// CreateMission dispatches a worker to a target tile.
	CreateMission(ctx context.Context, req CreateMissionRequest) (*CreateMissionResponse, error)

	// CompletePending completes every mission that is home by now, credits
	// yields and restarts looping missions. Safe to call repeatedly.
	CompletePending(ctx context.Context, villageID string) (*MissionSweepResult, error)

	// RecallMission turns an outbound mission around.
	RecallMission(ctx context.Context, missionID string) error

	// ToggleMissionLoop flips the loop flag and returns the new value.
	ToggleMissionLoop(ctx context.Context, missionID string) (bool, error)

	// GetMission returns a mission with its status evaluated at the given instant.
	GetMission(ctx context.Context, missionID string, at time.Time) (*Mission, error)

	// ListActiveMissions returns uncompleted missions with their current status.
	ListActiveMissions(ctx context.Context, villageID string) ([]*Mission, error)
}

// CreateMissionRequest contains parameters for dispatching a mission.
type CreateMissionRequest struct {
	VillageID   string
	WorkerType  catalog.WorkerType
	TargetX     int
	TargetY     int
	WorkSeconds int
	Loop        bool
}

// CreateMissionResponse contains the result of dispatching a mission.
type CreateMissionResponse struct {
	MissionID string
	Mission   *Mission
}

// MissionSweepResult summarizes one completion sweep.
type MissionSweepResult struct {
	Completed int
	Credited  catalog.Bundle
	Restarted []string // IDs of successor missions
	Dropped   []string // IDs of looping missions that found no free worker
	Failed    int
}

// Mission represents a mission at the port boundary.
type Mission struct {
	ID            string
	VillageID     string
	WorkerType    catalog.WorkerType
	Resource      catalog.ResourceKind
	TargetX       int
	TargetY       int
	DepartedAt    time.Time
	TravelSeconds int
	WorkSeconds   int
	RecalledAt    *time.Time
	CompletedAt   *time.Time
	Loop          bool
	Status        mission.Status
}
