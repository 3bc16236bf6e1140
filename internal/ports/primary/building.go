package primary

import (
	"context"
	"time"

	"github.com/example/hamlet/internal/core/building"
	"github.com/example/hamlet/internal/core/catalog"
)

// BuildingService defines the primary port for construction.
type BuildingService interface {
	// StartBuilding pays the cost and starts a construction.
	StartBuilding(ctx context.Context, req StartBuildingRequest) (*Building, error)

	// CompletePending completes every construction that is done by now and
	// credits its capacity bonus. Safe to call repeatedly.
	CompletePending(ctx context.Context, villageID string) (*BuildingSweepResult, error)

	// ListBuildings returns every construction of a village.
	ListBuildings(ctx context.Context, villageID string) ([]*Building, error)

	// ListBuildingTypes returns the buildable types.
	ListBuildingTypes(ctx context.Context) []BuildingType
}

// StartBuildingRequest contains parameters for starting a construction.
type StartBuildingRequest struct {
	VillageID       string
	BuildingType    catalog.BuildingType
	AssignedWorkers int
}

// BuildingSweepResult summarizes one completion sweep.
type BuildingSweepResult struct {
	Completed     int
	CapacityAdded int
	Failed        int
}

// Building represents a construction at the port boundary.
type Building struct {
	ID              string
	VillageID       string
	BuildingType    catalog.BuildingType
	StartedAt       time.Time
	BuildSeconds    int
	AssignedWorkers int
	CompletedAt     *time.Time
	Status          building.Status
}

// BuildingType describes a buildable type.
type BuildingType struct {
	Type          catalog.BuildingType
	Title         string
	Cost          catalog.Bundle
	BuildSeconds  int
	CapacityBonus int
}
