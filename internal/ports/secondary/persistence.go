// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"

	"github.com/example/hamlet/internal/core/catalog"
)

var (
	// ErrNotFound is wrapped by repositories when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is wrapped by adapters when the store aborted a transaction
	// because of a concurrent writer. It is the only retryable error.
	ErrConflict = errors.New("concurrent transaction conflict")
)

// Transactor runs fn inside one store transaction. Repositories called with
// the ctx passed to fn join that transaction; nested calls join the
// outer one.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock is the single source of the current time.
type Clock interface {
	Now() time.Time
}

// VillageRepository defines the secondary port for village persistence.
type VillageRepository interface {
	// Create persists a new village.
	Create(ctx context.Context, village *VillageRecord) error

	// GetByID retrieves a village by its ID.
	GetByID(ctx context.Context, id string) (*VillageRecord, error)

	// GetByOwner retrieves the village of a player.
	GetByOwner(ctx context.Context, ownerID string) (*VillageRecord, error)

	// List retrieves every village ordered by creation.
	List(ctx context.Context) ([]*VillageRecord, error)

	// Rename updates the village name.
	Rename(ctx context.Context, id, name string) error

	// AddCapacity raises the inhabitant capacity.
	AddCapacity(ctx context.Context, id string, bonus int) error
}

// VillageRecord represents a village as stored in persistence.
type VillageRecord struct {
	ID        string
	OwnerID   string
	Name      string
	X         int
	Y         int
	Capacity  int
	CreatedAt time.Time
}

// ResourceRepository defines the secondary port for resource counters.
// Every mutation is a single conditional statement so concurrent callers
// cannot both apply the same change.
type ResourceRepository interface {
	// Init creates zeroed counters for a new village.
	Init(ctx context.Context, villageID string, lastConsumptionAt time.Time) error

	// Get reads the counters.
	Get(ctx context.Context, villageID string) (*ResourceRecord, error)

	// Credit adds amount of one kind.
	Credit(ctx context.Context, villageID string, kind catalog.ResourceKind, amount int) error

	// Debit subtracts cost if the balance still covers it at write time.
	// Returns false, nil when it does not.
	Debit(ctx context.Context, villageID string, cost catalog.Bundle) (bool, error)

	// ApplyConsumption deducts food floored at zero and moves the
	// consumption boundary, only if the boundary still equals expectedLast.
	// Returns false, nil when another writer moved it first.
	ApplyConsumption(ctx context.Context, villageID string, grain, meat int, expectedLast, newLast time.Time) (bool, error)
}

// ResourceRecord represents the counters of a village.
type ResourceRecord struct {
	VillageID         string
	Balance           catalog.Bundle
	LastConsumptionAt time.Time
}

// InhabitantRepository defines the secondary port for inhabitant counts.
type InhabitantRepository interface {
	// Counts returns the number of inhabitants per worker type.
	Counts(ctx context.Context, villageID string) (map[catalog.WorkerType]int, error)

	// Add increments the count of one worker type.
	Add(ctx context.Context, villageID string, workerType catalog.WorkerType, n int) error
}

// MissionRepository defines the secondary port for mission persistence.
type MissionRepository interface {
	// Create persists a new mission.
	Create(ctx context.Context, mission *MissionRecord) error

	// GetByID retrieves a mission by its ID.
	GetByID(ctx context.Context, id string) (*MissionRecord, error)

	// ListPending returns missions not yet completed, oldest departure first.
	ListPending(ctx context.Context, villageID string) ([]*MissionRecord, error)

	// MarkCompleted sets completed_at if it is still null.
	// Returns false, nil when the mission was already completed.
	MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error)

	// MarkRecalled sets recalled_at if the mission is neither recalled nor completed.
	MarkRecalled(ctx context.Context, id string, at time.Time) (bool, error)

	// ToggleLoop flips the loop flag of a mission that is not completed and
	// returns the new value. ok is false when the mission is missing or
	// already completed.
	ToggleLoop(ctx context.Context, id string) (loop bool, ok bool, err error)

	// CountActiveByType counts uncompleted missions per worker type.
	CountActiveByType(ctx context.Context, villageID string) (map[catalog.WorkerType]int, error)
}

// MissionRecord represents a mission as stored in persistence.
type MissionRecord struct {
	ID            string
	VillageID     string
	WorkerType    catalog.WorkerType
	TargetX       int
	TargetY       int
	DepartedAt    time.Time
	TravelSeconds int
	WorkSeconds   int
	Density       float64 // yield multiplier fixed at departure
	RecalledAt    *time.Time
	CompletedAt   *time.Time
	Loop          bool
}

// BuildingRepository defines the secondary port for construction persistence.
type BuildingRepository interface {
	// Create persists a new construction.
	Create(ctx context.Context, building *BuildingRecord) error

	// ListPending returns constructions not yet completed, oldest first.
	ListPending(ctx context.Context, villageID string) ([]*BuildingRecord, error)

	// ListByVillage returns every construction of a village, newest first.
	ListByVillage(ctx context.Context, villageID string) ([]*BuildingRecord, error)

	// MarkCompleted sets completed_at if it is still null.
	MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error)

	// CountActiveByType counts uncompleted constructions per building type.
	CountActiveByType(ctx context.Context, villageID string) (map[catalog.BuildingType]int, error)

	// BusyWorkers sums assigned workers of uncompleted constructions per worker type.
	BusyWorkers(ctx context.Context, villageID string) (map[catalog.WorkerType]int, error)
}

// BuildingRecord represents a construction as stored in persistence.
type BuildingRecord struct {
	ID              string
	VillageID       string
	BuildingType    catalog.BuildingType
	WorkerType      catalog.WorkerType
	StartedAt       time.Time
	BuildSeconds    int
	AssignedWorkers int
	CompletedAt     *time.Time
}

// TravelerRepository defines the secondary port for the visiting traveler.
// A village has at most one traveler row.
type TravelerRepository interface {
	// Get returns the current traveler; wraps ErrNotFound when there is none.
	Get(ctx context.Context, villageID string) (*TravelerRecord, error)

	// Replace drops any traveler of the village and stores a new one.
	Replace(ctx context.Context, traveler *TravelerRecord) error

	// Welcome records the welcome and extends the stay, if the traveler is
	// present and not yet welcomed.
	Welcome(ctx context.Context, villageID string, at, departsAt time.Time) (bool, error)

	// Claim marks a welcomed, present, unassigned traveler as assigned.
	Claim(ctx context.Context, villageID string, at time.Time) (bool, error)
}

// TravelerRecord represents a traveler as stored in persistence.
type TravelerRecord struct {
	VillageID  string
	ArrivesAt  time.Time
	DepartsAt  time.Time
	WelcomedAt *time.Time
	AssignedAt *time.Time
}
