package primary

import (
	"context"
	"time"

	"github.com/example/hamlet/internal/core/catalog"
)

// VillageService defines the primary port for villages.
type VillageService interface {
	// CreateVillage founds the village of a player, or returns the one
	// they already have.
	CreateVillage(ctx context.Context, req CreateVillageRequest) (*Village, error)

	// GetVillage retrieves a village by ID.
	GetVillage(ctx context.Context, villageID string) (*Village, error)

	// GetVillageByOwner retrieves the village of a player.
	GetVillageByOwner(ctx context.Context, ownerID string) (*Village, error)

	// RenameVillage changes the village name.
	RenameVillage(ctx context.Context, villageID, name string) error

	// Overview refreshes the village and returns everything about it.
	Overview(ctx context.Context, villageID string) (*VillageOverview, error)

	// ListEvents returns the journal of a village, newest first.
	ListEvents(ctx context.Context, villageID string, limit int) ([]*Event, error)
}

// CreateVillageRequest contains parameters for founding a village.
type CreateVillageRequest struct {
	OwnerID string
	Name    string
}

// Village represents a village at the port boundary.
type Village struct {
	ID        string
	OwnerID   string
	Name      string
	X         int
	Y         int
	Capacity  int
	CreatedAt time.Time
}

// Inhabitants is the population of one worker type.
type Inhabitants struct {
	WorkerType catalog.WorkerType
	Count      int
	Busy       int
	Available  int
}

// VillageOverview is the refreshed state of a village.
type VillageOverview struct {
	Village     *Village
	Resources   *Resources
	Inhabitants []Inhabitants
	Population  int
	Missions    []*Mission
	Buildings   []*Building
}

// Event is one journal entry at the port boundary.
type Event struct {
	Kind      string
	SubjectID string
	Detail    string
	At        time.Time
}
