package primary

import (
	"context"
	"time"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/traveler"
)

// TravelerService defines the primary port for visiting travelers.
type TravelerService interface {
	// Resolve returns the current traveler, scheduling a new one when the
	// previous one left or was taken in.
	Resolve(ctx context.Context, villageID string) (*Traveler, error)

	// Welcome asks the present traveler to stay for a day.
	Welcome(ctx context.Context, villageID string) (*Traveler, error)

	// Assign takes the welcomed traveler in as an inhabitant.
	Assign(ctx context.Context, villageID string, workerType catalog.WorkerType) error
}

// Traveler represents the visitor at the port boundary.
type Traveler struct {
	VillageID string
	State     traveler.State
	ArrivesAt time.Time
	DepartsAt time.Time
	Welcomed  bool
}
