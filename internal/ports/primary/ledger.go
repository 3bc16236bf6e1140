package primary

import (
	"context"
	"time"

	"github.com/example/hamlet/internal/core/catalog"
)

// LedgerService is the only mutator of resource counters and capacity.
type LedgerService interface {
	// ApplyMissionYield credits a mission yield.
	ApplyMissionYield(ctx context.Context, villageID string, kind catalog.ResourceKind, amount int) error

	// ApplyBuildingCost debits a construction cost, failing if the balance
	// does not cover it when the write happens.
	ApplyBuildingCost(ctx context.Context, villageID string, cost catalog.Bundle) error

	// ApplyCapacityBonus raises the village capacity.
	ApplyCapacityBonus(ctx context.Context, villageID string, bonus int) error

	// ApplyDailyConsumption deducts the food eaten since the last UTC
	// midnight boundary. Returns whether anything was applied.
	ApplyDailyConsumption(ctx context.Context, villageID string) (bool, error)

	// ApplyDailyConsumptionAll runs ApplyDailyConsumption for every village.
	ApplyDailyConsumptionAll(ctx context.Context) (*ConsumptionRunResult, error)

	// GetResources returns the counters of a village.
	GetResources(ctx context.Context, villageID string) (*Resources, error)
}

// Resources represents the counters of a village at the port boundary.
type Resources struct {
	VillageID         string
	Balance           catalog.Bundle
	LastConsumptionAt time.Time
	DailyGrain        float64
	DailyMeat         float64
}

// ConsumptionRunResult summarizes a run over every village.
type ConsumptionRunResult struct {
	Total   int
	Applied int
	Failed  int
}
