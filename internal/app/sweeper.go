package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/hamlet/internal/ports/primary"
)

// Sweeper is the pre-read hook: it completes missions, then constructions,
// then applies daily consumption.
type Sweeper struct {
	missions  primary.MissionService
	buildings primary.BuildingService
	ledger    primary.LedgerService
	logger    *slog.Logger
}

// NewSweeper creates a new Sweeper.
func NewSweeper(missions primary.MissionService, buildings primary.BuildingService, ledger primary.LedgerService, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		missions:  missions,
		buildings: buildings,
		ledger:    ledger,
		logger:    loggerOrDefault(logger),
	}
}

// Refresh runs every lazy transition that is due for a village.
func (s *Sweeper) Refresh(ctx context.Context, villageID string) (*primary.SweepReport, error) {
	missions, err := s.missions.CompletePending(ctx, villageID)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep missions: %w", err)
	}
	buildings, err := s.buildings.CompletePending(ctx, villageID)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep constructions: %w", err)
	}
	applied, err := s.ledger.ApplyDailyConsumption(ctx, villageID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply daily consumption: %w", err)
	}

	if missions.Completed+buildings.Completed > 0 || applied {
		s.logger.Debug("village refreshed",
			"village", villageID,
			"missions", missions.Completed,
			"restarted", len(missions.Restarted),
			"buildings", buildings.Completed,
			"consumption", applied)
	}

	return &primary.SweepReport{
		Missions:           missions,
		Buildings:          buildings,
		ConsumptionApplied: applied,
	}, nil
}

// Ensure Sweeper implements the interface
var _ primary.SweepService = (*Sweeper)(nil)
