package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/ledger"
	"github.com/example/hamlet/internal/ports/primary"
	"github.com/example/hamlet/internal/ports/secondary"
)

// LedgerServiceImpl implements the LedgerService interface. Every write
// joins the caller's transaction when there is one.
type LedgerServiceImpl struct {
	villages    secondary.VillageRepository
	resources   secondary.ResourceRepository
	inhabitants secondary.InhabitantRepository
	events      secondary.EventLog
	tx          secondary.Transactor
	clock       secondary.Clock
	catalog     *catalog.Catalog
	logger      *slog.Logger
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(
	villages secondary.VillageRepository,
	resources secondary.ResourceRepository,
	inhabitants secondary.InhabitantRepository,
	events secondary.EventLog,
	tx secondary.Transactor,
	clock secondary.Clock,
	cat *catalog.Catalog,
	logger *slog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		villages:    villages,
		resources:   resources,
		inhabitants: inhabitants,
		events:      events,
		tx:          tx,
		clock:       clock,
		catalog:     cat,
		logger:      loggerOrDefault(logger),
	}
}

// ApplyMissionYield credits a mission yield.
func (s *LedgerServiceImpl) ApplyMissionYield(ctx context.Context, villageID string, kind catalog.ResourceKind, amount int) error {
	if err := ledger.CanCredit(kind, amount).Error(); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	if err := s.resources.Credit(ctx, villageID, kind, amount); err != nil {
		return fmt.Errorf("failed to credit %s: %w", kind, err)
	}
	return nil
}

// ApplyBuildingCost debits a cost conditioned on the balance at write time.
func (s *LedgerServiceImpl) ApplyBuildingCost(ctx context.Context, villageID string, cost catalog.Bundle) error {
	ok, err := s.resources.Debit(ctx, villageID, cost)
	if err != nil {
		return fmt.Errorf("failed to debit resources: %w", err)
	}
	if ok {
		return nil
	}

	// Report what is missing from the balance that refused the debit.
	res, err := s.resources.Get(ctx, villageID)
	if err != nil {
		return fmt.Errorf("failed to get resources: %w", err)
	}
	if result := ledger.CanAfford(res.Balance, cost); !result.Allowed {
		return result.Error()
	}
	return fmt.Errorf("debit refused for village %s: %w", villageID, secondary.ErrConflict)
}

// ApplyCapacityBonus raises the village capacity.
func (s *LedgerServiceImpl) ApplyCapacityBonus(ctx context.Context, villageID string, bonus int) error {
	if bonus <= 0 {
		return nil
	}
	if err := s.villages.AddCapacity(ctx, villageID, bonus); err != nil {
		return fmt.Errorf("failed to add capacity: %w", err)
	}
	return nil
}

// ApplyDailyConsumption deducts the food eaten since the last UTC midnight
// boundary. A lost race against another caller is a no-op, not an error.
func (s *LedgerServiceImpl) ApplyDailyConsumption(ctx context.Context, villageID string) (bool, error) {
	var applied bool
	err := withRetry(ctx, s.logger, "daily_consumption", func() error {
		applied = false
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			res, err := s.resources.Get(ctx, villageID)
			if err != nil {
				return fmt.Errorf("failed to get resources: %w", err)
			}
			counts, err := s.inhabitants.Counts(ctx, villageID)
			if err != nil {
				return fmt.Errorf("failed to count inhabitants: %w", err)
			}

			grain, meat := ledger.DailyConsumption(s.catalog, counts)
			plan := ledger.PlanConsumption(ledger.ConsumptionInput{
				LastConsumptionAt: res.LastConsumptionAt,
				Now:               s.clock.Now(),
				DailyGrain:        grain,
				DailyMeat:         meat,
			})
			if !plan.Apply {
				return nil
			}

			ok, err := s.resources.ApplyConsumption(ctx, villageID, plan.Grain, plan.Meat, res.LastConsumptionAt, plan.NewLastAt)
			if err != nil {
				return fmt.Errorf("failed to apply consumption: %w", err)
			}
			if !ok {
				s.logger.Debug("consumption already applied", "village", villageID)
				return nil
			}
			applied = true

			return s.events.Record(ctx, &secondary.EventRecord{
				VillageID: villageID,
				Kind:      secondary.EventConsumption,
				Detail: fmt.Sprintf("%d day(s) eaten: %d grain, %d meat",
					plan.Days, min(plan.Grain, res.Balance.Grain), min(plan.Meat, res.Balance.Meat)),
				At: s.clock.Now(),
			})
		})
	})
	if err != nil {
		return false, err
	}
	if applied {
		s.logger.Info("daily consumption applied", "village", villageID)
	}
	return applied, nil
}

// ApplyDailyConsumptionAll applies consumption to every village. A failing
// village is logged and skipped.
func (s *LedgerServiceImpl) ApplyDailyConsumptionAll(ctx context.Context) (*primary.ConsumptionRunResult, error) {
	villages, err := s.villages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list villages: %w", err)
	}

	result := &primary.ConsumptionRunResult{Total: len(villages)}
	for _, v := range villages {
		applied, err := s.ApplyDailyConsumption(ctx, v.ID)
		if err != nil {
			s.logger.Warn("daily consumption failed", "village", v.ID, "err", err)
			result.Failed++
			continue
		}
		if applied {
			result.Applied++
		}
	}
	return result, nil
}

// GetResources returns the counters of a village and what it eats per day.
func (s *LedgerServiceImpl) GetResources(ctx context.Context, villageID string) (*primary.Resources, error) {
	if _, err := loadVillage(ctx, s.villages, villageID); err != nil {
		return nil, err
	}
	res, err := s.resources.Get(ctx, villageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resources: %w", err)
	}
	counts, err := s.inhabitants.Counts(ctx, villageID)
	if err != nil {
		return nil, fmt.Errorf("failed to count inhabitants: %w", err)
	}
	grain, meat := ledger.DailyConsumption(s.catalog, counts)

	return &primary.Resources{
		VillageID:         res.VillageID,
		Balance:           res.Balance,
		LastConsumptionAt: res.LastConsumptionAt,
		DailyGrain:        grain,
		DailyMeat:         meat,
	}, nil
}

// Ensure LedgerServiceImpl implements the interface
var _ primary.LedgerService = (*LedgerServiceImpl)(nil)
