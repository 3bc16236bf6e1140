package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	corebuilding "github.com/example/hamlet/internal/core/building"
	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/ports/primary"
	"github.com/example/hamlet/internal/ports/secondary"
)

// BuildingServiceImpl implements the BuildingService interface.
type BuildingServiceImpl struct {
	villages  secondary.VillageRepository
	buildings secondary.BuildingRepository
	workforce *Workforce
	ledger    primary.LedgerService
	events    secondary.EventLog
	tx        secondary.Transactor
	clock     secondary.Clock
	catalog   *catalog.Catalog
	logger    *slog.Logger
	newID     func() string
}

// NewBuildingService creates a new BuildingService with injected dependencies.
func NewBuildingService(
	villages secondary.VillageRepository,
	buildings secondary.BuildingRepository,
	workforce *Workforce,
	ledger primary.LedgerService,
	events secondary.EventLog,
	tx secondary.Transactor,
	clock secondary.Clock,
	cat *catalog.Catalog,
	logger *slog.Logger,
) *BuildingServiceImpl {
	return &BuildingServiceImpl{
		villages:  villages,
		buildings: buildings,
		workforce: workforce,
		ledger:    ledger,
		events:    events,
		tx:        tx,
		clock:     clock,
		catalog:   cat,
		logger:    loggerOrDefault(logger),
		newID:     uuid.NewString,
	}
}

// StartBuilding reserves builders, pays the cost and starts a construction,
// all in one transaction.
func (s *BuildingServiceImpl) StartBuilding(ctx context.Context, req primary.StartBuildingRequest) (*primary.Building, error) {
	village, err := loadVillage(ctx, s.villages, req.VillageID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(ctx, village); err != nil {
		return nil, err
	}
	spec, known := s.catalog.Building(req.BuildingType)

	var record *secondary.BuildingRecord
	err = withRetry(ctx, s.logger, "start_building", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			active, err := s.buildings.CountActiveByType(ctx, village.ID)
			if err != nil {
				return fmt.Errorf("failed to count constructions: %w", err)
			}
			snap, err := s.workforce.Load(ctx, village.ID)
			if err != nil {
				return err
			}

			guardCtx := corebuilding.StartContext{
				BuildingType:      req.BuildingType,
				Known:             known,
				ActiveOfType:      active[req.BuildingType],
				AssignedWorkers:   req.AssignedWorkers,
				AvailableBuilders: snap.Available(catalog.Builder),
			}
			if result := corebuilding.CanStartBuilding(guardCtx); !result.Allowed {
				return result.Error()
			}

			if err := s.ledger.ApplyBuildingCost(ctx, village.ID, spec.Cost); err != nil {
				return err
			}

			record = &secondary.BuildingRecord{
				ID:              s.newID(),
				VillageID:       village.ID,
				BuildingType:    req.BuildingType,
				WorkerType:      catalog.Builder,
				StartedAt:       s.clock.Now(),
				BuildSeconds:    spec.BuildSeconds,
				AssignedWorkers: req.AssignedWorkers,
			}
			if err := s.buildings.Create(ctx, record); err != nil {
				return fmt.Errorf("failed to create construction: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("construction started",
		"village", village.ID, "building", record.ID, "type", record.BuildingType, "builders", record.AssignedWorkers)
	return s.toBuilding(record, record.StartedAt), nil
}

// CompletePending completes every construction that is done by now.
func (s *BuildingServiceImpl) CompletePending(ctx context.Context, villageID string) (*primary.BuildingSweepResult, error) {
	pending, err := s.buildings.ListPending(ctx, villageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending constructions: %w", err)
	}

	result := &primary.BuildingSweepResult{}
	now := s.clock.Now()
	for _, b := range pending {
		status := corebuilding.ComputeStatus(b.StartedAt, b.BuildSeconds, b.AssignedWorkers, now)
		if !status.Done {
			continue
		}

		bonus := 0
		if spec, ok := s.catalog.Building(b.BuildingType); ok {
			bonus = spec.CapacityBonus
		}
		completed, err := s.completeOne(ctx, b, bonus, now)
		if err != nil {
			s.logger.Warn("construction completion failed", "village", villageID, "building", b.ID, "err", err)
			result.Failed++
			continue
		}
		if completed {
			result.Completed++
			result.CapacityAdded += bonus
		}
	}
	return result, nil
}

func (s *BuildingServiceImpl) completeOne(ctx context.Context, b *secondary.BuildingRecord, bonus int, now time.Time) (bool, error) {
	var completed bool
	err := withRetry(ctx, s.logger, "complete_building", func() error {
		completed = false
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			ok, err := s.buildings.MarkCompleted(ctx, b.ID, now)
			if err != nil {
				return fmt.Errorf("failed to mark construction completed: %w", err)
			}
			if !ok {
				return nil
			}
			completed = true

			if err := s.ledger.ApplyCapacityBonus(ctx, b.VillageID, bonus); err != nil {
				return err
			}
			return s.events.Record(ctx, &secondary.EventRecord{
				VillageID: b.VillageID,
				Kind:      secondary.EventBuildingCompleted,
				SubjectID: b.ID,
				Detail:    fmt.Sprintf("%s finished, capacity +%d", b.BuildingType, bonus),
				At:        now,
			})
		})
	})
	return completed, err
}

// ListBuildings returns every construction of a village.
func (s *BuildingServiceImpl) ListBuildings(ctx context.Context, villageID string) ([]*primary.Building, error) {
	if _, err := loadVillage(ctx, s.villages, villageID); err != nil {
		return nil, err
	}
	records, err := s.buildings.ListByVillage(ctx, villageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list constructions: %w", err)
	}

	now := s.clock.Now()
	out := make([]*primary.Building, 0, len(records))
	for _, r := range records {
		out = append(out, s.toBuilding(r, now))
	}
	return out, nil
}

// ListBuildingTypes returns the buildable types.
func (s *BuildingServiceImpl) ListBuildingTypes(ctx context.Context) []primary.BuildingType {
	types := s.catalog.BuildingTypes()
	out := make([]primary.BuildingType, 0, len(types))
	for _, t := range types {
		spec, _ := s.catalog.Building(t)
		out = append(out, primary.BuildingType{
			Type:          t,
			Title:         spec.Title,
			Cost:          spec.Cost,
			BuildSeconds:  spec.BuildSeconds,
			CapacityBonus: spec.CapacityBonus,
		})
	}
	return out
}

func (s *BuildingServiceImpl) toBuilding(r *secondary.BuildingRecord, at time.Time) *primary.Building {
	b := &primary.Building{
		ID:              r.ID,
		VillageID:       r.VillageID,
		BuildingType:    r.BuildingType,
		StartedAt:       r.StartedAt,
		BuildSeconds:    r.BuildSeconds,
		AssignedWorkers: r.AssignedWorkers,
		CompletedAt:     r.CompletedAt,
		Status:          corebuilding.ComputeStatus(r.StartedAt, r.BuildSeconds, r.AssignedWorkers, at),
	}
	if r.CompletedAt != nil {
		b.Status.Done = true
		b.Status.Progress = 1
		b.Status.SecondsRemaining = 0
	}
	return b
}

// Ensure BuildingServiceImpl implements the interface
var _ primary.BuildingService = (*BuildingServiceImpl)(nil)
