package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/failure"
	"github.com/example/hamlet/internal/core/world"
	"github.com/example/hamlet/internal/ports/primary"
	"github.com/example/hamlet/internal/ports/secondary"
)

const (
	maxVillageName     = 32
	defaultVillageName = "Hamlet"
)

// VillageServiceImpl implements the VillageService interface.
type VillageServiceImpl struct {
	villages  secondary.VillageRepository
	resources secondary.ResourceRepository
	workforce *Workforce
	events    secondary.EventLog
	tx        secondary.Transactor
	clock     secondary.Clock
	catalog   *catalog.Catalog
	worldMap  *world.Map

	sweeper   primary.SweepService
	ledger    primary.LedgerService
	missions  primary.MissionService
	buildings primary.BuildingService

	logger *slog.Logger
	newID  func() string
}

// NewVillageService creates a new VillageService with injected dependencies.
func NewVillageService(
	villages secondary.VillageRepository,
	resources secondary.ResourceRepository,
	workforce *Workforce,
	events secondary.EventLog,
	tx secondary.Transactor,
	clock secondary.Clock,
	cat *catalog.Catalog,
	worldMap *world.Map,
	sweeper primary.SweepService,
	ledger primary.LedgerService,
	missions primary.MissionService,
	buildings primary.BuildingService,
	logger *slog.Logger,
) *VillageServiceImpl {
	return &VillageServiceImpl{
		villages:  villages,
		resources: resources,
		workforce: workforce,
		events:    events,
		tx:        tx,
		clock:     clock,
		catalog:   cat,
		worldMap:  worldMap,
		sweeper:   sweeper,
		ledger:    ledger,
		missions:  missions,
		buildings: buildings,
		logger:    loggerOrDefault(logger),
		newID:     uuid.NewString,
	}
}

// CreateVillage founds the village of a player on the first free plains
// tile of the border zone. A player who already has a village gets it back.
func (s *VillageServiceImpl) CreateVillage(ctx context.Context, req primary.CreateVillageRequest) (*primary.Village, error) {
	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, failure.Validation("owner_required", "a player ID is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultVillageName
	}
	if err := validateVillageName(name); err != nil {
		return nil, err
	}

	var record *secondary.VillageRecord
	created := false
	err := withRetry(ctx, s.logger, "create_village", func() error {
		created = false
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			existing, err := s.villages.GetByOwner(ctx, req.OwnerID)
			if err == nil {
				record = existing
				return nil
			}
			if !errors.Is(err, secondary.ErrNotFound) {
				return fmt.Errorf("failed to look up village: %w", err)
			}

			all, err := s.villages.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list villages: %w", err)
			}
			taken := make(map[world.Point]bool, len(all))
			for _, v := range all {
				taken[world.Point{X: v.X, Y: v.Y}] = true
			}
			site, ok := world.FindVillageSite(s.worldMap, taken)
			if !ok {
				return failure.Validation("no_site", "there is no free land left for a new village")
			}

			now := s.clock.Now()
			record = &secondary.VillageRecord{
				ID:        s.newID(),
				OwnerID:   req.OwnerID,
				Name:      name,
				X:         site.X,
				Y:         site.Y,
				Capacity:  s.catalog.DefaultCapacity,
				CreatedAt: now,
			}
			if err := s.villages.Create(ctx, record); err != nil {
				return fmt.Errorf("failed to create village: %w", err)
			}
			if err := s.resources.Init(ctx, record.ID, now); err != nil {
				return fmt.Errorf("failed to init resources: %w", err)
			}
			created = true
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("village founded", "village", record.ID, "owner", record.OwnerID, "x", record.X, "y", record.Y)
	}
	return toVillage(record), nil
}

// GetVillage retrieves a village by ID.
func (s *VillageServiceImpl) GetVillage(ctx context.Context, villageID string) (*primary.Village, error) {
	v, err := loadVillage(ctx, s.villages, villageID)
	if err != nil {
		return nil, err
	}
	return toVillage(v), nil
}

// GetVillageByOwner retrieves the village of a player.
func (s *VillageServiceImpl) GetVillageByOwner(ctx context.Context, ownerID string) (*primary.Village, error) {
	v, err := s.villages.GetByOwner(ctx, ownerID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, failure.NotFoundf("village_not_found", "player %s has no village", ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get village: %w", err)
	}
	return toVillage(v), nil
}

// RenameVillage changes the village name.
func (s *VillageServiceImpl) RenameVillage(ctx context.Context, villageID, name string) error {
	name = strings.TrimSpace(name)
	if err := validateVillageName(name); err != nil {
		return err
	}
	v, err := loadVillage(ctx, s.villages, villageID)
	if err != nil {
		return err
	}
	if err := requireOwner(ctx, v); err != nil {
		return err
	}
	if err := s.villages.Rename(ctx, v.ID, name); err != nil {
		return fmt.Errorf("failed to rename village: %w", err)
	}
	return nil
}

// Overview refreshes the village, then reads everything about it.
func (s *VillageServiceImpl) Overview(ctx context.Context, villageID string) (*primary.VillageOverview, error) {
	v, err := loadVillage(ctx, s.villages, villageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.sweeper.Refresh(ctx, v.ID); err != nil {
		return nil, err
	}

	// Capacity may have changed during the refresh.
	v, err = loadVillage(ctx, s.villages, villageID)
	if err != nil {
		return nil, err
	}
	res, err := s.ledger.GetResources(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	snap, err := s.workforce.Load(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	missions, err := s.missions.ListActiveMissions(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	buildings, err := s.buildings.ListBuildings(ctx, v.ID)
	if err != nil {
		return nil, err
	}

	overview := &primary.VillageOverview{
		Village:    toVillage(v),
		Resources:  res,
		Population: snap.Population(),
		Missions:   missions,
		Buildings:  buildings,
	}
	for _, t := range catalog.WorkerTypes {
		overview.Inhabitants = append(overview.Inhabitants, primary.Inhabitants{
			WorkerType: t,
			Count:      snap.Total[t],
			Busy:       snap.Busy[t],
			Available:  max(snap.Available(t), 0),
		})
	}
	return overview, nil
}

// ListEvents returns the journal of a village, newest first.
func (s *VillageServiceImpl) ListEvents(ctx context.Context, villageID string, limit int) ([]*primary.Event, error) {
	if _, err := loadVillage(ctx, s.villages, villageID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	records, err := s.events.List(ctx, villageID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	out := make([]*primary.Event, 0, len(records))
	for _, r := range records {
		out = append(out, &primary.Event{Kind: r.Kind, SubjectID: r.SubjectID, Detail: r.Detail, At: r.At})
	}
	return out, nil
}

func validateVillageName(name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > maxVillageName {
		return failure.Validationf("invalid_name", "village name must be 1 to %d characters", maxVillageName)
	}
	return nil
}

func toVillage(v *secondary.VillageRecord) *primary.Village {
	return &primary.Village{
		ID:        v.ID,
		OwnerID:   v.OwnerID,
		Name:      v.Name,
		X:         v.X,
		Y:         v.Y,
		Capacity:  v.Capacity,
		CreatedAt: v.CreatedAt,
	}
}

// Ensure VillageServiceImpl implements the interface
var _ primary.VillageService = (*VillageServiceImpl)(nil)
