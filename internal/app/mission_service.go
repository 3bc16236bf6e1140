package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/failure"
	coremission "github.com/example/hamlet/internal/core/mission"
	"github.com/example/hamlet/internal/core/world"
	"github.com/example/hamlet/internal/ports/primary"
	"github.com/example/hamlet/internal/ports/secondary"
)

// MissionServiceImpl implements the MissionService interface.
type MissionServiceImpl struct {
	villages  secondary.VillageRepository
	missions  secondary.MissionRepository
	workforce *Workforce
	ledger    primary.LedgerService
	events    secondary.EventLog
	tx        secondary.Transactor
	clock     secondary.Clock
	catalog   *catalog.Catalog
	worldMap  *world.Map
	logger    *slog.Logger
	newID     func() string
}

// NewMissionService creates a new MissionService with injected dependencies.
func NewMissionService(
	villages secondary.VillageRepository,
	missions secondary.MissionRepository,
	workforce *Workforce,
	ledger primary.LedgerService,
	events secondary.EventLog,
	tx secondary.Transactor,
	clock secondary.Clock,
	cat *catalog.Catalog,
	worldMap *world.Map,
	logger *slog.Logger,
) *MissionServiceImpl {
	return &MissionServiceImpl{
		villages:  villages,
		missions:  missions,
		workforce: workforce,
		ledger:    ledger,
		events:    events,
		tx:        tx,
		clock:     clock,
		catalog:   cat,
		worldMap:  worldMap,
		logger:    loggerOrDefault(logger),
		newID:     uuid.NewString,
	}
}

// CreateMission validates a dispatch and reserves a worker.
func (s *MissionServiceImpl) CreateMission(ctx context.Context, req primary.CreateMissionRequest) (*primary.CreateMissionResponse, error) {
	// 1. Village and ownership
	village, err := loadVillage(ctx, s.villages, req.VillageID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(ctx, village); err != nil {
		return nil, err
	}

	// 2. Stateless guard
	harvest, hasHarvest := catalog.HarvestFor(req.WorkerType)
	stats, _ := s.catalog.Worker(req.WorkerType)
	tile, inBounds := s.worldMap.Tile(req.TargetX, req.TargetY)
	guardCtx := coremission.CreateContext{
		WorkerType:     req.WorkerType,
		HasHarvest:     hasHarvest,
		Harvests:       harvest.Feature,
		WorkSeconds:    req.WorkSeconds,
		VillageX:       village.X,
		VillageY:       village.Y,
		TargetX:        req.TargetX,
		TargetY:        req.TargetY,
		TargetInBounds: inBounds,
		TargetFeature:  tile.Feature,
		Speed:          stats.Speed,
	}
	if result := coremission.CanCreateMission(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	travel, err := world.TravelSeconds(world.Distance(village.X, village.Y, req.TargetX, req.TargetY), stats.Speed)
	if err != nil {
		return nil, failure.Validation(coremission.CodeUnreachable, err.Error())
	}

	// 3. Reserve a worker against live counts
	var record *secondary.MissionRecord
	err = withRetry(ctx, s.logger, "create_mission", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			snap, err := s.workforce.Load(ctx, village.ID)
			if err != nil {
				return err
			}
			if result := coremission.CanReserveWorker(req.WorkerType, snap.Available(req.WorkerType)); !result.Allowed {
				return result.Error()
			}

			now := s.clock.Now()
			record = &secondary.MissionRecord{
				ID:            s.newID(),
				VillageID:     village.ID,
				WorkerType:    req.WorkerType,
				TargetX:       req.TargetX,
				TargetY:       req.TargetY,
				DepartedAt:    now,
				TravelSeconds: travel,
				WorkSeconds:   req.WorkSeconds,
				Density:       s.densityAt(harvest, req.TargetX, req.TargetY, now),
				Loop:          req.Loop,
			}
			if err := s.missions.Create(ctx, record); err != nil {
				return fmt.Errorf("failed to create mission: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("mission dispatched",
		"village", village.ID, "mission", record.ID, "worker", record.WorkerType,
		"target_x", record.TargetX, "target_y", record.TargetY, "travel_s", travel)

	return &primary.CreateMissionResponse{
		MissionID: record.ID,
		Mission:   s.toMission(record, record.DepartedAt),
	}, nil
}

// CompletePending completes every mission that is home by now. Each
// mission completes in its own transaction; a failing one is skipped so
// it cannot block the others.
func (s *MissionServiceImpl) CompletePending(ctx context.Context, villageID string) (*primary.MissionSweepResult, error) {
	pending, err := s.missions.ListPending(ctx, villageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending missions: %w", err)
	}

	result := &primary.MissionSweepResult{}
	var candidates []coremission.RestartCandidate
	byID := make(map[string]*secondary.MissionRecord)

	now := s.clock.Now()
	for _, m := range pending {
		status := coremission.ComputeStatus(s.plan(m), now)
		if !status.Done() {
			continue
		}

		completed, err := s.completeOne(ctx, m, status.ProjectedYield, now)
		if err != nil {
			s.logger.Warn("mission completion failed", "village", villageID, "mission", m.ID, "err", err)
			result.Failed++
			continue
		}
		if !completed {
			continue
		}

		result.Completed++
		if harvest, ok := catalog.HarvestFor(m.WorkerType); ok {
			result.Credited = result.Credited.With(harvest.Resource, result.Credited.Get(harvest.Resource)+status.ProjectedYield)
		}
		if m.Loop && m.RecalledAt == nil {
			candidates = append(candidates, coremission.RestartCandidate{MissionID: m.ID, WorkerType: m.WorkerType})
			byID[m.ID] = m
		}
	}

	if len(candidates) > 0 {
		restarted, dropped, err := s.restart(ctx, villageID, candidates, byID)
		if err != nil {
			s.logger.Warn("loop restart failed", "village", villageID, "err", err)
		}
		result.Restarted = restarted
		result.Dropped = dropped
	}

	return result, nil
}

// completeOne marks one mission complete and credits its yield in one
// transaction. It reports false when another sweep completed it first.
func (s *MissionServiceImpl) completeOne(ctx context.Context, m *secondary.MissionRecord, yield int, now time.Time) (bool, error) {
	var completed bool
	err := withRetry(ctx, s.logger, "complete_mission", func() error {
		completed = false
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			ok, err := s.missions.MarkCompleted(ctx, m.ID, now)
			if err != nil {
				return fmt.Errorf("failed to mark mission completed: %w", err)
			}
			if !ok {
				return nil
			}
			completed = true

			detail := "returned empty-handed"
			if harvest, has := catalog.HarvestFor(m.WorkerType); has && m.RecalledAt == nil {
				if err := s.ledger.ApplyMissionYield(ctx, m.VillageID, harvest.Resource, yield); err != nil {
					return err
				}
				detail = fmt.Sprintf("%s brought back %d %s", m.WorkerType, yield, harvest.Resource)
			}
			return s.events.Record(ctx, &secondary.EventRecord{
				VillageID: m.VillageID,
				Kind:      secondary.EventMissionCompleted,
				SubjectID: m.ID,
				Detail:    detail,
				At:        now,
			})
		})
	})
	return completed, err
}

// restart creates successors for looping missions, allocating free workers
// first-come first-served in sweep order.
func (s *MissionServiceImpl) restart(
	ctx context.Context,
	villageID string,
	candidates []coremission.RestartCandidate,
	byID map[string]*secondary.MissionRecord,
) (restarted, dropped []string, err error) {
	err = withRetry(ctx, s.logger, "restart_missions", func() error {
		restarted, dropped = nil, nil
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			snap, err := s.workforce.Load(ctx, villageID)
			if err != nil {
				return err
			}
			plan := coremission.PlanRestarts(candidates, snap.AvailableAll())

			now := s.clock.Now()
			for _, c := range plan.Restart {
				prev := byID[c.MissionID]
				harvest, _ := catalog.HarvestFor(prev.WorkerType)
				next := &secondary.MissionRecord{
					ID:            s.newID(),
					VillageID:     prev.VillageID,
					WorkerType:    prev.WorkerType,
					TargetX:       prev.TargetX,
					TargetY:       prev.TargetY,
					DepartedAt:    now,
					TravelSeconds: prev.TravelSeconds,
					WorkSeconds:   prev.WorkSeconds,
					Density:       s.densityAt(harvest, prev.TargetX, prev.TargetY, now),
					Loop:          true,
				}
				if err := s.missions.Create(ctx, next); err != nil {
					return fmt.Errorf("failed to create successor mission: %w", err)
				}
				if err := s.events.Record(ctx, &secondary.EventRecord{
					VillageID: villageID,
					Kind:      secondary.EventMissionRestarted,
					SubjectID: next.ID,
					Detail:    fmt.Sprintf("%s set out again from mission %s", prev.WorkerType, prev.ID),
					At:        now,
				}); err != nil {
					return err
				}
				restarted = append(restarted, next.ID)
			}

			for _, c := range plan.Dropped {
				if err := s.events.Record(ctx, &secondary.EventRecord{
					VillageID: villageID,
					Kind:      secondary.EventLoopDropped,
					SubjectID: c.MissionID,
					Detail:    fmt.Sprintf("no free %s to continue the loop", c.WorkerType),
					At:        now,
				}); err != nil {
					return err
				}
				dropped = append(dropped, c.MissionID)
			}
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	for _, id := range dropped {
		s.logger.Info("loop not restarted, no free worker", "village", villageID, "mission", id)
	}
	return restarted, dropped, nil
}

// RecallMission turns an outbound mission around.
func (s *MissionServiceImpl) RecallMission(ctx context.Context, missionID string) error {
	m, village, err := s.loadMission(ctx, missionID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	status := coremission.ComputeStatus(s.plan(m), now)
	guardCtx := coremission.RecallContext{
		MissionID: m.ID,
		IsOwner:   isOwner(ctx, village),
		Recalled:  m.RecalledAt != nil,
		Phase:     status.Phase,
	}
	if m.CompletedAt != nil {
		guardCtx.Phase = coremission.PhaseCompleted
	}
	if result := coremission.CanRecallMission(guardCtx); !result.Allowed {
		return result.Error()
	}

	ok, err := s.missions.MarkRecalled(ctx, m.ID, now)
	if err != nil {
		return fmt.Errorf("failed to recall mission: %w", err)
	}
	if !ok {
		// Lost against a concurrent recall or the arrival itself.
		return failure.Validationf(coremission.CodeAlreadyRecalled, "mission %s can no longer be recalled", m.ID)
	}

	s.logger.Info("mission recalled", "mission", m.ID, "village", m.VillageID)
	return nil
}

// ToggleMissionLoop flips the loop flag of an uncompleted mission.
func (s *MissionServiceImpl) ToggleMissionLoop(ctx context.Context, missionID string) (bool, error) {
	m, village, err := s.loadMission(ctx, missionID)
	if err != nil {
		return false, err
	}

	guardCtx := coremission.LoopContext{
		MissionID: m.ID,
		IsOwner:   isOwner(ctx, village),
		Completed: m.CompletedAt != nil,
	}
	if result := coremission.CanToggleLoop(guardCtx); !result.Allowed {
		return false, result.Error()
	}

	loop, ok, err := s.missions.ToggleLoop(ctx, m.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update loop: %w", err)
	}
	if !ok {
		return false, failure.Validationf(coremission.CodeAlreadyCompleted, "mission %s is already completed", m.ID)
	}
	return loop, nil
}

// GetMission returns a mission with its status evaluated at the given instant.
func (s *MissionServiceImpl) GetMission(ctx context.Context, missionID string, at time.Time) (*primary.Mission, error) {
	m, _, err := s.loadMission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	return s.toMission(m, at), nil
}

// ListActiveMissions returns uncompleted missions with their current status.
func (s *MissionServiceImpl) ListActiveMissions(ctx context.Context, villageID string) ([]*primary.Mission, error) {
	if _, err := loadVillage(ctx, s.villages, villageID); err != nil {
		return nil, err
	}
	pending, err := s.missions.ListPending(ctx, villageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}

	now := s.clock.Now()
	out := make([]*primary.Mission, 0, len(pending))
	for _, m := range pending {
		out = append(out, s.toMission(m, now))
	}
	return out, nil
}

func (s *MissionServiceImpl) loadMission(ctx context.Context, missionID string) (*secondary.MissionRecord, *secondary.VillageRecord, error) {
	m, err := s.missions.GetByID(ctx, missionID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, nil, failure.NotFoundf("mission_not_found", "mission %s not found", missionID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get mission: %w", err)
	}
	village, err := loadVillage(ctx, s.villages, m.VillageID)
	if err != nil {
		return nil, nil, err
	}
	return m, village, nil
}

// plan joins a stored mission with the current worker stats.
func (s *MissionServiceImpl) plan(m *secondary.MissionRecord) coremission.Plan {
	stats, _ := s.catalog.Worker(m.WorkerType)
	return coremission.Plan{
		DepartedAt:    m.DepartedAt,
		TravelSeconds: m.TravelSeconds,
		WorkSeconds:   m.WorkSeconds,
		RecalledAt:    m.RecalledAt,
		GatherRate:    stats.GatherRate,
		MaxCapacity:   stats.MaxCapacity,
		Density:       m.Density,
	}
}

// densityAt returns the plains abundance for density-scaled harvests and
// 1 for everything else.
func (s *MissionServiceImpl) densityAt(h catalog.Harvest, x, y int, at time.Time) float64 {
	if h.DensitySeed == 0 {
		return 1
	}
	return world.NewDensityField(h.DensitySeed).At(x, y, at)
}

func (s *MissionServiceImpl) toMission(m *secondary.MissionRecord, at time.Time) *primary.Mission {
	harvest, _ := catalog.HarvestFor(m.WorkerType)
	return &primary.Mission{
		ID:            m.ID,
		VillageID:     m.VillageID,
		WorkerType:    m.WorkerType,
		Resource:      harvest.Resource,
		TargetX:       m.TargetX,
		TargetY:       m.TargetY,
		DepartedAt:    m.DepartedAt,
		TravelSeconds: m.TravelSeconds,
		WorkSeconds:   m.WorkSeconds,
		RecalledAt:    m.RecalledAt,
		CompletedAt:   m.CompletedAt,
		Loop:          m.Loop,
		Status:        coremission.ComputeStatus(s.plan(m), at),
	}
}

// Ensure MissionServiceImpl implements the interface
var _ primary.MissionService = (*MissionServiceImpl)(nil)
