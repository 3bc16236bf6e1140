package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/example/hamlet/internal/core/catalog"
	coretraveler "github.com/example/hamlet/internal/core/traveler"
	"github.com/example/hamlet/internal/ports/primary"
	"github.com/example/hamlet/internal/ports/secondary"
)

// TravelerServiceImpl implements the TravelerService interface.
type TravelerServiceImpl struct {
	villages    secondary.VillageRepository
	travelers   secondary.TravelerRepository
	inhabitants secondary.InhabitantRepository
	events      secondary.EventLog
	tx          secondary.Transactor
	clock       secondary.Clock
	logger      *slog.Logger
	// between picks a uniform duration in [lo, hi].
	between func(lo, hi time.Duration) time.Duration
}

// NewTravelerService creates a new TravelerService with injected dependencies.
func NewTravelerService(
	villages secondary.VillageRepository,
	travelers secondary.TravelerRepository,
	inhabitants secondary.InhabitantRepository,
	events secondary.EventLog,
	tx secondary.Transactor,
	clock secondary.Clock,
	logger *slog.Logger,
) *TravelerServiceImpl {
	return &TravelerServiceImpl{
		villages:    villages,
		travelers:   travelers,
		inhabitants: inhabitants,
		events:      events,
		tx:          tx,
		clock:       clock,
		logger:      loggerOrDefault(logger),
		between:     randomBetween,
	}
}

func randomBetween(lo, hi time.Duration) time.Duration {
	secs := int64((hi - lo) / time.Second)
	return lo + time.Duration(rand.Int64N(secs+1))*time.Second
}

// Resolve returns the current traveler. When the previous one was taken in
// or has left, a new one is put on the road.
func (s *TravelerServiceImpl) Resolve(ctx context.Context, villageID string) (*primary.Traveler, error) {
	v, err := loadVillage(ctx, s.villages, villageID)
	if err != nil {
		return nil, err
	}

	var out *primary.Traveler
	err = withRetry(ctx, s.logger, "resolve_traveler", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			now := s.clock.Now()
			rec, err := s.current(ctx, v.ID)
			if err != nil {
				return err
			}
			if rec != nil && coretraveler.StateAt(toVisit(rec), now) != coretraveler.StateNone {
				out = toTraveler(rec, now)
				return nil
			}

			visit := coretraveler.Schedule(now,
				s.between(coretraveler.MinArrivalDelay, coretraveler.MaxArrivalDelay),
				s.between(coretraveler.MinStay, coretraveler.MaxStay))
			rec = &secondary.TravelerRecord{VillageID: v.ID, ArrivesAt: visit.ArrivesAt, DepartsAt: visit.DepartsAt}
			if err := s.travelers.Replace(ctx, rec); err != nil {
				return fmt.Errorf("failed to schedule traveler: %w", err)
			}
			s.logger.Debug("traveler on the road", "village", v.ID, "arrives_at", rec.ArrivesAt)
			out = toTraveler(rec, now)
			return nil
		})
	})
	return out, err
}

// Welcome asks the present traveler to stay for a day.
func (s *TravelerServiceImpl) Welcome(ctx context.Context, villageID string) (*primary.Traveler, error) {
	v, err := loadVillage(ctx, s.villages, villageID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(ctx, v); err != nil {
		return nil, err
	}

	rec, err := s.current(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var visit *coretraveler.Visit
	if rec != nil {
		visit = toVisit(rec)
	}
	if result := coretraveler.CanWelcome(visit, now); !result.Allowed {
		return nil, result.Error()
	}

	departs := now.Add(coretraveler.WelcomeStay)
	ok, err := s.travelers.Welcome(ctx, v.ID, now, departs)
	if err != nil {
		return nil, fmt.Errorf("failed to welcome traveler: %w", err)
	}
	if !ok {
		return nil, coretraveler.GuardResult{Code: coretraveler.CodeNoTraveler, Reason: "the traveler is no longer here"}.Error()
	}

	rec.WelcomedAt = &now
	rec.DepartsAt = departs
	return toTraveler(rec, now), nil
}

// Assign takes the welcomed traveler in. The claim and the new inhabitant
// are written in one transaction.
func (s *TravelerServiceImpl) Assign(ctx context.Context, villageID string, workerType catalog.WorkerType) error {
	if _, err := catalog.ParseWorkerType(string(workerType)); err != nil {
		return coretraveler.GuardResult{Code: "invalid_worker_type", Reason: err.Error()}.Error()
	}
	v, err := loadVillage(ctx, s.villages, villageID)
	if err != nil {
		return err
	}
	if err := requireOwner(ctx, v); err != nil {
		return err
	}

	err = withRetry(ctx, s.logger, "assign_traveler", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			now := s.clock.Now()
			rec, err := s.current(ctx, v.ID)
			if err != nil {
				return err
			}
			// Capacity may have grown since v was read.
			fresh, err := loadVillage(ctx, s.villages, v.ID)
			if err != nil {
				return err
			}
			counts, err := s.inhabitants.Counts(ctx, v.ID)
			if err != nil {
				return fmt.Errorf("failed to count inhabitants: %w", err)
			}
			population := 0
			for _, n := range counts {
				population += n
			}

			var visit *coretraveler.Visit
			if rec != nil {
				visit = toVisit(rec)
			}
			guardCtx := coretraveler.AssignContext{
				Visit:       visit,
				Now:         now,
				Inhabitants: population,
				Capacity:    fresh.Capacity,
			}
			if result := coretraveler.CanAssign(guardCtx); !result.Allowed {
				return result.Error()
			}

			ok, err := s.travelers.Claim(ctx, v.ID, now)
			if err != nil {
				return fmt.Errorf("failed to claim traveler: %w", err)
			}
			if !ok {
				return coretraveler.GuardResult{Code: coretraveler.CodeNoTraveler, Reason: "no traveler is available"}.Error()
			}
			if err := s.inhabitants.Add(ctx, v.ID, workerType, 1); err != nil {
				return fmt.Errorf("failed to add inhabitant: %w", err)
			}
			return s.events.Record(ctx, &secondary.EventRecord{
				VillageID: v.ID,
				Kind:      secondary.EventTravelerJoined,
				Detail:    fmt.Sprintf("a traveler settled as %s", workerType),
				At:        now,
			})
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("traveler assigned", "village", v.ID, "worker", workerType)
	return nil
}

// current returns the stored traveler or nil when there is none.
func (s *TravelerServiceImpl) current(ctx context.Context, villageID string) (*secondary.TravelerRecord, error) {
	rec, err := s.travelers.Get(ctx, villageID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get traveler: %w", err)
	}
	return rec, nil
}

func toVisit(r *secondary.TravelerRecord) *coretraveler.Visit {
	return &coretraveler.Visit{
		ArrivesAt:  r.ArrivesAt,
		DepartsAt:  r.DepartsAt,
		WelcomedAt: r.WelcomedAt,
		AssignedAt: r.AssignedAt,
	}
}

func toTraveler(r *secondary.TravelerRecord, now time.Time) *primary.Traveler {
	return &primary.Traveler{
		VillageID: r.VillageID,
		State:     coretraveler.StateAt(toVisit(r), now),
		ArrivesAt: r.ArrivesAt,
		DepartsAt: r.DepartsAt,
		Welcomed:  r.WelcomedAt != nil,
	}
}

// Ensure TravelerServiceImpl implements the interface
var _ primary.TravelerService = (*TravelerServiceImpl)(nil)
