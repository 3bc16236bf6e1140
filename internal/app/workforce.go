package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/failure"
	"github.com/example/hamlet/internal/core/mission"
	"github.com/example/hamlet/internal/ctxutil"
	"github.com/example/hamlet/internal/ports/secondary"
)

// Workforce computes worker availability from live counts. Call it with
// the ctx of the transaction that reserves workers so the counts cannot go
// stale before the reservation is written.
type Workforce struct {
	inhabitants secondary.InhabitantRepository
	missions    secondary.MissionRepository
	buildings   secondary.BuildingRepository
}

// NewWorkforce creates a Workforce over the given repositories.
func NewWorkforce(
	inhabitants secondary.InhabitantRepository,
	missions secondary.MissionRepository,
	buildings secondary.BuildingRepository,
) *Workforce {
	return &Workforce{inhabitants: inhabitants, missions: missions, buildings: buildings}
}

// Snapshot is the workforce of a village at one read.
type Snapshot struct {
	Total map[catalog.WorkerType]int
	Busy  map[catalog.WorkerType]int
}

// Available returns total minus busy for one worker type.
func (s Snapshot) Available(t catalog.WorkerType) int {
	return s.Total[t] - s.Busy[t]
}

// AvailableAll returns availability for every worker type.
func (s Snapshot) AvailableAll() map[catalog.WorkerType]int {
	out := make(map[catalog.WorkerType]int, len(catalog.WorkerTypes))
	for _, t := range catalog.WorkerTypes {
		out[t] = s.Available(t)
	}
	return out
}

// Population is the total number of inhabitants.
func (s Snapshot) Population() int {
	n := 0
	for _, c := range s.Total {
		n += c
	}
	return n
}

// Load reads inhabitants, active missions and active constructions.
func (w *Workforce) Load(ctx context.Context, villageID string) (Snapshot, error) {
	total, err := w.inhabitants.Counts(ctx, villageID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to count inhabitants: %w", err)
	}
	onMission, err := w.missions.CountActiveByType(ctx, villageID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to count active missions: %w", err)
	}
	building, err := w.buildings.BusyWorkers(ctx, villageID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to count busy builders: %w", err)
	}

	busy := make(map[catalog.WorkerType]int, len(onMission)+len(building))
	for t, n := range onMission {
		busy[t] += n
	}
	for t, n := range building {
		busy[t] += n
	}
	return Snapshot{Total: total, Busy: busy}, nil
}

// loadVillage maps a missing village to a not-found failure.
func loadVillage(ctx context.Context, villages secondary.VillageRepository, villageID string) (*secondary.VillageRecord, error) {
	v, err := villages.GetByID(ctx, villageID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, failure.NotFoundf("village_not_found", "village %s not found", villageID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get village: %w", err)
	}
	return v, nil
}

// isOwner reports whether the actor in ctx may act on the village. An
// empty actor is a trusted caller such as the sweep command.
func isOwner(ctx context.Context, v *secondary.VillageRecord) bool {
	actor := ctxutil.PlayerFromContext(ctx)
	return actor == "" || actor == v.OwnerID
}

// requireOwner is isOwner as an error.
func requireOwner(ctx context.Context, v *secondary.VillageRecord) error {
	if !isOwner(ctx, v) {
		return failure.Validationf(mission.CodeNotOwner, "village %s does not belong to you", v.ID)
	}
	return nil
}
