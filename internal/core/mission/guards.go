package mission

import (
	"fmt"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/failure"
	"github.com/example/hamlet/internal/core/world"
)

// Work duration bounds in seconds.
const (
	MinWorkSeconds = 60
	MaxWorkSeconds = 8 * 3600
)

// Failure codes returned by mission guards.
const (
	CodeNotMissionWorker = "not_mission_worker"
	CodeInvalidDuration  = "invalid_duration"
	CodeOutOfBounds      = "out_of_bounds"
	CodeWrongTerrain     = "wrong_terrain"
	CodeSameTile         = "same_tile"
	CodeUnreachable      = "unreachable"
	CodeNoWorker         = "no_worker_available"
	CodeNotOwner         = "not_owner"
	CodeAlreadyRecalled  = "already_recalled"
	CodeNotOutbound      = "not_outbound"
	CodeAlreadyCompleted = "already_completed"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    string
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as a validation failure if not allowed,
// nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return failure.Validation(r.Code, r.Reason)
}

func deny(code, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Code: code, Reason: fmt.Sprintf(format, args...)}
}

// CreateContext provides the pre-fetched facts for a dispatch request.
type CreateContext struct {
	WorkerType  catalog.WorkerType
	HasHarvest  bool          // worker type gathers anything at all
	Harvests    world.Feature // feature the worker type gathers on
	WorkSeconds int

	VillageX, VillageY int
	TargetX, TargetY   int
	TargetInBounds     bool
	TargetFeature      world.Feature

	Speed float64
}

// CanCreateMission evaluates everything about a dispatch except worker
// availability, which must be checked inside the reserving transaction.
// Checks run in a fixed order so the first failing rule is reported.
func CanCreateMission(ctx CreateContext) GuardResult {
	if !ctx.HasHarvest {
		return deny(CodeNotMissionWorker, "%s workers cannot go on gathering missions", ctx.WorkerType)
	}
	if ctx.WorkSeconds < MinWorkSeconds || ctx.WorkSeconds > MaxWorkSeconds {
		return deny(CodeInvalidDuration, "work duration must be between %d and %d seconds (got %d)",
			MinWorkSeconds, MaxWorkSeconds, ctx.WorkSeconds)
	}
	if !ctx.TargetInBounds {
		return deny(CodeOutOfBounds, "tile (%d,%d) is outside the map", ctx.TargetX, ctx.TargetY)
	}
	if ctx.TargetFeature != ctx.Harvests {
		return deny(CodeWrongTerrain, "%s workers gather on %s tiles, (%d,%d) is %s",
			ctx.WorkerType, ctx.Harvests, ctx.TargetX, ctx.TargetY, ctx.TargetFeature)
	}
	d := world.Distance(ctx.VillageX, ctx.VillageY, ctx.TargetX, ctx.TargetY)
	if d == 0 {
		return deny(CodeSameTile, "target tile is the village itself")
	}
	if _, err := world.TravelSeconds(d, ctx.Speed); err != nil {
		return deny(CodeUnreachable, "%s workers cannot reach (%d,%d)", ctx.WorkerType, ctx.TargetX, ctx.TargetY)
	}
	return GuardResult{Allowed: true}
}

// CanReserveWorker evaluates live availability of a worker type.
func CanReserveWorker(workerType catalog.WorkerType, available int) GuardResult {
	if available <= 0 {
		return deny(CodeNoWorker, "no %s is available", workerType)
	}
	return GuardResult{Allowed: true}
}

// RecallContext provides context for recall guards.
type RecallContext struct {
	MissionID string
	IsOwner   bool
	Recalled  bool
	Phase     Phase
}

// CanRecallMission evaluates whether a mission may be turned around.
// Rule: only the owner, only once, only during outbound travel.
func CanRecallMission(ctx RecallContext) GuardResult {
	if !ctx.IsOwner {
		return deny(CodeNotOwner, "mission %s does not belong to your village", ctx.MissionID)
	}
	if ctx.Recalled {
		return deny(CodeAlreadyRecalled, "mission %s was already recalled", ctx.MissionID)
	}
	if ctx.Phase != PhaseTravelingTo {
		return deny(CodeNotOutbound, "mission %s is %s and can no longer be recalled", ctx.MissionID, ctx.Phase)
	}
	return GuardResult{Allowed: true}
}

// LoopContext provides context for loop toggle guards.
type LoopContext struct {
	MissionID string
	IsOwner   bool
	Completed bool
}

// CanToggleLoop evaluates whether a mission's loop flag may change.
func CanToggleLoop(ctx LoopContext) GuardResult {
	if !ctx.IsOwner {
		return deny(CodeNotOwner, "mission %s does not belong to your village", ctx.MissionID)
	}
	if ctx.Completed {
		return deny(CodeAlreadyCompleted, "mission %s is already completed", ctx.MissionID)
	}
	return GuardResult{Allowed: true}
}
