// Package building contains the pure construction rules.
// This is part of the Functional Core - no I/O, only pure functions.
package building

import (
	"fmt"
	"math"
	"time"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/failure"
)

// EffectiveSeconds is the build time once split across assigned builders.
func EffectiveSeconds(buildSeconds, assignedWorkers int) int {
	if assignedWorkers < 1 {
		assignedWorkers = 1
	}
	return int(math.Ceil(float64(buildSeconds) / float64(assignedWorkers)))
}

// Status is the derived state of a construction at one instant.
type Status struct {
	Done             bool
	Progress         float64
	SecondsRemaining int
	CompletesAt      time.Time
}

// ComputeStatus evaluates a construction at now.
func ComputeStatus(startedAt time.Time, buildSeconds, assignedWorkers int, now time.Time) Status {
	total := time.Duration(EffectiveSeconds(buildSeconds, assignedWorkers)) * time.Second
	end := startedAt.Add(total)
	s := Status{CompletesAt: end}
	if !now.Before(end) {
		s.Done = true
		s.Progress = 1
		return s
	}
	if elapsed := now.Sub(startedAt); elapsed > 0 && total > 0 {
		s.Progress = float64(elapsed) / float64(total)
	}
	s.SecondsRemaining = int(math.Ceil(end.Sub(now).Seconds()))
	return s
}

const (
	CodeUnknownBuilding = "unknown_building"
	CodeAlreadyBuilding = "already_building"
	CodeInvalidWorkers  = "invalid_workers"
	CodeNoBuilder       = "no_builder_available"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    string
	Reason  string
}

// Error converts the guard result to a validation failure if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return failure.Validation(r.Code, r.Reason)
}

// StartContext provides the facts for starting a construction. Counts are
// read inside the reserving transaction.
type StartContext struct {
	BuildingType      catalog.BuildingType
	Known             bool
	ActiveOfType      int
	AssignedWorkers   int
	AvailableBuilders int
}

// CanStartBuilding evaluates a construction request.
// Rule: one active construction per type, and every assigned builder must
// be free.
func CanStartBuilding(ctx StartContext) GuardResult {
	if !ctx.Known {
		return GuardResult{Code: CodeUnknownBuilding, Reason: fmt.Sprintf("unknown building type %q", ctx.BuildingType)}
	}
	if ctx.ActiveOfType > 0 {
		return GuardResult{Code: CodeAlreadyBuilding, Reason: fmt.Sprintf("a %s is already under construction", ctx.BuildingType)}
	}
	if ctx.AssignedWorkers < 1 {
		return GuardResult{Code: CodeInvalidWorkers, Reason: "at least one builder must be assigned"}
	}
	if ctx.AssignedWorkers > ctx.AvailableBuilders {
		return GuardResult{
			Code:   CodeNoBuilder,
			Reason: fmt.Sprintf("%d builder(s) requested but only %d available", ctx.AssignedWorkers, max(ctx.AvailableBuilders, 0)),
		}
	}
	return GuardResult{Allowed: true}
}
