// Package mission contains the pure business logic for missions.
// This is part of the Functional Core - no I/O, only pure functions.
package mission

import (
	"math"
	"time"
)

// Phase is a mission lifecycle state. Phases only ever move forward.
type Phase int

const (
	PhaseTravelingTo Phase = iota
	PhaseWorking
	PhaseTravelingBack
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseTravelingTo:
		return "traveling_to"
	case PhaseWorking:
		return "working"
	case PhaseTravelingBack:
		return "traveling_back"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Plan is the stored schedule of a mission plus the worker stats needed to
// project its yield.
type Plan struct {
	DepartedAt    time.Time
	TravelSeconds int // one way
	WorkSeconds   int
	RecalledAt    *time.Time

	GatherRate  float64 // units per working hour
	MaxCapacity int
	// Density scales the gather rate. Zero is treated as 1.
	Density float64
}

// Status is the derived state of a mission at one instant.
type Status struct {
	Phase            Phase
	PhaseProgress    float64 // [0,1] within the current phase
	OverallProgress  float64 // [0,1] from departure to arrival home
	SecondsRemaining int     // until arrival home
	ProjectedYield   int
	CanRecall        bool
	ArrivesHomeAt    time.Time
}

// Done reports whether the mission has returned home.
func (s Status) Done() bool {
	return s.Phase == PhaseCompleted
}

// ProjectedYield is min(floor(workSeconds/3600 * rate * density), cap).
// A recalled mission never yields.
func ProjectedYield(p Plan) int {
	if p.RecalledAt != nil || p.WorkSeconds <= 0 || p.GatherRate <= 0 {
		return 0
	}
	density := p.Density
	if density <= 0 {
		density = 1
	}
	y := int(math.Floor(float64(p.WorkSeconds) * p.GatherRate * density / 3600))
	if y > p.MaxCapacity {
		y = p.MaxCapacity
	}
	if y < 0 {
		y = 0
	}
	return y
}

// ComputeStatus evaluates a mission at now. It is both the live countdown
// source and the completion oracle: a mission is complete exactly when
// ComputeStatus(p, now).Phase == PhaseCompleted.
func ComputeStatus(p Plan, now time.Time) Status {
	travel := time.Duration(p.TravelSeconds) * time.Second
	work := time.Duration(p.WorkSeconds) * time.Second

	// Boundaries of each phase. A recalled mission turns around at the
	// recall instant and walks back for as long as it walked out.
	outEnd := p.DepartedAt.Add(travel)
	workEnd := outEnd.Add(work)
	home := workEnd.Add(travel)
	if p.RecalledAt != nil {
		walked := p.RecalledAt.Sub(p.DepartedAt)
		if walked < 0 {
			walked = 0
		}
		if walked > travel {
			walked = travel
		}
		outEnd = p.DepartedAt.Add(walked)
		workEnd = outEnd
		home = outEnd.Add(walked)
	}

	s := Status{
		ProjectedYield: ProjectedYield(p),
		ArrivesHomeAt:  home,
	}

	switch {
	case now.Before(outEnd):
		s.Phase = PhaseTravelingTo
		s.PhaseProgress = fraction(now.Sub(p.DepartedAt), outEnd.Sub(p.DepartedAt))
		s.CanRecall = p.RecalledAt == nil
	case now.Before(workEnd):
		s.Phase = PhaseWorking
		s.PhaseProgress = fraction(now.Sub(outEnd), work)
	case now.Before(home):
		s.Phase = PhaseTravelingBack
		s.PhaseProgress = fraction(now.Sub(workEnd), home.Sub(workEnd))
	default:
		s.Phase = PhaseCompleted
		s.PhaseProgress = 1
	}

	if total := home.Sub(p.DepartedAt); total > 0 {
		s.OverallProgress = fraction(now.Sub(p.DepartedAt), total)
	} else {
		s.OverallProgress = 1
	}
	if rem := home.Sub(now); rem > 0 {
		s.SecondsRemaining = int(math.Ceil(rem.Seconds()))
	}
	return s
}

func fraction(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 1
	}
	f := float64(part) / float64(whole)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
