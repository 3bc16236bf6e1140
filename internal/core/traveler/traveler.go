// Package traveler contains the visitor lifecycle: a traveler is on the
// road, then stays at the village for a while. A welcomed traveler stays
// a full day and can be taken in as a new inhabitant.
package traveler

import (
	"fmt"
	"time"

	"github.com/example/hamlet/internal/core/failure"
)

const (
	MinArrivalDelay = 5 * time.Minute
	MaxArrivalDelay = 15 * time.Minute
	MinStay         = 10 * time.Minute
	MaxStay         = 30 * time.Minute
	// WelcomeStay is how long a welcomed traveler waits to be assigned.
	WelcomeStay = 24 * time.Hour
)

// State of a visit at one instant.
type State int

const (
	StateNone State = iota // no visit, or the visit is over
	StateWaiting
	StatePresent
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StatePresent:
		return "present"
	default:
		return "none"
	}
}

// Visit is one traveler's schedule.
type Visit struct {
	ArrivesAt  time.Time
	DepartsAt  time.Time
	WelcomedAt *time.Time
	AssignedAt *time.Time
}

// StateAt evaluates a visit. An assigned or departed traveler is over.
func StateAt(v *Visit, now time.Time) State {
	if v == nil || v.AssignedAt != nil || !now.Before(v.DepartsAt) {
		return StateNone
	}
	if now.Before(v.ArrivesAt) {
		return StateWaiting
	}
	return StatePresent
}

// Schedule returns a fresh visit. Delays are clamped into their ranges.
func Schedule(now time.Time, arrivalDelay, stay time.Duration) Visit {
	arrivalDelay = clamp(arrivalDelay, MinArrivalDelay, MaxArrivalDelay)
	stay = clamp(stay, MinStay, MaxStay)
	arrives := now.Add(arrivalDelay)
	return Visit{ArrivesAt: arrives, DepartsAt: arrives.Add(stay)}
}

func clamp(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

const (
	CodeNoTraveler      = "no_traveler"
	CodeNotArrived      = "not_arrived"
	CodeAlreadyWelcomed = "already_welcomed"
	CodeNotWelcomed     = "not_welcomed"
	CodeVillageFull     = "village_full"
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

// CanWelcome evaluates welcoming the current traveler.
func CanWelcome(v *Visit, now time.Time) GuardResult {
	switch StateAt(v, now) {
	case StateNone:
		return GuardResult{Code: CodeNoTraveler, Reason: "no traveler is at the village"}
	case StateWaiting:
		return GuardResult{Code: CodeNotArrived, Reason: fmt.Sprintf("the traveler arrives at %s", v.ArrivesAt.UTC().Format(time.Kitchen))}
	}
	if v.WelcomedAt != nil {
		return GuardResult{Code: CodeAlreadyWelcomed, Reason: "the traveler was already welcomed"}
	}
	return GuardResult{Allowed: true}
}

// AssignContext provides context for taking a traveler in.
type AssignContext struct {
	Visit       *Visit
	Now         time.Time
	Inhabitants int
	Capacity    int
}

// CanAssign evaluates taking the traveler in as an inhabitant.
// Rule: welcomed, still present, and the village has room.
func CanAssign(ctx AssignContext) GuardResult {
	if StateAt(ctx.Visit, ctx.Now) != StatePresent {
		return GuardResult{Code: CodeNoTraveler, Reason: "no traveler is available"}
	}
	if ctx.Visit.WelcomedAt == nil {
		return GuardResult{Code: CodeNotWelcomed, Reason: "welcome the traveler first"}
	}
	if ctx.Inhabitants >= ctx.Capacity {
		return GuardResult{
			Code:   CodeVillageFull,
			Reason: fmt.Sprintf("the village is full (%d/%d), build to raise its capacity", ctx.Inhabitants, ctx.Capacity),
		}
	}
	return GuardResult{Allowed: true}
}
