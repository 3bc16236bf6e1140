package mission

import "github.com/example/hamlet/internal/core/catalog"

// RestartCandidate is a just-completed looping mission, listed in the
// order the sweep completed it.
type RestartCandidate struct {
	MissionID  string
	WorkerType catalog.WorkerType
}

// RestartPlan splits candidates into the ones that get a successor and
// the ones that lost the race for a free worker.
type RestartPlan struct {
	Restart []RestartCandidate
	Dropped []RestartCandidate
}

// PlanRestarts allocates at most available[T] successors per worker type,
// first-come first-served in candidate order. All data is pre-fetched by
// the caller inside the transaction that creates the successors.
func PlanRestarts(candidates []RestartCandidate, available map[catalog.WorkerType]int) RestartPlan {
	left := make(map[catalog.WorkerType]int, len(available))
	for t, n := range available {
		left[t] = n
	}

	var plan RestartPlan
	for _, c := range candidates {
		if left[c.WorkerType] > 0 {
			left[c.WorkerType]--
			plan.Restart = append(plan.Restart, c)
			continue
		}
		plan.Dropped = append(plan.Dropped, c)
	}
	return plan
}
