package primary

import "context"

// SweepService brings a village up to date. Every read of resources or
// inhabitants must go through Refresh first, otherwise it sees state from
// the last time someone looked.
type SweepService interface {
	Refresh(ctx context.Context, villageID string) (*SweepReport, error)
}

// SweepReport summarizes one refresh.
type SweepReport struct {
	Missions           *MissionSweepResult
	Buildings          *BuildingSweepResult
	ConsumptionApplied bool
}
