package mission

import (
	"testing"
	"time"
)

var departed = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

// scenarioPlan is a lumberjack walking 10 tiles at 2 tiles/h to work 1 hour.
func scenarioPlan() Plan {
	return Plan{
		DepartedAt:    departed,
		TravelSeconds: 18000,
		WorkSeconds:   3600,
		GatherRate:    10,
		MaxCapacity:   30,
	}
}

func at(seconds int) time.Time {
	return departed.Add(time.Duration(seconds) * time.Second)
}

func TestComputeStatus_Scenario(t *testing.T) {
	p := scenarioPlan()

	tests := []struct {
		name          string
		now           time.Time
		wantPhase     Phase
		wantProgress  float64
		wantRemaining int
		wantRecall    bool
	}{
		{"at departure", at(0), PhaseTravelingTo, 0, 39600, true},
		{"halfway out", at(9000), PhaseTravelingTo, 0.5, 30600, true},
		{"arrival", at(18000), PhaseWorking, 0, 21600, false},
		{"half worked", at(19800), PhaseWorking, 0.5, 19800, false},
		{"work done", at(21600), PhaseTravelingBack, 0, 18000, false},
		{"one second out", at(39599), PhaseTravelingBack, 17999.0 / 18000.0, 1, false},
		{"home", at(39600), PhaseCompleted, 1, 0, false},
		{"long after", at(100000), PhaseCompleted, 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeStatus(p, tt.now)
			if s.Phase != tt.wantPhase {
				t.Errorf("Phase = %s, want %s", s.Phase, tt.wantPhase)
			}
			if s.PhaseProgress != tt.wantProgress {
				t.Errorf("PhaseProgress = %v, want %v", s.PhaseProgress, tt.wantProgress)
			}
			if s.SecondsRemaining != tt.wantRemaining {
				t.Errorf("SecondsRemaining = %d, want %d", s.SecondsRemaining, tt.wantRemaining)
			}
			if s.CanRecall != tt.wantRecall {
				t.Errorf("CanRecall = %v, want %v", s.CanRecall, tt.wantRecall)
			}
			if s.ProjectedYield != 10 {
				t.Errorf("ProjectedYield = %d, want 10", s.ProjectedYield)
			}
		})
	}
}

func TestComputeStatus_OverallProgress(t *testing.T) {
	p := scenarioPlan()
	if got := ComputeStatus(p, at(19800)).OverallProgress; got != 0.5 {
		t.Errorf("OverallProgress at midpoint = %v, want 0.5", got)
	}
	if got := ComputeStatus(p, at(-60)).OverallProgress; got != 0 {
		t.Errorf("OverallProgress before departure = %v, want 0", got)
	}
	if got := ComputeStatus(p, at(50000)).OverallProgress; got != 1 {
		t.Errorf("OverallProgress after return = %v, want 1", got)
	}
}

func TestComputeStatus_PhaseMonotonic(t *testing.T) {
	recalledAt := at(4000)
	recalled := scenarioPlan()
	recalled.RecalledAt = &recalledAt

	for name, p := range map[string]Plan{"normal": scenarioPlan(), "recalled": recalled} {
		t.Run(name, func(t *testing.T) {
			last := PhaseTravelingTo
			for s := 0; s <= 45000; s += 37 {
				phase := ComputeStatus(p, at(s)).Phase
				if phase < last {
					t.Fatalf("phase went from %s back to %s at +%ds", last, phase, s)
				}
				if name == "recalled" && phase == PhaseWorking {
					t.Fatalf("recalled mission entered working at +%ds", s)
				}
				last = phase
			}
			if last != PhaseCompleted {
				t.Errorf("final phase = %s, want completed", last)
			}
		})
	}
}

func TestComputeStatus_Recall(t *testing.T) {
	recalledAt := at(1000)
	p := scenarioPlan()
	p.RecalledAt = &recalledAt

	s := ComputeStatus(p, at(1500))
	if s.Phase != PhaseTravelingBack {
		t.Errorf("Phase = %s, want traveling_back", s.Phase)
	}
	if s.PhaseProgress != 0.5 {
		t.Errorf("PhaseProgress = %v, want 0.5", s.PhaseProgress)
	}
	if s.CanRecall {
		t.Error("CanRecall should be false once recalled")
	}
	if s.SecondsRemaining != 500 {
		t.Errorf("SecondsRemaining = %d, want 500", s.SecondsRemaining)
	}

	// The return leg mirrors the outbound time walked.
	if got := ComputeStatus(p, at(2000)).Phase; got != PhaseCompleted {
		t.Errorf("Phase at +2000 = %s, want completed", got)
	}

	for _, sec := range []int{1000, 1999, 2000, 40000} {
		if y := ComputeStatus(p, at(sec)).ProjectedYield; y != 0 {
			t.Errorf("ProjectedYield at +%d = %d, want 0", sec, y)
		}
	}
}

func TestComputeStatus_RecallDuringTravelToStillTraveling(t *testing.T) {
	// Before the recall instant the status is still outbound; a caller
	// evaluating an earlier now must see traveling_to without recall.
	recalledAt := at(1000)
	p := scenarioPlan()
	p.RecalledAt = &recalledAt

	s := ComputeStatus(p, at(500))
	if s.Phase != PhaseTravelingTo {
		t.Errorf("Phase = %s, want traveling_to", s.Phase)
	}
	if s.CanRecall {
		t.Error("CanRecall should be false for a recalled plan")
	}
}

func TestProjectedYield(t *testing.T) {
	tests := []struct {
		name    string
		work    int
		rate    float64
		cap     int
		density float64
		want    int
	}{
		{"one hour", 3600, 10, 30, 0, 10},
		{"floors", 1800, 7, 30, 0, 3},
		{"capped", 8 * 3600, 10, 30, 0, 30},
		{"dense plains", 3600, 8, 25, 1.5, 12},
		{"sparse plains", 3600, 8, 25, 0.3, 2},
		{"dense plains capped", 4 * 3600, 8, 25, 1.5, 25},
		{"no rate", 3600, 0, 30, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Plan{WorkSeconds: tt.work, GatherRate: tt.rate, MaxCapacity: tt.cap, Density: tt.density}
			got := ProjectedYield(p)
			if got != tt.want {
				t.Errorf("ProjectedYield() = %d, want %d", got, tt.want)
			}
			if got > tt.cap {
				t.Errorf("ProjectedYield() = %d exceeds cap %d", got, tt.cap)
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	want := map[Phase]string{
		PhaseTravelingTo:   "traveling_to",
		PhaseWorking:       "working",
		PhaseTravelingBack: "traveling_back",
		PhaseCompleted:     "completed",
		Phase(42):          "unknown",
	}
	for p, s := range want {
		if p.String() != s {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), p.String(), s)
		}
	}
}
