package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/hamlet/internal/core/building"
	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/mission"
	"github.com/example/hamlet/internal/ports/primary"
)

type mockVillageService struct {
	overview *primary.VillageOverview
	events   []*primary.Event
	renamed  string
}

func (m *mockVillageService) CreateVillage(ctx context.Context, req primary.CreateVillageRequest) (*primary.Village, error) {
	return &primary.Village{ID: "VIL-001", OwnerID: req.OwnerID, Name: req.Name, X: 3, Y: 97}, nil
}

func (m *mockVillageService) GetVillage(ctx context.Context, villageID string) (*primary.Village, error) {
	return &primary.Village{ID: villageID}, nil
}

func (m *mockVillageService) GetVillageByOwner(ctx context.Context, ownerID string) (*primary.Village, error) {
	return &primary.Village{ID: "VIL-001", OwnerID: ownerID}, nil
}

func (m *mockVillageService) RenameVillage(ctx context.Context, villageID, name string) error {
	m.renamed = name
	return nil
}

func (m *mockVillageService) Overview(ctx context.Context, villageID string) (*primary.VillageOverview, error) {
	return m.overview, nil
}

func (m *mockVillageService) ListEvents(ctx context.Context, villageID string, limit int) ([]*primary.Event, error) {
	return m.events, nil
}

type mockSweepService struct {
	report *primary.SweepReport
}

func (m *mockSweepService) Refresh(ctx context.Context, villageID string) (*primary.SweepReport, error) {
	return m.report, nil
}

func TestVillageAdapter_Create(t *testing.T) {
	var out bytes.Buffer
	adapter := NewVillageAdapter(&mockVillageService{}, &mockSweepService{}, &out)

	v, err := adapter.Create(context.Background(), "alice", "Oakford")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if v.ID != "VIL-001" {
		t.Errorf("expected VIL-001, got %q", v.ID)
	}
	if !strings.Contains(out.String(), "Oakford at (3,97)") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestVillageAdapter_Show(t *testing.T) {
	mock := &mockVillageService{overview: &primary.VillageOverview{
		Village:    &primary.Village{ID: "VIL-001", Name: "Oakford", X: 3, Y: 97, Capacity: 7},
		Resources:  &primary.Resources{Balance: catalog.Bundle{Wood: 120, Grain: 40}, DailyGrain: 5.5, DailyMeat: 6.6},
		Population: 5,
		Inhabitants: []primary.Inhabitants{
			{WorkerType: catalog.Lumberjack, Count: 2, Busy: 1, Available: 1},
		},
		Missions: []*primary.Mission{{
			ID:         "MIS-001",
			WorkerType: catalog.Lumberjack,
			Status:     mission.Status{Phase: mission.PhaseTravelingTo, OverallProgress: 0.1, SecondsRemaining: 7200},
		}},
		Buildings: []*primary.Building{{
			ID:           "BLD-001",
			BuildingType: catalog.WoodenHut,
			Status:       building.Status{Progress: 0.25, SecondsRemaining: 20},
		}},
	}}
	var out bytes.Buffer
	adapter := NewVillageAdapter(mock, &mockSweepService{}, &out)

	if err := adapter.Show(context.Background(), "VIL-001"); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Oakford (VIL-001)",
		"Population: 5 / 7",
		"120 wood, 40 grain",
		"5.5 grain, 6.6 meat",
		"lumberjack",
		"traveling_to",
		"back in 2h00m",
		"wooden_hut",
		"done in 20s",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestVillageAdapter_EventsAndRename(t *testing.T) {
	mock := &mockVillageService{events: []*primary.Event{
		{Kind: "mission_completed", Detail: "lumberjack brought 10 wood", At: time.Now()},
	}}
	var out bytes.Buffer
	adapter := NewVillageAdapter(mock, &mockSweepService{}, &out)
	ctx := context.Background()

	if err := adapter.Events(ctx, "VIL-001", 10); err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if !strings.Contains(out.String(), "lumberjack brought 10 wood") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := adapter.Rename(ctx, "VIL-001", "Millbrook"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if mock.renamed != "Millbrook" {
		t.Errorf("expected rename to Millbrook, got %q", mock.renamed)
	}

	mock.events = nil
	out.Reset()
	if err := adapter.Events(ctx, "VIL-001", 10); err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if !strings.Contains(out.String(), "No events yet") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestVillageAdapter_Sweep(t *testing.T) {
	sweeper := &mockSweepService{report: &primary.SweepReport{
		Missions: &primary.MissionSweepResult{
			Completed: 2,
			Credited:  catalog.Bundle{Wood: 20},
			Restarted: []string{"MIS-003"},
			Dropped:   []string{"MIS-004"},
			Failed:    1,
		},
		Buildings:          &primary.BuildingSweepResult{Completed: 1, CapacityAdded: 1},
		ConsumptionApplied: true,
	}}
	var out bytes.Buffer
	adapter := NewVillageAdapter(&mockVillageService{}, sweeper, &out)

	if err := adapter.Sweep(context.Background(), "VIL-001"); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Missions completed: 2 (credited 20 wood)",
		"restarted loops: 1",
		"dropped loops: 1",
		"Buildings completed: 1 (+1 capacity)",
		"Daily consumption applied",
		"1 items were busy",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
