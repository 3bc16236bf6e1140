package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/hamlet/internal/ports/primary"
)

// VillageAdapter translates CLI operations to VillageService and SweepService calls.
type VillageAdapter struct {
	villages primary.VillageService
	sweeper  primary.SweepService
	out      io.Writer
}

// NewVillageAdapter creates a new VillageAdapter.
func NewVillageAdapter(villages primary.VillageService, sweeper primary.SweepService, out io.Writer) *VillageAdapter {
	return &VillageAdapter{
		villages: villages,
		sweeper:  sweeper,
		out:      out,
	}
}

// Create founds the player's village, or reports the one they already have.
func (a *VillageAdapter) Create(ctx context.Context, ownerID, name string) (*primary.Village, error) {
	v, err := a.villages.CreateVillage(ctx, primary.CreateVillageRequest{OwnerID: ownerID, Name: name})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Village %s: %s at (%d,%d)\n", okMark, v.ID, v.Name, v.X, v.Y)
	return v, nil
}

// Show prints the refreshed overview of a village.
func (a *VillageAdapter) Show(ctx context.Context, villageID string) error {
	o, err := a.villages.Overview(ctx, villageID)
	if err != nil {
		return fmt.Errorf("failed to load village: %w", err)
	}

	v := o.Village
	fmt.Fprintf(a.out, "\nVillage:    %s (%s)\n", v.Name, v.ID)
	fmt.Fprintf(a.out, "Position:   (%d,%d)\n", v.X, v.Y)
	fmt.Fprintf(a.out, "Population: %d / %d\n", o.Population, v.Capacity)
	if o.Resources != nil {
		fmt.Fprintf(a.out, "Resources:  %s\n", formatBundle(o.Resources.Balance))
		fmt.Fprintf(a.out, "Eats daily: %.1f grain, %.1f meat\n", o.Resources.DailyGrain, o.Resources.DailyMeat)
	}

	fmt.Fprintf(a.out, "\n%-12s %5s %5s %5s\n", "WORKER", "TOTAL", "BUSY", "FREE")
	fmt.Fprintln(a.out, rule)
	for _, inh := range o.Inhabitants {
		fmt.Fprintf(a.out, "%-12s %5d %5d %5d\n", inh.WorkerType, inh.Count, inh.Busy, inh.Available)
	}

	if len(o.Missions) > 0 {
		fmt.Fprintf(a.out, "\nMissions:\n")
		for _, m := range o.Missions {
			fmt.Fprintf(a.out, "  %s %-10s %s %s, back in %s\n",
				m.ID, m.WorkerType, phaseLabel(m.Status.Phase), percent(m.Status.OverallProgress),
				formatSeconds(m.Status.SecondsRemaining))
		}
	}
	if len(o.Buildings) > 0 {
		fmt.Fprintf(a.out, "\nConstruction:\n")
		for _, b := range o.Buildings {
			fmt.Fprintf(a.out, "  %s %-12s %s, done in %s\n",
				b.ID, b.BuildingType, percent(b.Status.Progress), formatSeconds(b.Status.SecondsRemaining))
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// Rename renames a village.
func (a *VillageAdapter) Rename(ctx context.Context, villageID, name string) error {
	if err := a.villages.RenameVillage(ctx, villageID, name); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Village %s renamed\n", okMark, villageID)
	return nil
}

// Events prints the village journal, newest first.
func (a *VillageAdapter) Events(ctx context.Context, villageID string, limit int) error {
	events, err := a.villages.ListEvents(ctx, villageID, limit)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events yet")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-19s %-20s %s\n", "AT", "KIND", "DETAIL")
	fmt.Fprintln(a.out, rule)
	for _, e := range events {
		fmt.Fprintf(a.out, "%-19s %-20s %s\n", formatTime(e.At), e.Kind, e.Detail)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Sweep runs every pending transition of a village and reports what changed.
func (a *VillageAdapter) Sweep(ctx context.Context, villageID string) error {
	report, err := a.sweeper.Refresh(ctx, villageID)
	if err != nil {
		return err
	}

	m, b := report.Missions, report.Buildings
	fmt.Fprintf(a.out, "%s Missions completed: %d (credited %s)\n", okMark, m.Completed, formatBundle(m.Credited))
	if len(m.Restarted) > 0 {
		fmt.Fprintf(a.out, "  restarted loops: %d\n", len(m.Restarted))
	}
	if len(m.Dropped) > 0 {
		fmt.Fprintf(a.out, "  %s\n", warnColor.Sprintf("dropped loops: %d (no free worker)", len(m.Dropped)))
	}
	fmt.Fprintf(a.out, "%s Buildings completed: %d (+%d capacity)\n", okMark, b.Completed, b.CapacityAdded)
	if report.ConsumptionApplied {
		fmt.Fprintf(a.out, "%s Daily consumption applied\n", okMark)
	}
	if failed := m.Failed + b.Failed; failed > 0 {
		fmt.Fprintf(a.out, "%s\n", warnColor.Sprintf("%d items were busy and will be retried on the next sweep", failed))
	}
	return nil
}
