package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/hamlet/internal/ports/primary"
)

// BuildingAdapter translates CLI operations to BuildingService calls.
type BuildingAdapter struct {
	service primary.BuildingService
	out     io.Writer
}

// NewBuildingAdapter creates a new BuildingAdapter.
func NewBuildingAdapter(service primary.BuildingService, out io.Writer) *BuildingAdapter {
	return &BuildingAdapter{
		service: service,
		out:     out,
	}
}

// Start begins a construction.
func (a *BuildingAdapter) Start(ctx context.Context, req primary.StartBuildingRequest) error {
	b, err := a.service.StartBuilding(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Started %s (%s) with %d builders, done in %s\n",
		okMark, b.BuildingType, b.ID, b.AssignedWorkers, formatSeconds(b.Status.SecondsRemaining))
	return nil
}

// List lists the constructions of a village, newest first.
func (a *BuildingAdapter) List(ctx context.Context, villageID string) error {
	buildings, err := a.service.ListBuildings(ctx, villageID)
	if err != nil {
		return fmt.Errorf("failed to list buildings: %w", err)
	}

	if len(buildings) == 0 {
		fmt.Fprintln(a.out, "Nothing built yet")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-12s %8s %5s %s\n", "ID", "TYPE", "BUILDERS", "DONE", "STATUS")
	fmt.Fprintln(a.out, rule)
	for _, b := range buildings {
		status := warnColor.Sprintf("%s left", formatSeconds(b.Status.SecondsRemaining))
		if b.Status.Done {
			status = okColor.Sprint("completed")
		}
		fmt.Fprintf(a.out, "%-38s %-12s %8d %5s %s\n",
			b.ID, b.BuildingType, b.AssignedWorkers, percent(b.Status.Progress), status)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Types prints the building catalog.
func (a *BuildingAdapter) Types(ctx context.Context) error {
	fmt.Fprintf(a.out, "\n%-12s %-14s %-22s %8s %s\n", "TYPE", "TITLE", "COST", "TIME", "CAPACITY")
	fmt.Fprintln(a.out, rule)
	for _, bt := range a.service.ListBuildingTypes(ctx) {
		fmt.Fprintf(a.out, "%-12s %-14s %-22s %8s +%d\n",
			bt.Type, bt.Title, formatBundle(bt.Cost), formatSeconds(bt.BuildSeconds), bt.CapacityBonus)
	}
	fmt.Fprintln(a.out)
	return nil
}
