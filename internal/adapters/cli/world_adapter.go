package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/hamlet/internal/core/world"
	"github.com/example/hamlet/internal/ports/primary"
)

// WorldAdapter translates CLI operations to WorldService calls.
type WorldAdapter struct {
	service primary.WorldService
	out     io.Writer
}

// NewWorldAdapter creates a new WorldAdapter.
func NewWorldAdapter(service primary.WorldService, out io.Writer) *WorldAdapter {
	return &WorldAdapter{
		service: service,
		out:     out,
	}
}

// Tile describes a tile as seen from a village.
func (a *WorldAdapter) Tile(ctx context.Context, villageID string, x, y int) error {
	info, err := a.service.DescribeTile(ctx, villageID, x, y)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nTile (%d,%d): %s, %d tiles away\n", x, y, info.Tile.Feature, info.Distance)
	if len(info.Harvesters) == 0 {
		fmt.Fprintln(a.out, dimColor.Sprint("Nothing to gather here"))
		fmt.Fprintln(a.out)
		return nil
	}

	fmt.Fprintf(a.out, "%-10s %-8s %10s %8s\n", "WORKER", "GATHERS", "TRAVEL", "DENSITY")
	for _, h := range info.Harvesters {
		fmt.Fprintf(a.out, "%-10s %-8s %10s %8.2f\n", h.WorkerType, h.Resource, formatSeconds(h.TravelSeconds), h.Density)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Stats prints the feature counts of the world map.
func (a *WorldAdapter) Stats() {
	m := a.service.GenerateWorldMap()
	counts := m.Counts()

	fmt.Fprintf(a.out, "\nWorld %dx%d (seed %d)\n", world.Size, world.Size, m.Seed())
	for _, f := range []world.Feature{world.FeatureNone, world.FeatureForest, world.FeatureMountain} {
		fmt.Fprintf(a.out, "  %-9s %5d\n", f, counts[f])
	}
	fmt.Fprintln(a.out)
}
