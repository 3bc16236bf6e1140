package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/ports/primary"
)

// ResourceAdapter translates CLI operations to LedgerService calls.
type ResourceAdapter struct {
	ledger primary.LedgerService
	out    io.Writer
}

// NewResourceAdapter creates a new ResourceAdapter.
func NewResourceAdapter(ledger primary.LedgerService, out io.Writer) *ResourceAdapter {
	return &ResourceAdapter{
		ledger: ledger,
		out:    out,
	}
}

// Show prints the counters of a village.
func (a *ResourceAdapter) Show(ctx context.Context, villageID string) error {
	res, err := a.ledger.GetResources(ctx, villageID)
	if err != nil {
		return fmt.Errorf("failed to get resources: %w", err)
	}

	fmt.Fprintln(a.out)
	for _, kind := range catalog.ResourceKinds {
		fmt.Fprintf(a.out, "%-6s %s\n", kind, resourceColor(kind).Sprintf("%6d", res.Balance.Get(kind)))
	}
	fmt.Fprintf(a.out, "\nDaily upkeep: %.1f grain, %.1f meat\n", res.DailyGrain, res.DailyMeat)
	fmt.Fprintf(a.out, "Last fed:     %s\n\n", formatTime(res.LastConsumptionAt))
	return nil
}

// ConsumeAll applies daily consumption to every village.
func (a *ResourceAdapter) ConsumeAll(ctx context.Context) error {
	result, err := a.ledger.ApplyDailyConsumptionAll(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Consumption applied to %d of %d villages\n", okMark, result.Applied, result.Total)
	if result.Failed > 0 {
		fmt.Fprintln(a.out, warnColor.Sprintf("%d villages failed; see the log", result.Failed))
	}
	return nil
}
