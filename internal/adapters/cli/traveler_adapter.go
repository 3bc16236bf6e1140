package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/traveler"
	"github.com/example/hamlet/internal/ports/primary"
)

// TravelerAdapter translates CLI operations to TravelerService calls.
type TravelerAdapter struct {
	service primary.TravelerService
	out     io.Writer
}

// NewTravelerAdapter creates a new TravelerAdapter.
func NewTravelerAdapter(service primary.TravelerService, out io.Writer) *TravelerAdapter {
	return &TravelerAdapter{
		service: service,
		out:     out,
	}
}

// Status prints the current visitor, scheduling one if none is on the way.
func (a *TravelerAdapter) Status(ctx context.Context, villageID string, now time.Time) error {
	tr, err := a.service.Resolve(ctx, villageID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Traveler: %s\n", stateLabel(tr.State))
	switch tr.State {
	case traveler.StateWaiting:
		fmt.Fprintf(a.out, "  arrives in %s\n", formatSeconds(secondsUntil(now, tr.ArrivesAt)))
	case traveler.StatePresent:
		fmt.Fprintf(a.out, "  leaves in %s\n", formatSeconds(secondsUntil(now, tr.DepartsAt)))
		if tr.Welcomed {
			fmt.Fprintln(a.out, "  welcomed; assign a job with 'hamlet traveler assign <worker-type>'")
		}
	}
	return nil
}

// Welcome takes in the present traveler.
func (a *TravelerAdapter) Welcome(ctx context.Context, villageID string) error {
	tr, err := a.service.Welcome(ctx, villageID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Traveler welcomed; they will stay until %s\n", okMark, formatTime(tr.DepartsAt))
	return nil
}

// Assign settles the welcomed traveler as a worker.
func (a *TravelerAdapter) Assign(ctx context.Context, villageID string, workerType catalog.WorkerType) error {
	if err := a.service.Assign(ctx, villageID, workerType); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s The traveler joined the village as a %s\n", okMark, workerType)
	return nil
}

func secondsUntil(now, t time.Time) int {
	if !t.After(now) {
		return 0
	}
	return int(t.Sub(now).Round(time.Second) / time.Second)
}
