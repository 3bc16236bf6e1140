package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/hamlet/internal/ports/primary"
)

// MissionAdapter is a thin adapter that translates CLI operations to MissionService calls.
// It depends only on the MissionService interface, enabling easy testing with mocks.
type MissionAdapter struct {
	service primary.MissionService
	out     io.Writer
}

// NewMissionAdapter creates a new MissionAdapter with the given service.
func NewMissionAdapter(service primary.MissionService, out io.Writer) *MissionAdapter {
	return &MissionAdapter{
		service: service,
		out:     out,
	}
}

// Send dispatches a worker to a tile.
func (a *MissionAdapter) Send(ctx context.Context, req primary.CreateMissionRequest) error {
	resp, err := a.service.CreateMission(ctx, req)
	if err != nil {
		return err
	}

	m := resp.Mission
	fmt.Fprintf(a.out, "%s Sent %s to (%d,%d) as mission %s\n", okMark, m.WorkerType, m.TargetX, m.TargetY, resp.MissionID)
	fmt.Fprintf(a.out, "  travel %s each way, work %s, expected %d %s\n",
		formatSeconds(m.TravelSeconds), formatSeconds(m.WorkSeconds), m.Status.ProjectedYield, m.Resource)
	if m.Loop {
		fmt.Fprintln(a.out, "  loop: on")
	}
	return nil
}

// List lists the uncompleted missions of a village.
func (a *MissionAdapter) List(ctx context.Context, villageID string) error {
	missions, err := a.service.ListActiveMissions(ctx, villageID)
	if err != nil {
		return fmt.Errorf("failed to list missions: %w", err)
	}

	if len(missions) == 0 {
		fmt.Fprintln(a.out, "No missions underway")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-10s %-9s %-16s %5s %8s %s\n", "ID", "WORKER", "TARGET", "PHASE", "DONE", "LEFT", "YIELD")
	fmt.Fprintln(a.out, rule)
	for _, m := range missions {
		loop := ""
		if m.Loop {
			loop = dimColor.Sprint(" (loop)")
		}
		fmt.Fprintf(a.out, "%-38s %-10s %-9s %-16s %5s %8s %d %s%s\n",
			m.ID, m.WorkerType, fmt.Sprintf("(%d,%d)", m.TargetX, m.TargetY),
			m.Status.Phase, percent(m.Status.OverallProgress), formatSeconds(m.Status.SecondsRemaining),
			m.Status.ProjectedYield, m.Resource, loop)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Recall turns an outbound mission around.
func (a *MissionAdapter) Recall(ctx context.Context, missionID string) error {
	if err := a.service.RecallMission(ctx, missionID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Mission %s recalled\n", okMark, missionID)
	return nil
}

// ToggleLoop flips the loop flag of a mission.
func (a *MissionAdapter) ToggleLoop(ctx context.Context, missionID string) error {
	loop, err := a.service.ToggleMissionLoop(ctx, missionID)
	if err != nil {
		return err
	}

	state := "off"
	if loop {
		state = "on"
	}
	fmt.Fprintf(a.out, "%s Mission %s loop: %s\n", okMark, missionID, state)
	return nil
}
