package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"github.com/example/hamlet/internal/core/failure"
)

func TestCommandTree(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		subs []string
	}{
		{VillageCmd(), []string{"create", "show", "rename"}},
		{MissionCmd(), []string{"send", "list", "recall", "loop"}},
		{BuildCmd(), []string{"start", "list", "types"}},
		{ResourcesCmd(), []string{"show", "consume-all"}},
		{MapCmd(), []string{"tile", "stats"}},
		{TravelerCmd(), []string{"status", "welcome", "assign"}},
		{DevCmd(), []string{"seed"}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			for _, name := range tt.subs {
				sub, _, err := tt.cmd.Find([]string{name})
				if err != nil || sub.Name() != name {
					t.Errorf("missing subcommand %s %s", tt.cmd.Name(), name)
				}
			}
		})
	}
}

func TestMissionSendRejectsBadCoordinates(t *testing.T) {
	cmd := MissionCmd()
	cmd.SetArgs([]string{"send", "lumberjack", "x", "3"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil || err.Error() != `invalid x coordinate "x"` {
		t.Errorf("expected coordinate error, got %v", err)
	}
}

func TestDescribeError(t *testing.T) {
	err := fmt.Errorf("failed to send: %w", failure.Validation("no_worker_available", "no lumberjack available"))
	if got := DescribeError(err).Error(); got != "no_worker_available: no lumberjack available" {
		t.Errorf("unexpected message %q", got)
	}

	plain := errors.New("disk full")
	if DescribeError(plain) != plain {
		t.Error("expected plain errors to pass through")
	}
}
