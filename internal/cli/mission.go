package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/ports/primary"
	"github.com/example/hamlet/internal/wire"
)

// MissionCmd returns the mission command
func MissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Send workers out to gather resources",
	}

	cmd.AddCommand(missionSendCmd())
	cmd.AddCommand(missionListCmd())
	cmd.AddCommand(missionRecallCmd())
	cmd.AddCommand(missionLoopCmd())

	return cmd
}

func missionSendCmd() *cobra.Command {
	var work time.Duration
	var loop bool

	cmd := &cobra.Command{
		Use:   "send [worker-type] [x] [y]",
		Short: "Send a worker to a tile",
		Long: `Send one free worker to gather on a tile. The worker travels out,
works for --work, then travels back and delivers the yield.

Examples:
  hamlet mission send lumberjack 12 40
  hamlet mission send miner 60 3 --work 2h --loop`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			workerType, err := catalog.ParseWorkerType(args[0])
			if err != nil {
				return err
			}
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x coordinate %q", args[1])
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y coordinate %q", args[2])
			}

			ctx := NewContext()
			villageID, err := refreshVillage(ctx)
			if err != nil {
				return err
			}
			return wire.MissionAdapter().Send(ctx, primary.CreateMissionRequest{
				VillageID:   villageID,
				WorkerType:  workerType,
				TargetX:     x,
				TargetY:     y,
				WorkSeconds: int(work / time.Second),
				Loop:        loop,
			})
		},
	}

	cmd.Flags().DurationVar(&work, "work", time.Hour, "Time spent working at the target")
	cmd.Flags().BoolVar(&loop, "loop", false, "Send the worker out again after each return")
	return cmd
}

func missionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List missions underway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := refreshVillage(ctx)
			if err != nil {
				return err
			}
			return wire.MissionAdapter().List(ctx, villageID)
		},
	}
}

func missionRecallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recall [mission-id]",
		Short: "Turn an outbound mission around",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			if _, err := refreshVillage(ctx); err != nil {
				return err
			}
			return wire.MissionAdapter().Recall(ctx, args[0])
		},
	}
}

func missionLoopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loop [mission-id]",
		Short: "Toggle whether a mission restarts when it returns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			if _, err := refreshVillage(ctx); err != nil {
				return err
			}
			return wire.MissionAdapter().ToggleLoop(ctx, args[0])
		},
	}
}
