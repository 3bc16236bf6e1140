package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/hamlet/internal/wire"
)

// VillageCmd returns the village command
func VillageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "village",
		Short: "Found and inspect your village",
	}

	cmd.AddCommand(villageCreateCmd())
	cmd.AddCommand(villageShowCmd())
	cmd.AddCommand(villageRenameCmd())

	return cmd
}

func villageCreateCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Found a village on a free border tile",
		Long: `Found a village for the player. A player owns at most one village;
running create again returns the existing one.

Examples:
  hamlet village create --player alice "Oakford"
  hamlet village create`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == "" {
				playerID = globalPlayerID
			}
			if strings.TrimSpace(playerID) == "" {
				return fmt.Errorf("--player is required the first time")
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			globalPlayerID = playerID
			v, err := wire.VillageAdapter().Create(NewContext(), playerID, name)
			if err != nil {
				return err
			}
			return saveIdentity(playerID, v.ID)
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Player ID to found the village for")
	return cmd
}

func villageShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the village after applying every pending transition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := currentVillage(ctx)
			if err != nil {
				return err
			}
			return wire.VillageAdapter().Show(ctx, villageID)
		},
	}
}

func villageRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [name]",
		Short: "Rename your village",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := refreshVillage(ctx)
			if err != nil {
				return err
			}
			return wire.VillageAdapter().Rename(ctx, villageID, args[0])
		},
	}
}

// EventsCmd returns the events command
func EventsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show what happened in your village while you were away",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := refreshVillage(ctx)
			if err != nil {
				return err
			}
			return wire.VillageAdapter().Events(ctx, villageID, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events to show")
	return cmd
}

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Complete due missions and buildings and apply consumption",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := currentVillage(ctx)
			if err != nil {
				return err
			}
			return wire.VillageAdapter().Sweep(ctx, villageID)
		},
	}
}
