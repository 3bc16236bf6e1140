package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hamlet/internal/db"
	"github.com/example/hamlet/internal/wire"
)

// DevCmd returns the dev command
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Developer tools",
		Hidden: true,
	}

	cmd.AddCommand(devSeedCmd())
	return cmd
}

func devSeedCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a stocked demo village",
		Long: `Create a demo village with inhabitants and starting resources for a
player, or restock the one they already have.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == "" {
				playerID = globalPlayerID
			}
			if playerID == "" {
				return fmt.Errorf("--player is required")
			}

			villageID, err := db.SeedFixtures(wire.DB(), playerID, wire.Catalog().DefaultCapacity, wire.Clock().Now())
			if err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}
			if err := saveIdentity(playerID, villageID); err != nil {
				return err
			}
			fmt.Printf("✓ Seeded village %s for %s\n", villageID, playerID)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Player ID to seed a village for")
	return cmd
}
