package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/ports/primary"
	"github.com/example/hamlet/internal/wire"
)

// BuildCmd returns the build command
func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Construct buildings that raise village capacity",
	}

	cmd.AddCommand(buildStartCmd())
	cmd.AddCommand(buildListCmd())
	cmd.AddCommand(buildTypesCmd())

	return cmd
}

func buildStartCmd() *cobra.Command {
	var builders int

	cmd := &cobra.Command{
		Use:   "start [building-type]",
		Short: "Start a construction",
		Long: `Start a construction, paying its cost up front. More builders
finish sooner.

Examples:
  hamlet build start wooden_hut
  hamlet build start stone_house --builders 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := refreshVillage(ctx)
			if err != nil {
				return err
			}
			return wire.BuildingAdapter().Start(ctx, primary.StartBuildingRequest{
				VillageID:       villageID,
				BuildingType:    catalog.BuildingType(args[0]),
				AssignedWorkers: builders,
			})
		},
	}

	cmd.Flags().IntVarP(&builders, "builders", "b", 1, "Number of builders to assign")
	return cmd
}

func buildListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List constructions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := refreshVillage(ctx)
			if err != nil {
				return err
			}
			return wire.BuildingAdapter().List(ctx, villageID)
		},
	}
}

func buildTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List what can be built",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.BuildingAdapter().Types(NewContext())
		},
	}
}
