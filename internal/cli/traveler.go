package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/wire"
)

// TravelerCmd returns the traveler command
func TravelerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traveler",
		Short: "Meet travelers who may join the village",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current traveler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := refreshVillage(ctx)
			if err != nil {
				return err
			}
			return wire.TravelerAdapter().Status(ctx, villageID, wire.Clock().Now())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "welcome",
		Short: "Welcome the traveler so they stay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := refreshVillage(ctx)
			if err != nil {
				return err
			}
			return wire.TravelerAdapter().Welcome(ctx, villageID)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "assign [worker-type]",
		Short: "Settle the welcomed traveler as a worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := refreshVillage(ctx)
			if err != nil {
				return err
			}
			return wire.TravelerAdapter().Assign(ctx, villageID, catalog.WorkerType(args[0]))
		},
	})

	return cmd
}
