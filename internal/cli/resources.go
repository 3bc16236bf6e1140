package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/hamlet/internal/wire"
)

// ResourcesCmd returns the resources command
func ResourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Inspect the village stores",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show resource counters after applying every pending transition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			villageID, err := refreshVillage(ctx)
			if err != nil {
				return err
			}
			return wire.ResourceAdapter().Show(ctx, villageID)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "consume-all",
		Short: "Apply daily consumption to every village",
		Long: `Apply daily consumption to every village. Safe to run from cron:
a village is charged at most once per UTC midnight.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ResourceAdapter().ConsumeAll(NewContext())
		},
	})

	return cmd
}
