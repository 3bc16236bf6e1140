package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/hamlet/internal/wire"
)

// MapCmd returns the map command
func MapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Explore the world map",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "tile [x] [y]",
		Short: "Describe a tile as seen from your village",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid x coordinate %q", args[0])
			}
			y, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid y coordinate %q", args[1])
			}

			ctx := NewContext()
			villageID, err := currentVillage(ctx)
			if err != nil {
				return err
			}
			return wire.WorldAdapter().Tile(ctx, villageID, x, y)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show terrain counts of the world map",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			wire.WorldAdapter().Stats()
		},
	})

	return cmd
}
