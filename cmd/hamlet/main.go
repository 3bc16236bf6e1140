package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/hamlet/internal/cli"
	"github.com/example/hamlet/internal/db"
	"github.com/example/hamlet/internal/version"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "hamlet",
		Short:   "hamlet - a village that keeps working while you are away",
		Version: version.String(),
		Long: `hamlet is a slow-paced village game. Send workers to gather wood,
stone and food, raise buildings and take in travelers. Everything runs in
real time and completes the next time you look.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			cli.LoadIdentity()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Game commands
	rootCmd.AddCommand(cli.VillageCmd())
	rootCmd.AddCommand(cli.MissionCmd())
	rootCmd.AddCommand(cli.BuildCmd())
	rootCmd.AddCommand(cli.ResourcesCmd())
	rootCmd.AddCommand(cli.MapCmd())
	rootCmd.AddCommand(cli.TravelerCmd())
	rootCmd.AddCommand(cli.EventsCmd())
	rootCmd.AddCommand(cli.SweepCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DevCmd())

	err := rootCmd.Execute()
	db.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.DescribeError(err))
		os.Exit(1)
	}
}
