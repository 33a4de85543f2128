package cmd

import (
	"fmt"
	"os"

	"booking-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X booking-sync/cmd.version=...".
var version = "dev"

// configDir is the directory holding the optional .env file.
var configDir string

// RootCmd is the booking-sync command. Subcommands share the runtime built by
// loadRuntime.
var RootCmd = &cobra.Command{
	Use:   "booking-sync",
	Short: "Booking Reconciliation & Availability Service",
	Long: `booking-sync merges direct reservations with Airbnb and Booking.com
calendar feeds into one deduplicated calendar and serves availability.

Configuration comes from the environment (SECTION_KEY, e.g. SYNC_AIRBNB_URL)
and from a .env file in --config-dir.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing the .env file")
}

// Execute runs the root command and exits 1 on failure.
func Execute() {
	err := RootCmd.Execute()
	if err == nil {
		return
	}

	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	l.Error("Command failed", zap.String("command", commandName()), zap.Error(err))
	_ = l.Sync()
	os.Exit(1)
}

// commandName returns the subcommand named on the command line, if any.
func commandName() string {
	cmd, _, err := RootCmd.Find(os.Args[1:])
	if err != nil || cmd == nil {
		return RootCmd.Name()
	}
	return cmd.Name()
}
