package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncJSON bool

// syncCmd runs one forced feed sync.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch all calendar feeds once",
	Long: `Fetches every configured calendar feed, replaces the stored external
bookings and prints a per-source report. Exits non-zero when any source fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		rt, err := loadRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		if len(rt.syncer.Feeds()) == 0 {
			return fmt.Errorf("no calendar feeds configured (set SYNC_AIRBNB_URL or SYNC_BOOKING_URL)")
		}

		rt.logger.Info("Starting feed sync", zap.Int("feeds", len(rt.syncer.Feeds())))
		report := rt.scheduler.RunNow(ctx)

		if syncJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			fmt.Print(report.String())
		}

		if !report.OK() {
			return fmt.Errorf("%s", report.Message())
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "Print the report as JSON")
	RootCmd.AddCommand(syncCmd)
}
