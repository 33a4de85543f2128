package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"booking-sync/core/availability"
	"booking-sync/core/booking"

	"github.com/spf13/cobra"
)

var preloadAdjacent bool

// availabilityCmd prints the calendar grid of one month.
var availabilityCmd = &cobra.Command{
	Use:   "availability [YYYY-MM]",
	Short: "Print the availability grid of a month",
	Long: `Classifies every date of the month as open, direct_booked,
external_booked or admin_blocked. Defaults to the current month in the
configured time zone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		rt, err := loadRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		month := booking.Today(rt.loc).MonthOf()
		if len(args) == 1 {
			month, err = booking.ParseMonth(args[0])
			if err != nil {
				return err
			}
		}

		res, err := rt.calendar.GetAvailability(ctx, month, true)
		if err != nil {
			return fmt.Errorf("failed to build availability for %s: %w", month, err)
		}
		if preloadAdjacent {
			rt.calendar.PreloadAdjacentMonths(ctx, month)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "DATE\tSTATUS\tPLATFORM\n")
		for _, day := range res.Data {
			fmt.Fprintf(w, "%s\t%s\t%s\n", day.Date, day.Status, day.Platform)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		counts := availability.Counts(res.Data)
		fmt.Printf("\n%s: %d open, %d direct, %d external, %d blocked\n",
			month,
			counts[booking.DayOpen],
			counts[booking.DayDirectBooked],
			counts[booking.DayExternalBooked],
			counts[booking.DayAdminBlocked],
		)
		if res.Stale {
			fmt.Println("warning: served from stale data")
		}
		return nil
	},
}

func init() {
	availabilityCmd.Flags().BoolVar(&preloadAdjacent, "preload", false, "Also warm the previous and next month into the cache")
	RootCmd.AddCommand(availabilityCmd)
}
