package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"booking-sync/core/pricing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var balanceAll bool

// balanceCmd lists pending balances of direct reservations.
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Compare paid amounts with expected prices",
	Long: `Prices every reservation that carries room information and prints the
difference between the expected and the paid amount. Settled stays are hidden
unless --all is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		rt, err := loadRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.calendar.GetReservations(ctx, true)
		if err != nil {
			return fmt.Errorf("failed to fetch reservations: %w", err)
		}

		balances := rt.calc.ReconcileAll(res.Data)
		rt.logger.Info("Priced reservations",
			zap.Int("reservations", len(res.Data)),
			zap.Int("priced", len(balances)),
		)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "STAY\tNIGHTS\tEXPECTED\tPAID\tPENDING\tSTATUS\n")
		var owed float64
		for _, b := range balances {
			if b.Status == pricing.Settled && !balanceAll {
				continue
			}
			if b.Status == pricing.Underpaid {
				owed += b.Pending
			}
			fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%s\n", b.StayID, b.Nights, b.Expected, b.Paid, b.Pending, b.Status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nTotal outstanding: %.2f\n", owed)
		return nil
	},
}

func init() {
	balanceCmd.Flags().BoolVar(&balanceAll, "all", false, "Include settled stays")
	RootCmd.AddCommand(balanceCmd)
}
