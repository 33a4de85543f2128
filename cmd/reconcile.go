package cmd

import (
	"context"
	"fmt"
	"os"

	"booking-sync/core/reconcile"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	reconcileLimit int
	reconcileJSON  bool
)

// reconcileCmd runs the dedup engine over freshly fetched stays.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Deduplicate direct and external stays and report the plan",
	Long: `Fetches reservations from the booking API and external stays from the
store, runs the echo and cross-platform passes, and reports what was dropped.

Nothing is written: the engine is a pure function of its input.

Examples:
  # Summary with the first 5 dropped stays
  reconcile

  # Show every action
  reconcile --limit 0

  # Machine readable output
  reconcile --json`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().IntVar(&reconcileLimit, "limit", 5, "Number of sample actions to print (0 prints all)")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "Print the combined result as JSON")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.logger.Info("Planning reconciliation...")
	combined, err := rt.calendar.GetAllReservations(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to reconcile stays: %w", err)
	}

	if reconcileJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(combined)
	}

	printReconcileReport(rt.logger, combined.Summary, combined.Actions, reconcileLimit)
	if combined.Stale {
		rt.logger.Warn("Some sources were served from stale cache")
	}
	return nil
}

// printReconcileReport prints a formatted dedup report using logger.
func printReconcileReport(l *zap.Logger, s reconcile.PlanSummary, actions []reconcile.Action, limit int) {
	l.Info("Reconciliation report",
		zap.Int("total_stays", s.TotalStays),
		zap.Int("direct_stays", s.DirectStays),
		zap.Int("external_stays", s.ExternalStays),
		zap.Int("other_stays", s.OtherStays),
		zap.Int("overlap_groups", s.OverlapGroups),
		zap.Int("survivors", s.Survivors),
	)

	if len(actions) == 0 {
		l.Info("No stays dropped")
		return
	}

	l.Info("Dropped stays",
		zap.Int("echoes", s.EchoesDropped),
		zap.Int("duplicates", s.DuplicatesDropped),
		zap.Int("invalid", s.InvalidDropped),
		zap.Int("ambiguous", s.AmbiguousDrops),
		zap.Int("total_actions", len(actions)),
	)

	maxShow := len(actions)
	if limit > 0 && limit < maxShow {
		maxShow = limit
	}
	for _, action := range actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("channel", string(action.Channel)),
			zap.String("kept_id", action.KeptID),
			zap.Bool("ambiguous", action.Ambiguous),
			zap.String("reason", action.Reason),
		)
	}
	if len(actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(actions)-maxShow))
	}
}
