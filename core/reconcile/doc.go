// Package reconcile removes duplicate bookings across channels.
//
// The same physical stay can show up as many as three times: once from the
// reservation API and once per external calendar feed, because Airbnb and
// Booking.com mirror each other's blocks and also echo direct bookings. There
// is no shared key across sources, so identity is decided by date overlap plus
// a scoring heuristic.
//
// # Architecture
//
// The package consists of two components:
//
// 1. Identity resolver: scores a stay by how much it looks like a real booking
// rather than a mirrored block (guest name, summary keywords, block tokens),
// and ranks an overlap group with an explicit, total tie-break.
//
// 2. Engine: runs two passes over the unified stay set.
//   - Direct-conflict pass: every external stay overlapping an active Direct or
//     Website stay is dropped as an echo, whatever its score.
//   - Cross-platform pass: remaining external stays are grouped transitively by
//     overlap and only the top-ranked member of each group survives.
//
// Direct and Other-channel stays are never modified. Every dropped stay is
// recorded as an Action with a reason, and the result is idempotent: running
// the engine on its own output removes nothing further.
//
// # Caveats
//
// Scoring is best effort. Two genuinely different external stays that overlap
// will be collapsed into one, and equal scores resolve by platform preference
// (Airbnb over Booking.com), which can discard the real booking. Such drops
// carry Action.Ambiguous and are counted in PlanSummary.AmbiguousDrops.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(logger)
//	plan := engine.Deduplicate(append(direct, external...))
//	for _, a := range plan.Actions {
//	    log.Info("dropped", zap.String("id", a.Key), zap.String("reason", a.Reason))
//	}
//	stays := plan.Stays
package reconcile
