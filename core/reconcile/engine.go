package reconcile

import (
	"fmt"
	"sort"

	"booking-sync/core/booking"

	"go.uber.org/zap"
)

// Engine runs the conflict and dedup passes.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an engine. A nil logger disables action logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Deduplicate reconciles a unified stay set. Direct and Other stays pass
// through untouched; external stays are filtered by the direct-conflict and
// cross-platform passes. The input slice is not modified.
func (e *Engine) Deduplicate(stays []booking.Stay) *Plan {
	plan := &Plan{
		Stays:   make([]booking.Stay, 0, len(stays)),
		Actions: []Action{},
	}
	plan.Summary.TotalStays = len(stays)

	// 1. Partition by channel class
	var direct, external, other []booking.Stay
	for _, s := range stays {
		switch s.Channel.Class() {
		case booking.ClassDirect:
			direct = append(direct, s)
		case booking.ClassExternal:
			external = append(external, s)
		default:
			other = append(other, s)
		}
	}
	plan.Summary.DirectStays = len(direct)
	plan.Summary.ExternalStays = len(external)
	plan.Summary.OtherStays = len(other)

	// 2. Direct-conflict pass
	remaining := e.dropEchoes(plan, direct, e.dropInvalid(plan, external))

	// 3. Cross-platform pass
	survivors := e.dropDuplicates(plan, remaining)

	// 4. Union
	plan.Stays = append(plan.Stays, booking.CloneStays(direct)...)
	plan.Stays = append(plan.Stays, survivors...)
	plan.Stays = append(plan.Stays, booking.CloneStays(other)...)
	sortStays(plan.Stays)

	plan.Summary.Survivors = len(plan.Stays)

	for _, a := range plan.Actions {
		e.logger.Debug("Dropped stay",
			zap.String("type", string(a.Type)),
			zap.String("key", a.Key),
			zap.String("kept", a.KeptID),
			zap.String("reason", a.Reason))
	}

	return plan
}

// Deduplicate runs a silent engine over stays and returns the reconciled set.
func Deduplicate(stays []booking.Stay) []booking.Stay {
	return NewEngine(nil).Deduplicate(stays).Stays
}

func (e *Engine) dropInvalid(plan *Plan, external []booking.Stay) []booking.Stay {
	valid := make([]booking.Stay, 0, len(external))
	for _, s := range external {
		if s.Valid() {
			valid = append(valid, s)
			continue
		}
		plan.Summary.InvalidDropped++
		plan.Actions = append(plan.Actions, Action{
			Type:    ActionDropInvalid,
			Key:     s.ID,
			Channel: s.Channel,
			Reason:  fmt.Sprintf("check-out %s is not after check-in %s", s.CheckOut, s.CheckIn),
		})
	}
	return valid
}

// dropEchoes removes every external stay overlapping an active direct stay.
// Cancelled direct stays no longer hold their dates and are ignored.
func (e *Engine) dropEchoes(plan *Plan, direct, external []booking.Stay) []booking.Stay {
	owner := make(map[booking.Date]string)
	for _, d := range direct {
		if d.Status.IsCancelled() || !d.Valid() {
			continue
		}
		d.EachNight(func(night booking.Date) {
			if _, taken := owner[night]; !taken {
				owner[night] = d.ID
			}
		})
	}
	if len(owner) == 0 {
		return external
	}

	kept := make([]booking.Stay, 0, len(external))
	for _, s := range external {
		directID := ""
		s.EachNight(func(night booking.Date) {
			if id, ok := owner[night]; ok && directID == "" {
				directID = id
			}
		})
		if directID == "" {
			kept = append(kept, s)
			continue
		}
		plan.Summary.EchoesDropped++
		plan.Actions = append(plan.Actions, Action{
			Type:    ActionDropEcho,
			Key:     s.ID,
			Channel: s.Channel,
			KeptID:  directID,
			Reason:  fmt.Sprintf("%s block %s..%s echoes direct booking %s", s.Channel.DisplayName(), s.CheckIn, s.CheckOut, directID),
		})
	}
	return kept
}

// dropDuplicates keeps the top-ranked stay of each transitive overlap group.
func (e *Engine) dropDuplicates(plan *Plan, external []booking.Stay) []booking.Stay {
	groups := GroupOverlapping(external)
	survivors := make([]booking.Stay, 0, len(groups))

	for _, group := range groups {
		keep, discarded, ok := Resolve(group)
		if !ok {
			continue
		}
		survivors = append(survivors, keep)
		if len(discarded) == 0 {
			continue
		}

		plan.Summary.OverlapGroups++
		keepScore := Score(keep)
		for _, d := range discarded {
			// Equal evidence with only the platform bonus deciding: the kept
			// stay may not be the real booking.
			ambiguous := d.Stay.Channel != keep.Channel && ContentScore(d.Stay) == ContentScore(keep)

			plan.Summary.DuplicatesDropped++
			if ambiguous {
				plan.Summary.AmbiguousDrops++
				e.logger.Warn("Duplicate resolved by platform preference only",
					zap.String("kept", keep.ID),
					zap.String("dropped", d.Stay.ID),
					zap.Int("score", ContentScore(keep)))
			}
			plan.Actions = append(plan.Actions, Action{
				Type:      ActionDropDuplicate,
				Key:       d.Stay.ID,
				Channel:   d.Stay.Channel,
				KeptID:    keep.ID,
				Ambiguous: ambiguous,
				Reason: fmt.Sprintf("%s %q (score %d) duplicates %s %q (score %d)",
					d.Stay.Channel.DisplayName(), d.Stay.Summary, d.Score,
					keep.Channel.DisplayName(), keep.Summary, keepScore),
			})
		}
	}

	return booking.CloneStays(survivors)
}

// GroupOverlapping partitions stays into transitive overlap groups: two stays
// share a group when a chain of pairwise overlaps connects them. Groups are
// returned in check-in order.
func GroupOverlapping(stays []booking.Stay) [][]booking.Stay {
	if len(stays) == 0 {
		return nil
	}

	sorted := booking.CloneStays(stays)
	sortStays(sorted)

	var groups [][]booking.Stay
	current := []booking.Stay{sorted[0]}
	groupEnd := sorted[0].CheckOut

	for _, s := range sorted[1:] {
		// Sorted by check-in, so s joins the group iff it starts before the
		// furthest check-out seen so far.
		if s.CheckIn.Before(groupEnd) {
			current = append(current, s)
			if s.CheckOut.After(groupEnd) {
				groupEnd = s.CheckOut
			}
			continue
		}
		groups = append(groups, current)
		current = []booking.Stay{s}
		groupEnd = s.CheckOut
	}

	return append(groups, current)
}

func sortStays(stays []booking.Stay) {
	sort.SliceStable(stays, func(i, j int) bool {
		if !stays[i].CheckIn.Equal(stays[j].CheckIn) {
			return stays[i].CheckIn.Before(stays[j].CheckIn)
		}
		return stays[i].ID < stays[j].ID
	})
}
