package reconcile

import "booking-sync/core/booking"

// Dropped returns the action that removed the stay with the given ID.
func (p *Plan) Dropped(id string) (Action, bool) {
	for _, a := range p.Actions {
		if a.Key == id {
			return a, true
		}
	}
	return Action{}, false
}

// Count returns the number of actions of the given type.
func (p *Plan) Count(t ActionType) int {
	n := 0
	for _, a := range p.Actions {
		if a.Type == t {
			n++
		}
	}
	return n
}

// Apply removes the stays named by the plan's actions from stays and returns
// the remainder in the original order. Stays unknown to the plan are kept.
func (p *Plan) Apply(stays []booking.Stay) []booking.Stay {
	drop := make(map[string]struct{}, len(p.Actions))
	for _, a := range p.Actions {
		drop[a.Key] = struct{}{}
	}

	kept := make([]booking.Stay, 0, len(stays))
	for _, s := range stays {
		if _, ok := drop[s.ID]; ok {
			continue
		}
		kept = append(kept, s)
	}
	return booking.CloneStays(kept)
}
