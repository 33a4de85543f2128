package reconcile

import (
	"sort"
	"strings"

	"booking-sync/core/booking"
)

// Score weights. Block tokens dominate keyword rewards so a "Not available"
// mirror never outranks a summary that names a guest.
const (
	penaltyBlockToken   = -100
	penaltyGenericToken = -50
	rewardGuestName     = 100
	rewardReservation   = 50
	rewardConfirmed     = 40
	rewardBooking       = 30
	rewardLongSummary   = 20
	longSummaryLength   = 20
)

var (
	blockTokens      = []string{"not available", "blocked", "unavailable"}
	genericSummaries = map[string]struct{}{"busy": {}, "reserved": {}}
	genericGuests    = map[string]struct{}{"guest": {}, "unknown": {}, "": {}}
)

// platformBonus breaks otherwise exact ties. Airbnb summaries carry more
// detail in practice, so it is slightly favored.
var platformBonus = map[booking.Channel]int{
	booking.ChannelAirbnb:        2,
	booking.ChannelBookingDotCom: 1,
}

// Overlapping reports whether a and b are candidates for being the same
// physical booking: identical or partially overlapping date ranges.
func Overlapping(a, b booking.Stay) bool {
	return a.Overlaps(b)
}

// Score rates how strongly s looks like a real booking rather than a mirrored
// block. Higher is more real.
func Score(s booking.Stay) int {
	score := 0
	summary := strings.ToLower(strings.TrimSpace(s.Summary))

	if containsAny(summary, blockTokens) {
		score += penaltyBlockToken
	} else if _, generic := genericSummaries[summary]; generic {
		score += penaltyGenericToken
	}

	if hasRealGuestName(s) {
		score += rewardGuestName
	}

	if strings.Contains(summary, "reservation") {
		score += rewardReservation
	}
	if strings.Contains(summary, "booking") {
		score += rewardBooking
	}
	if strings.Contains(summary, "confirmed") {
		score += rewardConfirmed
	}
	if len([]rune(summary)) > longSummaryLength {
		score += rewardLongSummary
	}

	return score + platformBonus[s.Channel]
}

// ContentScore is Score without the platform tie-break bonus.
func ContentScore(s booking.Stay) int {
	return Score(s) - platformBonus[s.Channel]
}

// Rank scores stays and orders them best first. Ties on score resolve by
// platform preference (already part of the score), then earlier check-in,
// then lexically smaller ID, so the order is total and deterministic.
func Rank(stays []booking.Stay) []Scored {
	ranked := make([]Scored, len(stays))
	for i, s := range stays {
		ranked[i] = Scored{Stay: s, Score: Score(s)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Stay.CheckIn.Equal(b.Stay.CheckIn) {
			return a.Stay.CheckIn.Before(b.Stay.CheckIn)
		}
		return a.Stay.ID < b.Stay.ID
	})

	return ranked
}

// Resolve picks the single stay kept from an overlap group and returns the
// rest as discarded. An empty group returns the zero Stay and ok=false.
func Resolve(group []booking.Stay) (keep booking.Stay, discard []Scored, ok bool) {
	if len(group) == 0 {
		return booking.Stay{}, nil, false
	}
	ranked := Rank(group)
	return ranked[0].Stay, ranked[1:], true
}

// hasRealGuestName reports whether the stay names an actual guest rather
// than a placeholder such as "Guest" or a synthesized "Airbnb Guest" label.
func hasRealGuestName(s booking.Stay) bool {
	name := strings.ToLower(strings.TrimSpace(s.GuestName))
	if _, generic := genericGuests[name]; generic {
		return false
	}

	for _, c := range []booking.Channel{booking.ChannelAirbnb, booking.ChannelBookingDotCom, booking.ChannelDirect, booking.ChannelWebsite} {
		if name == strings.ToLower(c.DisplayName()) || name == strings.ToLower(booking.PlaceholderGuestName(c)) {
			return false
		}
	}

	return true
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
