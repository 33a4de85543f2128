package feed

import (
	"strings"
	"unicode/utf8"

	"booking-sync/core/booking"

	"github.com/google/uuid"
)

// stayNamespace seeds the name-based UUIDs of synthesized stays so the same
// feed event always maps to the same stay ID across syncs.
var stayNamespace = uuid.MustParse("6f1c2a4e-8d3b-4f7a-9c55-2b1e0d9a7c31")

// leadTokens prefix summaries that name the guest, e.g. "Reservation — Jane Doe".
var leadTokens = []string{"reservation", "reserved", "booking", "booked", "confirmed"}

const nameSeparators = " \t—–-:|"

// SyntheticID returns the stable stay ID for a feed event.
func SyntheticID(platform booking.Channel, uid string) string {
	return uuid.NewSHA1(stayNamespace, []byte(string(platform)+":"+uid)).String()
}

// Synthesize converts feed events into transient Stay records. The result is
// meant to replace the previous synthesis for the platform wholesale.
func Synthesize(events []booking.FeedEvent) []booking.Stay {
	stays := make([]booking.Stay, 0, len(events))
	for _, ev := range events {
		stays = append(stays, booking.Stay{
			ID:        SyntheticID(ev.Platform, ev.UID),
			Status:    booking.StatusBlocked,
			CheckIn:   ev.Start,
			CheckOut:  ev.End,
			GuestName: GuestNameFromSummary(ev.Summary, ev.Platform),
			Channel:   ev.Platform,
			Summary:   ev.Summary,
			SourceUID: ev.UID,
		})
	}
	return stays
}

// GuestNameFromSummary extracts a guest name from summaries shaped like
// "Reservation — Jane Doe" or "Booking: John". Otherwise it returns the
// platform placeholder label.
func GuestNameFromSummary(summary string, platform booking.Channel) string {
	summary = strings.TrimSpace(summary)

	for _, token := range leadTokens {
		if len(summary) <= len(token) || !strings.EqualFold(summary[:len(token)], token) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(summary[len(token):])
		if !strings.ContainsRune(nameSeparators, next) {
			continue
		}
		rest := strings.TrimLeft(summary[len(token):], nameSeparators)
		// "Reserved (HMABC123)" carries a code, not a name.
		if rest == "" || strings.HasPrefix(rest, "(") {
			break
		}
		if paren := strings.Index(rest, "("); paren > 0 {
			rest = strings.TrimSpace(rest[:paren])
		}
		return rest
	}

	return booking.PlaceholderGuestName(platform)
}
