package booking

import "strings"

// Channel identifies the origin of a booking.
type Channel string

const (
	ChannelDirect        Channel = "direct"
	ChannelWebsite       Channel = "website"
	ChannelAirbnb        Channel = "airbnb"
	ChannelBookingDotCom Channel = "booking_com"
	// ChannelUnknown covers sources the engine does not recognize.
	ChannelUnknown Channel = "unknown"
)

// ChannelClass groups channels for conflict resolution.
type ChannelClass int

const (
	ClassOther ChannelClass = iota
	ClassDirect
	ClassExternal
)

// Class returns the conflict-resolution class of c.
func (c Channel) Class() ChannelClass {
	switch c {
	case ChannelDirect, ChannelWebsite:
		return ClassDirect
	case ChannelAirbnb, ChannelBookingDotCom:
		return ClassExternal
	default:
		return ClassOther
	}
}

// IsExternal reports whether c is a calendar-feed platform.
func (c Channel) IsExternal() bool { return c.Class() == ClassExternal }

// DisplayName returns the human readable platform name.
func (c Channel) DisplayName() string {
	switch c {
	case ChannelDirect:
		return "Direct"
	case ChannelWebsite:
		return "Website"
	case ChannelAirbnb:
		return "Airbnb"
	case ChannelBookingDotCom:
		return "Booking.com"
	default:
		return "Unknown"
	}
}

// ParseChannel maps free-form channel names (as used by the reservation API
// and configuration) to a Channel. Unrecognized values map to ChannelUnknown.
func ParseChannel(s string) Channel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct":
		return ChannelDirect
	case "website", "web":
		return ChannelWebsite
	case "airbnb":
		return ChannelAirbnb
	case "booking_com", "booking.com", "bookingcom", "booking":
		return ChannelBookingDotCom
	default:
		return ChannelUnknown
	}
}

// PlaceholderGuestName returns the display label used for stays synthesized
// from a feed that carries no guest name.
func PlaceholderGuestName(c Channel) string {
	return c.DisplayName() + " Guest"
}
