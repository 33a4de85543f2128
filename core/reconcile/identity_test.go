package reconcile

import (
	"testing"

	"booking-sync/core/booking"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		stay booking.Stay
		want int
	}{
		{
			name: "named airbnb reservation",
			stay: booking.Stay{Channel: booking.ChannelAirbnb, Summary: "Reservation — Jane Doe", GuestName: "Jane Doe"},
			// guest name 100, reservation 50, length 20, platform 2
			want: 172,
		},
		{
			name: "booking.com not available",
			stay: booking.Stay{Channel: booking.ChannelBookingDotCom, Summary: "Not available", GuestName: "Booking.com Guest"},
			want: -100 + 1,
		},
		{
			name: "generic busy",
			stay: booking.Stay{Channel: booking.ChannelAirbnb, Summary: "Busy", GuestName: "Airbnb Guest"},
			want: -50 + 2,
		},
		{
			name: "reserved alone is generic",
			stay: booking.Stay{Channel: booking.ChannelBookingDotCom, Summary: "reserved", GuestName: "Guest"},
			want: -50 + 1,
		},
		{
			name: "confirmed booking",
			stay: booking.Stay{Channel: booking.ChannelBookingDotCom, Summary: "Booking confirmed", GuestName: ""},
			want: 30 + 40 + 1,
		},
		{
			name: "blocked beats keywords",
			stay: booking.Stay{Channel: booking.ChannelAirbnb, Summary: "Blocked", GuestName: "Unknown"},
			want: -100 + 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.stay))
		})
	}
}

func TestRank_TieBreaks(t *testing.T) {
	d := booking.NewDate(2025, 3, 1)

	t.Run("platform preference on otherwise equal summaries", func(t *testing.T) {
		ranked := Rank([]booking.Stay{
			{ID: "b", Channel: booking.ChannelBookingDotCom, Summary: "Closed", CheckIn: d, CheckOut: d.AddDays(2)},
			{ID: "a", Channel: booking.ChannelAirbnb, Summary: "Closed", CheckIn: d, CheckOut: d.AddDays(2)},
		})
		assert.Equal(t, "a", ranked[0].Stay.ID)
	})

	t.Run("earlier check-in then smaller id", func(t *testing.T) {
		ranked := Rank([]booking.Stay{
			{ID: "z", Channel: booking.ChannelAirbnb, Summary: "Closed", CheckIn: d.AddDays(1), CheckOut: d.AddDays(3)},
			{ID: "y", Channel: booking.ChannelAirbnb, Summary: "Closed", CheckIn: d, CheckOut: d.AddDays(2)},
			{ID: "x", Channel: booking.ChannelAirbnb, Summary: "Closed", CheckIn: d, CheckOut: d.AddDays(2)},
		})
		assert.Equal(t, []string{"x", "y", "z"}, []string{ranked[0].Stay.ID, ranked[1].Stay.ID, ranked[2].Stay.ID})
	})
}

func TestResolve(t *testing.T) {
	_, _, ok := Resolve(nil)
	assert.False(t, ok)

	d := booking.NewDate(2025, 3, 1)
	keep, discard, ok := Resolve([]booking.Stay{
		{ID: "1", Channel: booking.ChannelBookingDotCom, Summary: "Not available", CheckIn: d, CheckOut: d.AddDays(2)},
		{ID: "2", Channel: booking.ChannelAirbnb, Summary: "Reservation — Jane", GuestName: "Jane", CheckIn: d, CheckOut: d.AddDays(2)},
	})
	assert.True(t, ok)
	assert.Equal(t, "2", keep.ID)
	assert.Len(t, discard, 1)
	assert.Equal(t, "1", discard[0].Stay.ID)
}
