package booking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStay_HalfOpenInterval(t *testing.T) {
	stay := Stay{CheckIn: NewDate(2025, 1, 10), CheckOut: NewDate(2025, 1, 12)}

	assert.True(t, stay.Occupies(NewDate(2025, 1, 10)))
	assert.True(t, stay.Occupies(NewDate(2025, 1, 11)))
	assert.False(t, stay.Occupies(NewDate(2025, 1, 12)))
	assert.False(t, stay.Occupies(NewDate(2025, 1, 9)))
	assert.Equal(t, 2, stay.Nights())

	var nights []string
	stay.EachNight(func(d Date) { nights = append(nights, d.String()) })
	assert.Equal(t, []string{"2025-01-10", "2025-01-11"}, nights)
}

func TestStay_Overlaps(t *testing.T) {
	base := Stay{CheckIn: NewDate(2025, 3, 1), CheckOut: NewDate(2025, 3, 5)}

	tests := []struct {
		name     string
		in, out  Date
		expected bool
	}{
		{"Identical", NewDate(2025, 3, 1), NewDate(2025, 3, 5), true},
		{"PartialStart", NewDate(2025, 2, 27), NewDate(2025, 3, 2), true},
		{"PartialEnd", NewDate(2025, 3, 4), NewDate(2025, 3, 9), true},
		{"Contained", NewDate(2025, 3, 2), NewDate(2025, 3, 3), true},
		{"TouchingAfter", NewDate(2025, 3, 5), NewDate(2025, 3, 7), false},
		{"TouchingBefore", NewDate(2025, 2, 25), NewDate(2025, 3, 1), false},
		{"Disjoint", NewDate(2025, 4, 1), NewDate(2025, 4, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := Stay{CheckIn: tt.in, CheckOut: tt.out}
			assert.Equal(t, tt.expected, base.Overlaps(other))
			assert.Equal(t, tt.expected, other.Overlaps(base))
		})
	}
}

func TestStay_Valid(t *testing.T) {
	assert.False(t, Stay{}.Valid())
	assert.False(t, Stay{CheckIn: NewDate(2025, 1, 2), CheckOut: NewDate(2025, 1, 2)}.Valid())
	assert.False(t, Stay{CheckIn: NewDate(2025, 1, 3), CheckOut: NewDate(2025, 1, 2)}.Valid())
	assert.Equal(t, 0, Stay{CheckIn: NewDate(2025, 1, 3), CheckOut: NewDate(2025, 1, 2)}.Nights())
}

func TestDateOf_ConvertsZone(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*60*60+30*60)
	utcEvening := time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-07-01", DateOf(utcEvening, kolkata).String())
	assert.Equal(t, "2025-06-30", DateOf(utcEvening, time.UTC).String())
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2026, 2, 28)
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-02-28"`, string(raw))

	var decoded Date
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.Equal(d))

	assert.Error(t, json.Unmarshal([]byte(`"28/02/2026"`), &decoded))
}

func TestMonth_Navigation(t *testing.T) {
	m, err := ParseMonth("2025-12")
	require.NoError(t, err)

	assert.Equal(t, "2026-01", m.Next().String())
	assert.Equal(t, "2025-11", m.Prev().String())
	assert.Equal(t, 31, m.Days())
	assert.Equal(t, 28, Month{Year: 2026, Month: time.February}.Days())
	assert.Equal(t, 29, Month{Year: 2028, Month: time.February}.Days())
	assert.True(t, m.Contains(NewDate(2025, 12, 31)))
	assert.False(t, m.Contains(NewDate(2026, 1, 1)))
	assert.Equal(t, "2026-01", Month{Year: 2026, Month: time.January}.Prev().Next().String())

	_, err = ParseMonth("2025-13")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestChannel_Class(t *testing.T) {
	assert.Equal(t, ClassDirect, ChannelDirect.Class())
	assert.Equal(t, ClassDirect, ChannelWebsite.Class())
	assert.Equal(t, ClassExternal, ChannelAirbnb.Class())
	assert.Equal(t, ClassExternal, ChannelBookingDotCom.Class())
	assert.Equal(t, ClassOther, ChannelUnknown.Class())
	assert.Equal(t, ChannelBookingDotCom, ParseChannel("Booking.com"))
	assert.Equal(t, ChannelUnknown, ParseChannel("vrbo"))
}

func TestAvailabilityMark_IsAdminBlock(t *testing.T) {
	assert.True(t, AvailabilityMark{Status: MarkClosed}.IsAdminBlock())
	assert.True(t, AvailabilityMark{Status: MarkBooked, Source: AdminSource}.IsAdminBlock())
	assert.False(t, AvailabilityMark{Status: MarkBooked, Source: "airbnb"}.IsAdminBlock())
	assert.False(t, AvailabilityMark{Status: MarkOpen, Source: AdminSource}.IsAdminBlock())
}

func TestStayStatus_OccupiesCalendar(t *testing.T) {
	occupying := []StayStatus{StatusApproved, StatusCheckedOut, StatusCompleted}
	for _, s := range occupying {
		assert.True(t, s.OccupiesCalendar(), string(s))
	}
	free := []StayStatus{StatusPending, StatusCancelled, StatusAdminCancelled, StatusBlocked}
	for _, s := range free {
		assert.False(t, s.OccupiesCalendar(), string(s))
	}
}

func TestCloneStays_DoesNotShareRooms(t *testing.T) {
	in := []Stay{{ID: "1", Room: &RoomRef{ID: "r1", Type: RoomAC, Count: 1}}}
	out := CloneStays(in)
	out[0].Room.Count = 3

	assert.Equal(t, 1, in[0].Room.Count)
	assert.Nil(t, CloneStays(nil))
}
