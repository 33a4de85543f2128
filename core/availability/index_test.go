package availability

import (
	"testing"

	"booking-sync/core/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jan(d int) booking.Date {
	return booking.NewDate(2025, 1, d)
}

func TestClassify_Priority(t *testing.T) {
	stays := []booking.Stay{
		{ID: "d1", Channel: booking.ChannelDirect, Status: booking.StatusApproved, CheckIn: jan(10), CheckOut: jan(12)},
		{ID: "e1", Channel: booking.ChannelBookingDotCom, CheckIn: jan(11), CheckOut: jan(14)},
		{ID: "e2", Channel: booking.ChannelAirbnb, CheckIn: jan(13), CheckOut: jan(14)},
		{ID: "p1", Channel: booking.ChannelWebsite, Status: booking.StatusPending, CheckIn: jan(20), CheckOut: jan(22)},
	}
	marks := []booking.AvailabilityMark{
		{Date: jan(10), Status: booking.MarkClosed, Source: booking.AdminSource},
		{Date: jan(20), Status: booking.MarkBooked, Source: "sync"},
		{Date: jan(25), Status: booking.MarkBooked, Source: booking.AdminSource},
		{Date: jan(26), Status: booking.MarkOpen, Source: booking.AdminSource},
	}
	idx := NewIndex(stays, marks)

	tests := []struct {
		name     string
		date     booking.Date
		status   booking.DayStatus
		platform booking.Channel
	}{
		{"admin block beats direct", jan(10), booking.DayAdminBlocked, ""},
		{"direct beats external", jan(11), booking.DayDirectBooked, ""},
		{"check-out day is free of direct", jan(12), booking.DayExternalBooked, booking.ChannelBookingDotCom},
		{"airbnb preferred when both platforms", jan(13), booking.DayExternalBooked, booking.ChannelAirbnb},
		{"external check-out is open", jan(14), booking.DayOpen, ""},
		{"pending direct does not book", jan(21), booking.DayOpen, ""},
		{"booked mark from non-admin source ignored", jan(20), booking.DayOpen, ""},
		{"admin booked mark blocks", jan(25), booking.DayAdminBlocked, ""},
		{"open mark does not block", jan(26), booking.DayOpen, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := idx.Classify(tt.date)
			assert.Equal(t, tt.status, day.Status)
			assert.Equal(t, tt.platform, day.Platform)
			assert.True(t, tt.date.Equal(day.Date))
		})
	}
}

func TestClassify_HalfOpenInterval(t *testing.T) {
	stays := []booking.Stay{
		{ID: "d1", Channel: booking.ChannelDirect, Status: booking.StatusApproved, CheckIn: jan(10), CheckOut: jan(12)},
	}

	assert.Equal(t, booking.DayOpen, Classify(jan(9), stays, nil).Status)
	assert.Equal(t, booking.DayDirectBooked, Classify(jan(10), stays, nil).Status)
	assert.Equal(t, booking.DayDirectBooked, Classify(jan(11), stays, nil).Status)
	assert.Equal(t, booking.DayOpen, Classify(jan(12), stays, nil).Status)
}

func TestMonth(t *testing.T) {
	stays := []booking.Stay{
		{ID: "d1", Channel: booking.ChannelDirect, Status: booking.StatusCompleted, CheckIn: booking.NewDate(2025, 1, 30), CheckOut: booking.NewDate(2025, 2, 2)},
		{ID: "x", Channel: booking.ChannelUnknown, CheckIn: booking.NewDate(2025, 2, 5), CheckOut: booking.NewDate(2025, 2, 6)},
	}
	idx := NewIndex(stays, nil)

	grid := idx.Month(booking.Month{Year: 2025, Month: 2})
	require.Len(t, grid, 28)
	assert.Equal(t, "2025-02-01", grid[0].Date.String())
	assert.Equal(t, "2025-02-28", grid[27].Date.String())
	assert.Equal(t, booking.DayDirectBooked, grid[0].Status)
	assert.Equal(t, booking.DayOpen, grid[1].Status)
	assert.Equal(t, booking.DayOpen, grid[4].Status)

	counts := Counts(grid)
	assert.Equal(t, 1, counts[booking.DayDirectBooked])
	assert.Equal(t, 27, counts[booking.DayOpen])
}

func TestRange(t *testing.T) {
	idx := NewIndex(nil, nil)
	assert.Len(t, idx.Range(jan(1), jan(8)), 7)
	assert.Empty(t, idx.Range(jan(8), jan(1)))
}
