package availability

import (
	"booking-sync/core/booking"
)

// Index holds date-keyed sets built from one snapshot of stays and marks.
type Index struct {
	admin    map[booking.Date]struct{}
	direct   map[booking.Date]struct{}
	external map[booking.Date]booking.Channel
}

// NewIndex pre-indexes stays and marks. Stays of any channel may be passed;
// inactive direct stays and stays from unknown channels are ignored.
func NewIndex(stays []booking.Stay, marks []booking.AvailabilityMark) *Index {
	idx := &Index{
		admin:    make(map[booking.Date]struct{}),
		direct:   make(map[booking.Date]struct{}),
		external: make(map[booking.Date]booking.Channel),
	}

	for _, m := range marks {
		if IsAdminBlock(m) {
			idx.admin[m.Date] = struct{}{}
		}
	}

	for _, s := range stays {
		if !s.Valid() {
			continue
		}
		switch s.Channel.Class() {
		case booking.ClassDirect:
			if !s.Status.OccupiesCalendar() {
				continue
			}
			s.EachNight(func(d booking.Date) {
				idx.direct[d] = struct{}{}
			})
		case booking.ClassExternal:
			s.EachNight(func(d booking.Date) {
				if cur, ok := idx.external[d]; !ok || preferPlatform(s.Channel, cur) {
					idx.external[d] = s.Channel
				}
			})
		}
	}

	return idx
}

// IsAdminBlock reports whether mark closes its date.
func IsAdminBlock(mark booking.AvailabilityMark) bool {
	return mark.IsAdminBlock()
}

// Classify returns the status of d.
func (idx *Index) Classify(d booking.Date) booking.CalendarDay {
	day := booking.CalendarDay{Date: d, Status: booking.DayOpen}

	if _, ok := idx.admin[d]; ok {
		day.Status = booking.DayAdminBlocked
		return day
	}
	if _, ok := idx.direct[d]; ok {
		day.Status = booking.DayDirectBooked
		return day
	}
	if platform, ok := idx.external[d]; ok {
		day.Status = booking.DayExternalBooked
		day.Platform = platform
	}

	return day
}

// Month renders the grid for m, one entry per day in order.
func (idx *Index) Month(m booking.Month) []booking.CalendarDay {
	days := make([]booking.CalendarDay, 0, m.Days())
	booking.EachDay(m.First(), m.End(), func(d booking.Date) {
		days = append(days, idx.Classify(d))
	})
	return days
}

// Range renders [from, to) in order.
func (idx *Index) Range(from, to booking.Date) []booking.CalendarDay {
	var days []booking.CalendarDay
	booking.EachDay(from, to, func(d booking.Date) {
		days = append(days, idx.Classify(d))
	})
	return days
}

// Classify is a one-shot helper that indexes stays and marks for a single lookup.
func Classify(d booking.Date, stays []booking.Stay, marks []booking.AvailabilityMark) booking.CalendarDay {
	return NewIndex(stays, marks).Classify(d)
}

// Counts tallies a grid by status.
func Counts(days []booking.CalendarDay) map[booking.DayStatus]int {
	out := make(map[booking.DayStatus]int, 4)
	for _, d := range days {
		out[d.Status]++
	}
	return out
}

// preferPlatform reports whether candidate should replace current as the
// platform shown for an externally booked date. Airbnb wins.
func preferPlatform(candidate, current booking.Channel) bool {
	return candidate == booking.ChannelAirbnb && current != booking.ChannelAirbnb
}
