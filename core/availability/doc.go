// Package availability derives the definitive status of each calendar date
// from stays and admin marks.
//
// Classification uses a fixed priority:
//
//	AdminBlocked > DirectBooked > ExternalBooked > Open
//
// Only active Direct and Website stays (approved, checked out or completed)
// make a date DirectBooked. An admin "booked" mark counts as a block only when
// its source is "admin". Dates are half-open per stay: check-out is free.
//
// An Index is built once per refresh and answers per-date lookups in constant
// time, so rendering a month grid is linear in the number of days.
package availability
