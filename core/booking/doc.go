// Package booking defines the domain model shared by every part of the engine.
//
// All booking sources are normalized into the same shape before reconciliation:
// reservations from the first-party API arrive as Stay values directly, while
// external calendar feeds are parsed into FeedEvent records and then
// synthesized into Stay values so deduplication and classification can treat
// every source uniformly.
//
// # Dates
//
// Date is a civil calendar date with no time of day or zone. Stays occupy the
// half-open interval [CheckIn, CheckOut): the check-out date is the departure
// day and is never an occupied night.
//
// # Channels
//
// Channel identifies where a booking originated. Channels fall into three
// classes used by the dedup engine:
//   - Direct: Direct and Website bookings (ground truth)
//   - External: Airbnb and Booking.com feed blocks
//   - Other: anything unrecognized, passed through untouched
package booking
