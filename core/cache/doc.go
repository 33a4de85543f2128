// Package cache holds the in-memory read-through cache for reservations,
// external bookings and per-month availability.
//
// Each cached value lives in a Slice whose state is one of:
//
//	Empty    never fetched, or cleared
//	Loading  a fetch is in flight (the previous Ready value, if any, is kept)
//	Ready    data plus the time it was fetched
//	Failed   the last fetch failed; the previous Ready value is kept as stale
//
// Get returns cached data while it is Ready and younger than the validity
// window (120 minutes by default). Otherwise it fetches; concurrent callers
// share one in-flight fetch. When a fetch fails and older data exists, that
// data is returned marked stale instead of an error.
//
// Callers always receive copies. Subscribe streams state transitions for
// anything that wants to react to refreshes (HTTP surface, logs, tests).
package cache
