// Package calendar exposes reservations and availability over HTTP.
//
// The Service wraps a cache.Store whose slices are filled from three sources:
// the reservation API, the local store of synthesized external stays, and
// the admin availability marks. Reads go through the cache; stale data is
// served when a refresh fails and earlier data exists.
//
// # HTTP Endpoints
//
//   - GET /reservations : Direct reservations (?force=true bypasses the cache).
//   - GET /reservations/external : Stays imported from calendar feeds.
//   - GET /reservations/all : Deduplicated union with the dedup plan.
//   - GET /reservations/:id/balance : Expected price versus paid amount.
//   - POST /reservations/:id/accept, /decline : Status changes; invalidate the cache.
//   - GET /availability/:month : Day grid for YYYY-MM.
//   - POST /availability/:month/preload : Warms the adjacent months.
//   - GET /availability/date/:date : Status of one date.
//   - PUT /availability : Admin marks over an inclusive date range.
//   - POST /refresh : Force-refreshes every slice.
//   - DELETE /cache : Drops all cached data.
package calendar
