// Package feedsync imports external calendar feeds into the local store.
//
// A Syncer fetches every configured feed concurrently, each under its own
// timeout. A feed that fails keeps its previously stored stays; the failure
// is reported in the SourceStatus of that platform only.
//
// The Scheduler runs the Syncer twice a day at fixed wall-clock hours in the
// property's time zone. The next due time is persisted, so a process that was
// down at a scheduled tick syncs as soon as it starts. After each run the
// external-bookings cache slice is refreshed and a sync.completed or
// sync.failed event is published.
//
// # HTTP Endpoints
//
//   - POST /sync : Runs a sync and returns the report (?async=true queues it).
//   - GET /sync/last : The most recent report and the next scheduled run.
//   - GET /sync/archive/:platform : The newest archived feed document.
package feedsync
