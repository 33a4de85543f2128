// Package store persists engine state between restarts.
//
// Three tables are managed through GORM:
//
//   - external_bookings: stays synthesized from calendar feeds, replaced
//     wholesale per platform on every successful sync
//   - availability_marks: admin-entered open/closed/booked marks per date
//   - sync_states: the scheduler's last run and next due time
//
// External bookings can alternatively live in Redis, one hash per platform,
// when several service instances share the same feed data.
package store
