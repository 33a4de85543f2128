// Package health provides service health checks.
//
// # Checks Provided
//
//   - Database: Pings the connection and compares the engine tables (external_bookings, availability_marks, sync_states) with their models.
//   - Structure: Checks that each configured platform has its folder in the snapshot bucket (supports ?fix=true).
//   - Feeds: Checks that Airbnb and Booking.com have valid feed URLs.
//
// # HTTP Endpoints
//
//   - GET /health : Runs all checks.
//   - GET /health/live : Liveness probe; served without an API key.
//   - GET /health/structure : Runs structure check (supports ?fix=true).
//   - GET /health/schema : Runs schema check.
//   - GET /health/feeds : Runs feed configuration check.
package health
