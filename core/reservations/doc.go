// Package reservations is the client for the authoritative reservation API.
//
// The API returns direct and website bookings with full guest and payment
// detail. Responses are normalized into booking.Stay values: loosely typed
// numbers are coerced, unknown statuses become pending, and an empty source
// is treated as a direct booking.
package reservations
