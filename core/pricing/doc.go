// Package pricing computes the expected charge of a stay and compares it with
// what the guest declared as paid.
//
// The model is a single flat formula:
//
//	expected = nights × (base + acSurcharge×acRooms + extraGuest×extraGuests + pet×pets)
//
// where extraGuests is the number of guests above the included count. Inputs
// that cannot be priced (unknown room type, zero nights, negative counts)
// produce no result instead of an error.
package pricing
