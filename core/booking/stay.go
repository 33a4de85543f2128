package booking

// RoomType is the pricing class of a room.
type RoomType string

const (
	RoomNonAC RoomType = "non_ac"
	RoomAC    RoomType = "ac"
)

// RoomRef references the room(s) assigned to a stay.
type RoomRef struct {
	// ID is the room identifier in the reservation API.
	ID string `json:"id"`
	// Type is the pricing class of the room. Empty when unknown.
	Type RoomType `json:"type"`
	// Count is the number of rooms of this type booked for the stay.
	Count int `json:"count"`
}

// Stay is a normalized reservation record. Stays from the reservation API are
// authoritative; stays synthesized from calendar feeds are transient and are
// regenerated on every feed sync.
type Stay struct {
	// ID is the unique identifier. For synthesized stays it is a name-based
	// UUID derived from the platform and the feed event UID.
	ID string `json:"id"`
	// ConfirmationNumber is the human readable booking reference.
	ConfirmationNumber string `json:"confirmation_number,omitempty"`
	// Status is the lifecycle status of the stay.
	Status StayStatus `json:"status"`
	// CheckIn is the first occupied night.
	CheckIn Date `json:"check_in"`
	// CheckOut is the departure date; it is not occupied.
	CheckOut Date `json:"check_out"`

	GuestName  string `json:"guest_name,omitempty"`
	GuestPhone string `json:"guest_phone,omitempty"`
	GuestEmail string `json:"guest_email,omitempty"`

	// GuestCount is the number of guests staying.
	GuestCount int `json:"guest_count"`
	// PetCount is the number of pets accompanying the guests.
	PetCount int `json:"pet_count"`

	// Room is nil for externally sourced stays.
	Room *RoomRef `json:"room,omitempty"`
	// Channel is the booking origin.
	Channel Channel `json:"channel"`

	// PaidAmount is the amount the guest declared as paid.
	PaidAmount float64 `json:"paid_amount"`
	// PaymentReference is the optional payment transaction reference.
	PaymentReference string `json:"payment_reference,omitempty"`

	// Summary is the free-text feed summary (external stays only).
	Summary string `json:"summary,omitempty"`
	// SourceUID is the feed event UID (external stays only).
	SourceUID string `json:"source_uid,omitempty"`
}

// Valid reports whether the stay satisfies CheckIn < CheckOut.
func (s Stay) Valid() bool {
	return !s.CheckIn.IsZero() && !s.CheckOut.IsZero() && s.CheckIn.Before(s.CheckOut)
}

// Nights returns the number of occupied nights, or 0 for an invalid stay.
func (s Stay) Nights() int {
	if !s.Valid() {
		return 0
	}
	return s.CheckIn.DaysUntil(s.CheckOut)
}

// Occupies reports whether d falls in [CheckIn, CheckOut).
func (s Stay) Occupies(d Date) bool {
	return !d.Before(s.CheckIn) && d.Before(s.CheckOut)
}

// Overlaps reports whether s and o share at least one night. Identical ranges
// overlap; ranges that merely touch (one checks out the day the other checks
// in) do not.
func (s Stay) Overlaps(o Stay) bool {
	return s.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(s.CheckOut)
}

// EachNight calls fn for every occupied night of s.
func (s Stay) EachNight(fn func(Date)) {
	EachDay(s.CheckIn, s.CheckOut, fn)
}

// CloneStays returns a copy of stays whose RoomRef pointers are not shared
// with the input.
func CloneStays(stays []Stay) []Stay {
	if stays == nil {
		return nil
	}
	out := make([]Stay, len(stays))
	copy(out, stays)
	for i := range out {
		if out[i].Room != nil {
			room := *out[i].Room
			out[i].Room = &room
		}
	}
	return out
}
