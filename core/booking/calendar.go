package booking

// DayStatus is the definitive status of one calendar date.
type DayStatus string

const (
	DayOpen           DayStatus = "open"
	DayDirectBooked   DayStatus = "direct_booked"
	DayExternalBooked DayStatus = "external_booked"
	DayAdminBlocked   DayStatus = "admin_blocked"
)

// CalendarDay is the derived state of a single date. It is a projection of
// stays and admin marks and is never stored.
type CalendarDay struct {
	Date   Date      `json:"date"`
	Status DayStatus `json:"status"`
	// Platform is set only for DayExternalBooked.
	Platform Channel `json:"platform,omitempty"`
}

// MarkStatus is the status of an admin-entered availability mark.
type MarkStatus string

const (
	MarkOpen   MarkStatus = "open"
	MarkClosed MarkStatus = "closed"
	MarkBooked MarkStatus = "booked"
)

// AdminSource is the source tag of marks entered by an administrator.
const AdminSource = "admin"

// AvailabilityMark is an admin-entered open/closed/booked mark for one date.
type AvailabilityMark struct {
	Date   Date       `json:"date"`
	Status MarkStatus `json:"status"`
	Source string     `json:"source"`
	RoomID *string    `json:"room_id,omitempty"`
}

// IsAdminBlock reports whether the mark closes its date: status closed, or
// status booked entered by an admin.
func (m AvailabilityMark) IsAdminBlock() bool {
	switch m.Status {
	case MarkClosed:
		return true
	case MarkBooked:
		return m.Source == AdminSource
	default:
		return false
	}
}
