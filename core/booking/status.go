package booking

// StayStatus is the lifecycle status of a reservation.
type StayStatus string

const (
	StatusPending        StayStatus = "pending"
	StatusApproved       StayStatus = "approved"
	StatusCancelled      StayStatus = "cancelled"
	StatusAdminCancelled StayStatus = "admin_cancelled"
	StatusCompleted      StayStatus = "completed"
	StatusCheckedOut     StayStatus = "checked_out"
	StatusBlocked        StayStatus = "blocked"
)

// OccupiesCalendar reports whether a direct stay in this status marks its
// nights as booked. Pending, cancelled and blocked stays never do.
func (s StayStatus) OccupiesCalendar() bool {
	switch s {
	case StatusApproved, StatusCheckedOut, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsCancelled reports whether the stay was cancelled by the guest or an admin.
func (s StayStatus) IsCancelled() bool {
	return s == StatusCancelled || s == StatusAdminCancelled
}

// Valid reports whether s is one of the known statuses.
func (s StayStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCancelled, StatusAdminCancelled,
		StatusCompleted, StatusCheckedOut, StatusBlocked:
		return true
	default:
		return false
	}
}
