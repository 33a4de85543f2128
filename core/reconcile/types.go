package reconcile

import "booking-sync/core/booking"

// ActionType represents why a stay was removed from the reconciled set.
type ActionType string

const (
	// ActionDropEcho removes an external block that mirrors a direct booking.
	ActionDropEcho ActionType = "drop_echo"
	// ActionDropDuplicate removes a lower-ranked member of an overlap group.
	ActionDropDuplicate ActionType = "drop_duplicate"
	// ActionDropInvalid removes an external stay whose check-out is not after check-in.
	ActionDropInvalid ActionType = "drop_invalid"
)

// Action records one removal.
type Action struct {
	// Type specifies why the stay was dropped.
	Type ActionType `json:"type"`

	// Key is the ID of the dropped stay.
	Key string `json:"key"`

	// Channel is the channel of the dropped stay.
	Channel booking.Channel `json:"channel"`

	// KeptID is the stay that caused the removal (the direct booking for an
	// echo, the group winner for a duplicate). Empty for invalid stays.
	KeptID string `json:"kept_id,omitempty"`

	// Ambiguous is set on a duplicate drop whose content score equals the
	// kept stay's, so only platform preference decided it.
	Ambiguous bool `json:"ambiguous,omitempty"`

	// Reason explains the removal in human readable form.
	Reason string `json:"reason"`
}

// Plan contains the reconciled stays and the removals that produced them.
type Plan struct {
	// Stays is the deduplicated set, sorted by check-in then ID.
	Stays []booking.Stay `json:"stays"`

	// Actions lists every dropped stay.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a dedup run.
type PlanSummary struct {
	// TotalStays is the number of input stays.
	TotalStays int `json:"total_stays"`

	// DirectStays counts Direct and Website stays.
	DirectStays int `json:"direct_stays"`

	// ExternalStays counts Airbnb and Booking.com stays.
	ExternalStays int `json:"external_stays"`

	// OtherStays counts stays from unrecognized channels.
	OtherStays int `json:"other_stays"`

	// OverlapGroups counts external overlap groups with more than one member.
	OverlapGroups int `json:"overlap_groups"`

	// EchoesDropped counts external stays removed by the direct-conflict pass.
	EchoesDropped int `json:"echoes_dropped"`

	// DuplicatesDropped counts external stays removed by the cross-platform pass.
	DuplicatesDropped int `json:"duplicates_dropped"`

	// AmbiguousDrops counts duplicate drops decided by platform preference alone.
	AmbiguousDrops int `json:"ambiguous_drops"`

	// InvalidDropped counts external stays removed for an empty date range.
	InvalidDropped int `json:"invalid_dropped"`

	// Survivors is the number of stays in the output.
	Survivors int `json:"survivors"`
}

// Scored pairs a stay with its identity score.
type Scored struct {
	Stay  booking.Stay `json:"stay"`
	Score int          `json:"score"`
}
