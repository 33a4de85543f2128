package pricing

import (
	"math"

	"booking-sync/core/booking"
)

// settledTolerance absorbs float rounding of currency amounts (half a cent).
const settledTolerance = 0.005

// Rates are the per-night pricing constants.
type Rates struct {
	BaseRate       float64
	IncludedGuests int
	ACSurcharge    float64
	ExtraGuest     float64
	Pet            float64
}

// DefaultRates returns the standard tariff.
func DefaultRates() Rates {
	return Rates{
		BaseRate:       2250,
		IncludedGuests: 4,
		ACSurcharge:    500,
		ExtraGuest:     500,
		Pet:            300,
	}
}

// BalanceStatus classifies a pending balance.
type BalanceStatus string

const (
	Underpaid BalanceStatus = "underpaid"
	Overpaid  BalanceStatus = "overpaid"
	Settled   BalanceStatus = "settled"
)

// PendingBalance is the difference between expected and paid amounts.
// Pending is positive when the guest still owes money.
type PendingBalance struct {
	StayID   string        `json:"stay_id"`
	Nights   int           `json:"nights"`
	Expected float64       `json:"expected"`
	Paid     float64       `json:"paid"`
	Pending  float64       `json:"pending"`
	Status   BalanceStatus `json:"status"`
}

// Calculator prices stays with a fixed set of rates.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a calculator.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Rates returns the calculator's rates.
func (c *Calculator) Rates() Rates { return c.rates }

// Expected returns the expected amount, or ok=false when the inputs cannot
// be priced.
func (c *Calculator) Expected(nights, guests int, roomType booking.RoomType, acRooms, pets int) (float64, bool) {
	if nights <= 0 || guests < 0 || acRooms < 0 || pets < 0 {
		return 0, false
	}

	switch roomType {
	case booking.RoomNonAC:
		acRooms = 0
	case booking.RoomAC:
		if acRooms == 0 {
			acRooms = 1
		}
	default:
		return 0, false
	}

	extraGuests := guests - c.rates.IncludedGuests
	if extraGuests < 0 {
		extraGuests = 0
	}

	nightly := c.rates.BaseRate +
		c.rates.ACSurcharge*float64(acRooms) +
		c.rates.ExtraGuest*float64(extraGuests) +
		c.rates.Pet*float64(pets)

	return float64(nights) * nightly, true
}

// Reconcile compares a stay's paid amount with its expected price. It returns
// nil when the stay carries no room information or cannot be priced.
func (c *Calculator) Reconcile(stay booking.Stay) *PendingBalance {
	if stay.Room == nil {
		return nil
	}

	acRooms := 0
	if stay.Room.Type == booking.RoomAC {
		acRooms = stay.Room.Count
	}

	nights := stay.Nights()
	expected, ok := c.Expected(nights, stay.GuestCount, stay.Room.Type, acRooms, stay.PetCount)
	if !ok || stay.PaidAmount < 0 {
		return nil
	}

	pending := expected - stay.PaidAmount
	return &PendingBalance{
		StayID:   stay.ID,
		Nights:   nights,
		Expected: expected,
		Paid:     stay.PaidAmount,
		Pending:  pending,
		Status:   statusOf(pending),
	}
}

// ReconcileAll prices every stay that can be priced. Stays without a result
// are skipped.
func (c *Calculator) ReconcileAll(stays []booking.Stay) []PendingBalance {
	var out []PendingBalance
	for _, s := range stays {
		if b := c.Reconcile(s); b != nil {
			out = append(out, *b)
		}
	}
	return out
}

func statusOf(pending float64) BalanceStatus {
	switch {
	case math.Abs(pending) < settledTolerance:
		return Settled
	case pending > 0:
		return Underpaid
	default:
		return Overpaid
	}
}
