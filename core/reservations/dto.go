package reservations

import (
	"strings"

	"booking-sync/core/booking"
	"booking-sync/core/utils"
)

// reservationDTO mirrors the API's reservation object. Numeric fields are
// loosely typed upstream.
type reservationDTO struct {
	ID                 any      `json:"id"`
	ConfirmationNumber string   `json:"confirmation_number"`
	Status             string   `json:"status"`
	CheckIn            string   `json:"check_in"`
	CheckOut           string   `json:"check_out"`
	GuestName          string   `json:"guest_name"`
	GuestPhone         string   `json:"guest_phone"`
	GuestEmail         string   `json:"guest_email"`
	Guests             any      `json:"number_of_guests"`
	Pets               any      `json:"number_of_pets"`
	Room               *roomDTO `json:"room"`
	Source             string   `json:"source"`
	PaidAmount         any      `json:"paid_amount"`
	PaymentReference   string   `json:"payment_reference"`
}

type roomDTO struct {
	ID    any    `json:"id"`
	Type  string `json:"type"`
	Count any    `json:"count"`
}

type listResponse struct {
	Data []reservationDTO `json:"data"`
	Meta struct {
		CurrentPage int `json:"current_page"`
		LastPage    int `json:"last_page"`
		Total       int `json:"total"`
	} `json:"meta"`
}

type itemResponse struct {
	Data reservationDTO `json:"data"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// toStay normalizes a DTO. Unknown statuses map to pending and unknown
// sources to ChannelUnknown; unparsable dates leave the stay invalid.
func (d reservationDTO) toStay() booking.Stay {
	s := booking.Stay{
		ID:                 utils.ToString(d.ID),
		ConfirmationNumber: d.ConfirmationNumber,
		Status:             parseStatus(d.Status),
		GuestName:          strings.TrimSpace(d.GuestName),
		GuestPhone:         d.GuestPhone,
		GuestEmail:         d.GuestEmail,
		GuestCount:         utils.ToInt(d.Guests),
		PetCount:           utils.ToInt(d.Pets),
		Channel:            parseSource(d.Source),
		PaidAmount:         utils.ToFloat(d.PaidAmount),
		PaymentReference:   d.PaymentReference,
	}

	s.CheckIn, _ = booking.ParseDate(datePart(d.CheckIn))
	s.CheckOut, _ = booking.ParseDate(datePart(d.CheckOut))

	if d.Room != nil {
		count := utils.ToInt(d.Room.Count)
		if count <= 0 {
			count = 1
		}
		s.Room = &booking.RoomRef{
			ID:    utils.ToString(d.Room.ID),
			Type:  parseRoomType(d.Room.Type),
			Count: count,
		}
	}

	return s
}

// datePart accepts both "2025-01-10" and RFC 3339 timestamps.
func datePart(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > len(booking.DateLayout) {
		return s[:len(booking.DateLayout)]
	}
	return s
}

func parseStatus(s string) booking.StayStatus {
	st := booking.StayStatus(strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "-", "_"))))
	if st.Valid() {
		return st
	}
	return booking.StatusPending
}

// parseSource maps the API's source field. Empty sources are direct bookings
// entered by staff.
func parseSource(s string) booking.Channel {
	if strings.TrimSpace(s) == "" {
		return booking.ChannelDirect
	}
	return booking.ParseChannel(s)
}

func parseRoomType(s string) booking.RoomType {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "ac", "a/c", "air_conditioned":
		return booking.RoomAC
	case "non_ac", "nonac", "non_a/c", "standard":
		return booking.RoomNonAC
	default:
		return ""
	}
}
