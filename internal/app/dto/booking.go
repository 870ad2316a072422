package dto

import (
	"time"

	domainbooking "resort/internal/domain/booking"
)

type Booking struct {
	ID              int64     `json:"id"`
	RoomID          int64     `json:"room_id"`
	GuestName       string    `json:"guest_name"`
	GuestEmail      string    `json:"guest_email"`
	GuestPhone      string    `json:"guest_phone,omitempty"`
	CheckIn         string    `json:"check_in"`
	CheckOut        string    `json:"check_out"`
	Nights          int       `json:"nights"`
	Adults          int       `json:"adults"`
	Children        int       `json:"children"`
	TotalAmount     string    `json:"total_amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	if b == nil {
		return Booking{}
	}
	return Booking{
		ID:              int64(b.ID),
		RoomID:          int64(b.RoomID),
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		CheckIn:         formatDate(b.Stay.CheckIn),
		CheckOut:        formatDate(b.Stay.CheckOut),
		Nights:          b.Stay.Nights(),
		Adults:          b.Adults,
		Children:        b.Children,
		TotalAmount:     formatMoney(b.TotalAmount),
		Currency:        b.TotalAmount.Currency,
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func MapBookings(in []*domainbooking.Booking) Collection[Booking] {
	return collect(in, MapBooking)
}

// Availability answers whether a stay can be booked.
type Availability struct {
	RoomID    int64     `json:"room_id"`
	CheckIn   string    `json:"check_in"`
	CheckOut  string    `json:"check_out"`
	Available bool      `json:"available"`
	Conflicts []StayRef `json:"conflicts"`
}

// StayRef identifies a booking blocking a stay without exposing guest data.
type StayRef struct {
	BookingID int64  `json:"booking_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
}
