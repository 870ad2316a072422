package booking

import (
	"time"

	"resort/internal/domain/room"
	"resort/internal/domain/shared/events"
	"resort/internal/domain/shared/money"
)

const (
	EventConfirmed = "booking.confirmed"
	EventUpdated   = "booking.updated"
	EventCancelled = "booking.cancelled"
)

type BookingConfirmed struct {
	BookingID  ID          `json:"booking_id"`
	RoomID     room.ID     `json:"room_id"`
	GuestName  string      `json:"guest_name"`
	GuestEmail string      `json:"guest_email"`
	GuestPhone string      `json:"guest_phone,omitempty"`
	CheckIn    time.Time   `json:"check_in"`
	CheckOut   time.Time   `json:"check_out"`
	Total      money.Money `json:"total"`
	At         time.Time   `json:"at"`
}

func (e BookingConfirmed) EventName() string     { return EventConfirmed }
func (e BookingConfirmed) AggregateID() string   { return events.FormatID(int64(e.BookingID)) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingUpdated struct {
	BookingID ID          `json:"booking_id"`
	RoomID    room.ID     `json:"room_id"`
	Status    Status      `json:"status"`
	CheckIn   time.Time   `json:"check_in"`
	CheckOut  time.Time   `json:"check_out"`
	Total     money.Money `json:"total"`
	At        time.Time   `json:"at"`
}

func (e BookingUpdated) EventName() string     { return EventUpdated }
func (e BookingUpdated) AggregateID() string   { return events.FormatID(int64(e.BookingID)) }
func (e BookingUpdated) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID  ID        `json:"booking_id"`
	RoomID     room.ID   `json:"room_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	GuestPhone string    `json:"guest_phone,omitempty"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Reason     string    `json:"reason,omitempty"`
	At         time.Time `json:"at"`
}

func (e BookingCancelled) EventName() string     { return EventCancelled }
func (e BookingCancelled) AggregateID() string   { return events.FormatID(int64(e.BookingID)) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }
