package availability

import (
	"errors"

	"resort/internal/domain/booking"
	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
)

var (
	ErrUnavailable = errors.New("availability: room not available for selected dates")
)

// IsAvailable reports whether the stay fits between the confirmed bookings
// of the room. Cancelled and completed bookings never block a stay, and a
// stay may check in on the day another checks out.
func IsAvailable(roomID room.ID, stay daterange.DateRange, existing []*booking.Booking) bool {
	return len(Conflicts(roomID, stay, existing)) == 0
}

// Conflicts returns the confirmed bookings of the room overlapping the stay.
func Conflicts(roomID room.ID, stay daterange.DateRange, existing []*booking.Booking) []*booking.Booking {
	var out []*booking.Booking
	for _, b := range existing {
		if b == nil || b.RoomID != roomID || !b.Holds() {
			continue
		}
		if b.Stay.CheckIn.Before(stay.CheckOut) && b.Stay.CheckOut.After(stay.CheckIn) {
			out = append(out, b)
		}
	}
	return out
}

// Check validates the stay and fails with ErrUnavailable when it collides
// with a confirmed booking. The booking identified by ignore is skipped,
// which lets an update be checked against everything but itself.
func Check(roomID room.ID, stay daterange.DateRange, existing []*booking.Booking, ignore booking.ID) error {
	if err := stay.Validate(); err != nil {
		return err
	}
	for _, b := range Conflicts(roomID, stay, existing) {
		if ignore != 0 && b.ID == ignore {
			continue
		}
		return ErrUnavailable
	}
	return nil
}
