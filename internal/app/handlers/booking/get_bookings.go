package booking

import (
	"context"

	"resort/internal/app/dto"
	"resort/internal/app/handlers/support"
	"resort/internal/app/queries"
	"resort/internal/app/uow"
	domainbooking "resort/internal/domain/booking"
	"resort/internal/domain/room"
)

const (
	getBookingKey   = "booking.get"
	listBookingsKey = "booking.list"
)

type GetBookingQuery struct {
	BookingID int64 `validate:"gt=0"`
}

func (q GetBookingQuery) Key() string     { return getBookingKey }
func (q GetBookingQuery) AdminOnly() bool { return true }

type GetBookingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (dto.Booking, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Booking{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	b, err := unit.Bookings().ByID(execCtx, domainbooking.ID(q.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	return dto.MapBooking(b), nil
}

// ListBookingsQuery lists bookings latest check-in first, optionally for
// one room or one status.
type ListBookingsQuery struct {
	RoomID int64  `validate:"gte=0"`
	Status string `validate:"omitempty,oneof=CONFIRMED CANCELLED COMPLETED"`
}

func (q ListBookingsQuery) Key() string     { return listBookingsKey }
func (q ListBookingsQuery) AdminOnly() bool { return true }

type ListBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) (dto.Collection[dto.Booking], error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Collection[dto.Booking]{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	filter := domainbooking.Filter{RoomID: room.ID(q.RoomID)}
	if q.Status != "" {
		filter.Statuses = []domainbooking.Status{domainbooking.Status(q.Status)}
	}
	items, err := unit.Bookings().List(execCtx, filter)
	if err != nil {
		return dto.Collection[dto.Booking]{}, err
	}
	return dto.MapBookings(items), nil
}

var (
	_ queries.Handler[GetBookingQuery, dto.Booking]                     = (*GetBookingHandler)(nil)
	_ queries.Handler[ListBookingsQuery, dto.Collection[dto.Booking]] = (*ListBookingsHandler)(nil)
)
