package booking

import (
	"context"
	"log/slog"
	"time"

	"resort/internal/app/commands"
	"resort/internal/app/dto"
	"resort/internal/app/handlers/support"
	"resort/internal/app/outbox"
	"resort/internal/app/uow"
	domainbooking "resort/internal/domain/booking"
	domainpayment "resort/internal/domain/payment"
)

const expireBookingKey = "booking.expire"

// ExpireBookingCommand cancels an unpaid booking created before
// CreatedBefore. A zero CreatedBefore expires nothing.
type ExpireBookingCommand struct {
	BookingID     int64     `json:"booking_id" validate:"gt=0"`
	CreatedBefore time.Time `json:"created_before"`
	Reason        string    `json:"reason" validate:"max=500"`
}

func (c ExpireBookingCommand) Key() string     { return expireBookingKey }
func (c ExpireBookingCommand) AdminOnly() bool { return true }

// ExpireBookingHandler re-checks the booking under the room lock. Payment
// updates take the same lock, so a payment marked PAID before the check
// keeps the booking.
type ExpireBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *ExpireBookingHandler) Handle(ctx context.Context, cmd ExpireBookingCommand) (*dto.Booking, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	id := domainbooking.ID(cmd.BookingID)
	b, err := unit.Bookings().ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := unit.Rooms().Lock(ctx, b.RoomID); err != nil {
		return nil, err
	}
	if b, err = unit.Bookings().ByID(ctx, id); err != nil {
		return nil, err
	}
	if b.Status != domainbooking.StatusConfirmed || !b.CreatedAt.Before(cmd.CreatedBefore) {
		out := dto.MapBooking(b)
		return &out, nil
	}
	payments, err := unit.Payments().ListByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if domainpayment.AnyPaid(payments) {
		logger(h.Logger).Info("booking paid before expiry", "booking_id", b.ID)
		out := dto.MapBooking(b)
		return &out, nil
	}

	if b.Cancel(cmd.Reason, support.Clock(h.Now)) {
		if err := unit.Bookings().Save(ctx, b); err != nil {
			return nil, err
		}
		if err := recordEvents(ctx, h.Outbox, h.Encoder, b); err != nil {
			return nil, err
		}
		logger(h.Logger).Info("booking expired", "booking_id", b.ID, "reason", cmd.Reason)
	}
	out := dto.MapBooking(b)
	return &out, nil
}

var _ commands.Handler[ExpireBookingCommand, *dto.Booking] = (*ExpireBookingHandler)(nil)
