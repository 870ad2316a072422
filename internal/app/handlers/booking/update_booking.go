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
	"resort/internal/domain/availability"
	domainbooking "resort/internal/domain/booking"
	"resort/internal/domain/pricing"
)

const (
	updateBookingKey = "booking.update"
	cancelBookingKey = "booking.cancel"
)

type UpdateBookingCommand struct {
	BookingID int64               `json:"booking_id" validate:"gt=0"`
	Patch     domainbooking.Patch `json:"patch"`
}

func (c UpdateBookingCommand) Key() string     { return updateBookingKey }
func (c UpdateBookingCommand) AdminOnly() bool { return true }

// UpdateBookingHandler applies an admin patch. A new stay or a
// re-confirmation is checked against the other confirmed bookings of the
// room, and a new stay is re-priced unless the patch sets the total.
type UpdateBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *UpdateBookingHandler) Handle(ctx context.Context, cmd UpdateBookingCommand) (*dto.Booking, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.ID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	r, err := unit.Rooms().Lock(ctx, b.RoomID)
	if err != nil {
		return nil, err
	}

	change, err := b.Apply(cmd.Patch, support.Clock(h.Now))
	if err != nil {
		return nil, err
	}
	if change.StayChanged {
		if err := b.Stay.Bounded(); err != nil {
			return nil, err
		}
	}
	if cmd.Patch.Adults != nil || cmd.Patch.Children != nil {
		if err := r.AcceptsParty(b.Adults, b.Children); err != nil {
			return nil, err
		}
	}
	if change.NeedsAvailability(b) {
		existing, err := unit.Bookings().List(ctx, domainbooking.Filter{RoomID: b.RoomID, Statuses: []domainbooking.Status{domainbooking.StatusConfirmed}})
		if err != nil {
			return nil, err
		}
		if err := availability.Check(b.RoomID, b.Stay, existing, b.ID); err != nil {
			return nil, err
		}
	}
	if change.StayChanged && cmd.Patch.TotalAmount == nil {
		rules, err := unit.PricingRules().ListByRoom(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		total, err := pricing.TotalPrice(r, b.Stay, rules)
		if err != nil {
			return nil, err
		}
		if err := b.Reprice(total); err != nil {
			return nil, err
		}
	}
	if !change.Cancelled {
		b.Updated()
	}

	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := recordEvents(ctx, h.Outbox, h.Encoder, b); err != nil {
		return nil, err
	}
	logger(h.Logger).Info("booking updated", "booking_id", b.ID, "status", b.Status, "stay_changed", change.StayChanged)
	out := dto.MapBooking(b)
	return &out, nil
}

type CancelBookingCommand struct {
	BookingID int64  `json:"booking_id" validate:"gt=0"`
	Reason    string `json:"reason" validate:"max=500"`
}

func (c CancelBookingCommand) Key() string     { return cancelBookingKey }
func (c CancelBookingCommand) AdminOnly() bool { return true }

// CancelBookingHandler frees the room. Cancelling an already cancelled
// booking succeeds without emitting anything.
type CancelBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*dto.Booking, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.ID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if b.Cancel(cmd.Reason, support.Clock(h.Now)) {
		if err := unit.Bookings().Save(ctx, b); err != nil {
			return nil, err
		}
		if err := recordEvents(ctx, h.Outbox, h.Encoder, b); err != nil {
			return nil, err
		}
		logger(h.Logger).Info("booking cancelled", "booking_id", b.ID, "reason", cmd.Reason)
	}
	out := dto.MapBooking(b)
	return &out, nil
}

var (
	_ commands.Handler[UpdateBookingCommand, *dto.Booking] = (*UpdateBookingHandler)(nil)
	_ commands.Handler[CancelBookingCommand, *dto.Booking] = (*CancelBookingHandler)(nil)
)
