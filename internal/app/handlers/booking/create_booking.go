package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resort/internal/app/commands"
	"resort/internal/app/dto"
	"resort/internal/app/handlers/support"
	"resort/internal/app/middleware"
	"resort/internal/app/outbox"
	"resort/internal/app/uow"
	"resort/internal/domain/availability"
	domainbooking "resort/internal/domain/booking"
	"resort/internal/domain/pricing"
	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
)

const createBookingKey = "booking.create"

var ErrStayInPast = errors.New("booking: check-in date is in the past")

type CreateBookingCommand struct {
	RoomID          int64     `json:"room_id" validate:"gt=0"`
	GuestName       string    `json:"guest_name" validate:"required,max=200"`
	GuestEmail      string    `json:"guest_email" validate:"required,email"`
	GuestPhone      string    `json:"guest_phone" validate:"omitempty,max=32"`
	CheckIn         time.Time `json:"check_in" validate:"required"`
	CheckOut        time.Time `json:"check_out" validate:"required"`
	Adults          int       `json:"adults" validate:"gte=1"`
	Children        int       `json:"children" validate:"gte=0"`
	SpecialRequests string    `json:"special_requests" validate:"max=2000"`
	IdempotencyKeyV string    `json:"-"`
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &dto.Booking{} }

// CreateBookingHandler books a room for a stay. It runs inside the
// transaction middleware: the room is locked before the confirmed bookings
// are read, so two requests for the same room cannot both pass the
// availability check.
type CreateBookingHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*dto.Booking, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	now := support.Clock(h.Now)

	stay, err := daterange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	if stay.CheckIn.Before(daterange.Day(now)) {
		return nil, ErrStayInPast
	}

	r, err := unit.Rooms().Lock(ctx, room.ID(cmd.RoomID))
	if err != nil {
		return nil, err
	}
	if !r.IsActive {
		return nil, room.ErrNotFound
	}
	if err := r.AcceptsParty(cmd.Adults, cmd.Children); err != nil {
		return nil, err
	}

	existing, err := unit.Bookings().List(ctx, domainbooking.Filter{RoomID: r.ID, Statuses: []domainbooking.Status{domainbooking.StatusConfirmed}})
	if err != nil {
		return nil, err
	}
	if err := availability.Check(r.ID, stay, existing, 0); err != nil {
		return nil, err
	}

	rules, err := unit.PricingRules().ListByRoom(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	total, err := pricing.TotalPrice(r, stay, rules)
	if err != nil {
		return nil, err
	}

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		RoomID:          r.ID,
		GuestName:       cmd.GuestName,
		GuestEmail:      cmd.GuestEmail,
		GuestPhone:      cmd.GuestPhone,
		Stay:            stay,
		Adults:          cmd.Adults,
		Children:        cmd.Children,
		TotalAmount:     total,
		SpecialRequests: cmd.SpecialRequests,
		CreatedAt:       now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Create(ctx, b); err != nil {
		return nil, err
	}
	b.Confirmed()
	if err := recordEvents(ctx, h.Outbox, h.Encoder, b); err != nil {
		return nil, err
	}

	logger(h.Logger).Info("booking confirmed", "booking_id", b.ID, "room_id", b.RoomID, "stay", stay.String(), "total", total.String())
	out := dto.MapBooking(b)
	return &out, nil
}

func recordEvents(ctx context.Context, box outbox.Outbox, enc outbox.EventEncoder, b *domainbooking.Booking) error {
	pending := b.PendingEvents()
	b.ClearEvents()
	if enc == nil {
		enc = outbox.JSONEventEncoder{}
	}
	return outbox.RecordDomainEvents(ctx, box, enc, pending)
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

var _ commands.Handler[CreateBookingCommand, *dto.Booking] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}
