package payments

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
	"resort/internal/domain/shared/money"
)

const (
	createPaymentKey = "payment.create"
	updatePaymentKey = "payment.update"
)

type CreatePaymentCommand struct {
	BookingID       int64  `json:"booking_id" validate:"gt=0"`
	Amount          string `json:"amount" validate:"required,numeric"`
	Method          string `json:"method" validate:"required,max=50"`
	ReferenceID     string `json:"reference_id" validate:"max=100"`
	IdempotencyKeyV string `json:"-"`
}

func (c CreatePaymentCommand) Key() string            { return createPaymentKey }
func (c CreatePaymentCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c CreatePaymentCommand) ResultPrototype() any   { return &dto.Payment{} }

// CreatePaymentHandler records a pending payment against an existing booking.
type CreatePaymentHandler struct {
	Currency string
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h *CreatePaymentHandler) Handle(ctx context.Context, cmd CreatePaymentCommand) (*dto.Payment, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.ID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	currency := h.Currency
	if currency == "" {
		currency = b.TotalAmount.Currency
	}
	amount, err := money.Parse(cmd.Amount, currency)
	if err != nil {
		return nil, err
	}
	p, err := domainpayment.New(domainpayment.CreateParams{
		BookingID:   b.ID,
		Amount:      amount,
		Method:      cmd.Method,
		ReferenceID: cmd.ReferenceID,
		CreatedAt:   support.Clock(h.Now),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Payments().Create(ctx, p); err != nil {
		return nil, err
	}
	p.Recorded()
	if err := record(ctx, h.Outbox, h.Encoder, p); err != nil {
		return nil, err
	}
	loggerOrDefault(h.Logger).Info("payment recorded", "payment_id", p.ID, "booking_id", p.BookingID, "amount", p.Amount.String())
	out := dto.MapPayment(p)
	return &out, nil
}

type UpdatePaymentCommand struct {
	PaymentID int64               `json:"payment_id" validate:"gt=0"`
	Patch     domainpayment.Patch `json:"patch"`
}

func (c UpdatePaymentCommand) Key() string     { return updatePaymentKey }
func (c UpdatePaymentCommand) AdminOnly() bool { return true }

// UpdatePaymentHandler applies an admin patch; marking a payment PAID
// stamps paid_at and notifies the guest. It holds the booking's room lock
// so it serialises with booking expiry.
type UpdatePaymentHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *UpdatePaymentHandler) Handle(ctx context.Context, cmd UpdatePaymentCommand) (*dto.Payment, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	p, err := unit.Payments().ByID(ctx, domainpayment.ID(cmd.PaymentID))
	if err != nil {
		return nil, err
	}
	b, err := unit.Bookings().ByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if _, err := unit.Rooms().Lock(ctx, b.RoomID); err != nil {
		return nil, err
	}
	if err := p.Apply(cmd.Patch, support.Clock(h.Now)); err != nil {
		return nil, err
	}
	if err := unit.Payments().Save(ctx, p); err != nil {
		return nil, err
	}
	if err := record(ctx, h.Outbox, h.Encoder, p); err != nil {
		return nil, err
	}
	loggerOrDefault(h.Logger).Info("payment updated", "payment_id", p.ID, "status", p.Status)
	out := dto.MapPayment(p)
	return &out, nil
}

func record(ctx context.Context, box outbox.Outbox, enc outbox.EventEncoder, p *domainpayment.Payment) error {
	pending := p.PendingEvents()
	p.ClearEvents()
	return outbox.RecordDomainEvents(ctx, box, enc, pending)
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

var (
	_ commands.Handler[CreatePaymentCommand, *dto.Payment] = (*CreatePaymentHandler)(nil)
	_ commands.Handler[UpdatePaymentCommand, *dto.Payment] = (*UpdatePaymentHandler)(nil)
)
