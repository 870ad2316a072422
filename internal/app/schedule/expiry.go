package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resort/internal/app/commands"
	"resort/internal/app/dto"
	bookinghandlers "resort/internal/app/handlers/booking"
	"resort/internal/app/principal"
	"resort/internal/app/uow"
	"resort/internal/domain/booking"
	"resort/internal/domain/payment"
)

const (
	DefaultPaymentWindow = time.Hour
	ExpiryReason         = "payment window expired"
)

// ExpirySweeper cancels confirmed bookings that were not paid within the
// payment window. Each candidate is expired through the command bus as the
// system principal; the handler re-checks payments inside its transaction.
type ExpirySweeper struct {
	Units         uow.UoWFactory
	Commands      commands.Bus
	PaymentWindow time.Duration
	Logger        *slog.Logger
	Now           func() time.Time
}

func (s *ExpirySweeper) Name() string { return "booking-expiry" }

func (s *ExpirySweeper) RunOnce(ctx context.Context) error {
	expired, err := s.expired(ctx)
	if err != nil {
		return err
	}
	ctx = principal.WithPrincipal(ctx, principal.System())
	cutoff := s.cutoff()
	var errs []error
	cancelled := 0
	for _, id := range expired {
		out, err := commands.Dispatch[bookinghandlers.ExpireBookingCommand, *dto.Booking](ctx, s.Commands, bookinghandlers.ExpireBookingCommand{
			BookingID:     int64(id),
			CreatedBefore: cutoff,
			Reason:        ExpiryReason,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("expire booking %d: %w", id, err))
			continue
		}
		if out != nil && out.Status == string(booking.StatusCancelled) {
			cancelled++
		}
	}
	if cancelled > 0 {
		s.logger().Info("expired bookings cancelled", "count", cancelled)
	}
	return errors.Join(errs...)
}

func (s *ExpirySweeper) expired(ctx context.Context) ([]booking.ID, error) {
	unit, err := s.Units.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer func() { _ = unit.Rollback(ctx) }()

	candidates, err := unit.Bookings().ListConfirmedCreatedBefore(ctx, s.cutoff())
	if err != nil {
		return nil, err
	}
	var out []booking.ID
	for _, b := range candidates {
		payments, err := unit.Payments().ListByBooking(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		if !payment.AnyPaid(payments) {
			out = append(out, b.ID)
		}
	}
	return out, nil
}

func (s *ExpirySweeper) cutoff() time.Time {
	return s.now().Add(-s.window())
}

func (s *ExpirySweeper) window() time.Duration {
	if s.PaymentWindow <= 0 {
		return DefaultPaymentWindow
	}
	return s.PaymentWindow
}

func (s *ExpirySweeper) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ExpirySweeper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
