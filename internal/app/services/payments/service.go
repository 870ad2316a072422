package payments

import (
	"context"
	"log/slog"

	"resort/internal/domain/booking"
	"resort/internal/domain/payment"
)

// Service serves payment reads and deletes. Writes that emit events go
// through the command bus.
type Service struct {
	Payments payment.Repository
	Logger   *slog.Logger
}

func (s *Service) List(ctx context.Context, bookingID booking.ID) ([]*payment.Payment, error) {
	if bookingID != 0 {
		return s.Payments.ListByBooking(ctx, bookingID)
	}
	return s.Payments.List(ctx)
}

func (s *Service) Get(ctx context.Context, id payment.ID) (*payment.Payment, error) {
	return s.Payments.ByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id payment.ID) error {
	if err := s.Payments.Delete(ctx, id); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("payment deleted", "payment_id", id)
	}
	return nil
}
