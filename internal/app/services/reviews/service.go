package reviews

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resort/internal/domain/booking"
	domainreviews "resort/internal/domain/reviews"
)

type Service struct {
	Reviews  domainreviews.Repository
	Bookings booking.Repository
	Logger   *slog.Logger
	Now      func() time.Time
}

// Submit stores a review for an existing booking. Each booking gets at most
// one review and new reviews wait for moderation.
func (s *Service) Submit(ctx context.Context, params domainreviews.SubmitParams) (*domainreviews.Review, error) {
	if params.BookingID == 0 {
		return nil, domainreviews.ErrBookingRequired
	}
	if _, err := s.Bookings.ByID(ctx, params.BookingID); err != nil {
		return nil, err
	}
	existing, err := s.Reviews.ByBooking(ctx, params.BookingID)
	switch {
	case err == nil && existing != nil:
		return nil, domainreviews.ErrAlreadyReviewed
	case err != nil && !errors.Is(err, domainreviews.ErrNotFound):
		return nil, err
	}
	if s.Now != nil {
		params.CreatedAt = s.Now()
	}
	review, err := domainreviews.Submit(params)
	if err != nil {
		return nil, err
	}
	if err := s.Reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.logger().Info("review submitted", "review_id", review.ID, "booking_id", review.BookingID, "rating", review.Rating)
	return review, nil
}

// Published returns approved reviews, newest first.
func (s *Service) Published(ctx context.Context) ([]*domainreviews.Review, error) {
	return s.Reviews.List(ctx, true)
}

func (s *Service) All(ctx context.Context) ([]*domainreviews.Review, error) {
	return s.Reviews.List(ctx, false)
}

func (s *Service) Update(ctx context.Context, id domainreviews.ID, patch domainreviews.Patch) (*domainreviews.Review, error) {
	review, err := s.Reviews.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := review.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.Reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	if patch.IsApproved != nil {
		s.logger().Info("review moderated", "review_id", review.ID, "approved", review.IsApproved)
	}
	return review, nil
}

func (s *Service) Delete(ctx context.Context, id domainreviews.ID) error {
	return s.Reviews.Delete(ctx, id)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
