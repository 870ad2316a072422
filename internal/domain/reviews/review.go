package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"resort/internal/domain/booking"
)

var (
	ErrInvalidRating     = errors.New("reviews: rating must be between 1 and 5")
	ErrNotFound          = errors.New("reviews: not found")
	ErrAlreadyReviewed   = errors.New("reviews: booking already has a review")
	ErrGuestNameRequired = errors.New("reviews: guest name is required")
	ErrBookingRequired   = errors.New("reviews: booking id is required")
)

type ID int64

type Review struct {
	ID         ID
	BookingID  booking.ID
	GuestName  string
	Rating     int
	Comment    string
	IsApproved bool
	CreatedAt  time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Review, error)
	ByBooking(ctx context.Context, bookingID booking.ID) (*Review, error)
	// List returns reviews newest first, optionally only approved ones.
	List(ctx context.Context, approvedOnly bool) ([]*Review, error)
	Create(ctx context.Context, review *Review) error
	Save(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id ID) error
}

type SubmitParams struct {
	BookingID booking.ID
	GuestName string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Submit creates a review awaiting moderation.
func Submit(params SubmitParams) (*Review, error) {
	if params.BookingID == 0 {
		return nil, ErrBookingRequired
	}
	if err := validateRating(params.Rating); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(params.GuestName)
	if name == "" {
		return nil, ErrGuestNameRequired
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Review{
		BookingID: params.BookingID,
		GuestName: name,
		Rating:    params.Rating,
		Comment:   strings.TrimSpace(params.Comment),
		CreatedAt: now.UTC(),
	}, nil
}

type Patch struct {
	Rating     *int
	Comment    *string
	IsApproved *bool
}

func (r *Review) Apply(p Patch) error {
	if p.Rating != nil {
		if err := validateRating(*p.Rating); err != nil {
			return err
		}
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.Comment != nil {
		r.Comment = strings.TrimSpace(*p.Comment)
	}
	if p.IsApproved != nil {
		r.IsApproved = *p.IsApproved
	}
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
