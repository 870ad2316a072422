package dto

import (
	"time"

	domainreviews "resort/internal/domain/reviews"
)

type Review struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id"`
	GuestName  string    `json:"guest_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func MapReview(review *domainreviews.Review) Review {
	if review == nil {
		return Review{}
	}
	return Review{
		ID:         int64(review.ID),
		BookingID:  int64(review.BookingID),
		GuestName:  review.GuestName,
		Rating:     review.Rating,
		Comment:    review.Comment,
		IsApproved: review.IsApproved,
		CreatedAt:  review.CreatedAt,
	}
}

func MapReviews(in []*domainreviews.Review) Collection[Review] {
	return collect(in, MapReview)
}
