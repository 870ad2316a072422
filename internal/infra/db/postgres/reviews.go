package postgres

import (
	"context"

	"gorm.io/gorm"

	"resort/internal/domain/booking"
	"resort/internal/domain/reviews"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

var _ reviews.Repository = (*ReviewRepository)(nil)

func (r *ReviewRepository) ByID(ctx context.Context, id reviews.ID) (*reviews.Review, error) {
	var m reviewModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		return nil, translate(err, reviews.ErrNotFound, nil)
	}
	return reviewFromModel(m), nil
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID booking.ID) (*reviews.Review, error) {
	var m reviewModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", int64(bookingID)).First(&m).Error; err != nil {
		return nil, translate(err, reviews.ErrNotFound, nil)
	}
	return reviewFromModel(m), nil
}

func (r *ReviewRepository) List(ctx context.Context, approvedOnly bool) ([]*reviews.Review, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if approvedOnly {
		q = q.Where("is_approved = ?", true)
	}
	var rows []reviewModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*reviews.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, reviewFromModel(m))
	}
	return out, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *reviews.Review) error {
	m := reviewToModel(review)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, nil, reviews.ErrAlreadyReviewed)
	}
	review.ID = reviews.ID(m.ID)
	return nil
}

func (r *ReviewRepository) Save(ctx context.Context, review *reviews.Review) error {
	m := reviewToModel(review)
	res := r.db.WithContext(ctx).Model(&reviewModel{ID: m.ID}).Select("*").Omit("id", "booking_id", "created_at", "Booking").Updates(&m)
	return affected(res, reviews.ErrNotFound, nil)
}

func (r *ReviewRepository) Delete(ctx context.Context, id reviews.ID) error {
	res := r.db.WithContext(ctx).Delete(&reviewModel{}, int64(id))
	return affected(res, reviews.ErrNotFound, nil)
}
