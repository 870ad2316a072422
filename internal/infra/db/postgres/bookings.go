package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resort/internal/domain/booking"
)

type BookingRepository struct {
	db       *gorm.DB
	currency string
}

func NewBookingRepository(db *gorm.DB, currency string) *BookingRepository {
	return &BookingRepository{db: db, currency: currency}
}

var _ booking.Repository = (*BookingRepository)(nil)

func (r *BookingRepository) ByID(ctx context.Context, id booking.ID) (*booking.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		return nil, translate(err, booking.ErrNotFound, nil)
	}
	return bookingFromModel(m, r.currency)
}

func (r *BookingRepository) List(ctx context.Context, filter booking.Filter) ([]*booking.Booking, error) {
	q := r.db.WithContext(ctx).Order("check_in DESC").Order("id DESC")
	if filter.RoomID != 0 {
		q = q.Where("room_id = ?", int64(filter.RoomID))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}
	return r.find(q)
}

func (r *BookingRepository) ListConfirmedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(booking.StatusConfirmed), cutoff.UTC()).
		Order("id ASC")
	return r.find(q)
}

func (r *BookingRepository) find(q *gorm.DB) ([]*booking.Booking, error) {
	var rows []bookingModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*booking.Booking, 0, len(rows))
	for _, m := range rows {
		b, err := bookingFromModel(m, r.currency)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Create inserts the booking. The exclusion constraint rejects an overlap
// that slipped past the application check with availability.ErrUnavailable.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	m := bookingToModel(b)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, nil, nil)
	}
	b.ID = booking.ID(m.ID)
	return nil
}

func (r *BookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	m := bookingToModel(b)
	res := r.db.WithContext(ctx).Model(&bookingModel{ID: m.ID}).Select("*").Omit("id", "room_id", "created_at", "Room").Updates(&m)
	return affected(res, booking.ErrNotFound, nil)
}
