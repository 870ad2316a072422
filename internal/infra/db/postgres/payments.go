package postgres

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"resort/internal/domain/booking"
	"resort/internal/domain/payment"
	"resort/internal/domain/shared/money"
)

type PaymentRepository struct {
	db       *gorm.DB
	currency string
}

func NewPaymentRepository(db *gorm.DB, currency string) *PaymentRepository {
	return &PaymentRepository{db: db, currency: currency}
}

var _ payment.Repository = (*PaymentRepository)(nil)

func (r *PaymentRepository) ByID(ctx context.Context, id payment.ID) (*payment.Payment, error) {
	var m paymentModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		return nil, translate(err, payment.ErrNotFound, nil)
	}
	return paymentFromModel(m, r.currency)
}

func (r *PaymentRepository) List(ctx context.Context) ([]*payment.Payment, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID booking.ID) ([]*payment.Payment, error) {
	return r.find(r.db.WithContext(ctx).Where("booking_id = ?", int64(bookingID)))
}

func (r *PaymentRepository) find(q *gorm.DB) ([]*payment.Payment, error) {
	var rows []paymentModel
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*payment.Payment, 0, len(rows))
	for _, m := range rows {
		p, err := paymentFromModel(m, r.currency)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	m := paymentToModel(p)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, nil, nil)
	}
	p.ID = payment.ID(m.ID)
	return nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	m := paymentToModel(p)
	res := r.db.WithContext(ctx).Model(&paymentModel{ID: m.ID}).Select("*").Omit("id", "booking_id", "created_at", "Booking").Updates(&m)
	return affected(res, payment.ErrNotFound, nil)
}

func (r *PaymentRepository) Delete(ctx context.Context, id payment.ID) error {
	res := r.db.WithContext(ctx).Delete(&paymentModel{}, int64(id))
	return affected(res, payment.ErrNotFound, nil)
}

func (r *PaymentRepository) SumPaid(ctx context.Context, currency string) (money.Money, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&paymentModel{}).
		Where("status = ?", string(payment.StatusPaid)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return money.Money{}, err
	}
	if !total.Valid {
		return money.Zero(currency), nil
	}
	return money.FromDecimal(total.Decimal, currency)
}
